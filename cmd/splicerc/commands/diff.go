// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/splicerc/cmd/splicerc/opts"
	"github.com/walteh/splicerc/pkg/operation"
)

// NewDiffCmd creates a new diff command
func NewDiffCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Print a unified diff of what apply would change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runJobs(cmd.Context(), opts, runOptions{
				command: "diff",
				header:  "diffing template blocks",
				dryRun:  true,
				diff:    cmd.OutOrStdout(),
				newOp:   operation.NewSpliceOperation,
			})
			if err != nil {
				return errors.Errorf("diffing: %w", err)
			}
			return nil
		},
	}

	return cmd
}
