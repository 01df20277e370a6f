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
	"github.com/walteh/splicerc/pkg/status"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report targets whose blocks differ from the template",
		Long: `Check runs every job without writing anything.
It fails when a job would fail or when any target is out of date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := runJobs(cmd.Context(), opts, runOptions{
				command: "check",
				header:  "checking template blocks",
				dryRun:  true,
				newOp:   operation.NewSpliceOperation,
			})
			if err != nil {
				return errors.Errorf("checking: %w", err)
			}

			stale := 0
			for _, f := range files {
				if f.Status == status.StatusModified {
					opts.Logger.Warningf("%s is out of date", f.Path)
					stale++
				}
			}
			if stale > 0 {
				return errors.Errorf("%d of %d: %w", stale, len(files), ErrOutOfDate)
			}

			opts.Logger.Success("all targets are up to date")
			return nil
		},
	}

	return cmd
}
