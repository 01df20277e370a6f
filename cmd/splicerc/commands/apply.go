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

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Splice template blocks into the target files",
		Long: `Apply runs every configured job.
It will:
1. Extract each block from the job's template
2. Find the matching block in every target
3. Replace the target blocks and write the files that changed

If a block is missing from a template nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunApply(cmd, opts)
		},
	}

	return cmd
}

// RunApply runs the apply flow; the root command uses it when invoked
// without a subcommand
func RunApply(cmd *cobra.Command, opts *opts.RootOpts) error {
	files, err := runJobs(cmd.Context(), opts, runOptions{
		command: "apply",
		header:  "splicing template blocks",
		newOp:   operation.NewSpliceOperation,
	})
	if err != nil {
		return errors.Errorf("applying: %w", err)
	}

	opts.Logger.Successf("blocks replaced successfully (%d modified, %d unchanged)",
		countStatus(files, status.StatusModified),
		countStatus(files, status.StatusUnchanged))
	return nil
}
