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

// NewRestoreCmd creates a new restore command
func NewRestoreCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Put back the .bak copies left by apply --backup",
		Long: `Restore copies each target's .bak file over the target and removes the
backup. Targets without a backup are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := runJobs(cmd.Context(), opts, runOptions{
				command: "restore",
				header:  "restoring backups",
				newOp:   operation.NewRestoreOperation,
			})
			if err != nil {
				return errors.Errorf("restoring: %w", err)
			}

			opts.Logger.Successf("restored %d targets", countStatus(files, status.StatusRestored))
			return nil
		},
	}

	return cmd
}
