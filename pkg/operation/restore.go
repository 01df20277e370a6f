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

package operation

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/splicerc/pkg/status"
)

// ⏪ NewRestoreOperation creates an operation that puts back the .bak copy of
// each target left by a previous splice with backups enabled
func NewRestoreOperation(opts Options) (Operation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &restoreOperation{
		BaseOperation: NewBaseOperation(opts),
	}, nil
}

// ⏪ restoreOperation implements the restore operation
type restoreOperation struct {
	BaseOperation
}

func (op *restoreOperation) Name() string {
	return "restore " + op.Job.Name
}

// 🏃 Execute runs the restore operation
func (op *restoreOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	targets, err := op.targets()
	if err != nil {
		return err
	}

	for _, target := range targets {
		if err := op.restoreFile(ctx, target); err != nil {
			op.Files.TrackFile(ctx, target, status.FileInfo{Job: op.Job.Name, Status: status.StatusFailed, Error: err})
			return errors.Errorf("restoring %s: %w", target, err)
		}
	}

	logger.Debug().Str("job", op.Job.Name).Int("targets", len(targets)).Msg("restore done")
	return nil
}

// 🗑️ restoreFile copies the backup over the target and removes the backup
func (op *restoreOperation) restoreFile(ctx context.Context, target string) error {
	ok, err := op.Files.HasBackup(ctx, target)
	if err != nil {
		return err
	}
	if !ok {
		op.Logger.Infof("no backup for %s", target)
		op.Files.TrackFile(ctx, target, status.FileInfo{Job: op.Job.Name, Status: status.StatusUnchanged})
		return nil
	}

	if !op.DryRun {
		if err := op.Files.RestoreFile(ctx, target); err != nil {
			return err
		}
	}

	content, err := op.Files.ReadFile(ctx, target)
	if err != nil {
		return err
	}

	op.Logger.Successf("restored %s", target)
	op.Files.TrackFile(ctx, target, status.FileInfo{
		Job:      op.Job.Name,
		Status:   status.StatusRestored,
		Written:  !op.DryRun,
		Checksum: status.Checksum(content),
	})
	return nil
}
