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
	"context"
	"io"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/splicerc/cmd/splicerc/opts"
	"github.com/walteh/splicerc/pkg/operation"
	"github.com/walteh/splicerc/pkg/status"
)

// ErrOutOfDate is returned by check when a target would change
var ErrOutOfDate = errors.Base("targets out of date")

type newOperationFunc func(operation.Options) (operation.Operation, error)

type runOptions struct {
	command string
	header  string
	dryRun  bool
	diff    io.Writer
	newOp   newOperationFunc
}

// runJobs builds one operation per configured job and runs them
func runJobs(ctx context.Context, o *opts.RootOpts, ro runOptions) ([]status.FileInfo, error) {
	logger := zerolog.Ctx(ctx).With().Str("command", ro.command).Logger()
	ctx = logger.WithContext(ctx)

	o.Logger.Header(ro.header)

	ops := make([]operation.Operation, 0, len(o.Config.Jobs))
	for _, job := range o.Config.Jobs {
		op, err := ro.newOp(operation.Options{
			Job:    job,
			Files:  o.Files,
			Logger: o.Logger,
			DryRun: ro.dryRun,
			Diff:   ro.diff,
			Strict: o.StrictFor(),
			Backup: o.BackupFor(),
		})
		if err != nil {
			return nil, errors.Errorf("creating operation for job %s: %w", job.Name, err)
		}
		logger.Debug().Stringer("job", job).Msg("job planned")
		ops = append(ops, op)
	}

	runErr := operation.NewRunner(o.AsyncFor()).Run(ctx, ops...)

	files, err := o.Files.ListFiles(ctx)
	if err != nil {
		return nil, errors.Errorf("listing files: %w", err)
	}
	if len(files) > 0 {
		o.Logger.LogNewline()
		if err := o.Logger.Summary(files); err != nil {
			logger.Warn().Err(err).Msg("rendering summary")
		}
	}

	if runErr != nil {
		return files, runErr
	}
	return files, nil
}

func countStatus(files []status.FileInfo, st status.FileStatus) int {
	n := 0
	for _, f := range files {
		if f.Status == st {
			n++
		}
	}
	return n
}
