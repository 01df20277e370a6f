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
	"io"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/splicerc/pkg/config"
	"github.com/walteh/splicerc/pkg/log"
	"github.com/walteh/splicerc/pkg/status"
)

// 🎯 Operation is one unit of work handed to the Runner
type Operation interface {
	// Name identifies the operation in errors and logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for an operation
type Options struct {
	// Job is the configured job to run
	Job config.Job
	// Files reads, writes and tracks files relative to the config directory
	Files status.Store
	// Logger prints the console report
	Logger *log.Logger
	// DryRun computes results without writing anything
	DryRun bool
	// Diff receives a unified diff of every changed target when set
	Diff io.Writer
	// Strict turns a block missing from a target into an error
	Strict bool
	// Backup keeps a .bak copy of a target before it is overwritten
	Backup bool
}

func (o Options) validate() error {
	if o.Files == nil {
		return errors.Errorf("file manager is required")
	}
	if o.Logger == nil {
		return errors.Errorf("logger is required")
	}
	return nil
}

// 🏗️ BaseOperation holds the options shared by every operation
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation creates a new base operation
func NewBaseOperation(opts Options) BaseOperation {
	return BaseOperation{Options: opts}
}

// targets expands the job's target patterns against the manager's base dir
func (op *BaseOperation) targets() ([]string, error) {
	targets, err := config.ExpandTargets(op.Job, op.Files.BaseDir())
	if err != nil {
		return nil, errors.Errorf("job %s: %w", op.Job.Name, err)
	}
	return targets, nil
}
