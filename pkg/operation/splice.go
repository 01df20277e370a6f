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
	"fmt"
	"io"
	"path/filepath"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/splicerc/pkg/block"
	"github.com/walteh/splicerc/pkg/log"
	"github.com/walteh/splicerc/pkg/status"
	"github.com/walteh/splicerc/pkg/text"
)

// ✂️ NewSpliceOperation creates an operation that splices the job's template
// blocks into each of its targets
func NewSpliceOperation(opts Options) (Operation, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &spliceOperation{
		BaseOperation: NewBaseOperation(opts),
	}, nil
}

// ✂️ spliceOperation implements the splice operation
type spliceOperation struct {
	BaseOperation
}

type splicedTarget struct {
	path   string
	result *text.SpliceResult
}

func (op *spliceOperation) Name() string {
	return "splice " + op.Job.Name
}

// 🏃 Execute extracts every block from the template, splices all targets in
// memory and only then writes the ones that changed. A failure before the
// write phase leaves every file untouched.
func (op *spliceOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("job", op.Job.Name).Logger()
	ctx = logger.WithContext(ctx)

	locator, err := block.NewLocator(op.Job.Locator)
	if err != nil {
		return errors.Errorf("job %s: %w", op.Job.Name, err)
	}
	splicer := text.NewBlockSplicer(locator, op.Strict || op.Job.Strict)

	rules := op.Job.Rules()
	if err := splicer.ValidateRules(rules); err != nil {
		return errors.Errorf("job %s: %w", op.Job.Name, err)
	}

	content, err := op.Files.ReadFile(ctx, op.Job.Template)
	if err != nil {
		return errors.Errorf("reading template %s: %w", op.Job.Template, err)
	}

	fragments, err := splicer.Extract(ctx, block.Source{Path: op.Job.Template, Content: content}, rules)
	if err != nil {
		return errors.Errorf("job %s: %w", op.Job.Name, err)
	}
	logger.Debug().Int("blocks", len(fragments)).Msg("extracted template blocks")

	targets, err := op.targets()
	if err != nil {
		return err
	}

	spliced := make([]splicedTarget, 0, len(targets))
	for _, target := range targets {
		result, err := op.spliceTarget(ctx, splicer, target, fragments)
		if err != nil {
			op.Files.TrackFile(ctx, target, status.FileInfo{Job: op.Job.Name, Status: status.StatusFailed, Error: err})
			return errors.Errorf("splicing %s: %w", target, err)
		}
		spliced = append(spliced, splicedTarget{path: target, result: result})
	}

	for _, st := range spliced {
		if err := op.commit(ctx, st); err != nil {
			op.Files.TrackFile(ctx, st.path, status.FileInfo{Job: op.Job.Name, Status: status.StatusFailed, Error: err})
			return errors.Errorf("writing %s: %w", st.path, err)
		}
	}

	return nil
}

// spliceTarget reads one target and applies the fragments to it in memory
func (op *spliceOperation) spliceTarget(ctx context.Context, splicer *text.BlockSplicer, target string, fragments []text.Fragment) (*text.SpliceResult, error) {
	op.Logger.StartTarget(ctx, log.TargetOperation{
		Job:      op.Job.Name,
		Template: op.Job.Template,
		Target:   target,
		DryRun:   op.DryRun,
	})

	content, err := op.Files.ReadFile(ctx, target)
	if err != nil {
		return nil, err
	}

	result, err := splicer.Apply(ctx, block.Source{Path: target, Content: content}, fragments)
	if err != nil {
		return nil, err
	}

	for _, b := range result.Blocks {
		op.Logger.LogBlockOperation(ctx, log.BlockOperation{
			Target: target,
			Name:   b.Name,
			Status: b.Status.String(),
			Line:   b.Line,
		})
	}

	return result, nil
}

// commit writes a spliced target when it changed and records its status
func (op *spliceOperation) commit(ctx context.Context, st splicedTarget) error {
	info := status.FileInfo{
		Job:          op.Job.Name,
		Status:       status.StatusUnchanged,
		Replacements: st.result.ReplacementCount,
		Checksum:     status.Checksum(st.result.ModifiedContent),
	}
	for _, b := range st.result.Blocks {
		if b.Status == text.BlockMissing {
			info.Missing++
		}
	}

	if st.result.WasModified {
		info.Status = status.StatusModified

		if op.Diff != nil {
			if err := writeDiff(op.Diff, st.path, st.result); err != nil {
				return errors.Errorf("writing diff: %w", err)
			}
		}

		if !op.DryRun {
			if op.Backup {
				if err := op.Files.BackupFile(ctx, st.path); err != nil {
					return err
				}
			}
			if err := op.Files.WriteFileAtomic(ctx, st.path, st.result.ModifiedContent); err != nil {
				return err
			}
			info.Written = true
		}
	}

	zerolog.Ctx(ctx).Debug().
		Str("target", st.path).
		Str("status", info.Status.String()).
		Bool("written", info.Written).
		Msg("target done")

	op.Files.TrackFile(ctx, st.path, info)
	return nil
}

// writeDiff renders the change to a target as a unified diff
func writeDiff(w io.Writer, path string, result *text.SpliceResult) error {
	before := string(result.OriginalContent)
	after := string(result.ModifiedContent)

	edits := myers.ComputeEdits(span.URIFromPath(path), before, after)
	name := filepath.ToSlash(path)
	unified := gotextdiff.ToUnified("a/"+name, "b/"+name, before, edits)

	_, err := fmt.Fprint(w, unified)
	return err
}
