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
	"golang.org/x/sync/errgroup"
)

// 🏃 Runner executes operations
type Runner struct {
	async bool
}

// 🏗️ NewRunner creates a new runner
func NewRunner(async bool) *Runner {
	return &Runner{
		async: async,
	}
}

// 🏃 Run executes every operation and stops at the first failure
func (r *Runner) Run(ctx context.Context, ops ...Operation) error {
	if r.async {
		return r.runAsync(ctx, ops)
	}
	return r.runSync(ctx, ops)
}

// 🔄 runSync runs operations one after the other
func (r *Runner) runSync(ctx context.Context, ops []Operation) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("operation cancelled: %w", err)
		}
		if err := r.execute(ctx, op); err != nil {
			return err
		}
	}
	return nil
}

// ⚡ runAsync runs operations concurrently; the first error cancels the rest
func (r *Runner) runAsync(ctx context.Context, ops []Operation) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, op := range ops {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Errorf("operation cancelled: %w", err)
			}
			return r.execute(gctx, op)
		})
	}
	return g.Wait()
}

func (r *Runner) execute(ctx context.Context, op Operation) error {
	zerolog.Ctx(ctx).Debug().Str("operation", op.Name()).Msg("running operation")
	if err := op.Execute(ctx); err != nil {
		return errors.Errorf("executing %s: %w", op.Name(), err)
	}
	return nil
}
