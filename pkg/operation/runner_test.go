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

package operation_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/splicerc/pkg/operation"
)

// 🔧 MockOperation is a mock implementation of the operation.Operation interface
type MockOperation struct {
	mock.Mock
}

func (m *MockOperation) Name() string {
	return m.Called().String(0)
}

func (m *MockOperation) Execute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newMockOperation(t *testing.T, name string) *MockOperation {
	op := &MockOperation{}
	op.On("Name").Return(name).Maybe()
	t.Cleanup(func() { op.AssertExpectations(t) })
	return op
}

func runnerContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

var errBoom = errors.Base("boom")

func TestRunner(t *testing.T) {
	tests := []struct {
		name    string
		async   bool
		setup   func(t *testing.T) []operation.Operation
		wantErr error
	}{
		{
			name: "sync_runs_all",
			setup: func(t *testing.T) []operation.Operation {
				first := newMockOperation(t, "first")
				first.On("Execute", mock.Anything).Return(nil).Once()
				second := newMockOperation(t, "second")
				second.On("Execute", mock.Anything).Return(nil).Once()
				return []operation.Operation{first, second}
			},
		},
		{
			name: "sync_stops_at_first_error",
			setup: func(t *testing.T) []operation.Operation {
				first := newMockOperation(t, "first")
				first.On("Execute", mock.Anything).Return(errBoom).Once()
				// second has no Execute expectation: calling it fails the test
				second := newMockOperation(t, "second")
				return []operation.Operation{first, second}
			},
			wantErr: errBoom,
		},
		{
			name:  "async_runs_all",
			async: true,
			setup: func(t *testing.T) []operation.Operation {
				ops := make([]operation.Operation, 0, 4)
				for _, name := range []string{"a", "b", "c", "d"} {
					op := newMockOperation(t, name)
					op.On("Execute", mock.Anything).Return(nil).Once()
					ops = append(ops, op)
				}
				return ops
			},
		},
		{
			name:  "async_returns_error",
			async: true,
			setup: func(t *testing.T) []operation.Operation {
				failing := newMockOperation(t, "failing")
				failing.On("Execute", mock.Anything).Return(errBoom).Once()
				other := newMockOperation(t, "other")
				other.On("Execute", mock.Anything).Return(nil).Maybe()
				return []operation.Operation{failing, other}
			},
			wantErr: errBoom,
		},
		{
			name: "no_operations",
			setup: func(t *testing.T) []operation.Operation {
				return nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := tt.setup(t)

			err := operation.NewRunner(tt.async).Run(runnerContext(t), ops...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	for _, async := range []bool{false, true} {
		op := newMockOperation(t, "never")

		ctx, cancel := context.WithCancel(runnerContext(t))
		cancel()

		err := operation.NewRunner(async).Run(ctx, op)
		require.Error(t, err, "async=%v", async)
		assert.ErrorIs(t, err, context.Canceled, "async=%v", async)
	}
}

func TestRunner_WrapsOperationName(t *testing.T) {
	op := newMockOperation(t, "splice audiencias")
	op.On("Execute", mock.Anything).Return(errBoom).Once()

	err := operation.NewRunner(false).Run(runnerContext(t), op)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "executing splice audiencias")
}
