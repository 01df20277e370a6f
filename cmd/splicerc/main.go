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

package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	cmd, rootOpts := newRootCmd(os.Stdout)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if rootOpts.Logger != nil {
			rootOpts.Logger.Error(err.Error())
		} else {
			logger.Error().Err(err).Msg("splicerc failed")
		}
		return 1
	}
	return 0
}
