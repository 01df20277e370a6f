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
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/splicerc/cmd/splicerc/commands"
	"github.com/walteh/splicerc/cmd/splicerc/opts"
	"github.com/walteh/splicerc/pkg/config"
	"github.com/walteh/splicerc/pkg/log"
	"github.com/walteh/splicerc/pkg/status"
)

type rootFlags struct {
	configFile string
	debug      bool
}

// newRootCmd builds the command tree. Console output of every command goes
// to console; the returned opts are filled in once flags are parsed.
func newRootCmd(console io.Writer) (*cobra.Command, *opts.RootOpts) {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "splicerc",
		Short: "Splice named code blocks from a template into target files",
		Long: `splicerc copies named function blocks, each found by its doc comment and
signature, from a template file into the matching blocks of target files.

Without a subcommand it runs apply.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupRootOpts(cmd, flags, rootOpts, console)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.RunApply(cmd, rootOpts)
		},
	}

	addRootFlags(cmd, flags, rootOpts)

	cmd.AddCommand(
		commands.NewApplyCmd(rootOpts),
		commands.NewCheckCmd(rootOpts),
		commands.NewDiffCmd(rootOpts),
		commands.NewRestoreCmd(rootOpts),
		newVersionCmd(flags),
	)

	return cmd, rootOpts
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags, rootOpts *opts.RootOpts) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", config.DefaultPath, "config file path")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "enable debug logging")
	pf.BoolVar(&rootOpts.Strict, "strict", false, "fail when a block is missing from a target")
	pf.BoolVar(&rootOpts.Backup, "backup", false, "keep a .bak copy of each target before writing")
	pf.BoolVar(&rootOpts.Async, "async", false, "run jobs concurrently")
}

// setupLogging applies the --debug flag to the context logger
func setupLogging(cmd *cobra.Command, flags *rootFlags) zerolog.Logger {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	level := zerolog.InfoLevel
	if flags.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.Ctx(ctx).Level(level)
	cmd.SetContext(logger.WithContext(ctx))

	logger.Debug().Str("command", cmd.Name()).Msg("debug logging enabled")
	return logger
}

// setupRootOpts configures logging and loads the config for the command
func setupRootOpts(cmd *cobra.Command, flags *rootFlags, rootOpts *opts.RootOpts, console io.Writer) error {
	logger := setupLogging(cmd, flags)
	ctx := cmd.Context()

	cfg, err := loadConfig(ctx, flags.configFile, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}

	rootOpts.Config = cfg
	rootOpts.Files = status.New(cfg.Dir())
	rootOpts.Logger = log.New(console, logger)

	logger.Debug().
		Str("config", cfg.Location()).
		Str("dir", cfg.Dir()).
		Int("jobs", len(cfg.Jobs)).
		Msg("configured")

	return nil
}

// loadConfig loads the config file. When the file does not exist and the
// path was not given explicitly, the built-in job is used.
func loadConfig(ctx context.Context, path string, explicit bool) (*config.Config, error) {
	cfg, err := config.Load(ctx, path)
	if err == nil {
		return cfg, nil
	}
	if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Errorf("loading config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using built-in job")
	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating built-in config: %w", err)
	}
	return cfg, nil
}
