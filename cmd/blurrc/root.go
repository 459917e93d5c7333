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
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/blurrc/cmd/blurrc/commands"
	"github.com/walteh/blurrc/cmd/blurrc/opts"
	"github.com/walteh/blurrc/pkg/config"
)

// newRootCmd builds the command tree. Config is loaded once flags are parsed.
func newRootCmd() *cobra.Command {
	var (
		configFile string
		debug      bool
		rootOpts   = &opts.RootOpts{LogLevel: zerolog.InfoLevel}
	)

	rootCmd := &cobra.Command{
		Use:   "blurrc",
		Short: "Blur every image in a directory using all CPU cores",
		Long: `blurrc applies a Gaussian blur to every PNG and JPEG in an input directory
and writes the results to an output directory. Images are spread across one
worker per logical core while a progress bar and per-core CPU usage are shown.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if debug {
				rootOpts.LogLevel = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(rootOpts.LogLevel)

			cfg, err := config.LoadConfig(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}
			rootOpts.Config = cfg

			zerolog.Ctx(ctx).Debug().
				Str("location", cfg.Location()).
				Str("config", cfg.String()).
				Msg("configuration loaded")

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file path (.json, .yaml, .yml or .hcl)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	rootCmd.AddCommand(
		commands.NewRunCmd(rootOpts),
		commands.NewCPUCmd(rootOpts),
	)

	return rootCmd
}
