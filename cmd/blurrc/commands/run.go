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
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/blurrc/cmd/blurrc/opts"
	"github.com/walteh/blurrc/pkg/cpu"
	"github.com/walteh/blurrc/pkg/display"
	"github.com/walteh/blurrc/pkg/log"
	"github.com/walteh/blurrc/pkg/operation"
	"github.com/walteh/blurrc/pkg/progress"
	"github.com/walteh/blurrc/pkg/transform"
)

// NewRunCmd creates the run command
func NewRunCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var (
		input    string
		output   string
		workers  int
		baseline float64
		radius   float64
		plain    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Blur every image in the input directory",
		Long: `Run blurs every recognized image in the input directory into the output directory.
It will:
1. Create the output directory if needed
2. Queue one job per image plus one end marker per worker
3. Blur images on every worker until each one takes its end marker
4. Show progress and per-core CPU usage until every image is accounted for

Flags override values from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := rootOpts.Config

			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.InputDir = input
			}
			if flags.Changed("output") {
				cfg.OutputDir = output
			}
			if flags.Changed("workers") {
				cfg.Workers = workers
			}
			if flags.Changed("baseline") {
				cfg.Baseline = &baseline
			}
			if flags.Changed("radius") {
				cfg.BlurRadius = radius
			}
			if err := cfg.Validate(ctx); err != nil {
				return errors.Errorf("validating flags: %w", err)
			}

			logger := log.New(cmd.OutOrStdout(), rootOpts.LogLevel)
			ctx = log.NewContext(ctx, logger)

			var observer progress.Observer = logger
			if !plain {
				observer = progress.Multi(display.New(cmd.OutOrStdout()), jobRecorder(ctx))
			}

			orchestrator, err := operation.New(operation.OptionsFromConfig(
				cfg,
				transform.NewBlur(cfg.BlurRadius, cfg.JPEGQuality),
				observer,
			))
			if err != nil {
				return errors.Errorf("creating orchestrator: %w", err)
			}

			sampler, err := cpu.NewSampler(cfg.CPUIntervalDuration(), nil)
			if err != nil {
				return errors.Errorf("creating cpu sampler: %w", err)
			}

			logger.Header(cfg.String())

			samplerCtx, stopSampling := context.WithCancel(ctx)
			var g errgroup.Group
			g.Go(func() error {
				return sampler.Run(samplerCtx, observer)
			})

			result, runErr := orchestrator.Run(ctx, cfg.InputDir, cfg.OutputDir)

			stopSampling()
			if err := g.Wait(); err != nil {
				return errors.Errorf("sampling cpu: %w", err)
			}

			switch {
			case errors.Is(runErr, operation.ErrEmptyInput):
				logger.Warningf("no images found in %s", cfg.InputDir)
				return nil
			case result == nil:
				return errors.Errorf("running batch: %w", runErr)
			}

			summarize(ctx, result)

			if runErr != nil {
				return runErr
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "input directory (default \"input_images\")")
	cmd.Flags().StringVar(&output, "output", "", "output directory (default \"output_images\")")
	cmd.Flags().IntVar(&workers, "workers", 0, "number of workers, 0 for one per logical core")
	cmd.Flags().Float64Var(&baseline, "baseline", 0, "starting progress percentage (default 5)")
	cmd.Flags().Float64Var(&radius, "radius", 0, "gaussian blur radius (default 5)")
	cmd.Flags().BoolVar(&plain, "plain", false, "print one line per image instead of a progress bar")

	return cmd
}

// jobRecorder keeps a structured record of every job while the bar owns the console.
func jobRecorder(ctx context.Context) progress.Observer {
	logger := zerolog.Ctx(ctx)
	return progress.Funcs{
		Progress: func(s progress.State) {
			if s.Last == nil {
				return
			}
			logger.Debug().
				Err(s.Last.Err).
				Str("job", s.Last.Job.ID.String()).
				Str("source", s.Last.Job.Source).
				Bool("skipped", s.Last.Skipped).
				Float64("percent", s.Percent).
				Msg("job finished")
		},
	}
}

func summarize(ctx context.Context, result *operation.Result) {
	logger := log.FromContext(ctx)
	logger.LogNewline()

	for _, f := range result.Failures {
		logger.Errorf("%s", f.Error())
	}

	switch {
	case result.Status == progress.StatusCancelled:
		logger.Warningf("cancelled after %d of %d images (%d skipped)",
			result.Processed-result.Skipped, result.Processed, result.Skipped)
	case len(result.Failures) > 0:
		logger.Warningf("blurred %d of %d images with %d workers in %s, %d failed",
			result.Succeeded, result.Processed, result.Workers, result.Duration.Round(time.Millisecond), len(result.Failures))
	default:
		logger.Successf("blurred %d images with %d workers in %s",
			result.Succeeded, result.Workers, result.Duration.Round(time.Millisecond))
	}
}
