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
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/blurrc/pkg/config"
	"github.com/walteh/blurrc/pkg/job"
	"github.com/walteh/blurrc/pkg/progress"
	"github.com/walteh/blurrc/pkg/status"
	"github.com/walteh/blurrc/pkg/transform"
	"github.com/walteh/blurrc/pkg/worker"
)

// ErrEmptyInput is returned when the input directory holds no recognized images.
// It is a warning: the Result is still valid and nothing was started.
var ErrEmptyInput = errors.Base("no images found in input directory")

// 🔧 Options contains configuration for the orchestrator
type Options struct {
	// Transformer is applied to every job. Required.
	Transformer transform.Transformer
	// Observer receives progress states. Nil means progress.Nop.
	Observer progress.Observer
	// Workers is the pool size. Zero means one per logical core.
	Workers int
	// Baseline is the starting percentage. Nil means progress.DefaultBaseline.
	Baseline *float64
	// Patterns select input files. Empty means config.DefaultPatterns.
	Patterns []string
	// Prefix is prepended to output file names. Empty means config.DefaultOutputPrefix.
	Prefix string
}

// OptionsFromConfig fills Options from a validated config.
func OptionsFromConfig(cfg *config.Config, t transform.Transformer, observer progress.Observer) Options {
	baseline := cfg.BaselinePercent()
	return Options{
		Transformer: t,
		Observer:    observer,
		Workers:     cfg.Workers,
		Baseline:    &baseline,
		Patterns:    cfg.Patterns,
		Prefix:      cfg.OutputPrefix,
	}
}

// 📋 Result summarizes one run
type Result struct {
	// Processed is the number of jobs accounted for, equal to the number discovered.
	Processed int
	Succeeded int
	Skipped   int
	Failures  []progress.Failure
	Status    progress.Status
	Workers   int
	Duration  time.Duration
}

// 🎮 Orchestrator wires discovery, the work queue, the worker pool and the
// progress aggregator into one run
type Orchestrator struct {
	transformer transform.Transformer
	observer    progress.Observer
	workers     int
	baseline    *float64
	patterns    []string
	prefix      string
}

// 🏭 New creates a new orchestrator with the given options
func New(opts Options) (*Orchestrator, error) {
	if opts.Transformer == nil {
		return nil, errors.Errorf("transformer is required")
	}
	if opts.Workers < 0 {
		return nil, errors.Errorf("workers must not be negative, got %d", opts.Workers)
	}
	if opts.Baseline != nil && (*opts.Baseline < 0 || *opts.Baseline >= 100) {
		return nil, errors.Errorf("baseline must be in [0, 100), got %v", *opts.Baseline)
	}

	observer := opts.Observer
	if observer == nil {
		observer = progress.Nop{}
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = config.DefaultPatterns()
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = config.DefaultOutputPrefix
	}

	return &Orchestrator{
		transformer: opts.Transformer,
		observer:    observer,
		workers:     opts.Workers,
		baseline:    opts.Baseline,
		patterns:    patterns,
		prefix:      prefix,
	}, nil
}

// 🏃 Run processes every recognized image in inputDir into outputDir.
//
// A *status.DirectoryError is fatal and returned before any worker starts.
// An empty input returns ErrEmptyInput with a NoWork result. A cancelled ctx
// still accounts for every job; the result is Cancelled and the context error
// is returned alongside it.
func (o *Orchestrator) Run(ctx context.Context, inputDir, outputDir string) (*Result, error) {
	start := time.Now()
	logger := zerolog.Ctx(ctx)

	store := status.NewStore(outputDir)
	if err := store.EnsureDir(ctx); err != nil {
		return nil, err
	}

	jobs, err := job.Discover(ctx, inputDir, store.BaseDir(), job.DiscoverOptions{
		Patterns: o.patterns,
		Prefix:   o.prefix,
	})
	if err != nil {
		return nil, errors.Errorf("discovering jobs: %w", err)
	}

	if len(jobs) == 0 {
		logger.Warn().Str("input_dir", inputDir).Msg("no images found")
		return &Result{
			Status:   progress.StatusNoWork,
			Duration: time.Since(start),
		}, errors.WithStack(ErrEmptyInput)
	}

	pool, err := worker.New(worker.Options{
		Size:        o.workers,
		Transformer: o.transformer,
		Writer:      store,
	})
	if err != nil {
		return nil, errors.Errorf("creating worker pool: %w", err)
	}

	aggregator, err := progress.NewAggregator(len(jobs), progress.Options{
		Baseline: o.baseline,
		Observer: o.observer,
	})
	if err != nil {
		return nil, errors.Errorf("creating aggregator: %w", err)
	}

	// every item is buffered up front so Fill never blocks and workers never
	// wait on a producer; a cancelled run still enqueues every job
	queue := job.NewQueue(len(jobs) + pool.Size())
	if err := queue.Fill(context.WithoutCancel(ctx), jobs, pool.Size()); err != nil {
		return nil, errors.Errorf("filling queue: %w", err)
	}

	signals := make(chan progress.Signal, len(jobs))

	logger.Info().
		Int("jobs", len(jobs)).
		Int("workers", pool.Size()).
		Str("input_dir", inputDir).
		Str("output_dir", store.BaseDir()).
		Msg("starting run")

	var (
		g     errgroup.Group
		final progress.State
	)

	g.Go(func() error {
		defer close(signals)
		return pool.Run(ctx, queue, signals)
	})

	g.Go(func() error {
		state, err := aggregator.Run(ctx, signals)
		final = state
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("running jobs: %w", err)
	}

	result := &Result{
		Processed: final.Completed,
		Succeeded: final.Completed - final.Failed - final.Skipped,
		Skipped:   final.Skipped,
		Failures:  aggregator.Failures(),
		Status:    final.Status,
		Workers:   pool.Size(),
		Duration:  time.Since(start),
	}

	logger.Info().
		Str("status", result.Status.String()).
		Int("succeeded", result.Succeeded).
		Int("failed", len(result.Failures)).
		Int("skipped", result.Skipped).
		Dur("duration", result.Duration).
		Msg("run finished")

	if result.Status == progress.StatusCancelled {
		return result, errors.Errorf("run cancelled: %w", context.Cause(ctx))
	}

	return result, nil
}
