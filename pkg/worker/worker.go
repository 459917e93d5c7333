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

package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/blurrc/pkg/job"
	"github.com/walteh/blurrc/pkg/progress"
	"github.com/walteh/blurrc/pkg/transform"
)

func (p *Pool) work(ctx context.Context, id int, q *job.Queue, signals chan<- progress.Signal) error {
	logger := zerolog.Ctx(ctx).With().Int("worker", id).Logger()
	ctx = logger.WithContext(ctx)

	// the queue is filled before workers start, so Take never waits on a
	// producer; it must keep draining after cancellation
	takeCtx := context.WithoutCancel(ctx)

	processed := 0
	for {
		item, err := q.Take(takeCtx)
		if err != nil {
			return errors.Errorf("worker %d: %w", id, err)
		}

		if item.IsEnd() {
			logger.Debug().Int("jobs", processed).Msg("worker done")
			return nil
		}

		j, ok := item.Job()
		if !ok {
			logger.Warn().Str("item", item.String()).Msg("ignoring invalid queue item")
			continue
		}

		p.handle(ctx, logger, j, signals)
		processed++
	}
}

// handle processes one job and always sends exactly one signal for it.
func (p *Pool) handle(ctx context.Context, logger zerolog.Logger, j job.Job, signals chan<- progress.Signal) {
	sig := progress.Signal{Job: j}
	defer func() {
		signals <- sig
	}()

	if ctx.Err() != nil {
		sig.Skipped = true
		logger.Debug().Str("job", j.ID.String()).Str("source", j.Source).Msg("skipping job after cancellation")
		return
	}

	if err := p.process(ctx, j); err != nil {
		// a transform that gives up on cancellation did not fail the image
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			sig.Skipped = true
			logger.Debug().Err(err).Str("job", j.ID.String()).Str("source", j.Source).Msg("job interrupted by cancellation")
			return
		}
		sig.Err = err
		logger.Warn().
			Err(err).
			Str("job", j.ID.String()).
			Str("source", j.Source).
			Msg("job failed")
	}
}

func (p *Pool) process(ctx context.Context, j job.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &transform.Error{Path: j.Source, Op: "panic", Err: errors.New(fmt.Sprint(r))}
		}
	}()

	data, err := p.transformer.Apply(ctx, j.Source)
	if err != nil {
		return err
	}

	fileStatus, err := p.writer.WriteFile(ctx, j.Destination, data)
	if err != nil {
		return errors.Errorf("writing %s: %w", j.Destination, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("job", j.ID.String()).
		Str("source", j.Source).
		Str("destination", j.Destination).
		Str("status", fileStatus.String()).
		Msg("job done")

	return nil
}
