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

// Package cpu reports logical core counts and per-core utilization.
package cpu

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	gcpu "github.com/shirou/gopsutil/v4/cpu"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/blurrc/pkg/progress"
)

// LogicalCores returns the number of logical processors, falling back to the
// Go runtime's view when the OS query fails.
func LogicalCores(ctx context.Context) int {
	n, err := gcpu.CountsWithContext(ctx, true)
	if err != nil || n < 1 {
		zerolog.Ctx(ctx).Debug().Err(err).Msg("counting cores via OS failed, using runtime.NumCPU")
		return runtime.NumCPU()
	}
	return n
}

// SampleFunc returns one utilization percentage per logical core.
type SampleFunc func(ctx context.Context) ([]float64, error)

// PerCore samples utilization since the previous call.
func PerCore(ctx context.Context) ([]float64, error) {
	samples, err := gcpu.PercentWithContext(ctx, 0, true)
	if err != nil {
		return nil, errors.Errorf("sampling cpu usage: %w", err)
	}
	return samples, nil
}

// ⏱️ Sampler publishes CPU samples on a fixed interval. It shares nothing with
// the work queue or the progress channel.
type Sampler struct {
	interval time.Duration
	sample   SampleFunc
}

// 🏭 NewSampler creates a sampler. A nil sample func uses PerCore.
func NewSampler(interval time.Duration, sample SampleFunc) (*Sampler, error) {
	if interval <= 0 {
		return nil, errors.Errorf("sample interval must be positive, got %s", interval)
	}
	if sample == nil {
		sample = PerCore
	}
	return &Sampler{interval: interval, sample: sample}, nil
}

// 🏃 Run samples immediately and then once per interval until ctx is done.
// Failed samples are logged and skipped.
func (s *Sampler) Run(ctx context.Context, observer progress.Observer) error {
	logger := zerolog.Ctx(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for ctx.Err() == nil {
		samples, err := s.sample(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Debug().Err(err).Msg("skipping cpu sample")
		} else {
			observer.OnCPUSample(samples)
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}

	return nil
}
