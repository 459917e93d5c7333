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

package progress

import (
	"context"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultBaseline is the percentage shown as soon as a run starts.
const DefaultBaseline = 5.0

// 🔧 Options configures an Aggregator
type Options struct {
	// Baseline is the starting percentage, in [0, 100). Nil means DefaultBaseline.
	Baseline *float64
	// Observer receives every published state. Nil means Nop.
	Observer Observer
}

// 🧮 Aggregator is the single consumer of completion signals. It owns the
// progress state and receives exactly total signals.
type Aggregator struct {
	total    int
	baseline float64
	observer Observer

	state    State
	failures []Failure
}

// 🏭 NewAggregator creates an aggregator for total jobs
func NewAggregator(total int, opts Options) (*Aggregator, error) {
	if total < 1 {
		return nil, errors.Errorf("aggregator needs at least one job, got %d", total)
	}

	baseline := DefaultBaseline
	if opts.Baseline != nil {
		baseline = *opts.Baseline
	}
	if baseline < 0 || baseline >= 100 {
		return nil, errors.Errorf("baseline must be in [0, 100), got %v", baseline)
	}

	observer := opts.Observer
	if observer == nil {
		observer = Nop{}
	}

	return &Aggregator{
		total:    total,
		baseline: baseline,
		observer: observer,
		state: State{
			Total:   total,
			Percent: baseline,
			Status:  StatusIdle,
		},
	}, nil
}

// 🏃 Run publishes the starting state, then receives exactly total signals,
// publishing after each one. The last publication is the only terminal one.
//
// Run returns early only if signals is closed before every job is accounted for.
func (a *Aggregator) Run(ctx context.Context, signals <-chan Signal) (State, error) {
	logger := zerolog.Ctx(ctx)

	a.state.Status = StatusRunning
	a.publish()

	for i := 0; i < a.total; i++ {
		sig, ok := <-signals
		if !ok {
			return a.state, errors.Errorf("progress channel closed after %d of %d signals", i, a.total)
		}
		a.record(sig)

		logger.Trace().
			Int("completed", a.state.Completed).
			Int("total", a.total).
			Float64("percent", a.state.Percent).
			Msg("progress")

		a.publish()
	}

	logger.Debug().
		Str("status", a.state.Status.String()).
		Int("failed", a.state.Failed).
		Int("skipped", a.state.Skipped).
		Msg("all jobs accounted for")

	return a.state, nil
}

func (a *Aggregator) record(sig Signal) {
	a.state.Completed++
	a.state.Last = &sig

	switch {
	case sig.Skipped:
		a.state.Skipped++
	case sig.Err != nil:
		a.state.Failed++
		a.failures = append(a.failures, Failure{Job: sig.Job, Err: sig.Err})
	}

	a.state.Percent = Percent(a.baseline, a.state.Done(), a.total)

	if a.state.Completed == a.total {
		a.state.Terminal = true
		if a.state.Skipped > 0 {
			a.state.Status = StatusCancelled
		} else {
			a.state.Status = StatusComplete
			a.state.Percent = 100
		}
	}
}

func (a *Aggregator) publish() {
	a.observer.OnProgress(a.state)
}

// Failures returns the jobs that failed, in the order their signals arrived.
// Only call it after Run returns.
func (a *Aggregator) Failures() []Failure {
	out := make([]Failure, len(a.failures))
	copy(out, a.failures)
	return out
}
