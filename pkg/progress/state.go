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

// Package progress turns per-job completion signals into a monotonic progress
// percentage and publishes it to observers.
package progress

import (
	"fmt"

	"github.com/walteh/blurrc/pkg/job"
)

// 📊 Status is the coarse phase of a run
type Status int

const (
	StatusIdle      Status = iota
	StatusRunning          // jobs are being processed
	StatusComplete         // every job was accounted for
	StatusCancelled        // the run stopped early, remaining jobs were drained
	StatusNoWork           // nothing matched, no worker was started
)

// String returns the user-facing label
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusRunning:
		return "Running"
	case StatusComplete:
		return "Complete"
	case StatusCancelled:
		return "Cancelled"
	case StatusNoWork:
		return "No work"
	default:
		return "Unknown"
	}
}

// 📨 Signal reports that one job finished. Exactly one is sent per job,
// whatever happened to it.
type Signal struct {
	Job job.Job
	// Err is the local failure, nil on success.
	Err error
	// Skipped is set for jobs drained after cancellation or interrupted by it.
	Skipped bool
}

// ❌ Failure records a job that could not be processed
type Failure struct {
	Job job.Job
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Job.Source, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// 📈 State is the aggregator-owned view of a run
type State struct {
	Completed int // signals received
	Total     int
	Failed    int
	Skipped   int
	Percent   float64
	Terminal  bool
	Status    Status
	// Last is the signal that produced this state, nil for the starting state.
	Last *Signal
}

// Done returns the number of jobs that were actually processed.
func (s State) Done() int {
	return s.Completed - s.Skipped
}

func (s State) String() string {
	return fmt.Sprintf("%s %d/%d (%.1f%%)", s.Status, s.Completed, s.Total, s.Percent)
}

// Percent maps done out of total onto [baseline, 100].
func Percent(baseline float64, done, total int) float64 {
	if total <= 0 {
		return baseline
	}
	return baseline + float64(done)*(100-baseline)/float64(total)
}
