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

package display

import (
	"bytes"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/blurrc/pkg/job"
	"github.com/walteh/blurrc/pkg/progress"
)

func TestMain(m *testing.M) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()
	m.Run()
}

func states(total int, baseline float64, last progress.Status, sigs ...progress.Signal) []progress.State {
	out := []progress.State{{Total: total, Percent: baseline, Status: progress.StatusRunning}}
	done := 0
	for i := range sigs {
		sig := sigs[i]
		if !sig.Skipped {
			done++
		}
		s := progress.State{
			Completed: i + 1,
			Total:     total,
			Percent:   progress.Percent(baseline, done, total),
			Status:    progress.StatusRunning,
			Last:      &sig,
		}
		if i+1 == total {
			s.Terminal = true
			s.Status = last
			if last == progress.StatusComplete {
				s.Percent = 100
			}
		}
		out = append(out, s)
	}
	return out
}

func TestDisplayOnProgress(t *testing.T) {
	a := job.New("in/a.png", "out/processed_a.png")
	b := job.New("in/b.png", "out/processed_b.png")
	c := job.New("in/c.png", "out/processed_c.png")

	tests := []struct {
		name      string
		states    []progress.State
		wantShown []int
		wantTitle string
	}{
		{
			name:      "complete_run_fills_the_bar",
			states:    states(3, 5, progress.StatusComplete, progress.Signal{Job: a}, progress.Signal{Job: b}, progress.Signal{Job: c}),
			wantShown: []int{5, 36, 68, 100},
			wantTitle: "Complete",
		},
		{
			name: "failure_still_reaches_100",
			states: states(2, 0, progress.StatusComplete,
				progress.Signal{Job: a, Err: errors.New("bad pixels")},
				progress.Signal{Job: b}),
			wantShown: []int{0, 50, 100},
			wantTitle: "Complete",
		},
		{
			name: "cancelled_run_stops_short",
			states: states(3, 5, progress.StatusCancelled,
				progress.Signal{Job: a},
				progress.Signal{Job: b, Skipped: true},
				progress.Signal{Job: c, Skipped: true}),
			wantShown: []int{5, 36, 36, 36},
			wantTitle: "Cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(&bytes.Buffer{})

			for i, s := range tt.states {
				d.OnProgress(s)
				assert.Equal(t, tt.wantShown[i], d.Shown(), "shown percent after state %d", i)
				assert.Equal(t, s.Terminal, d.Done(), "done after state %d", i)
			}

			assert.Equal(t, tt.wantTitle, d.Title())
		})
	}
}

func TestDisplayIgnoresStatesAfterTerminal(t *testing.T) {
	d := New(&bytes.Buffer{})
	d.OnProgress(progress.State{Completed: 1, Total: 1, Percent: 100, Terminal: true, Status: progress.StatusComplete})
	assert.True(t, d.Done())

	d.OnProgress(progress.State{Total: 1, Percent: 5, Status: progress.StatusRunning})
	assert.Equal(t, 100, d.Shown(), "a finished bar does not move")
	assert.Equal(t, "Complete", d.Title())
}

func TestDisplayOnCPUSample(t *testing.T) {
	d := New(&bytes.Buffer{})

	d.OnCPUSample(nil)
	assert.Equal(t, "Blurring", d.Title(), "empty samples are ignored")

	d.OnCPUSample([]float64{20, 40.4, 60, 80})
	assert.Equal(t, "Blurring · 🖥️  Total Cores: 4, CPU Usage per core: [20% 40% 60% 80%]", d.Title(),
		"every core keeps its own value")

	d.OnProgress(progress.State{Total: 2, Percent: 5, Status: progress.StatusRunning})
	d.OnCPUSample([]float64{100, 0})
	assert.Equal(t, "Blurring · 🖥️  Total Cores: 2, CPU Usage per core: [100% 0%]", d.Title())

	d.OnProgress(progress.State{Completed: 2, Total: 2, Percent: 100, Terminal: true, Status: progress.StatusComplete})
	assert.Equal(t, "Complete · 🖥️  Total Cores: 2, CPU Usage per core: [100% 0%]", d.Title())
}
