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

// Package display renders a run as a pterm progress bar with a live CPU readout.
package display

import (
	"io"
	"math"
	"os"
	"sync"

	"github.com/pterm/pterm"

	"github.com/walteh/blurrc/pkg/progress"
	"github.com/walteh/blurrc/pkg/status"
)

// 📺 Display is a progress.Observer backed by a terminal progress bar. The bar
// counts whole percent from 0 to 100; failed and skipped jobs are printed
// above it as they happen.
type Display struct {
	mu        sync.Mutex
	writer    io.Writer
	formatter status.FileFormatter

	bar     *pterm.ProgressbarPrinter
	shown   int
	status  progress.Status
	cpu     string
	stopped bool
}

var _ progress.Observer = (*Display)(nil)

// 🏭 New creates a display writing to w. A nil w writes to stdout.
func New(w io.Writer) *Display {
	if w == nil {
		w = os.Stdout
	}
	return &Display{
		writer:    w,
		formatter: status.NewDefaultFileFormatter(),
		status:    progress.StatusIdle,
	}
}

// 📊 OnProgress moves the bar to the state's percentage
func (d *Display) OnProgress(state progress.State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.status = state.Status

	if d.bar == nil {
		bar, err := pterm.DefaultProgressbar.
			WithTotal(100).
			WithTitle(d.title()).
			WithWriter(d.writer).
			WithShowCount(false).
			WithShowElapsedTime(false).
			Start()
		if err != nil {
			pterm.Error.WithWriter(d.writer).Println(err)
			d.stopped = true
			return
		}
		d.bar = bar
	}

	if sig := state.Last; sig != nil && (sig.Err != nil || sig.Skipped) {
		printer := pterm.Warning.WithPrefix(pterm.Prefix{Text: "⏭️"})
		if sig.Err != nil {
			printer = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"})
		}
		printer.WithWriter(d.writer).Println(d.formatter.FormatJob(*sig))
	}

	d.bar.UpdateTitle(d.title())

	target := int(math.Floor(state.Percent))
	if target > 100 {
		target = 100
	}
	if delta := target - d.shown; delta > 0 {
		d.bar.Add(delta)
		d.shown = target
	}

	if state.Terminal {
		d.finish(state)
	}
}

func (d *Display) finish(state progress.State) {
	_, _ = d.bar.Stop()
	d.stopped = true

	printer := pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"})
	if state.Status == progress.StatusCancelled {
		printer = pterm.Warning.WithPrefix(pterm.Prefix{Text: "🛑"})
	}
	printer.WithWriter(d.writer).Println(d.formatter.FormatProgress(state))
}

// 🖥️ OnCPUSample shows one utilization value per core in the bar title
func (d *Display) OnCPUSample(samples []float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(samples) == 0 {
		return
	}

	d.cpu = d.formatter.FormatCPU(samples)

	if d.bar != nil && !d.stopped {
		d.bar.UpdateTitle(d.title())
	}
}

// Shown returns the whole percent currently drawn on the bar.
func (d *Display) Shown() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shown
}

// Title returns the current bar title.
func (d *Display) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title()
}

// Done reports whether a terminal state has been drawn.
func (d *Display) Done() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}

func (d *Display) title() string {
	label := "Blurring"
	if d.status != progress.StatusRunning && d.status != progress.StatusIdle {
		label = d.status.String()
	}
	if d.cpu == "" {
		return label
	}
	return label + " · " + d.cpu
}
