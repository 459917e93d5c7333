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

// 👀 Observer receives everything the presentation layer displays. Calls for
// progress and for CPU samples come from different goroutines.
type Observer interface {
	// OnProgress is called after every state change, in order.
	OnProgress(state State)
	// OnCPUSample is called with one utilization percentage per logical core.
	OnCPUSample(samples []float64)
}

// Nop ignores everything.
type Nop struct{}

func (Nop) OnProgress(State) {}
func (Nop) OnCPUSample([]float64) {}

// Funcs adapts plain functions to an Observer. Nil fields are skipped.
type Funcs struct {
	Progress func(State)
	CPU      func([]float64)
}

func (f Funcs) OnProgress(state State) {
	if f.Progress != nil {
		f.Progress(state)
	}
}

func (f Funcs) OnCPUSample(samples []float64) {
	if f.CPU != nil {
		f.CPU(samples)
	}
}

type multi []Observer

// Multi fans every call out to each observer in order.
func Multi(observers ...Observer) Observer {
	m := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multi) OnProgress(state State) {
	for _, o := range m {
		o.OnProgress(state)
	}
}

func (m multi) OnCPUSample(samples []float64) {
	for _, o := range m {
		o.OnCPUSample(samples)
	}
}
