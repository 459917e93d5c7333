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

package status

import (
	"fmt"
	"strings"

	"github.com/walteh/blurrc/pkg/progress"
)

// FileFormatter defines how job outcomes, progress and CPU samples are rendered as text
type FileFormatter interface {
	// FormatJob formats the outcome of a single job
	FormatJob(sig progress.Signal) string

	// FormatProgress formats a progress state
	FormatProgress(state progress.State) string

	// FormatCPU formats one utilization sample per core
	FormatCPU(samples []float64) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatJob formats a job outcome with emojis
func (f *DefaultFileFormatter) FormatJob(sig progress.Signal) string {
	switch {
	case sig.Skipped:
		return fmt.Sprintf("⏭️  Skipped %s", sig.Job.Source)
	case sig.Err != nil:
		return fmt.Sprintf("❌ Failed %s: %v", sig.Job.Source, sig.Err)
	default:
		return fmt.Sprintf("✨ Created %s", sig.Job.Destination)
	}
}

// FormatProgress formats a progress state with its percentage
func (f *DefaultFileFormatter) FormatProgress(state progress.State) string {
	switch {
	case state.Terminal && state.Status == progress.StatusCancelled:
		return fmt.Sprintf("🛑 %s: %d/%d (%.0f%%)", state.Status, state.Done(), state.Total, state.Percent)
	case state.Terminal:
		return fmt.Sprintf("✅ %s: %d/%d (%.0f%%)", state.Status, state.Completed, state.Total, state.Percent)
	default:
		return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", state.Completed, state.Total, state.Percent)
	}
}

// FormatCPU formats per-core utilization
func (f *DefaultFileFormatter) FormatCPU(samples []float64) string {
	parts := make([]string, len(samples))
	for i, s := range samples {
		parts[i] = fmt.Sprintf("%.0f%%", s)
	}
	return fmt.Sprintf("🖥️  Total Cores: %d, CPU Usage per core: [%s]", len(samples), strings.Join(parts, " "))
}

// FormatError formats an error message with emoji
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("❌ Error: %v", err)
}
