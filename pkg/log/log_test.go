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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/blurrc/pkg/job"
	"github.com/walteh/blurrc/pkg/progress"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	a := job.New("in/a.png", "out/processed_a.png")
	b := job.New("in/b.png", "out/processed_b.png")

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_job_outcomes",
			op: func(t *testing.T, logger *Logger) {
				logger.LogJob(progress.Signal{Job: a}, 40)
				logger.LogJob(progress.Signal{Job: b, Err: errors.New("boom")}, 5)
				logger.LogJob(progress.Signal{Job: a, Skipped: true}, 5)
			},
			wantLogs: []string{
				"✓ a.png                               blurred       40%",
				"✗ b.png                               failed         5% boom",
				"- a.png                               skipped        5%",
			},
		},
		{
			name: "long_failure_reason_is_cut",
			op: func(t *testing.T, logger *Logger) {
				logger.LogJob(progress.Signal{Job: b, Err: errors.New(strings.Repeat("x", 80))}, 50)
			},
			wantLogs: []string{
				"✗ b.png                               failed        50% " + strings.Repeat("x", 57) + "...",
			},
		},
		{
			name: "long_non_ascii_reason_is_cut_on_characters",
			op: func(t *testing.T, logger *Logger) {
				logger.LogJob(progress.Signal{Job: b, Err: errors.New(strings.Repeat("ñ", 80))}, 50)
			},
			wantLogs: []string{
				"✗ b.png                               failed        50% " + strings.Repeat("ñ", 57) + "...",
			},
		},
		{
			name: "observe_complete_run",
			op: func(t *testing.T, logger *Logger) {
				logger.OnProgress(progress.State{Total: 2, Percent: 5, Status: progress.StatusRunning})
				logger.OnProgress(progress.State{Completed: 1, Total: 2, Percent: 52.4, Status: progress.StatusRunning, Last: &progress.Signal{Job: a}})
				logger.OnProgress(progress.State{Completed: 2, Total: 2, Percent: 100, Terminal: true, Status: progress.StatusComplete, Last: &progress.Signal{Job: b}})
			},
			wantLogs: []string{
				"ℹ️  processing 2 images",
				"✓ a.png                               blurred       52%",
				"✓ b.png                               blurred      100%",
				"✅ Complete: 2/2 (100%)",
			},
		},
		{
			name: "observe_cancelled_run",
			op: func(t *testing.T, logger *Logger) {
				logger.OnProgress(progress.State{
					Completed: 2, Total: 2, Skipped: 1, Percent: 52.4,
					Terminal: true, Status: progress.StatusCancelled,
					Last: &progress.Signal{Job: b, Skipped: true},
				})
			},
			wantLogs: []string{
				"- b.png                               skipped       52%",
				"🛑 Cancelled: 1/2 (52%)",
			},
		},
		{
			name: "observe_cpu_sample",
			op: func(t *testing.T, logger *Logger) {
				logger.OnCPUSample([]float64{12.4, 100})
			},
			wantLogs: []string{
				"🖥️  Total Cores: 2, CPU Usage per core: [12% 100%]",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_error_value",
			op: func(t *testing.T, logger *Logger) {
				logger.LogError(errors.New("disk full"))
				logger.LogError(nil)
			},
			wantLogs: []string{
				"❌ Error: disk full",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("blurring input_images -> output_images")
			},
			wantLogs: []string{
				"blurrc • blurring input_images -> output_images",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			// Perform operation
			tt.op(t, logger)

			// Check output
			require.True(t, utf8.Valid(buf.Bytes()), "output should be valid UTF-8")
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.Disabled)

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}
