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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/blurrc/pkg/progress"
	"github.com/walteh/blurrc/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent    = 4  // spaces to indent job entries
	nameWidth     = 35 // width for the source file name
	outcomeWidth  = 10 // width for the outcome text
	percentWidth  = 6  // width for the progress percentage
	maxErrorWidth = 60 // failure reasons are cut to this width
)

// 🎯 Logger prints colored console lines and mirrors them to zerolog. It also
// implements progress.Observer for plain, line-based progress output.
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.FileFormatter
	mu        sync.Mutex
}

var _ progress.Observer = (*Logger)(nil)

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFileFormatter(),
		mu:        sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatJob formats one job outcome for display
func (l *Logger) formatJob(sig progress.Signal, percent float64) string {
	var (
		symbol       rune
		symbolColor  color.Attribute
		outcome      string
		outcomeColor color.Attribute
	)
	switch {
	case sig.Skipped:
		symbol, symbolColor = '-', color.FgYellow
		outcome, outcomeColor = "skipped", color.FgYellow
	case sig.Err != nil:
		symbol, symbolColor = '✗', color.FgRed
		outcome, outcomeColor = "failed", color.FgRed
	default:
		symbol, symbolColor = '✓', color.FgGreen
		outcome, outcomeColor = "blurred", color.FgCyan
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, filepath.Base(sig.Job.Source)),
		color.New(outcomeColor).Sprint(fmt.Sprintf("%-*s", outcomeWidth, outcome)),
		color.New(color.Faint).Sprint(fmt.Sprintf("%*.0f%%", percentWidth-1, percent)))

	if sig.Err != nil {
		reason := sig.Err.Error()
		if runes := []rune(reason); len(runes) > maxErrorWidth {
			reason = string(runes[:maxErrorWidth-3]) + "..."
		}
		line += " " + color.New(color.Faint).Sprint(reason)
	}

	return line
}

// 📝 LogJob logs the outcome of one job
func (l *Logger) LogJob(sig progress.Signal, percent float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatJob(sig, percent))

	event := l.zlog.Info()
	if sig.Err != nil {
		event = l.zlog.Warn().Err(sig.Err)
	}
	event.
		Str("job", sig.Job.ID.String()).
		Str("source", sig.Job.Source).
		Str("destination", sig.Job.Destination).
		Bool("skipped", sig.Skipped).
		Float64("percent", percent).
		Msg("job finished")
}

// 📊 OnProgress prints one line per finished job and a closing status line
func (l *Logger) OnProgress(state progress.State) {
	if state.Last != nil {
		l.LogJob(*state.Last, state.Percent)
	}

	switch {
	case !state.Terminal && state.Last == nil:
		l.Infof("processing %d images", state.Total)
	case state.Terminal && state.Status == progress.StatusCancelled:
		l.printStatus(color.FgYellow, state)
	case state.Terminal:
		l.printStatus(color.FgGreen, state)
	}
}

func (l *Logger) printStatus(c color.Attribute, state progress.State) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, color.New(c).Sprint(l.formatter.FormatProgress(state)))
	l.zlog.Info().
		Str("status", state.Status.String()).
		Int("completed", state.Completed).
		Int("failed", state.Failed).
		Int("skipped", state.Skipped).
		Float64("percent", state.Percent).
		Msg("run finished")
}

// 🖥️ OnCPUSample prints per-core utilization
func (l *Logger) OnCPUSample(samples []float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, color.New(color.Faint).Sprint(l.formatter.FormatCPU(samples)))
	l.zlog.Debug().Floats64("cpu", samples).Msg("cpu sample")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("blurrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 LogError logs an error value
func (l *Logger) LogError(err error) {
	if err == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console, color.New(color.FgRed).Sprint(l.formatter.FormatError(err)))
	l.zlog.Error().Err(err).Msg("error")
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
