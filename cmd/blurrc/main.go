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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/walteh/blurrc/pkg/log"
)

func main() {
	logger := setupLogging()
	ctx := logger.WithContext(context.Background())

	ctx, cancel := withSignal(ctx)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.New(os.Stderr, zerolog.GlobalLevel()).LogError(err)
		cancel()
		os.Exit(1)
	}
}

// setupLogging configures the structured logger. The level is narrowed once
// flags are parsed.
func setupLogging() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

// withSignal returns a child context cancelled on Ctrl+C, SIGTERM or parent cancel.
// A second signal is not caught, so it kills the process.
func withSignal(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(c)
		select {
		case <-ctx.Done():
		case sig := <-c:
			zerolog.Ctx(ctx).Warn().Str("signal", sig.String()).Msg("cancelling, waiting for workers to drain")
			cancel()
		}
	}()

	return ctx, cancel
}
