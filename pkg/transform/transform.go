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

// Package transform holds the image operation applied to every job.
package transform

import (
	"context"
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// ErrUnsupportedFormat is returned when no encoder exists for a file extension.
var ErrUnsupportedFormat = errors.Base("unsupported image format")

// 🖼️ Transformer reads the image at sourcePath and returns the encoded result.
// It must be safe to call from many goroutines at once.
type Transformer interface {
	Apply(ctx context.Context, sourcePath string) ([]byte, error)
}

// Func adapts a function to a Transformer.
type Func func(ctx context.Context, sourcePath string) ([]byte, error)

func (f Func) Apply(ctx context.Context, sourcePath string) ([]byte, error) {
	return f(ctx, sourcePath)
}

// ❌ Error is a per-job transform failure. It never aborts a batch.
type Error struct {
	Path string
	Op   string // decode, encode, panic
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transform %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsTransformError reports whether err is, or wraps, a transform Error.
func IsTransformError(err error) bool {
	var te *Error
	return errors.As(err, &te)
}
