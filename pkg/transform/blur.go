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

package transform

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🌫️ Blur applies a Gaussian blur and re-encodes in the source format
type Blur struct {
	Radius      float64
	JPEGQuality int
}

// 🏭 NewBlur creates a blur transformer
func NewBlur(radius float64, jpegQuality int) *Blur {
	return &Blur{
		Radius:      radius,
		JPEGQuality: jpegQuality,
	}
}

func (b *Blur) Apply(ctx context.Context, sourcePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("blurring %s: %w", sourcePath, err)
	}

	encoder, err := encoderFor(sourcePath, b.JPEGQuality)
	if err != nil {
		return nil, &Error{Path: sourcePath, Op: "encode", Err: err}
	}

	src, err := imgio.Open(sourcePath)
	if err != nil {
		return nil, &Error{Path: sourcePath, Op: "decode", Err: err}
	}

	blurred := blur.Gaussian(src, b.Radius)

	var buf bytes.Buffer
	if err := encoder(&buf, blurred); err != nil {
		return nil, &Error{Path: sourcePath, Op: "encode", Err: err}
	}

	zerolog.Ctx(ctx).Trace().
		Str("file", sourcePath).
		Float64("radius", b.Radius).
		Int("bytes", buf.Len()).
		Msg("blurred image")

	return buf.Bytes(), nil
}

func encoderFor(path string, jpegQuality int) (imgio.Encoder, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(jpegQuality), nil
	case ".bmp":
		return imgio.BMPEncoder(), nil
	default:
		return nil, errors.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
