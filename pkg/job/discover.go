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

package job

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔍 DiscoverOptions controls which files become jobs and where their output goes
type DiscoverOptions struct {
	// Patterns are matched against the base file name, e.g. "*.png".
	Patterns []string
	// Prefix is prepended to the file name in the output directory.
	Prefix string
}

// Discover lists inputDir (non-recursively) and returns one job per regular
// file whose name matches any pattern. Jobs come back in file name order.
func Discover(ctx context.Context, inputDir, outputDir string, opts DiscoverOptions) ([]Job, error) {
	logger := zerolog.Ctx(ctx)

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, errors.Errorf("listing input directory %s: %w", inputDir, err)
	}

	jobs := make([]Job, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()

		if !isRegular(inputDir, entry) {
			continue
		}

		matched, err := matchAny(opts.Patterns, name)
		if err != nil {
			return nil, err
		}
		if !matched {
			logger.Debug().Str("file", name).Msg("skipping file without a recognized image pattern")
			continue
		}

		jobs = append(jobs, New(
			filepath.Join(inputDir, name),
			filepath.Join(outputDir, opts.Prefix+name),
		))
	}

	logger.Debug().Int("jobs", len(jobs)).Str("input_dir", inputDir).Msg("discovered jobs")

	return jobs, nil
}

// isRegular follows symlinks so a link to an image counts as the image.
func isRegular(dir string, entry os.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

func matchAny(patterns []string, name string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			return false, errors.Errorf("matching pattern %q: %w", pattern, err)
		}
		if matched {
			return true, nil
		}
	}
	return false, nil
}
