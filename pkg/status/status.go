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
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus describes what a write did to the destination
type FileStatus int

const (
	StatusUnknown   FileStatus = iota
	StatusNew                  // destination did not exist
	StatusModified             // destination existed and was replaced
	StatusFailed               // nothing was written
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusModified:
		return "modified"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📁 DirectoryError means the output directory could not be prepared. It is
// fatal: no worker starts after one.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("preparing output directory %s: %v", e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// 💾 Store writes results below a base directory
type Store struct {
	baseDir string
}

// 🏭 NewStore creates a store rooted at baseDir
func NewStore(baseDir string) *Store {
	return &Store{baseDir: filepath.Clean(baseDir)}
}

// BaseDir returns the output directory.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// EnsureDir creates the output directory if it is missing.
func (s *Store) EnsureDir(ctx context.Context) error {
	info, err := os.Stat(s.baseDir)
	switch {
	case err == nil && !info.IsDir():
		return &DirectoryError{Path: s.baseDir, Err: errors.New("path exists and is not a directory")}
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return &DirectoryError{Path: s.baseDir, Err: err}
	}

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return &DirectoryError{Path: s.baseDir, Err: err}
	}

	zerolog.Ctx(ctx).Debug().Str("dir", s.baseDir).Msg("created output directory")
	return nil
}

// WriteFile writes content to path atomically and reports whether it created
// or replaced the file. path is used as given; callers build it below BaseDir.
func (s *Store) WriteFile(ctx context.Context, path string, content []byte) (FileStatus, error) {
	fileStatus := StatusNew
	if _, err := os.Stat(path); err == nil {
		fileStatus = StatusModified
	} else if !os.IsNotExist(err) {
		return StatusFailed, errors.Errorf("checking destination: %w", err)
	}

	if err := s.writeFileAtomic(path, content); err != nil {
		return StatusFailed, err
	}

	zerolog.Ctx(ctx).Trace().
		Str("path", path).
		Str("status", fileStatus.String()).
		Int("bytes", len(content)).
		Msg("wrote output file")

	return fileStatus, nil
}

func (s *Store) writeFileAtomic(absPath string, content []byte) error {
	tempPath := absPath + ".tmp"

	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}

	// rename is atomic within a directory
	if err := os.Rename(tempPath, absPath); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp file: %w", err)
	}

	return nil
}
