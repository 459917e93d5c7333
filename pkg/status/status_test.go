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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestEnsureDir(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, root string) string
		wantErr bool
	}{
		{
			name: "creates_missing_nested_dir",
			setup: func(t *testing.T, root string) string {
				return filepath.Join(root, "a", "b", "out")
			},
		},
		{
			name: "existing_dir_is_fine",
			setup: func(t *testing.T, root string) string {
				return root
			},
		},
		{
			name: "file_in_the_way",
			setup: func(t *testing.T, root string) string {
				path := filepath.Join(root, "out")
				require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
				return path
			},
			wantErr: true,
		},
		{
			name: "parent_is_a_file",
			setup: func(t *testing.T, root string) string {
				parent := filepath.Join(root, "file")
				require.NoError(t, os.WriteFile(parent, []byte("x"), 0644))
				return filepath.Join(parent, "out")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
			dir := tt.setup(t, t.TempDir())

			store := NewStore(dir)
			err := store.EnsureDir(ctx)
			if tt.wantErr {
				require.Error(t, err)
				var de *DirectoryError
				require.True(t, errors.As(err, &de), "error should be a DirectoryError")
				assert.Equal(t, filepath.Clean(dir), de.Path)
				return
			}

			require.NoError(t, err)
			info, err := os.Stat(dir)
			require.NoError(t, err)
			assert.True(t, info.IsDir())
			assert.Equal(t, filepath.Clean(dir), store.BaseDir())
		})
	}
}

func TestWriteFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store := NewStore(dir)
	path := filepath.Join(dir, "processed_a.png")

	fs, err := store.WriteFile(ctx, path, []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, StatusNew, fs, "first write creates the file")

	fs, err = store.WriteFile(ctx, path, []byte("second"))
	require.NoError(t, err)
	assert.Equal(t, StatusModified, fs, "second write replaces it")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be gone")
}

func TestWriteFileMissingDir(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	fs, err := store.WriteFile(context.Background(), filepath.Join(dir, "missing", "a.png"), []byte("x"))
	require.Error(t, err)
	assert.Equal(t, StatusFailed, fs)
	assert.Contains(t, err.Error(), "writing temp file")
}

func TestFileStatusString(t *testing.T) {
	assert.Equal(t, "new", StatusNew.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "unknown", StatusUnknown.String())
}

func TestDirectoryErrorMessage(t *testing.T) {
	err := &DirectoryError{Path: "out", Err: errors.Base("denied")}
	assert.Equal(t, "preparing output directory out: denied", err.Error())
	assert.Equal(t, "denied", errors.Unwrap(err).Error())
}
