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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "valid_yaml",
			filename: "blurrc.yaml",
			config: `
input_dir: ./photos
output_dir: ./blurred
workers: 3
baseline: 10
patterns:
  - "*.png"
output_prefix: blur_
blur_radius: 2.5
jpeg_quality: 75
cpu_interval: 500ms
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "photos", cfg.InputDir, "input dir should be cleaned")
				assert.Equal(t, "blurred", cfg.OutputDir, "output dir should be cleaned")
				assert.Equal(t, 3, cfg.Workers, "workers should match")
				assert.InDelta(t, 10.0, cfg.BaselinePercent(), 0.0001, "baseline should match")
				assert.Equal(t, []string{"*.png"}, cfg.Patterns, "patterns should match")
				assert.Equal(t, "blur_", cfg.OutputPrefix, "prefix should match")
				assert.InDelta(t, 2.5, cfg.BlurRadius, 0.0001, "radius should match")
				assert.Equal(t, 75, cfg.JPEGQuality, "quality should match")
				assert.Equal(t, 500*time.Millisecond, cfg.CPUIntervalDuration(), "interval should match")
			},
		},
		{
			name:     "minimal_yaml_gets_defaults",
			filename: "blurrc.yml",
			config:   "workers: 2\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultInputDir, cfg.InputDir, "input dir should default")
				assert.Equal(t, DefaultOutputDir, cfg.OutputDir, "output dir should default")
				assert.InDelta(t, DefaultBaseline, cfg.BaselinePercent(), 0.0001, "baseline should default")
				assert.Equal(t, DefaultPatterns(), cfg.Patterns, "patterns should default")
				assert.Equal(t, DefaultOutputPrefix, cfg.OutputPrefix, "prefix should default")
				assert.Equal(t, DefaultCPUInterval, cfg.CPUIntervalDuration(), "interval should default")
			},
		},
		{
			name:     "zero_baseline_is_kept",
			filename: "blurrc.json",
			config:   `{"baseline": 0}`,
			check: func(t *testing.T, cfg *Config) {
				assert.InDelta(t, 0.0, cfg.BaselinePercent(), 0.0001, "explicit zero baseline should survive defaults")
			},
		},
		{
			name:     "valid_hcl",
			filename: "blurrc.hcl",
			config: `
input_dir  = "in"
output_dir = "out"
workers    = 4
patterns   = ["*.jpg"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "in", cfg.InputDir, "input dir should match")
				assert.Equal(t, "out", cfg.OutputDir, "output dir should match")
				assert.Equal(t, 4, cfg.Workers, "workers should match")
				assert.Equal(t, []string{"*.jpg"}, cfg.Patterns, "patterns should match")
			},
		},
		{
			name:        "unknown_yaml_field",
			filename:    "blurrc.yaml",
			config:      "threads: 4\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "unknown_json_field",
			filename:    "blurrc.json",
			config:      `{"threads": 4}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "invalid_hcl",
			filename:    "blurrc.hcl",
			config:      `workers = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "unsupported_extension",
			filename:    "blurrc.toml",
			config:      `workers = 4`,
			wantErr:     true,
			errContains: "unsupported file extension",
		},
		{
			name:        "negative_workers",
			filename:    "blurrc.yaml",
			config:      "workers: -1\n",
			wantErr:     true,
			errContains: "workers must not be negative",
		},
		{
			name:        "baseline_out_of_range",
			filename:    "blurrc.yaml",
			config:      "baseline: 100\n",
			wantErr:     true,
			errContains: "baseline must be in",
		},
		{
			name:        "bad_pattern",
			filename:    "blurrc.yaml",
			config:      "patterns: [\"[a-\"]\n",
			wantErr:     true,
			errContains: "invalid pattern",
		},
		{
			name:        "bad_interval",
			filename:    "blurrc.yaml",
			config:      "cpu_interval: soon\n",
			wantErr:     true,
			errContains: "parsing cpu_interval",
		},
		{
			name:        "bad_quality",
			filename:    "blurrc.yaml",
			config:      "jpeg_quality: 101\n",
			wantErr:     true,
			errContains: "jpeg_quality must be in",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			path := filepath.Join(t.TempDir(), tt.filename)
			err := os.WriteFile(path, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file")

			cfg, err := LoadConfig(ctx, path)
			if tt.wantErr {
				require.Error(t, err, "LoadConfig should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "LoadConfig should succeed")
			assert.Equal(t, path, cfg.Location(), "location should be recorded")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err, "missing file should fail")
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault(t *testing.T) {
	cfg, err := LoadConfig(context.Background(), "")
	require.NoError(t, err, "empty path should return defaults")

	assert.Equal(t, DefaultInputDir, cfg.InputDir)
	assert.Equal(t, DefaultOutputDir, cfg.OutputDir)
	assert.Equal(t, 0, cfg.Workers, "workers should be auto")
	assert.Equal(t, DefaultJPEGQuality, cfg.JPEGQuality)
	assert.InDelta(t, DefaultBlurRadius, cfg.BlurRadius, 0.0001)
	assert.Empty(t, cfg.Location(), "defaults have no location")
	assert.Equal(t, "input_images -> output_images (workers=auto, radius=5)", cfg.String())
}

func TestValidateAfterOverride(t *testing.T) {
	cfg := Default()
	cfg.Workers = 8
	cfg.InputDir = "a/../b"

	require.NoError(t, cfg.Validate(context.Background()))
	assert.Equal(t, "b", cfg.InputDir, "input dir should be cleaned")
	assert.Equal(t, "b -> output_images (workers=8, radius=5)", cfg.String())
}
