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
	"fmt"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ Defaults used when a value is not configured
const (
	DefaultInputDir     = "input_images"
	DefaultOutputDir    = "output_images"
	DefaultOutputPrefix = "processed_"
	DefaultBaseline     = 5.0
	DefaultBlurRadius   = 5.0
	DefaultJPEGQuality  = 90
	DefaultCPUInterval  = time.Second
)

// DefaultPatterns are the recognized image file name patterns. Matching is case-sensitive.
func DefaultPatterns() []string {
	return []string{"*.png", "*.jpg", "*.jpeg"}
}

// 📚 Config represents the complete configuration for a batch run
type Config struct {
	InputDir     string   `json:"input_dir,omitempty" yaml:"input_dir,omitempty" hcl:"input_dir,optional"`
	OutputDir    string   `json:"output_dir,omitempty" yaml:"output_dir,omitempty" hcl:"output_dir,optional"`
	Workers      int      `json:"workers,omitempty" yaml:"workers,omitempty" hcl:"workers,optional"` // 0 means one per logical core
	Baseline     *float64 `json:"baseline,omitempty" yaml:"baseline,omitempty" hcl:"baseline,optional"`
	Patterns     []string `json:"patterns,omitempty" yaml:"patterns,omitempty" hcl:"patterns,optional"`
	OutputPrefix string   `json:"output_prefix,omitempty" yaml:"output_prefix,omitempty" hcl:"output_prefix,optional"`
	BlurRadius   float64  `json:"blur_radius,omitempty" yaml:"blur_radius,omitempty" hcl:"blur_radius,optional"`
	JPEGQuality  int      `json:"jpeg_quality,omitempty" yaml:"jpeg_quality,omitempty" hcl:"jpeg_quality,optional"`
	CPUInterval  string   `json:"cpu_interval,omitempty" yaml:"cpu_interval,omitempty" hcl:"cpu_interval,optional"`

	location    string
	cpuInterval time.Duration
}

// 🏭 Default returns a validated configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	// defaults never fail validation
	_ = cfg.Validate(context.Background())
	return cfg
}

// 🔍 Validate applies defaults, cleans paths and checks value ranges
func (cfg *Config) Validate(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if cfg.InputDir == "" {
		cfg.InputDir = DefaultInputDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	cfg.InputDir = filepath.Clean(cfg.InputDir)
	cfg.OutputDir = filepath.Clean(cfg.OutputDir)

	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}

	if cfg.Baseline == nil {
		b := DefaultBaseline
		cfg.Baseline = &b
	}
	if *cfg.Baseline < 0 || *cfg.Baseline >= 100 {
		return errors.Errorf("baseline must be in [0, 100), got %v", *cfg.Baseline)
	}

	if len(cfg.Patterns) == 0 {
		cfg.Patterns = DefaultPatterns()
	}
	for _, p := range cfg.Patterns {
		if !doublestar.ValidatePattern(p) {
			return errors.Errorf("invalid pattern %q", p)
		}
	}

	if cfg.OutputPrefix == "" {
		cfg.OutputPrefix = DefaultOutputPrefix
	}

	if cfg.BlurRadius == 0 {
		cfg.BlurRadius = DefaultBlurRadius
	}
	if cfg.BlurRadius < 0 {
		return errors.Errorf("blur_radius must be positive, got %v", cfg.BlurRadius)
	}

	if cfg.JPEGQuality == 0 {
		cfg.JPEGQuality = DefaultJPEGQuality
	}
	if cfg.JPEGQuality < 1 || cfg.JPEGQuality > 100 {
		return errors.Errorf("jpeg_quality must be in [1, 100], got %d", cfg.JPEGQuality)
	}

	cfg.cpuInterval = DefaultCPUInterval
	if cfg.CPUInterval != "" {
		d, err := time.ParseDuration(cfg.CPUInterval)
		if err != nil {
			return errors.Errorf("parsing cpu_interval: %w", err)
		}
		if d <= 0 {
			return errors.Errorf("cpu_interval must be positive, got %s", d)
		}
		cfg.cpuInterval = d
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration validated")

	return nil
}

// BaselinePercent returns the configured progress baseline.
func (cfg *Config) BaselinePercent() float64 {
	if cfg.Baseline == nil {
		return DefaultBaseline
	}
	return *cfg.Baseline
}

// CPUIntervalDuration returns the CPU sampling interval.
func (cfg *Config) CPUIntervalDuration() time.Duration {
	if cfg.cpuInterval == 0 {
		return DefaultCPUInterval
	}
	return cfg.cpuInterval
}

// Location returns the file the config was loaded from, empty for defaults.
func (cfg *Config) Location() string {
	return cfg.location
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	workers := "auto"
	if cfg.Workers > 0 {
		workers = fmt.Sprintf("%d", cfg.Workers)
	}
	return fmt.Sprintf("%s -> %s (workers=%s, radius=%v)", cfg.InputDir, cfg.OutputDir, workers, cfg.BlurRadius)
}
