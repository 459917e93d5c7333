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

package commands

import (
	"context"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/blurrc/cmd/blurrc/opts"
	"github.com/walteh/blurrc/pkg/cpu"
	"github.com/walteh/blurrc/pkg/log"
	"github.com/walteh/blurrc/pkg/progress"
)

// NewCPUCmd creates the cpu command
func NewCPUCmd(rootOpts *opts.RootOpts) *cobra.Command {
	var samples int

	cmd := &cobra.Command{
		Use:   "cpu",
		Short: "Print per-core CPU utilization",
		Long: `Cpu prints the logical core count and then per-core utilization once per
sampling interval (cpu_interval in the config file, default 1s).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples < 1 {
				return errors.Errorf("samples must be at least 1, got %d", samples)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			logger := log.New(cmd.OutOrStdout(), rootOpts.LogLevel)
			logger.Infof("logical cores: %d", cpu.LogicalCores(ctx))

			sampler, err := cpu.NewSampler(rootOpts.Config.CPUIntervalDuration(), nil)
			if err != nil {
				return errors.Errorf("creating cpu sampler: %w", err)
			}

			seen := 0
			observer := progress.Funcs{
				CPU: func(s []float64) {
					logger.OnCPUSample(s)
					seen++
					if seen >= samples {
						cancel()
					}
				},
			}

			return sampler.Run(ctx, observer)
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 1, "number of samples to print")

	return cmd
}
