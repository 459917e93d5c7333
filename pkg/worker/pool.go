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

// Package worker runs the transform over queued jobs on a fixed number of goroutines.
package worker

import (
	"context"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/blurrc/pkg/cpu"
	"github.com/walteh/blurrc/pkg/job"
	"github.com/walteh/blurrc/pkg/progress"
	"github.com/walteh/blurrc/pkg/status"
	"github.com/walteh/blurrc/pkg/transform"
)

// 💾 Writer stores a transformed result at its destination
type Writer interface {
	WriteFile(ctx context.Context, path string, content []byte) (status.FileStatus, error)
}

// 🔧 Options configures a Pool
type Options struct {
	// Size is the number of workers. Zero means one per logical core.
	Size        int
	Transformer transform.Transformer
	Writer      Writer
}

// 🏊 Pool is a set of symmetric workers sharing one queue. There is no static
// partitioning: whichever worker takes first gets the next job.
type Pool struct {
	size        int
	transformer transform.Transformer
	writer      Writer
}

// 🏭 New creates a worker pool
func New(opts Options) (*Pool, error) {
	if opts.Transformer == nil {
		return nil, errors.Errorf("transformer is required")
	}
	if opts.Writer == nil {
		return nil, errors.Errorf("writer is required")
	}
	if opts.Size < 0 {
		return nil, errors.Errorf("pool size must not be negative, got %d", opts.Size)
	}

	size := opts.Size
	if size == 0 {
		size = cpu.LogicalCores(context.Background())
	}

	return &Pool{
		size:        size,
		transformer: opts.Transformer,
		writer:      opts.Writer,
	}, nil
}

// Size returns the number of workers Run starts.
func (p *Pool) Size() int {
	return p.size
}

// 🏃 Run starts Size workers and waits for all of them to take an end marker.
// The queue must already hold every job and one end marker per worker.
//
// Every job taken produces exactly one signal. After ctx is cancelled, workers
// finish the job in hand and drain the rest as skipped.
func (p *Pool) Run(ctx context.Context, q *job.Queue, signals chan<- progress.Signal) error {
	var g errgroup.Group

	for id := 0; id < p.size; id++ {
		id := id
		g.Go(func() error {
			return p.work(ctx, id, q, signals)
		})
	}

	if err := g.Wait(); err != nil {
		return errors.Errorf("running workers: %w", err)
	}
	return nil
}
