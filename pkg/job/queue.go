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

	"gitlab.com/tozd/go/errors"
)

// 🚚 Queue is a bounded FIFO of items shared by the orchestrator and every worker.
// Each item put is taken exactly once, whichever worker calls Take first.
type Queue struct {
	items chan Item
}

// 🏭 NewQueue creates a queue that buffers up to capacity items
func NewQueue(capacity int) *Queue {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue{items: make(chan Item, capacity)}
}

// Put enqueues an item, blocking while the queue is full.
func (q *Queue) Put(ctx context.Context, item Item) error {
	select {
	case q.items <- item:
		return nil
	case <-ctx.Done():
		return errors.Errorf("putting %s: %w", item, ctx.Err())
	}
}

// Take dequeues the next item, blocking while the queue is empty.
func (q *Queue) Take(ctx context.Context) (Item, error) {
	select {
	case item := <-q.items:
		return item, nil
	case <-ctx.Done():
		return Item{}, errors.Errorf("taking item: %w", ctx.Err())
	}
}

// 🔚 Seal enqueues one end marker per worker. Call it after the last job.
func (q *Queue) Seal(ctx context.Context, workers int) error {
	for i := 0; i < workers; i++ {
		if err := q.Put(ctx, EndOfWork()); err != nil {
			return errors.Errorf("sealing queue: %w", err)
		}
	}
	return nil
}

// Len returns the number of buffered items.
func (q *Queue) Len() int {
	return len(q.items)
}

// Fill enqueues every job followed by one end marker per worker.
func (q *Queue) Fill(ctx context.Context, jobs []Job, workers int) error {
	for _, j := range jobs {
		if err := q.Put(ctx, Of(j)); err != nil {
			return err
		}
	}
	return q.Seal(ctx, workers)
}
