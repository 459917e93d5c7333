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

// Package job defines the unit of work for a batch run and the queue that
// distributes it to workers.
package job

import (
	"fmt"

	"github.com/google/uuid"
)

// 📦 Job is one source/destination pair. Jobs are values and never change once enqueued.
type Job struct {
	ID          uuid.UUID
	Source      string
	Destination string
}

// 🏭 New creates a job with a fresh ID
func New(source, destination string) Job {
	return Job{
		ID:          uuid.New(),
		Source:      source,
		Destination: destination,
	}
}

func (j Job) String() string {
	return fmt.Sprintf("%s -> %s", j.Source, j.Destination)
}

type itemKind uint8

const (
	kindJob itemKind = iota + 1
	kindEnd
)

// 🏷️ Item is what travels through the queue: either a Job or an end-of-work marker.
// The zero Item is neither and is treated as invalid by workers.
type Item struct {
	kind itemKind
	job  Job
}

// Of wraps a job as a queue item.
func Of(j Job) Item {
	return Item{kind: kindJob, job: j}
}

// EndOfWork returns the marker that tells exactly one worker to stop.
func EndOfWork() Item {
	return Item{kind: kindEnd}
}

// Job returns the wrapped job. ok is false for end markers.
func (i Item) Job() (Job, bool) {
	if i.kind != kindJob {
		return Job{}, false
	}
	return i.job, true
}

// IsEnd reports whether the item is an end-of-work marker.
func (i Item) IsEnd() bool {
	return i.kind == kindEnd
}

func (i Item) String() string {
	switch i.kind {
	case kindJob:
		return i.job.String()
	case kindEnd:
		return "<end of work>"
	default:
		return "<invalid>"
	}
}
