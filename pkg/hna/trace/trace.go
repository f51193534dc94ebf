/*
Copyright 2016 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package trace implements the append-only, finishable event sequences
// (Trace) and the concurrent/sequential collections that own them
// (TraceSet, SharedTraceSet, View).
package trace

import (
	"sync"
	"sync/atomic"

	"github.com/hna-project/hna-monitor/pkg/hna/event"
)

// Query is the three-valued result of reading an event from a Trace at a
// given index.
type Query int

const (
	// Waiting means the index has not been produced yet, but the trace
	// has not finished either: the caller should try again later.
	Waiting Query = iota
	// Available means the event at the requested index was returned.
	Available
	// End means the trace is finished and has no event at that index.
	End
)

// Trace is an append-only sequence of events identified by a positive id.
// One producer appends; any number of consumers read by index. Once
// Finished is observed true, readers may read the (now immutable) event
// slice without locking.
type Trace struct {
	id       uint32
	finished atomic.Bool

	mu     sync.Mutex
	events []event.Event
}

// New creates a Trace with the given id. ids must be greater than zero;
// New panics otherwise, as this is a programming invariant violation
// rather than a recoverable input error.
func New(id uint32) *Trace {
	if id == 0 {
		panic("trace: id must be > 0")
	}
	return &Trace{id: id}
}

// ID returns the trace's identifier.
func (t *Trace) ID() uint32 {
	return t.id
}

// Append adds an event to the trace. It is a contract violation to append
// to a trace that has already been marked finished; callers (the
// producer) must not do this, and Append panics if they do.
func (t *Trace) Append(e event.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished.Load() {
		panic("trace: append after finished")
	}
	t.events = append(t.events, e)
}

// Get reads the event at idx. If the trace is observed finished without
// acquiring the lock, the read proceeds directly against the (now
// immutable) event slice.
func (t *Trace) Get(idx int) (event.Event, Query) {
	if t.finished.Load() {
		if idx < len(t.events) {
			return t.events[idx], Available
		}
		return event.Event{}, End
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if idx < len(t.events) {
		return t.events[idx], Available
	}
	if t.finished.Load() {
		return event.Event{}, End
	}
	return event.Event{}, Waiting
}

// Size returns the number of events appended so far.
func (t *Trace) Size() int {
	if t.finished.Load() {
		return len(t.events)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.events)
}

// SetFinished marks the trace as finished. It is idempotent: a second
// call is a harmless no-op rather than a programming error.
func (t *Trace) SetFinished() {
	t.finished.Store(true)
}

// Finished reports whether the trace has been marked finished.
func (t *Trace) Finished() bool {
	return t.finished.Load()
}

// CopyTo duplicates this trace's events and finished flag into other.
// other must not be this trace.
func (t *Trace) CopyTo(other *Trace) {
	if other == t {
		panic("trace: CopyTo into self")
	}
	t.mu.Lock()
	other.mu.Lock()
	defer other.mu.Unlock()
	defer t.mu.Unlock()

	other.events = append([]event.Event(nil), t.events...)
	other.finished.Store(t.finished.Load())
}
