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

package trace

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hna-project/hna-monitor/pkg/hna/event"
)

// viewNotifier is implemented by View so that a TraceSet (or
// SharedTraceSet) can hand off newly created traces to registered views
// exactly once
type viewNotifier interface {
	notifyNewTrace(id uint32, t *Trace)
	notifyBaseDestroyed()
}

// Set is the collection of traces a TraceSet and a SharedTraceSet both
// provide: lookup, membership and size. HNL/HNA monitors are written
// against this interface so they work against either concurrency
// discipline.
type Set interface {
	Get(id uint32) (*Trace, bool)
	GetNewTrace() (*Trace, bool)
	HasTrace(id uint32) bool
	Finished() bool
	Size() int
}

// TraceSet is the concurrent, multi-producer/multi-consumer-safe
// collection of owned Traces A trace id
// is, at any time, in exactly one of {new, accepted, absent}.
type TraceSet struct {
	mu       sync.Mutex
	newT     map[uint32]*Trace
	accepted map[uint32]*Trace
	views    []viewNotifier

	tracesFinished atomic.Bool
}

// NewTraceSet creates an empty TraceSet.
func NewTraceSet() *TraceSet {
	return &TraceSet{
		newT:     make(map[uint32]*Trace),
		accepted: make(map[uint32]*Trace),
	}
}

var _ Set = (*TraceSet)(nil)

// NewTrace inserts a fresh Trace with the given id into the "new" map and
// notifies registered views. It panics if the id already exists: ids are
// unique and a duplicate newTrace call is a programming invariant
// violation.
func (s *TraceSet) NewTrace(id uint32) *Trace {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.newT[id]; ok {
		panic(fmt.Sprintf("traceset: duplicate newTrace(%d)", id))
	}
	if _, ok := s.accepted[id]; ok {
		panic(fmt.Sprintf("traceset: duplicate newTrace(%d)", id))
	}

	t := New(id)
	s.newT[id] = t

	for _, v := range s.views {
		v.notifyNewTrace(id, t)
	}

	return t
}

// ExtendTrace appends ev to the trace with the given id. It panics if no
// such trace exists, per the "extendTrace for unknown id" invariant of
// 
func (s *TraceSet) ExtendTrace(id uint32, ev event.Event) {
	t := s.lookup(id)
	if t == nil {
		panic(fmt.Sprintf("traceset: extendTrace for unknown id %d", id))
	}
	t.Append(ev)
}

// TraceFinished marks the trace with the given id as finished.
func (s *TraceSet) TraceFinished(id uint32) {
	t := s.lookup(id)
	if t == nil {
		panic(fmt.Sprintf("traceset: traceFinished for unknown id %d", id))
	}
	t.SetFinished()
}

func (s *TraceSet) lookup(id uint32) *Trace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.newT[id]; ok {
		return t
	}
	return s.accepted[id]
}

// Get returns the trace for id, wherever it currently lives (new or
// accepted).
func (s *TraceSet) Get(id uint32) (*Trace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.newT[id]; ok {
		return t, true
	}
	t, ok := s.accepted[id]
	return t, ok
}

// GetNewTrace moves one trace from "new" to "accepted" and returns it.
// Each trace created by NewTrace is returned by GetNewTrace at most once
// in total; map iteration order means callers see traces in no
// particular order.
func (s *TraceSet) GetNewTrace() (*Trace, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.newT {
		delete(s.newT, id)
		s.accepted[id] = t
		return t, true
	}
	return nil, false
}

// NoFutureUpdates records that no more traces or events will arrive. It
// is idempotent.
func (s *TraceSet) NoFutureUpdates() {
	s.tracesFinished.Store(true)
}

// Finished reports whether NoFutureUpdates has been called and the "new"
// handoff has been fully drained.
func (s *TraceSet) Finished() bool {
	if !s.tracesFinished.Load() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.newT) == 0
}

// HasTrace reports whether id names a trace owned by this set, new or
// accepted.
func (s *TraceSet) HasTrace(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.newT[id]; ok {
		return true
	}
	_, ok := s.accepted[id]
	return ok
}

// Size returns the total number of traces owned by this set.
func (s *TraceSet) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.newT) + len(s.accepted)
}

// AddView registers v to be notified of every trace created from this
// point forward.
func (s *TraceSet) AddView(v viewNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, v)
}

// RemoveView deregisters v.
func (s *TraceSet) RemoveView(v viewNotifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.views {
		if existing == v {
			s.views = append(s.views[:i], s.views[i+1:]...)
			return
		}
	}
}

// Close notifies every registered view that this set is gone, so the
// views stop expecting further callbacks.
func (s *TraceSet) Close() {
	s.mu.Lock()
	views := s.views
	s.views = nil
	s.mu.Unlock()

	for _, v := range views {
		v.notifyBaseDestroyed()
	}
}
