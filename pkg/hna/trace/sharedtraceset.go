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

import "fmt"

// SharedTraceSet holds the same data as TraceSet (owned traces, a
// new/accepted handoff, registered views) but under single-threaded
// discipline: it is used by code such as PartitionByInputPrefix that
// builds a fresh, per-reference trace set from a single goroutine and
// never shares it across threads.
type SharedTraceSet struct {
	newT     map[uint32]*Trace
	accepted map[uint32]*Trace
	views    []viewNotifier

	tracesFinished bool
}

// NewSharedTraceSet creates an empty SharedTraceSet.
func NewSharedTraceSet() *SharedTraceSet {
	return &SharedTraceSet{
		newT:     make(map[uint32]*Trace),
		accepted: make(map[uint32]*Trace),
	}
}

var _ Set = (*SharedTraceSet)(nil)

// NewTrace inserts a fresh trace with the given id and notifies views.
func (s *SharedTraceSet) NewTrace(id uint32) *Trace {
	if _, ok := s.newT[id]; ok {
		panic(fmt.Sprintf("sharedtraceset: duplicate newTrace(%d)", id))
	}
	if _, ok := s.accepted[id]; ok {
		panic(fmt.Sprintf("sharedtraceset: duplicate newTrace(%d)", id))
	}
	t := New(id)
	s.newT[id] = t
	for _, v := range s.views {
		v.notifyNewTrace(id, t)
	}
	return t
}

// Get returns the trace for id.
func (s *SharedTraceSet) Get(id uint32) (*Trace, bool) {
	if t, ok := s.newT[id]; ok {
		return t, true
	}
	t, ok := s.accepted[id]
	return t, ok
}

// GetNewTrace moves one trace from "new" to "accepted" and returns it.
func (s *SharedTraceSet) GetNewTrace() (*Trace, bool) {
	for id, t := range s.newT {
		delete(s.newT, id)
		s.accepted[id] = t
		return t, true
	}
	return nil, false
}

// NoFutureUpdates records that no more traces or events will arrive.
func (s *SharedTraceSet) NoFutureUpdates() {
	s.tracesFinished = true
}

// Finished reports whether NoFutureUpdates has been called and the "new"
// handoff has been fully drained.
func (s *SharedTraceSet) Finished() bool {
	return s.tracesFinished && len(s.newT) == 0
}

// HasTrace reports whether id names a trace owned by this set.
func (s *SharedTraceSet) HasTrace(id uint32) bool {
	if _, ok := s.newT[id]; ok {
		return true
	}
	_, ok := s.accepted[id]
	return ok
}

// Size returns the total number of traces owned by this set.
func (s *SharedTraceSet) Size() int {
	return len(s.newT) + len(s.accepted)
}

// AddView registers v to be attached non-concurrently.
func (s *SharedTraceSet) AddView(v viewNotifier) {
	s.views = append(s.views, v)
}
