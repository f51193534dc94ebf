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

import "sync"

// baseSet is the subset of TraceSet/SharedTraceSet a View needs in order
// to register itself and look up traces it has not yet been notified of.
type baseSet interface {
	AddView(v viewNotifier)
	Get(id uint32) (*Trace, bool)
}

// View is a weak, read-only handle onto the traces of a base TraceSet or
// SharedTraceSet, restricted to traces the base has announced via
// notifyNewTrace. It mirrors the new/accepted handoff so that a consumer
// of a subset of traces sees each relevant trace exactly once.
type View struct {
	mu       sync.Mutex
	newT     map[uint32]*Trace
	accepted map[uint32]*Trace

	// filter, if non-nil, restricts which announced traces this view
	// accepts; a nil filter accepts everything the base announces.
	filter func(id uint32, t *Trace) bool

	destroyed bool
}

// NewView creates a View over base, optionally restricted by filter.
// Registration happens immediately; any trace already owned by base
// before this call is NOT retroactively delivered. Views are meant to
// be attached before the base starts producing traces.
func NewView(base baseSet, filter func(id uint32, t *Trace) bool) *View {
	v := &View{
		newT:     make(map[uint32]*Trace),
		accepted: make(map[uint32]*Trace),
		filter:   filter,
	}
	base.AddView(v)
	return v
}

var _ Set = (*View)(nil)
var _ viewNotifier = (*View)(nil)

func (v *View) notifyNewTrace(id uint32, t *Trace) {
	if v.filter != nil && !v.filter(id, t) {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	v.newT[id] = t
}

func (v *View) notifyBaseDestroyed() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.destroyed = true
}

// Get returns the trace for id if this view has been notified of it.
func (v *View) Get(id uint32) (*Trace, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if t, ok := v.newT[id]; ok {
		return t, true
	}
	t, ok := v.accepted[id]
	return t, ok
}

// GetNewTrace moves one trace from "new" to "accepted" within this view
// and returns it, independently of any other view or the base set's own
// handoff.
func (v *View) GetNewTrace() (*Trace, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for id, t := range v.newT {
		delete(v.newT, id)
		v.accepted[id] = t
		return t, true
	}
	return nil, false
}

// HasTrace reports whether this view has been notified of id.
func (v *View) HasTrace(id uint32) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.newT[id]; ok {
		return true
	}
	_, ok := v.accepted[id]
	return ok
}

// Finished reports whether the underlying base set has been destroyed
// and every trace announced to this view has been handed off by
// GetNewTrace. Once true, no further traces will ever be announced to
// this view.
func (v *View) Finished() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.destroyed && len(v.newT) == 0
}

// Size returns the number of traces this view currently holds.
func (v *View) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.newT) + len(v.accepted)
}
