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

package hna

import (
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/monitor"
)

// Stats tracks cumulative statistics for one HNAMonitor.
type Stats struct {
	// NumHNLMonitors is the number of slice tree nodes (sub-monitors)
	// ever created, including the root.
	NumHNLMonitors int
}

// Monitor routes a pool of traces through a slice tree: every trace
// starts at the root node, and an action event moves it to whatever
// node the generated transition table names next, finishing the trace
// in its old node and registering it fresh in the new one. Monitor
// reports the first definite verdict any node's sub-monitor produces.
//
// Any number of producer goroutines may call NewTrace, ExtendTrace,
// TraceFinished and NoFutureUpdates concurrently, each for a disjoint
// set of trace ids, the same way TraceSet tolerates concurrent
// producers; producerMu serializes their access to traceNode and the
// slice tree. Step must be called by a single consumer goroutine.
// resultKnown/result cross both sides (a rejected slice transition on a
// producer goroutine can set a verdict the consumer has not yet
// observed) and are guarded separately by resultMu.
type Monitor struct {
	tree      *SliceTree
	traceNode map[uint32]*Node

	producerMu sync.Mutex

	tracesFinished atomic.Bool

	resultMu    sync.Mutex
	resultKnown bool
	result      event.Verdict

	Stats Stats
}

var _ SubMonitor = (*Monitor)(nil)
var _ monitor.Monitor = (*Monitor)(nil)

// NewMonitor creates an HNAMonitor over a freshly built slice tree
// rooted as spec describes.
func NewMonitor(spec TreeSpec) *Monitor {
	m := &Monitor{
		tree:      NewSliceTree(spec),
		traceNode: make(map[uint32]*Node),
	}
	m.Stats.NumHNLMonitors = 1
	return m
}

// NewTrace registers id at the slice tree's root node.
func (m *Monitor) NewTrace(id uint32) {
	m.producerMu.Lock()
	defer m.producerMu.Unlock()

	if _, exists := m.traceNode[id]; exists {
		glog.Fatalf("hna: newTrace called twice for id %d", id)
	}
	root := m.tree.Root()
	root.traces.NewTrace(id)
	m.traceNode[id] = root
}

// ExtendTrace appends ev to id's trace at its current node. Action
// events first resolve (or create) the node id moves into: id is
// finished at its old node and registered fresh at the new one. If the
// generated transition table has no cell for this node and action, the
// whole monitor's verdict becomes FALSE.
func (m *Monitor) ExtendTrace(id uint32, ev event.Event) {
	m.producerMu.Lock()
	defer m.producerMu.Unlock()

	node, ok := m.traceNode[id]
	if !ok {
		glog.Fatalf("hna: extendTrace for trace not registered with newTrace: %d", id)
	}

	if !ev.IsAction() {
		node.traces.ExtendTrace(id, ev)
		return
	}

	next, ok := m.tree.GetSuccessor(node, ev.Action)
	if !ok {
		next, ok = m.tree.AddSlice(node, ev.Action)
		if !ok {
			m.setResult(event.False)
			return
		}
		m.Stats.NumHNLMonitors++
	}

	node.traces.TraceFinished(id)
	next.traces.NewTrace(id)
	m.traceNode[id] = next
}

// TraceFinished marks id finished at its current node and forgets the
// id -> node mapping.
func (m *Monitor) TraceFinished(id uint32) {
	m.producerMu.Lock()
	defer m.producerMu.Unlock()

	node, ok := m.traceNode[id]
	if !ok {
		glog.Fatalf("hna: traceFinished for trace not registered with newTrace: %d", id)
	}
	node.traces.TraceFinished(id)
	delete(m.traceNode, id)
}

// NoFutureUpdates records that no further traces or events will arrive.
func (m *Monitor) NoFutureUpdates() {
	m.tracesFinished.Store(true)
}

// HasTrace reports whether id is currently registered with some node.
func (m *Monitor) HasTrace(id uint32) bool {
	m.producerMu.Lock()
	defer m.producerMu.Unlock()
	_, ok := m.traceNode[id]
	return ok
}

// Step ensures every node staged by a producer-side AddSlice becomes
// visible, then advances every node's sub-monitor once. The first
// sub-monitor to report a definite verdict decides the whole monitor's
// verdict.
func (m *Monitor) Step() event.Verdict {
	if v, ok := m.cachedResult(); ok {
		return v
	}

	m.tree.EnsureNodes()

	for _, node := range m.tree.Nodes() {
		if v := node.Sub.Step(); v != event.Unknown {
			m.setResult(v)
			return v
		}
	}

	if m.tracesFinished.Load() {
		for _, node := range m.tree.Nodes() {
			node.traces.NoFutureUpdates()
		}
	}

	return event.Unknown
}

func (m *Monitor) cachedResult() (event.Verdict, bool) {
	m.resultMu.Lock()
	defer m.resultMu.Unlock()
	return m.result, m.resultKnown
}

func (m *Monitor) setResult(v event.Verdict) {
	m.resultMu.Lock()
	defer m.resultMu.Unlock()
	if !m.resultKnown {
		m.resultKnown = true
		m.result = v
	}
}
