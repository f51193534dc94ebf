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

package hnl

import (
	"github.com/golang/glog"

	"github.com/hna-project/hna-monitor/pkg/hna/atom"
	"github.com/hna-project/hna-monitor/pkg/hna/event"
	hnamonitor "github.com/hna-project/hna-monitor/pkg/hna/monitor"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

// Monitor schedules atom monitors, applies the decision-table transition
// upon each atom verdict, creates new HNLInstances when a new trace
// arrives, and reports the global formula verdict. It is driven by a
// single consumer goroutine; Traces may be shared concurrently with a
// producer goroutine through the trace.Set it is built against.
type Monitor struct {
	traces   trace.Set
	producer *trace.TraceSet // nil when traces is a read-only view
	spec     Spec

	instances []*Instance
	atoms     []*atom.Monitor[*Instance]

	Stats Stats

	resultKnown bool
	result      event.Verdict
}

var _ hnamonitor.Monitor = (*Monitor)(nil)

// NewMonitor creates a top-level HNLMonitor that owns set and evaluates
// the formula described by spec. The returned Monitor accepts producer
// calls (NewTrace, ExtendTrace, TraceFinished, NoFutureUpdates).
func NewMonitor(set *trace.TraceSet, spec Spec) *Monitor {
	return &Monitor{traces: set, producer: set, spec: spec}
}

// NewMonitorOverView creates an HNLMonitor that reads from a read-only
// view of a trace pool owned elsewhere, for use as a slice-tree
// sub-monitor or any other nested consumer. It does not accept producer
// calls.
func NewMonitorOverView(view *trace.View, spec Spec) *Monitor {
	return &Monitor{traces: view, spec: spec}
}

// NewTrace registers a new trace with id. It aborts the process via
// glog.Fatalf if this Monitor was built over a read-only view.
func (m *Monitor) NewTrace(id uint32) {
	if m.producer == nil {
		glog.Fatalf("hnl: NewTrace called on a view-backed monitor")
	}
	m.producer.NewTrace(id)
}

// ExtendTrace appends ev to the trace named by id. It aborts the process
// via glog.Fatalf if this Monitor was built over a read-only view.
func (m *Monitor) ExtendTrace(id uint32, ev event.Event) {
	if m.producer == nil {
		glog.Fatalf("hnl: ExtendTrace called on a view-backed monitor")
	}
	m.producer.ExtendTrace(id, ev)
}

// TraceFinished marks the trace named by id as finished. It aborts the
// process via glog.Fatalf if this Monitor was built over a read-only view.
func (m *Monitor) TraceFinished(id uint32) {
	if m.producer == nil {
		glog.Fatalf("hnl: TraceFinished called on a view-backed monitor")
	}
	m.producer.TraceFinished(id)
}

// NoFutureUpdates records that no further traces will ever arrive. It
// aborts the process via glog.Fatalf if this Monitor was built over a
// read-only view.
func (m *Monitor) NoFutureUpdates() {
	if m.producer == nil {
		glog.Fatalf("hnl: NoFutureUpdates called on a view-backed monitor")
	}
	m.producer.NoFutureUpdates()
}

// HasTrace reports whether the underlying trace set already knows about
// id.
func (m *Monitor) HasTrace(id uint32) bool {
	return m.traces.HasTrace(id)
}

// ingestNewTraces drains every trace the trace set has handed off, fans
// each one out into new instances, and gives every new instance its
// initial atom monitor at the formula's initial state.
func (m *Monitor) ingestNewTraces() {
	for {
		t, ok := m.traces.GetNewTrace()
		if !ok {
			return
		}
		for _, inst := range m.spec.CreateInstances(t, m.traces) {
			inst.State = m.spec.InitialState
			m.instances = append(m.instances, inst)
			m.Stats.NumInstances++
			m.createAtomMonitor(m.spec.InitialState, inst)
		}
	}
}

// createAtomMonitor builds the atom monitor inst needs at state, wires
// inst into its used-by list and adds it to the scheduler's atom list.
func (m *Monitor) createAtomMonitor(state State, inst *Instance) {
	am := m.spec.CreateAtomMonitor(state, inst)
	am.SetUsedBy(inst)
	inst.monitor = am
	m.atoms = append(m.atoms, am)
	m.Stats.NumAtoms++
}

// removeInstance performs an O(1) swap-and-pop removal, safe because at
// most one atom monitor ever references an instance, and that monitor
// is retired in the same step() call that removes the instance.
func (m *Monitor) removeInstance(inst *Instance) {
	for i, existing := range m.instances {
		if existing == inst {
			last := len(m.instances) - 1
			m.instances[i] = m.instances[last]
			m.instances = m.instances[:last]
			return
		}
	}
	glog.Fatalf("hnl: removeInstance called for an instance this monitor does not own")
}

// Step performs one scheduling round: ingest new traces, advance every
// live atom monitor and apply the decision table to its verdict, ingest
// any traces that arrived meanwhile, then check for termination. Once a
// definite verdict has been produced, further calls return it unchanged.
func (m *Monitor) Step() event.Verdict {
	if m.resultKnown {
		return m.result
	}

	m.ingestNewTraces()

	for i := 0; i < len(m.atoms); {
		am := m.atoms[i]
		verdict := am.Step()
		if verdict == event.Unknown {
			i++
			continue
		}

		for _, inst := range am.UsedBy() {
			action := m.spec.BDD.Action(inst.State, verdict)
			switch action {
			case ResultFalse:
				return m.finish(event.False)
			case ResultTrue:
				m.removeInstance(inst)
			default:
				next := State(action)
				inst.State = next
				m.createAtomMonitor(next, inst)
			}
		}

		last := len(m.atoms) - 1
		m.atoms[i] = m.atoms[last]
		m.atoms = m.atoms[:last]
	}

	m.ingestNewTraces()

	if len(m.instances) == 0 && m.traces.Finished() {
		return m.finish(event.True)
	}

	return event.Unknown
}

func (m *Monitor) finish(v event.Verdict) event.Verdict {
	m.resultKnown = true
	m.result = v
	return v
}
