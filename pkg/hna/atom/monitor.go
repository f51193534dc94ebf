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

package atom

import (
	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

// ReadResult is what the runtime hands the generated transition function
// for one side of a pair: the event at the current position, and whether
// that position is past the end of a finished trace.
type ReadResult struct {
	Ev    event.Event
	Ended bool
}

// Successor is one outcome the generated transition function can produce
// for a configuration: move to State, optionally advancing either side's
// position by one event, with a Priority used to break ties between
// successors that collapse onto the same (state, p1, p2).
type Successor struct {
	State     State
	AdvanceT1 bool
	AdvanceT2 bool
	Priority  Priority
}

// TransitionFunc is the pure, generated function every atom kind must
// supply: given the current state and the next unread event from each
// side (or notice that a side has ended), it returns the configurations
// that follow. Returning no successors lets the configuration die.
type TransitionFunc func(state State, r1, r2 ReadResult) []Successor

// AcceptFunc reports whether state is an accepting state of the atom's
// automaton. The generator is expected to only reach an accepting state
// once both sides have been consumed consistently with the predicate
// being evaluated: the finished condition is encoded in which states
// are reachable, not checked separately here.
type AcceptFunc func(state State) bool

// Spec is the generated, compile-time-bound definition of one atom kind.
type Spec struct {
	// Kind identifies this atom for statistics and for CreateAtomMonitor
	// dispatch in the owning HNLMonitor.
	Kind int
	// Initial lists the configurations a fresh monitor starts with
	// (typically a single EvaluationState at the automaton's start state
	// and position (0, 0)).
	Initial    []EvaluationState
	Transition TransitionFunc
	Accepting  AcceptFunc
}

// Monitor evaluates one atom predicate over a specific ordered pair of
// traces. I is the type the owning HNL monitor uses to reference the
// HNLInstances currently waiting on this atom's verdict; Monitor never
// interprets I itself, it only collects and returns it.
type Monitor[I any] struct {
	spec   Spec
	t1, t2 *trace.Trace

	cfgs evaluationStateSet

	usedBy []I
	result event.Verdict
}

// New creates an atom monitor of the given spec over the ordered pair
// (t1, t2). Whether to also register the (t2, t1) pairing as a separate
// monitor is the generator's decision; this constructor makes no
// symmetry decision on its own.
func New[I any](spec Spec, t1, t2 *trace.Trace) *Monitor[I] {
	m := &Monitor[I]{
		spec:   spec,
		t1:     t1,
		t2:     t2,
		result: event.Unknown,
	}
	m.cfgs.live = append([]EvaluationState(nil), spec.Initial...)
	return m
}

// Kind returns this monitor's atom kind.
func (m *Monitor[I]) Kind() int { return m.spec.Kind }

// T1 and T2 return the ordered pair of traces this monitor evaluates.
func (m *Monitor[I]) T1() *trace.Trace { return m.t1 }
func (m *Monitor[I]) T2() *trace.Trace { return m.t2 }

// SetUsedBy records that i is waiting on this monitor's verdict.
func (m *Monitor[I]) SetUsedBy(i I) {
	m.usedBy = append(m.usedBy, i)
}

// UsedBy returns every handle registered via SetUsedBy, in registration
// order. The owning HNLMonitor walks this list once a definite verdict is
// reached and then retires the atom monitor entirely, so Monitor never
// needs to remove individual entries.
func (m *Monitor[I]) UsedBy() []I {
	return m.usedBy
}

// Result returns the monitor's cached verdict. Unknown means no verdict
// has been reached yet.
func (m *Monitor[I]) Result() event.Verdict {
	return m.result
}

// Step advances every live configuration by one generated-transition
// application and returns the resulting verdict. Once a definite
// verdict has been reached, Step is a no-op that keeps returning it.
func (m *Monitor[I]) Step() event.Verdict {
	if m.result != event.Unknown {
		return m.result
	}

	for _, cfg := range m.cfgs.live {
		e1, q1 := m.t1.Get(int(cfg.P1))
		e2, q2 := m.t2.Get(int(cfg.P2))

		if q1 == trace.Waiting || q2 == trace.Waiting {
			m.cfgs.addNext(cfg)
			continue
		}

		r1 := ReadResult{Ev: e1, Ended: q1 == trace.End}
		r2 := ReadResult{Ev: e2, Ended: q2 == trace.End}

		for _, succ := range m.spec.Transition(cfg.State, r1, r2) {
			p1, p2 := cfg.P1, cfg.P2
			if succ.AdvanceT1 {
				p1++
			}
			if succ.AdvanceT2 {
				p2++
			}
			m.cfgs.addNext(EvaluationState{State: succ.State, P1: p1, P2: p2, Priority: succ.Priority})
		}
	}
	m.cfgs.rotate()

	accepting := false
	for _, cfg := range m.cfgs.live {
		if m.spec.Accepting(cfg.State) {
			accepting = true
			break
		}
	}

	switch {
	case accepting:
		m.result = event.True
	case len(m.cfgs.live) == 0 && m.t1.Finished() && m.t2.Finished():
		m.result = event.False
	default:
		m.result = event.Unknown
	}
	return m.result
}
