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

// Package hnl implements the HNLInstance and HNLMonitor: scheduling atom
// monitors, walking the generated decision table, and reporting a global
// verdict for one hypernode logic formula.
package hnl

import (
	"fmt"

	"github.com/hna-project/hna-monitor/pkg/hna/atom"
	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

// State identifies a row of the decision table. S0, the generated
// formula's initial state, is conventionally 0.
type State int32

// Action is the value a decision-table cell holds: either one of the two
// terminal sentinels, or a non-negative State to transition an instance
// into.
type Action int32

const (
	// ResultFalse means the whole HNL formula is FALSE for the instance
	// that reached this cell.
	ResultFalse Action = -1
	// ResultTrue means the instance's formula is satisfied; the instance
	// is removed.
	ResultTrue Action = -2
)

// BDD is the compiled two-column decision table:
// `state x (true|false) -> action`.
type BDD struct {
	rows map[State][2]Action
}

// NewBDD builds a BDD from a table mapping each state to its
// [onTrue, onFalse] actions.
func NewBDD(table map[State][2]Action) BDD {
	rows := make(map[State][2]Action, len(table))
	for s, a := range table {
		rows[s] = a
	}
	return BDD{rows: rows}
}

// Action looks up the table cell for state and the given atom verdict,
// which must be True or False (Unknown never reaches the decision table).
func (b BDD) Action(state State, verdict event.Verdict) Action {
	row, ok := b.rows[state]
	if !ok {
		panic(fmt.Sprintf("hnl: no BDD row for state %d", state))
	}
	if verdict == event.True {
		return row[0]
	}
	return row[1]
}

// Instance binds a tuple of traces to the formula's current decision
// table state and the atom monitor currently evaluating its next
// subgoal. Traces is generator-supplied: for a binary hyperproperty it
// holds exactly two traces, but the type accommodates formulas over
// larger tuples.
type Instance struct {
	Traces  []*trace.Trace
	State   State
	monitor *atom.Monitor[*Instance]
}

// Stats tracks cumulative counters for a single HNLMonitor, printed on
// completion and exported as Prometheus metrics by pkg/hna/metrics.
type Stats struct {
	// NumInstances is the number of HNLInstances ever created by this
	// monitor, not the number currently live.
	NumInstances int
	// NumAtoms is the number of AtomMonitors ever created by this
	// monitor.
	NumAtoms int
}

// Spec is the generated, compile-time-bound definition of one HNL
// formula: the decision table, the initial state, how a newly arrived
// trace fans out into instances, and how to build the atom monitor an
// instance needs next.
type Spec struct {
	BDD          BDD
	InitialState State

	// CreateInstances is invoked once per trace returned by the trace
	// set's GetNewTrace, and returns the HNLInstances that pair newTrace
	// with the rest of the traces known so far.
	CreateInstances func(newTrace *trace.Trace, all trace.Set) []*Instance

	// CreateAtomMonitor builds the atom monitor that evaluates inst's
	// next subgoal once inst has transitioned into state.
	CreateAtomMonitor func(state State, inst *Instance) *atom.Monitor[*Instance]
}
