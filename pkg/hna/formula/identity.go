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

// Package formula ships worked examples of the generated code an HNL or
// HNA formula compiles down to: the Spec/TreeSpec structs the engine
// packages expect, filled in by hand instead of by a code generator.
package formula

import (
	"github.com/hna-project/hna-monitor/pkg/hna/atom"
	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/hnl"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

// identity atom states: compare corresponding events of the two traces
// one by one, accept once both sides have ended in lockstep.
const (
	reflexiveCompare atom.State = iota
	reflexiveDone
)

// reflexiveAtomSpec evaluates "the two traces agree on every event",
// which is trivially true whenever both sides of the pair are, in fact,
// the same trace, and used to wire the `id(t) = t` formula.
var reflexiveAtomSpec = atom.Spec{
	Kind:    0,
	Initial: []atom.EvaluationState{{State: reflexiveCompare}},
	Transition: func(state atom.State, r1, r2 atom.ReadResult) []atom.Successor {
		switch {
		case r1.Ended && r2.Ended:
			return []atom.Successor{{State: reflexiveDone}}
		case r1.Ended != r2.Ended:
			return nil
		case r1.Ev == r2.Ev:
			return []atom.Successor{{State: reflexiveCompare, AdvanceT1: true, AdvanceT2: true}}
		default:
			return nil
		}
	},
	Accepting: func(state atom.State) bool {
		return state == reflexiveDone
	},
}

// identity HNL states: a single state. When its atom accepts, the
// instance is retired; when its atom rejects, the formula is FALSE.
const identityS0 hnl.State = 0

var identitySpec = hnl.Spec{
	BDD: hnl.NewBDD(map[hnl.State][2]hnl.Action{
		identityS0: {hnl.ResultTrue, hnl.ResultFalse},
	}),
	InitialState: identityS0,
	CreateInstances: func(t *trace.Trace, all trace.Set) []*hnl.Instance {
		return []*hnl.Instance{{Traces: []*trace.Trace{t}}}
	},
	CreateAtomMonitor: func(state hnl.State, inst *hnl.Instance) *atom.Monitor[*hnl.Instance] {
		t := inst.Traces[0]
		return atom.New[*hnl.Instance](reflexiveAtomSpec, t, t)
	},
}

// NewIdentityMonitor builds the HNLMonitor for `forall t. id(t) = t`:
// every trace trivially satisfies the formula once it finishes, so the
// monitor reports TRUE once the trace set itself is finished and every
// instance has been retired.
func NewIdentityMonitor(set *trace.TraceSet) *hnl.Monitor {
	return hnl.NewMonitor(set, identitySpec)
}
