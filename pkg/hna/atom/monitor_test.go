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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

const (
	eqCompare State = iota
	eqDone
)

// equalSpec accepts once both traces have ended having agreed on every
// event, the same automaton the identity formula example wires in.
var equalSpec = Spec{
	Kind:    1,
	Initial: []EvaluationState{{State: eqCompare}},
	Transition: func(state State, r1, r2 ReadResult) []Successor {
		switch {
		case r1.Ended && r2.Ended:
			return []Successor{{State: eqDone}}
		case r1.Ended != r2.Ended:
			return nil
		case r1.Ev == r2.Ev:
			return []Successor{{State: eqCompare, AdvanceT1: true, AdvanceT2: true}}
		default:
			return nil
		}
	},
	Accepting: func(state State) bool { return state == eqDone },
}

func TestAtomMonitorAcceptsEqualTraces(t *testing.T) {
	t1 := trace.New(1)
	t2 := trace.New(2)
	m := New[int](equalSpec, t1, t2)

	t1.Append(event.Event{In: 5})
	t2.Append(event.Event{In: 5})

	assert.Equal(t, event.Unknown, m.Step())

	t1.SetFinished()
	t2.SetFinished()
	assert.Equal(t, event.True, m.Step())

	// Once decided, Step is a no-op returning the cached verdict.
	assert.Equal(t, event.True, m.Step())
}

func TestAtomMonitorRejectsDivergentTraces(t *testing.T) {
	t1 := trace.New(1)
	t2 := trace.New(2)
	m := New[int](equalSpec, t1, t2)

	t1.Append(event.Event{In: 1})
	t2.Append(event.Event{In: 2})
	t1.SetFinished()
	t2.SetFinished()

	assert.Equal(t, event.False, m.Step())
}

func TestAtomMonitorWaitsForPendingInput(t *testing.T) {
	t1 := trace.New(1)
	t2 := trace.New(2)
	m := New[int](equalSpec, t1, t2)

	// Neither trace has any events yet and neither is finished: the
	// monitor cannot decide.
	assert.Equal(t, event.Unknown, m.Step())
	assert.Equal(t, event.Unknown, m.Step())
}

func TestAtomMonitorUsedBy(t *testing.T) {
	t1 := trace.New(1)
	t2 := trace.New(2)
	m := New[string](equalSpec, t1, t2)

	m.SetUsedBy("a")
	m.SetUsedBy("b")
	assert.Equal(t, []string{"a", "b"}, m.UsedBy())
}

func TestAtomMonitorKindAndTraces(t *testing.T) {
	t1 := trace.New(1)
	t2 := trace.New(2)
	m := New[int](equalSpec, t1, t2)

	assert.Equal(t, 1, m.Kind())
	assert.Same(t, t1, m.T1())
	assert.Same(t, t2, m.T2())
}
