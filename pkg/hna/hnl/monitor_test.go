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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hna-project/hna-monitor/pkg/hna/atom"
	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

const (
	testStateLive atom.State = iota
	testStateAccept
)

var acceptImmediatelySpec = atom.Spec{
	Kind:       0,
	Initial:    []atom.EvaluationState{{State: testStateAccept}},
	Transition: func(atom.State, atom.ReadResult, atom.ReadResult) []atom.Successor { return nil },
	Accepting:  func(s atom.State) bool { return s == testStateAccept },
}

var neverAcceptSpec = atom.Spec{
	Kind:       1,
	Initial:    []atom.EvaluationState{{State: testStateLive}},
	Transition: func(atom.State, atom.ReadResult, atom.ReadResult) []atom.Successor { return nil },
	Accepting:  func(atom.State) bool { return false },
}

func singleTraceInstances(t *trace.Trace, _ trace.Set) []*Instance {
	return []*Instance{{Traces: []*trace.Trace{t}}}
}

func specWithAtom(spec atom.Spec) Spec {
	return Spec{
		BDD: NewBDD(map[State][2]Action{
			0: {ResultTrue, ResultFalse},
		}),
		InitialState:    0,
		CreateInstances: singleTraceInstances,
		CreateAtomMonitor: func(_ State, inst *Instance) *atom.Monitor[*Instance] {
			tr := inst.Traces[0]
			return atom.New[*Instance](spec, tr, tr)
		},
	}
}

func TestMonitorResolvesTrueOnceTracesFinished(t *testing.T) {
	set := trace.NewTraceSet()
	mon := NewMonitor(set, specWithAtom(acceptImmediatelySpec))

	set.NewTrace(1)
	set.NoFutureUpdates()

	assert.Equal(t, event.True, mon.Step())
	assert.Equal(t, 1, mon.Stats.NumInstances)
	assert.Equal(t, 1, mon.Stats.NumAtoms)

	// Once decided, further Step calls return the cached result.
	assert.Equal(t, event.True, mon.Step())
}

func TestMonitorResolvesFalseOnceAtomRefutes(t *testing.T) {
	set := trace.NewTraceSet()
	mon := NewMonitor(set, specWithAtom(neverAcceptSpec))

	set.NewTrace(1)
	assert.Equal(t, event.Unknown, mon.Step())

	set.TraceFinished(1)
	assert.Equal(t, event.False, mon.Step())
}

func TestMonitorStaysUnknownWhileTracesPending(t *testing.T) {
	set := trace.NewTraceSet()
	mon := NewMonitor(set, specWithAtom(acceptImmediatelySpec))

	// No trace has arrived yet, and NoFutureUpdates has not been called.
	assert.Equal(t, event.Unknown, mon.Step())
}

func TestMonitorHasTraceDelegates(t *testing.T) {
	set := trace.NewTraceSet()
	mon := NewMonitor(set, specWithAtom(acceptImmediatelySpec))

	assert.False(t, mon.HasTrace(1))
	set.NewTrace(1)
	assert.True(t, mon.HasTrace(1))
}

func TestMonitorOverViewReadsThroughView(t *testing.T) {
	set := trace.NewTraceSet()
	producer := NewMonitor(set, specWithAtom(acceptImmediatelySpec))
	require.NotNil(t, producer)

	view := trace.NewView(set, nil)
	sub := NewMonitorOverView(view, specWithAtom(acceptImmediatelySpec))

	set.NewTrace(1)
	assert.True(t, sub.HasTrace(1))

	// A view becomes Finished once its base set is destroyed, not via
	// the base's own NoFutureUpdates.
	set.Close()
	assert.Equal(t, event.True, sub.Step())
}
