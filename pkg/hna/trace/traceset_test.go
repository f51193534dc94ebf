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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hna-project/hna-monitor/pkg/hna/event"
)

func TestTraceSetNewTraceHandoff(t *testing.T) {
	ts := NewTraceSet()
	assert.Equal(t, 0, ts.Size())

	ts.NewTrace(1)
	assert.True(t, ts.HasTrace(1))
	assert.Equal(t, 1, ts.Size())

	tr, ok := ts.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint32(1), tr.ID())

	got, ok := ts.GetNewTrace()
	require.True(t, ok)
	assert.Same(t, tr, got)

	// Each trace is only handed off once.
	_, ok = ts.GetNewTrace()
	assert.False(t, ok)

	// The trace remains reachable via Get and HasTrace once accepted.
	assert.True(t, ts.HasTrace(1))
	_, ok = ts.Get(1)
	assert.True(t, ok)
}

func TestTraceSetDuplicateNewTracePanics(t *testing.T) {
	ts := NewTraceSet()
	ts.NewTrace(1)
	assert.Panics(t, func() { ts.NewTrace(1) })

	ts.GetNewTrace()
	assert.Panics(t, func() { ts.NewTrace(1) })
}

func TestTraceSetExtendAndFinishUnknownPanics(t *testing.T) {
	ts := NewTraceSet()
	assert.Panics(t, func() { ts.ExtendTrace(9, event.Event{}) })
	assert.Panics(t, func() { ts.TraceFinished(9) })
}

func TestTraceSetExtendAndFinish(t *testing.T) {
	ts := NewTraceSet()
	ts.NewTrace(1)
	ts.ExtendTrace(1, event.Event{In: 3})
	ts.TraceFinished(1)

	tr, ok := ts.Get(1)
	require.True(t, ok)
	assert.True(t, tr.Finished())
	assert.Equal(t, 1, tr.Size())
}

func TestTraceSetFinished(t *testing.T) {
	ts := NewTraceSet()
	assert.False(t, ts.Finished())

	ts.NoFutureUpdates()
	ts.NewTrace(1)
	// A pending new trace keeps the set from being Finished even after
	// NoFutureUpdates.
	assert.False(t, ts.Finished())

	ts.GetNewTrace()
	assert.True(t, ts.Finished())
}

func TestTraceSetConcurrentProducers(t *testing.T) {
	ts := NewTraceSet()
	var wg sync.WaitGroup
	for i := uint32(1); i <= 50; i++ {
		wg.Add(1)
		go func(id uint32) {
			defer wg.Done()
			ts.NewTrace(id)
			ts.ExtendTrace(id, event.Event{In: uint64(id)})
			ts.TraceFinished(id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, ts.Size())
	for i := uint32(1); i <= 50; i++ {
		assert.True(t, ts.HasTrace(i))
	}
}

func TestTraceSetAddRemoveView(t *testing.T) {
	ts := NewTraceSet()
	view := NewView(ts, nil)

	ts.NewTrace(1)
	assert.True(t, view.HasTrace(1))

	ts.RemoveView(view)
	ts.NewTrace(2)
	assert.False(t, view.HasTrace(2))
}

func TestTraceSetClose(t *testing.T) {
	ts := NewTraceSet()
	view := NewView(ts, nil)
	ts.Close()
	assert.True(t, view.Finished())
}
