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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/monitor"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

const (
	nodeClosed NodeType = iota
	nodeOpen
)

const actionOpen event.ActionType = 1

type stubSub struct{}

func (stubSub) Step() event.Verdict  { return event.Unknown }
func (stubSub) HasTrace(uint32) bool { return false }

var _ monitor.Runner = stubSub{}
var _ SubMonitor = stubSub{}

func twoNodeSpec() TreeSpec {
	return TreeSpec{
		RootType: nodeClosed,
		NextNode: func(from NodeType, action event.ActionType) (NodeType, bool) {
			if from == nodeClosed && action == actionOpen {
				return nodeOpen, true
			}
			return 0, false
		},
		CreateSubMonitor: func(NodeType, *trace.TraceSet) SubMonitor {
			return stubSub{}
		},
	}
}

func TestNewSliceTreeHasVisibleRoot(t *testing.T) {
	tree := NewSliceTree(twoNodeSpec())
	require.NotNil(t, tree.Root())
	assert.Equal(t, nodeClosed, tree.Root().Type)
	assert.Equal(t, []*Node{tree.Root()}, tree.Nodes())
}

func TestAddSliceCreatesAndCachesEdge(t *testing.T) {
	tree := NewSliceTree(twoNodeSpec())
	root := tree.Root()

	next, ok := tree.AddSlice(root, actionOpen)
	require.True(t, ok)
	assert.Equal(t, nodeOpen, next.Type)

	// The new node is staged, not yet visible, until EnsureNodes runs.
	assert.Len(t, tree.Nodes(), 1)
	tree.EnsureNodes()
	assert.Len(t, tree.Nodes(), 2)

	got, ok := tree.GetSuccessor(root, actionOpen)
	require.True(t, ok)
	assert.Same(t, next, got)
}

func TestAddSliceInvalidTransition(t *testing.T) {
	tree := NewSliceTree(twoNodeSpec())
	root := tree.Root()

	_, ok := tree.GetSuccessor(root, event.ActionType(99))
	assert.False(t, ok)

	_, ok = tree.AddSlice(root, event.ActionType(99))
	assert.False(t, ok)
}

func TestEnsureNodesDrainsOncePerCall(t *testing.T) {
	tree := NewSliceTree(twoNodeSpec())
	root := tree.Root()
	tree.AddSlice(root, actionOpen)

	tree.EnsureNodes()
	assert.Len(t, tree.Nodes(), 2)

	// A second call with nothing newly staged is a no-op.
	tree.EnsureNodes()
	assert.Len(t, tree.Nodes(), 2)
}
