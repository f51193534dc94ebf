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

// Package hna implements the slice tree and HNAMonitor: a tree of HNL
// sub-monitors, one per node type, that a trace moves through as it
// crosses action events, plus the top-level monitor that routes a trace
// pool through that tree.
package hna

import (
	"sync"

	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/monitor"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

// NodeType identifies one shape of sub-monitor a generated slice tree can
// hold. The meaning of a NodeType value is entirely generator-defined.
type NodeType int32

// SubMonitor is the interface a slice tree node's sub-monitor must
// satisfy. *hnl.Monitor implements it directly.
type SubMonitor interface {
	monitor.Runner
	HasTrace(id uint32) bool
}

// Node is one node of the slice tree: a sub-monitor plus the trace set
// that feeds it. Each node owns an independent TraceSet; a trace that
// crosses into a node starts fresh there, finished in its previous node
// and newly registered in this one.
type Node struct {
	Type   NodeType
	Sub    SubMonitor
	traces *trace.TraceSet
}

// TreeSpec is the generated, compile-time-bound definition of one slice
// tree: its root node type, the transition table deciding which node
// type an action event moves a trace into, and how to build the
// sub-monitor for a node of a given type.
type TreeSpec struct {
	RootType NodeType

	// NextNode returns the node type that follows from a node of type
	// from on the given action, or ok=false if the generated transition
	// table has no such cell (an invalid transition).
	NextNode func(from NodeType, action event.ActionType) (next NodeType, ok bool)

	// CreateSubMonitor builds a fresh sub-monitor of the given node type
	// backed by traces.
	CreateSubMonitor func(nodeType NodeType, traces *trace.TraceSet) SubMonitor
}

// SliceTree holds every node created so far plus the edges discovered
// between them. Nodes are created lazily, the first time a trace takes
// an action event the tree has not yet resolved a successor for.
//
// edges is read and written only by the producer thread, through
// GetSuccessor and AddSlice. nodes is read and written only by the
// consumer thread, through Nodes and EnsureNodes. newNodes is the
// handoff between the two and is guarded by mu.
type SliceTree struct {
	spec TreeSpec
	root *Node

	nodes []*Node
	edges map[*Node]map[event.ActionType]*Node

	mu       sync.Mutex
	newNodes []*Node
}

// NewSliceTree creates a slice tree with a single root node of the
// spec's root type, already visible to Nodes().
func NewSliceTree(spec TreeSpec) *SliceTree {
	t := &SliceTree{
		spec:  spec,
		edges: make(map[*Node]map[event.ActionType]*Node),
	}
	t.root = t.newNode(spec.RootType)
	t.nodes = append(t.nodes, t.root)
	return t
}

func (t *SliceTree) newNode(nt NodeType) *Node {
	ts := trace.NewTraceSet()
	n := &Node{Type: nt, traces: ts}
	n.Sub = t.spec.CreateSubMonitor(nt, ts)
	return n
}

// Root returns the tree's root node.
func (t *SliceTree) Root() *Node {
	return t.root
}

// GetSuccessor looks up an already-resolved edge from node on action.
func (t *SliceTree) GetSuccessor(node *Node, action event.ActionType) (*Node, bool) {
	byAction, ok := t.edges[node]
	if !ok {
		return nil, false
	}
	n, ok := byAction[action]
	return n, ok
}

// AddSlice resolves the generated transition table for (node.Type,
// action). If the table names a next node type, AddSlice creates that
// node, records the edge, and stages the node for EnsureNodes. If the
// table has no cell for this combination, AddSlice returns ok=false: the
// transition is invalid and the caller must treat the whole formula as
// refuted.
func (t *SliceTree) AddSlice(node *Node, action event.ActionType) (*Node, bool) {
	nextType, ok := t.spec.NextNode(node.Type, action)
	if !ok {
		return nil, false
	}

	next := t.newNode(nextType)
	if t.edges[node] == nil {
		t.edges[node] = make(map[event.ActionType]*Node)
	}
	t.edges[node][action] = next

	t.mu.Lock()
	t.newNodes = append(t.newNodes, next)
	t.mu.Unlock()

	return next, true
}

// EnsureNodes moves every node staged since the last call into the live
// node list the consumer thread iterates.
func (t *SliceTree) EnsureNodes() {
	t.mu.Lock()
	staged := t.newNodes
	t.newNodes = nil
	t.mu.Unlock()

	if len(staged) > 0 {
		t.nodes = append(t.nodes, staged...)
	}
}

// Nodes returns every node created so far. Callers must call EnsureNodes
// first to observe nodes staged by AddSlice.
func (t *SliceTree) Nodes() []*Node {
	return t.nodes
}
