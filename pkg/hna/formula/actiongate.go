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

package formula

import (
	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/hna"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

// ActionGate node types: every trace starts closed; the single "open"
// action event is the only valid transition, and it can only be taken
// once. Every other (node, action) combination is absent from the
// generated table, so ActionGate rejects any trace that tries to open
// twice or takes an action the gate does not recognize.
const (
	GateClosed hna.NodeType = iota
	GateOpen
)

// ActionOpen is the only action event ActionGate's transition table
// resolves.
const ActionOpen event.ActionType = 1

func actionGateNextNode(from hna.NodeType, action event.ActionType) (hna.NodeType, bool) {
	if from == GateClosed && action == ActionOpen {
		return GateOpen, true
	}
	return 0, false
}

// actionGateCreateSubMonitor runs the same reflexive identity check at
// every node: ActionGate's point is the slice-tree transition, not what
// each node's own sub-formula evaluates.
func actionGateCreateSubMonitor(nodeType hna.NodeType, traces *trace.TraceSet) hna.SubMonitor {
	return NewIdentityMonitor(traces)
}

// NewActionGateMonitor builds the HNAMonitor for the two-node ActionGate
// example: traces start at GateClosed, the single ActionOpen event moves
// a trace to GateOpen, and any other transition attempt is invalid and
// refutes the whole formula.
func NewActionGateMonitor() *hna.Monitor {
	return hna.NewMonitor(hna.TreeSpec{
		RootType:         GateClosed,
		NextNode:         actionGateNextNode,
		CreateSubMonitor: actionGateCreateSubMonitor,
	})
}
