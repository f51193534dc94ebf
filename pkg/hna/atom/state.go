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

// Package atom implements the AtomMonitor: a small NFA that advances
// positions in a pair of traces and yields a Verdict, driven by a
// generated transition function.
package atom

// State identifies a state of an atom's generated automaton.
type State int32

// Priority lets the generator express deterministic tie-breaks between
// successor configurations that collapse to the same (state, p1, p2).
type Priority uint16

// EvaluationState denotes "we have consumed P1 events of t1 and P2 events
// of t2 and the atom's automaton is in State".
type EvaluationState struct {
	State    State
	P1, P2   uint32
	Priority Priority
}

// evaluationStateSet holds the live configurations plus a staged buffer
// of successors being built up during one step, mirroring the
// EvaluationStateSet of the original implementation (double-buffering so
// that producing successors never invalidates the slice being iterated).
type evaluationStateSet struct {
	live []EvaluationState
	next []EvaluationState
}

// addNext stages a successor configuration. If a configuration with the
// same (State, P1, P2) is already staged, the higher-priority one wins;
// ties keep whichever was staged first.
func (s *evaluationStateSet) addNext(cfg EvaluationState) {
	for i := range s.next {
		existing := &s.next[i]
		if existing.State == cfg.State && existing.P1 == cfg.P1 && existing.P2 == cfg.P2 {
			if cfg.Priority > existing.Priority {
				*existing = cfg
			}
			return
		}
	}
	s.next = append(s.next, cfg)
}

// rotate makes the staged buffer the live set.
func (s *evaluationStateSet) rotate() {
	s.live, s.next = s.next, s.live[:0]
}
