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

// InputsArePrefix reports whether ref's sequence of input bitsets is a
// prefix of candidate's, i.e. candidate agrees with ref on every input up
// to ref's length. Both traces must already be finished; this mirrors
// inputsArePrefixes from the original sampling implementation this
// package's PartitionByInputPrefix is grounded on.
func InputsArePrefix(ref, candidate *Trace) bool {
	n := ref.Size()
	m := candidate.Size()
	if n > m {
		return false
	}
	for i := 0; i < n; i++ {
		refEv, q := ref.Get(i)
		if q != Available {
			panic("trace: finished trace reported non-available event")
		}
		candEv, q := candidate.Get(i)
		if q != Available {
			panic("trace: finished trace reported non-available event")
		}
		if refEv.In != candEv.In {
			return false
		}
	}
	return true
}

// PartitionByInputPrefix builds, for each finished trace in ts named by
// ids, a SharedTraceSet containing a copy of every finished trace in ts
// (the reference itself included) whose inputs begin with the reference
// trace's inputs, as InputsArePrefix(ref, candidate) decides. Every
// trace named by ids must already be finished.
func PartitionByInputPrefix(ts *TraceSet, ids []uint32) map[uint32]*SharedTraceSet {
	result := make(map[uint32]*SharedTraceSet, len(ids))

	refs := make([]*Trace, 0, len(ids))
	for _, id := range ids {
		ref, ok := ts.Get(id)
		if !ok {
			panic("trace: PartitionByInputPrefix: unknown trace id")
		}
		if !ref.Finished() {
			panic("trace: PartitionByInputPrefix: trace is not finished")
		}
		refs = append(refs, ref)
	}

	for i, id := range ids {
		ref := refs[i]
		shared := NewSharedTraceSet()

		ts.mu.Lock()
		candidates := make([]*Trace, 0, len(ts.accepted)+len(ts.newT))
		for _, t := range ts.accepted {
			candidates = append(candidates, t)
		}
		for _, t := range ts.newT {
			candidates = append(candidates, t)
		}
		ts.mu.Unlock()

		for _, cand := range candidates {
			if !cand.Finished() {
				continue
			}
			if InputsArePrefix(ref, cand) {
				copied := shared.NewTrace(cand.ID())
				cand.CopyTo(copied)
			}
		}

		result[id] = shared
	}

	return result
}
