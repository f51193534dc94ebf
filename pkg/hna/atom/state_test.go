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
)

func TestEvaluationStateSetAddNextDedupesByPriority(t *testing.T) {
	var s evaluationStateSet
	s.addNext(EvaluationState{State: 1, P1: 0, P2: 0, Priority: 1})
	s.addNext(EvaluationState{State: 1, P1: 0, P2: 0, Priority: 5})
	s.addNext(EvaluationState{State: 1, P1: 0, P2: 0, Priority: 2})

	assert.Len(t, s.next, 1)
	assert.Equal(t, Priority(5), s.next[0].Priority)
}

func TestEvaluationStateSetAddNextKeepsDistinctConfigurations(t *testing.T) {
	var s evaluationStateSet
	s.addNext(EvaluationState{State: 1, P1: 0, P2: 0})
	s.addNext(EvaluationState{State: 2, P1: 0, P2: 0})
	s.addNext(EvaluationState{State: 1, P1: 1, P2: 0})

	assert.Len(t, s.next, 3)
}

func TestEvaluationStateSetRotate(t *testing.T) {
	var s evaluationStateSet
	s.addNext(EvaluationState{State: 1})
	s.rotate()

	assert.Equal(t, []EvaluationState{{State: 1}}, s.live)
	assert.Empty(t, s.next)

	s.addNext(EvaluationState{State: 2})
	s.rotate()
	assert.Equal(t, []EvaluationState{{State: 2}}, s.live)
}
