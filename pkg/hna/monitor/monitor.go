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

// Package monitor defines the uniform lifecycle contract that both
// HNLMonitor and HNAMonitor implement: the producer-facing calls a
// trace-producer interface makes, plus the step-driven Runner interface
// the consumer loop drives.
package monitor

import "github.com/hna-project/hna-monitor/pkg/hna/event"

// Monitor is the trace-producer interface every monitor kind implements.
// newTrace(id) must precede any other call for that id; ids are unique
// and non-zero; ExtendTrace never arrives after TraceFinished.
type Monitor interface {
	NewTrace(id uint32)
	ExtendTrace(id uint32, ev event.Event)
	TraceFinished(id uint32)
	NoFutureUpdates()
	HasTrace(id uint32) bool
}

// Runner is driven by the consumer loop: repeatedly call Step until it
// returns a definite verdict.
type Runner interface {
	Step() event.Verdict
}
