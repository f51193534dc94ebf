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

// Package app wires the hna-monitor CLI: flag parsing, input file
// discovery, the worked formula examples, and the CSV-driven run loop,
// the way cmd/kube-dns/app wires the DNS server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hna-project/hna-monitor/pkg/hna/csv"
	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/formula"
	"github.com/hna-project/hna-monitor/pkg/hna/metrics"
	"github.com/hna-project/hna-monitor/pkg/hna/monitor"
	"github.com/hna-project/hna-monitor/pkg/hna/trace"
)

// Server owns one monitor run over a fixed set of input files.
type Server struct {
	opts       *Options
	inputFiles []string
	runID      string
}

// NewServer creates a Server that will evaluate opts.Formula against
// inputFiles, one trace per file in the given order starting at id 1.
func NewServer(opts *Options, inputFiles []string) *Server {
	return &Server{
		opts:       opts,
		inputFiles: inputFiles,
		runID:      uuid.NewString(),
	}
}

// Run drives the configured formula to a verdict and returns it. It
// blocks until the monitor reaches TRUE or FALSE, or until ctx is done,
// in which case it returns Unknown and ctx's error. Consuming every input
// file without a definite verdict does not end the run.
func (s *Server) Run(ctx context.Context) (event.Verdict, error) {
	glog.V(0).Infof("hna-monitor: run %s starting, formula=%s files=%d", s.runID, s.opts.Formula, len(s.inputFiles))

	decoder, err := s.buildDecoder()
	if err != nil {
		return event.Unknown, err
	}

	mon, runner, statsFn := s.buildMonitor()

	var collector *metrics.Collector
	if s.opts.MetricsAddr != "" {
		collector = metrics.NewCollector(prometheus.DefaultRegisterer)
		go s.serveMetrics()
	}

	sources := make([]csv.Source, len(s.inputFiles))
	for i, path := range s.inputFiles {
		sources[i] = csv.Source{Path: path, ID: uint32(i + 1)}
	}

	ingestErrCh := make(chan error, 1)
	go func() {
		ingestErrCh <- csv.Ingest(ctx, mon, sources, csv.Options{
			Decoder:      decoder,
			MaxOpenFiles: s.opts.MaxOpenFiles,
		})
	}()

	verdict := event.Unknown
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()

	for verdict == event.Unknown {
		select {
		case <-ctx.Done():
			return event.Unknown, ctx.Err()
		case <-ticker.C:
			verdict = runner.Step()
			if collector != nil {
				collector.Set(statsFn())
			}
		}
	}

	if err := <-ingestErrCh; err != nil {
		glog.Errorf("hna-monitor: run %s: input error after reaching a verdict: %v", s.runID, err)
	}

	stats := statsFn()
	glog.V(0).Infof("hna-monitor: run %s verdict=%s num_hnl_monitors=%d num_instances=%d num_atoms=%d",
		s.runID, verdict, stats.NumHNLMonitors, stats.NumInstances, stats.NumAtoms)

	return verdict, nil
}

func (s *Server) buildDecoder() (csv.LineDecoder, error) {
	switch s.opts.LineFormat {
	case "csv", "":
		return csv.RawDecoder{}, nil
	case "signal":
		return csv.SignalDecoder{}, nil
	case "aps":
		if s.opts.APsFile == "" {
			return nil, fmt.Errorf("--line-format=aps requires --aps=<symbol-table-file>")
		}
		table, err := LoadSymbolTable(s.opts.APsFile)
		if err != nil {
			return nil, err
		}
		return csv.APDecoder{Symbols: table, NoIgnoreUnknown: s.opts.NoIgnoreUnknown}, nil
	default:
		return nil, fmt.Errorf("unknown --line-format %q", s.opts.LineFormat)
	}
}

// buildMonitor returns the producer-facing Monitor, the Step-driven
// Runner (the same value, typed separately to keep the call sites
// self-documenting), and a function returning the current run
// statistics in the common metrics.Stats shape.
func (s *Server) buildMonitor() (monitor.Monitor, monitor.Runner, func() metrics.Stats) {
	switch s.opts.Formula {
	case "action-gate":
		m := formula.NewActionGateMonitor()
		return m, m, func() metrics.Stats {
			return metrics.Stats{NumHNLMonitors: m.Stats.NumHNLMonitors}
		}
	default:
		set := trace.NewTraceSet()
		m := formula.NewIdentityMonitor(set)
		return m, m, func() metrics.Stats {
			return metrics.Stats{NumHNLMonitors: 1, NumInstances: m.Stats.NumInstances, NumAtoms: m.Stats.NumAtoms}
		}
	}
}

func (s *Server) serveMetrics() {
	glog.V(0).Infof("hna-monitor: serving metrics on %s", s.opts.MetricsAddr)
	if err := http.ListenAndServe(s.opts.MetricsAddr, metrics.Handler()); err != nil {
		glog.Errorf("hna-monitor: metrics server exited: %v", err)
	}
}
