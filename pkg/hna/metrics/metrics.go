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

// Package metrics exports run statistics for a long-running monitor
// process via Prometheus, mirroring the gauge/counter registration
// pattern pkg/sidecar uses for its own health metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stats is the subset of run statistics every monitor kind reports.
type Stats struct {
	NumHNLMonitors int
	NumInstances   int
	NumAtoms       int
}

// Collector publishes one monitor run's statistics as Prometheus gauges.
type Collector struct {
	numHNLMonitors prometheus.Gauge
	numInstances   prometheus.Gauge
	numAtoms       prometheus.Gauge
}

// NewCollector creates a Collector and registers its gauges with
// registry.
func NewCollector(registry prometheus.Registerer) *Collector {
	c := &Collector{
		numHNLMonitors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hna",
			Name:      "hnl_monitors",
			Help:      "Number of HNL sub-monitors created by the current run.",
		}),
		numInstances: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hna",
			Name:      "instances_created",
			Help:      "Number of HNLInstances ever created by the current run.",
		}),
		numAtoms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hna",
			Name:      "atom_monitors_created",
			Help:      "Number of AtomMonitors ever created by the current run.",
		}),
	}
	registry.MustRegister(c.numHNLMonitors, c.numInstances, c.numAtoms)
	return c
}

// Set publishes the latest statistics snapshot.
func (c *Collector) Set(s Stats) {
	c.numHNLMonitors.Set(float64(s.NumHNLMonitors))
	c.numInstances.Set(float64(s.NumInstances))
	c.numAtoms.Set(float64(s.NumAtoms))
}

// Handler returns the HTTP handler the CLI mounts at --metrics-addr.
func Handler() http.Handler {
	return promhttp.Handler()
}
