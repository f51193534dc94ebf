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

package app

import "github.com/spf13/pflag"

// Options holds every flag hna-monitor accepts. Input files are
// positional arguments, not flags; one file is one trace, in the order
// given on the command line starting at trace id 1.
type Options struct {
	Formula         string
	LineFormat      string
	APsFile         string
	NoIgnoreUnknown bool
	MaxOpenFiles    int
	MetricsAddr     string
}

// NewOptions returns an Options populated with defaults.
func NewOptions() *Options {
	return &Options{
		Formula:      "identity",
		LineFormat:   "csv",
		MaxOpenFiles: 64,
	}
}

// AddFlags registers every Options field onto fs.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Formula, "formula", o.Formula,
		"Which worked formula example to evaluate: identity or action-gate.")
	fs.StringVar(&o.LineFormat, "line-format", o.LineFormat,
		"Input line format: csv (raw bit lists), signal (bit deltas), or aps (named atomic propositions).")
	fs.StringVar(&o.APsFile, "aps", o.APsFile,
		"Path to the atomic-proposition symbol table, required when --line-format=aps.")
	fs.BoolVar(&o.NoIgnoreUnknown, "no-ignore-unknown", o.NoIgnoreUnknown,
		"Treat an unrecognized atomic proposition name as a fatal input error instead of ignoring it.")
	fs.IntVar(&o.MaxOpenFiles, "max-open-files", o.MaxOpenFiles,
		"Maximum number of input files read concurrently.")
	fs.StringVar(&o.MetricsAddr, "metrics-addr", o.MetricsAddr,
		"If set, serve Prometheus run statistics on this address.")
}
