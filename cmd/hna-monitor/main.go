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

package main

import (
	"context"
	goflag "flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/pflag"

	"github.com/hna-project/hna-monitor/cmd/hna-monitor/app"
)

func main() {
	opts := app.NewOptions()
	opts.AddFlags(pflag.CommandLine)
	pflag.Parse()

	// Convinces goflags that we have called Parse() to avoid noisy logs.
	goflag.CommandLine.Parse([]string{})
	defer glog.Flush()

	inputFiles := pflag.Args()
	if len(inputFiles) == 0 {
		glog.Exitf("hna-monitor: at least one input file is required")
	}

	server := app.NewServer(opts, inputFiles)
	verdict, err := server.Run(context.Background())
	if err != nil {
		glog.Errorf("hna-monitor: %v", err)
		os.Exit(2)
	}

	os.Exit(verdict.ExitCode())
}
