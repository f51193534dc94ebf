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

package csv

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/hna-project/hna-monitor/pkg/hna/event"
	"github.com/hna-project/hna-monitor/pkg/hna/monitor"
)

// Source names one input file and the trace id it feeds.
type Source struct {
	Path string
	ID   uint32
}

// Options configures Ingest.
type Options struct {
	// Decoder parses each non-blank line of every source file.
	Decoder LineDecoder
	// MaxOpenFiles bounds how many sources are read concurrently. Zero
	// means unbounded.
	MaxOpenFiles int
}

// Ingest drives mon with the events of every source, reading up to
// opts.MaxOpenFiles files concurrently, then calls mon.NoFutureUpdates
// once every source has been fully consumed. It calls mon.NewTrace
// before the first event of a source and mon.TraceFinished after its
// last line. A decode error in one file aborts that file's ingestion
// and is returned once every other file has also finished (or been
// aborted by ctx).
func Ingest(ctx context.Context, mon monitor.Monitor, sources []Source, opts Options) error {
	g, ctx := errgroup.WithContext(ctx)
	if opts.MaxOpenFiles > 0 {
		g.SetLimit(opts.MaxOpenFiles)
	}

	for _, src := range sources {
		src := src
		g.Go(func() error {
			return ingestOne(ctx, mon, src, opts.Decoder)
		})
	}

	err := g.Wait()
	mon.NoFutureUpdates()
	return err
}

func ingestOne(ctx context.Context, mon monitor.Monitor, src Source, decoder LineDecoder) error {
	f, err := os.Open(src.Path)
	if err != nil {
		return fmt.Errorf("csv: opening %s: %w", src.Path, err)
	}
	defer f.Close()

	glog.V(4).Infof("csv: trace %d reading from %s", src.ID, src.Path)
	mon.NewTrace(src.ID)

	var prev event.Event
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ev, err := decoder.Decode(line, prev)
		if err != nil {
			return fmt.Errorf("csv: %s:%d: %w", src.Path, lineNo, err)
		}
		mon.ExtendTrace(src.ID, ev)
		prev = ev
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("csv: reading %s: %w", src.Path, err)
	}

	mon.TraceFinished(src.ID)
	return nil
}
