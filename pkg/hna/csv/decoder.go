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
	"fmt"

	"github.com/golang/glog"

	"github.com/hna-project/hna-monitor/pkg/hna/event"
)

// LineDecoder turns one non-blank input line into an Event. prev is the
// previously decoded event for the same trace (the zero Event for the
// first line), which the signal format needs to compute a delta.
type LineDecoder interface {
	Decode(line string, prev event.Event) (event.Event, error)
}

// RawDecoder implements the default `--line-format=csv`: each side of
// the ';' is a comma/space-separated list of the bit indices that are
// set on that side, forming the full event directly.
type RawDecoder struct{}

func (RawDecoder) Decode(line string, _ event.Event) (event.Event, error) {
	inSide, outSide, err := splitSides(line)
	if err != nil {
		return event.Event{}, err
	}
	in, err := ParseBitList(inSide)
	if err != nil {
		return event.Event{}, err
	}
	out, err := ParseBitList(outSide)
	if err != nil {
		return event.Event{}, err
	}
	return event.Event{In: in, Out: out}, nil
}

// SignalDecoder implements `--line-format=signal`: each side of the ';' lists the
// bit indices that toggle relative to the previous line, rather than
// the bits that are set.
type SignalDecoder struct{}

func (SignalDecoder) Decode(line string, prev event.Event) (event.Event, error) {
	inSide, outSide, err := splitSides(line)
	if err != nil {
		return event.Event{}, err
	}
	inDelta, err := ParseBitList(inSide)
	if err != nil {
		return event.Event{}, err
	}
	outDelta, err := ParseBitList(outSide)
	if err != nil {
		return event.Event{}, err
	}
	return event.Event{In: prev.In ^ inDelta, Out: prev.Out ^ outDelta}, nil
}

// APSymbol names one bit of one side of an event.
type APSymbol struct {
	Out bool // false selects the In side, true selects the Out side
	Bit uint
}

// SymbolTable resolves atomic proposition names for APDecoder.
type SymbolTable map[string]APSymbol

// APDecoder implements `--line-format=aps`: each side of the ';' is a comma/space
// separated list of atomic proposition names that are true on that
// line; Symbols resolves each name to the bit it controls. Unrecognized
// names are ignored unless NoIgnoreUnknown is set, in which case they
// are a fatal input error, matching --no-ignore-unknown.
type APDecoder struct {
	Symbols         SymbolTable
	NoIgnoreUnknown bool
}

func (d APDecoder) Decode(line string, _ event.Event) (event.Event, error) {
	inSide, outSide, err := splitSides(line)
	if err != nil {
		return event.Event{}, err
	}
	var ev event.Event
	if err := d.applyNames(inSide, &ev); err != nil {
		return event.Event{}, err
	}
	if err := d.applyNames(outSide, &ev); err != nil {
		return event.Event{}, err
	}
	return ev, nil
}

func (d APDecoder) applyNames(side string, ev *event.Event) error {
	for _, name := range splitNames(side) {
		sym, ok := d.Symbols[name]
		if !ok {
			if d.NoIgnoreUnknown {
				return fmt.Errorf("csv: unknown atomic proposition %q", name)
			}
			glog.V(2).Infof("csv: ignoring unknown atomic proposition %q", name)
			continue
		}
		if sym.Out {
			ev.Out |= 1 << sym.Bit
		} else {
			ev.In |= 1 << sym.Bit
		}
	}
	return nil
}
