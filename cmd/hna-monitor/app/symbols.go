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

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hna-project/hna-monitor/pkg/hna/csv"
)

// LoadSymbolTable reads an atomic-proposition symbol table for
// --line-format=aps: each non-blank line is "name side bit", where side
// is "in" or "out".
func LoadSymbolTable(path string) (csv.SymbolTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening symbol table %s: %w", path, err)
	}
	defer f.Close()

	table := csv.SymbolTable{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%s:%d: expected \"name in|out bit\", got %q", path, lineNo, line)
		}
		var out bool
		switch fields[1] {
		case "in":
			out = false
		case "out":
			out = true
		default:
			return nil, fmt.Errorf("%s:%d: side must be \"in\" or \"out\", got %q", path, lineNo, fields[1])
		}
		bit, err := strconv.Atoi(fields[2])
		if err != nil || bit < 0 || bit >= 64 {
			return nil, fmt.Errorf("%s:%d: invalid bit index %q", path, lineNo, fields[2])
		}
		table[fields[0]] = csv.APSymbol{Out: out, Bit: uint(bit)}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading symbol table %s: %w", path, err)
	}
	return table, nil
}
