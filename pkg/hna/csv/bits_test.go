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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBitList(t *testing.T) {
	for _, tc := range []struct {
		name    string
		in      string
		want    uint64
		wantErr bool
	}{
		{name: "empty", in: "", want: 0},
		{name: "whitespace only", in: "   ", want: 0},
		{name: "comma separated", in: "0,3,5", want: 1<<0 | 1<<3 | 1<<5},
		{name: "space separated", in: "1 2", want: 1<<1 | 1<<2},
		{name: "mixed separators", in: "0, 2  4", want: 1<<0 | 1<<2 | 1<<4},
		{name: "non-numeric", in: "abc", wantErr: true},
		{name: "negative index", in: "-1", wantErr: true},
		{name: "index out of range", in: "64", wantErr: true},
		{name: "largest valid index", in: "63", want: 1 << 63},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseBitList(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSplitNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitNames("a,b c"))
	assert.Empty(t, splitNames(""))
}

func TestSplitSides(t *testing.T) {
	left, right, err := splitSides("1,2;3,4")
	require.NoError(t, err)
	assert.Equal(t, "1,2", left)
	assert.Equal(t, "3,4", right)

	// A second semicolon belongs to the right side verbatim.
	left, right, err = splitSides("a;b;c")
	require.NoError(t, err)
	assert.Equal(t, "a", left)
	assert.Equal(t, "b;c", right)

	_, _, err = splitSides("no semicolon here")
	assert.Error(t, err)
}
