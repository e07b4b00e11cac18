// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package graphviz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_FiletypeOf(t *testing.T) {
	tests := []struct {
		name   string
		expect Filetype
	}{
		{"types.dot", Dot},
		{"types.gv", Dot},
		{"out/TYPES.PDF", PDF},
		{"a.b.png", PNG},
		{"x.svg", SVG},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ft, err := FiletypeOf(test.name)
			assert.NoError(t, err)
			assert.Equal(t, test.expect, ft)
		})
	}
	_, err := FiletypeOf("noextension")
	assert.EqualError(t, err, "could not determine filetype from filename: noextension")
}

func Test_CreateDot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "types.dot")
	err := Create(filename, func(w io.Writer) {
		fmt.Fprintln(w, "digraph { A -> B }")
	}, Options{})
	require.NoError(t, err)
	contents, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "digraph { A -> B }\n", string(contents))
}
