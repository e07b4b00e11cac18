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

package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_PrettyPrint_utf8(t *testing.T) {
	assert := assert.New(t)
	var buf strings.Builder
	PrettyPrint(&buf, [][]string{
		{"Beyoncé"},
		{"A longer thing"},
	}, RightJustify)
	assert.Equal(`
        Beyoncé |
 A longer thing |
`, "\n"+buf.String())
}

func Test_PrettyPrintJustify(t *testing.T) {
	table := [][]string{
		{"type", "fields"},
		{"TypeA", "3"},
	}
	t.Run("Left", func(t *testing.T) {
		buf := strings.Builder{}
		PrettyPrint(&buf, table, HeaderRow)
		assert.Equal(t, `
 type  | fields |
 ----- | ------ |
 TypeA | 3      |
`, "\n"+buf.String())
	})
	t.Run("Right", func(t *testing.T) {
		buf := strings.Builder{}
		PrettyPrint(&buf, table, HeaderRow|RightJustify)
		assert.Equal(t, `
  type | fields |
 ----- | ------ |
 TypeA |      3 |
`, "\n"+buf.String())
	})
	t.Run("NumericRight", func(t *testing.T) {
		buf := strings.Builder{}
		PrettyPrint(&buf, table, HeaderRow|NumericRight)
		assert.Equal(t, `
 type  | fields |
 ----- | ------ |
 TypeA |      3 |
`, "\n"+buf.String())
	})
}

func Test_SkipEmpty(t *testing.T) {
	assert := assert.New(t)
	headers := [][]string{
		{"type", "fields"},
	}
	buf := strings.Builder{}
	PrettyPrint(&buf, headers, SkipEmpty|HeaderRow)
	assert.Equal("", buf.String())

	buf.Reset()
	PrettyPrint(&buf, headers, SkipEmpty)
	assert.Equal(" type | fields |\n", buf.String())

	buf.Reset()
	PrettyPrint(&buf, nil, 0)
	assert.Equal("", buf.String())
}

func Test_MultilineCell(t *testing.T) {
	assert := assert.New(t)
	table := [][]string{
		{"union", "members"},
		{"X_union_Y", "TypeX\nTypeY"},
		{"short"},
	}
	buf := strings.Builder{}
	PrettyPrint(&buf, table, HeaderRow)
	assert.Equal(`
 union     | members |
 --------- | ------- |
 X_union_Y | TypeX   |
           | TypeY   |
 short     |         |
`, "\n"+buf.String())
}

func Test_charsWide(t *testing.T) {
	assert := assert.New(t)
	tests := []struct {
		s string
		w int
	}{
		{"Aeyonce", 7},
		{"Ceyoncé", 7},
		{"Deyonce\u0301", 7},
	}
	for _, test := range tests {
		assert.Equal(test.w, charsWide(test.s), "Incorrect width for %#v", test.s)
	}
}

func Test_isNumber(t *testing.T) {
	assert.True(t, isNumber("1,234"))
	assert.True(t, isNumber("-3.5"))
	assert.False(t, isNumber(""))
	assert.False(t, isNumber("12a"))
}
