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

// Package table formats rows of text into an aligned table for human
// consumption. The schema generator uses it for its summaries of inferred
// types and unions.
package table

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ebay/graphschema/util/cmp"
	"golang.org/x/text/unicode/norm"
)

// Options represents different ways to control how the table is generated.
type Options int

const (
	// HeaderRow formats the first row as a header, followed by a divider.
	HeaderRow Options = 1 << iota
	// SkipEmpty writes nothing when the table has no rows besides the header.
	SkipEmpty
	// RightJustify pads every cell on the left rather than the right.
	RightJustify
	// NumericRight right justifies only those columns whose body cells all
	// hold numbers (digits, optionally with separators). Other columns stay
	// left justified.
	NumericRight
)

func (o Options) has(flag Options) bool {
	return o&flag != 0
}

// PrettyPrint writes 't' as a formatted table to 'dest'. Cells may span
// multiple lines using \n. Rows shorter than the first row are padded with
// empty cells.
func PrettyPrint(dest io.Writer, t [][]string, opts Options) {
	if len(t) == 0 {
		return
	}
	if opts.has(SkipEmpty) && opts.has(HeaderRow) && len(t) == 1 {
		return
	}
	numCols := 0
	for _, row := range t {
		numCols = cmp.MaxInt(numCols, len(row))
	}
	cells := make([][][]string, len(t))
	widths := make([]int, numCols)
	for r, row := range t {
		cells[r] = make([][]string, numCols)
		for c := 0; c < numCols; c++ {
			text := ""
			if c < len(row) {
				text = row[c]
			}
			lines := strings.Split(text, "\n")
			cells[r][c] = lines
			for _, l := range lines {
				widths[c] = cmp.MaxInt(widths[c], charsWide(l))
			}
		}
	}
	right := make([]bool, numCols)
	for c := range right {
		right[c] = opts.has(RightJustify) ||
			(opts.has(NumericRight) && numericColumn(t, c, opts.has(HeaderRow)))
	}

	w := bufio.NewWriterSize(dest, 256)
	defer w.Flush()
	for r := range cells {
		height := 0
		for c := range cells[r] {
			height = cmp.MaxInt(height, len(cells[r][c]))
		}
		for l := 0; l < height; l++ {
			for c := range cells[r] {
				line := ""
				if l < len(cells[r][c]) {
					line = cells[r][c][l]
				}
				pad := strings.Repeat(" ", widths[c]-charsWide(line))
				w.WriteByte(' ')
				if right[c] {
					w.WriteString(pad)
					w.WriteString(line)
				} else {
					w.WriteString(line)
					w.WriteString(pad)
				}
				w.WriteString(" |")
			}
			w.WriteByte('\n')
		}
		if r == 0 && opts.has(HeaderRow) {
			for c := range widths {
				w.WriteByte(' ')
				w.WriteString(strings.Repeat("-", widths[c]))
				w.WriteString(" |")
			}
			w.WriteByte('\n')
		}
	}
}

// numericColumn returns true if every body cell in column 'c' is a
// non-empty number. Header cells are ignored.
func numericColumn(t [][]string, c int, header bool) bool {
	start := 0
	if header {
		start = 1
	}
	if start >= len(t) {
		return false
	}
	for _, row := range t[start:] {
		if c >= len(row) || !isNumber(row[c]) {
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == ',' || r == '.' || r == '-':
		default:
			return false
		}
	}
	return true
}

// charsWide estimates how wide a string will be on a typical terminal. The
// problem is a bit harder than it appears thanks to Unicode combining marks.
func charsWide(s string) int {
	s = norm.NFC.String(s)
	return utf8.RuneCountInString(s)
}
