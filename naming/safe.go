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

package naming

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	ucode "github.com/ebay/graphschema/util/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var errNoLetters = errors.New("local name has no letters or digits")

// SafeName converts 's' into a valid GraphQL name. Accents are stripped,
// then every character outside [A-Za-z0-9_] becomes '_'. A leading digit is
// prefixed with '_', and a leading "__" (reserved for introspection) is
// prefixed with 'n'. A name with no ASCII letters or digits is spelled out
// from its code points instead, so "東京" becomes "u6771_4eac". It fails if
// 's' has no letters or digits at all.
func SafeName(s string) (string, error) {
	s = stripMarks(ucode.Normalize(s))
	var b strings.Builder
	sawAlnum := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sawAlnum = true
			b.WriteRune(r)
		case r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if !sawAlnum {
		return codePointName(s)
	}
	res := b.String()
	if res[0] >= '0' && res[0] <= '9' {
		res = "_" + res
	}
	if strings.HasPrefix(res, "__") {
		res = "n" + res
	}
	return res, nil
}

// codePointName names 's' by the hex code points of its letters and digits.
func codePointName(s string) (string, error) {
	var parts []string
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			parts = append(parts, strconv.FormatInt(int64(r), 16))
		}
	}
	if len(parts) == 0 {
		return "", errNoLetters
	}
	return "u" + strings.Join(parts, "_"), nil
}

// stripMarks removes combining marks, so "Beyoncé" becomes "Beyonce".
func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	res, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return res
}

// sanitizePrefix lowercases 'p' and drops characters not allowed in a
// prefix. It returns "" if the result does not start with a letter.
func sanitizePrefix(p string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(stripMarks(p)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	res := b.String()
	if res == "" || res[0] < 'a' || res[0] > 'z' {
		return ""
	}
	return res
}

// derivePrefix picks a prefix for a namespace nobody declared: the last
// path segment that yields a valid prefix, else a label of the host, else
// "ns".
func derivePrefix(namespace string) string {
	rest := namespace
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	} else if i := strings.IndexByte(rest, ':'); i >= 0 && i < len(rest)-1 {
		// urn:isbn: style; keep the part after the scheme
		rest = rest[i+1:]
	}
	segments := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '/' || r == '#' || r == ':' || r == '?' || r == '='
	})
	for i := len(segments) - 1; i >= 1; i-- {
		if p := sanitizePrefix(segments[i]); p != "" {
			return p
		}
	}
	if len(segments) > 0 {
		labels := strings.Split(segments[0], ".")
		for _, l := range labels {
			if l == "www" {
				continue
			}
			if p := sanitizePrefix(l); p != "" {
				return p
			}
		}
	}
	return "ns"
}
