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

package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	utilerrors "github.com/ebay/graphschema/util/errors"
)

var (
	errNull     = errors.New("configuration is null")
	errTrailing = errors.New("unexpected data after configuration")
)

// Decode reads a single configuration JSON value from 'r'. Unknown fields,
// a null value, and trailing data are errors. The result is validated.
func Decode(r io.Reader) (*Schemagen, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	cfg := new(Schemagen)
	// Decoding into **Schemagen is what reveals a literal null.
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errNull
	}
	if decoder.More() {
		return nil, errTrailing
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads and validates the configuration in the given JSON file. Errors
// include the filename.
func Load(filename string) (*Schemagen, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %v: %w", filename, err)
	}
	return cfg, nil
}

// Write stores the configuration as indented JSON, replacing 'filename' if
// it exists. Errors include the filename.
func Write(cfg *Schemagen, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	writer := bufio.NewWriter(f)
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "\t")
	err = utilerrors.Any(
		encoder.Encode(cfg),
		writer.Flush(),
		f.Close(),
	)
	if err != nil {
		return fmt.Errorf("failed to write %v: %w", filename, err)
	}
	return nil
}
