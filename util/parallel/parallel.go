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

// Package parallel helps run work on other goroutines.
package parallel

import "sync"

// Go runs 'run' on a new goroutine. The returned function blocks until
// 'run' has returned; it may be called any number of times.
func Go(run func()) (wait func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		run()
	}()
	return func() {
		<-done
	}
}

// GoCaptureError is like Go, but the returned function also reports the
// error 'run' returned. Every call reports the same error.
func GoCaptureError(run func() error) (wait func() error) {
	var err error
	waitRun := Go(func() {
		err = run()
	})
	var once sync.Once
	return func() error {
		once.Do(waitRun)
		return err
	}
}
