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

package debuglog

import (
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func configured(t *testing.T, opts Options) (string, *logrus.Logger) {
	// Setenv restores the variable when the test ends.
	t.Setenv("CLICOLOR_FORCE", "")
	os.Unsetenv("CLICOLOR_FORCE")
	logger := logrus.New()
	var buf strings.Builder
	logger.Out = &buf
	opts.Logger = logger
	Configure(opts)
	return buf.String(), logger
}

func Test_Configure(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		out, logger := configured(t, Options{})
		assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
		for _, needle := range []string{
			" level=info ",
			` msg="Initialized Logrus"`,
			" verbose=false",
			` UTC"`,
			` file="util/debuglog/setup.go:`,
		} {
			assert.Contains(t, out, needle)
		}
	})
	t.Run("verbose", func(t *testing.T) {
		out, logger := configured(t, Options{Verbose: true})
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
		assert.Contains(t, out, " verbose=true")
	})
	t.Run("colors", func(t *testing.T) {
		out, _ := configured(t, Options{ForceColors: true})
		assert.Contains(t, out, "\x1b[36mINFO\x1b[0m")
	})
}

func Test_filenameHook(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	hook := newFilenameHook()
	logger := logrus.New()
	logger.SetReportCaller(true)
	for in, exp := range map[string]string{
		thisFile:            "util/debuglog/setup_test.go",
		"/elsewhere/main.go": "/elsewhere/main.go",
	} {
		entry := logrus.Entry{Logger: logger, Caller: &runtime.Frame{File: in}}
		assert.NoError(t, hook.Fire(&entry))
		assert.Equal(t, exp, entry.Caller.File)
	}
}
