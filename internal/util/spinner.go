// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/sirupsen/logrus"
)

// SPIN is the spinner's character set.
const SPIN = 31

// Spin runs fn while showing a spinner with the given message. The
// spinner is left out when debug logging is enabled, since the logged
// engine traffic would garble it.
func Spin(message string, fn func() error) error {
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debug(message)
		return fn()
	}

	s := spinner.New(spinner.CharSets[SPIN], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	// Pre-run stuff
	fmt.Fprint(os.Stderr, "\x1b[33m") // Make the outputs yellow.
	s.Start()                         // Start the ~working~ spinner.

	err := fn()

	// Post-run stuff
	s.Stop()                         // Stop the ~working~ spinner.
	fmt.Fprint(os.Stderr, "\x1b[0m") // Reset the terminal's color.

	return err
}
