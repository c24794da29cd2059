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

package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const Permissions = 0o755

// Directory is the default location of antimaia's data.
var Directory = filepath.Join(xdg.DataHome, "antimaia")

// Directories used inside a data directory.
const (
	StoreDirectory = "records"
	LogDirectory   = "logs"
)

// MakeDirectories creates the data directory and its subdirectories.
func MakeDirectories(dir string) error {
	for _, sub := range []string{StoreDirectory, LogDirectory} {
		if err := os.MkdirAll(filepath.Join(dir, sub), Permissions); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	return nil
}
