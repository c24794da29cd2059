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
	"path/filepath"

	"github.com/kelseyhightower/envconfig"

	"laptudirm.com/x/antimaia/pkg/eve/player"
)

// EnvPrefix is the prefix of antimaia's environment variables.
const EnvPrefix = "antimaia"

// Environment holds the settings taken from environment variables.
type Environment struct {
	Lc0Path       string `envconfig:"LC0_PATH" default:"lc0"`
	StockfishPath string `envconfig:"STOCKFISH_PATH" default:"stockfish"`
	WeightsDir    string `envconfig:"WEIGHTS_DIR"`
	DataDir       string `envconfig:"DATA_DIR"`
}

// LoadEnvironment reads the ANTIMAIA_* environment variables.
func LoadEnvironment() (*Environment, error) {
	var env Environment
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, err
	}

	if env.DataDir == "" {
		env.DataDir = Directory
	}

	if env.WeightsDir == "" {
		env.WeightsDir = filepath.Join(env.DataDir, "weights")
	}

	return &env, nil
}

// Paths returns the engine locations to fall back on.
func (env *Environment) Paths() player.Paths {
	return player.Paths{
		Lc0:       env.Lc0Path,
		Stockfish: env.StockfishPath,
		Weights:   env.WeightsDir,
	}
}

// StoreDir returns the directory of the record database.
func (env *Environment) StoreDir() string {
	return filepath.Join(env.DataDir, StoreDirectory)
}

// LogDir returns the directory engine stderr logs are written to.
func (env *Environment) LogDir() string {
	return filepath.Join(env.DataDir, LogDirectory)
}
