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

package cmd

import (
	"path/filepath"

	"laptudirm.com/x/antimaia/pkg/common"
	"laptudirm.com/x/antimaia/pkg/eve/batch"
	"laptudirm.com/x/antimaia/pkg/eve/player"
	"laptudirm.com/x/antimaia/pkg/eve/store"
)

// environment loads the environment and creates the data directories.
func environment() (*common.Environment, error) {
	env, err := common.LoadEnvironment()
	if err != nil {
		return nil, err
	}

	return env, common.MakeDirectories(env.DataDir)
}

func openStore(env *common.Environment) (*store.Store, error) {
	return store.Open(env.StoreDir())
}

// engines indexes the engines of a batch. Engines which don't name a
// stderr file log to the data directory.
func engines(env *common.Environment, config *batch.Config) (player.Engines, error) {
	configs := make([]player.Config, len(config.Engines))
	for i, engine := range config.Engines {
		if engine.Stderr == "" {
			engine.Stderr = filepath.Join(env.LogDir(), engine.Name+".log")
		}

		configs[i] = engine
	}

	return player.NewEngines(configs, env.Paths())
}
