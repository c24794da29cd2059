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

package player

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// Types of players.
const (
	TypeMaia      = "maia"
	TypeStockfish = "stockfish"
	TypeAntimaia  = "antimaia"
)

// Defaults for engine configurations.
const (
	DefaultDepth    = 10
	DefaultThreads  = 2
	DefaultHash     = 32
	DefaultParallel = 1
)

type Config struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`

	// Engine binary and extra arguments for maia and stockfish players.
	Cmd    string `yaml:"cmd"`
	Arg    string `yaml:"arg"`
	Dir    string `yaml:"dir"`
	Stderr string `yaml:"stderr"`

	// Time allowed for the uci handshake.
	Timeout time.Duration `yaml:"timeout"`

	// Maia network: either a weights file or a rating whose network is
	// looked up in the weights directory.
	Weights string `yaml:"weights"`
	Rating  int    `yaml:"rating"`

	// Sample from Maia's distribution instead of playing its top move.
	Sample *bool `yaml:"sample"`

	// Stockfish search settings.
	Depth   int `yaml:"depth"`
	Threads int `yaml:"threads"`
	Hash    int `yaml:"hash"`

	// Names of the engines an antimaia player is composed of.
	Maia      string `yaml:"maia"`
	Stockfish string `yaml:"stockfish"`

	// Number of own moves and opponent replies considered by antimaia,
	// taken from the top of Maia's distributions. Zero means all.
	Candidates int `yaml:"candidates"`
	Replies    int `yaml:"replies"`

	// Number of concurrent Maia and Stockfish sessions used by antimaia.
	Parallel int `yaml:"parallel"`

	MateWeight int `yaml:"mate-weight"`
}

// Paths are the locations used for engine settings left out of a
// configuration.
type Paths struct {
	Lc0       string
	Stockfish string
	Weights   string
}

// ApplyDefaults fills in unset fields of the configuration.
func (config *Config) ApplyDefaults(paths Paths) {
	switch config.Type {
	case TypeMaia:
		if config.Cmd == "" {
			config.Cmd = paths.Lc0
		}

		if config.Weights == "" && config.Rating > 0 {
			config.Weights = fmt.Sprintf("maia-%d.pb.gz", config.Rating)
		}

		if config.Weights != "" && !filepath.IsAbs(config.Weights) && paths.Weights != "" {
			config.Weights = filepath.Join(paths.Weights, config.Weights)
		}

		if config.Sample == nil {
			sample := true
			config.Sample = &sample
		}

	case TypeStockfish:
		if config.Cmd == "" {
			config.Cmd = paths.Stockfish
		}

	case TypeAntimaia:
		if config.Parallel <= 0 {
			config.Parallel = DefaultParallel
		}
	}

	if config.Depth <= 0 {
		config.Depth = DefaultDepth
	}

	if config.Threads <= 0 {
		config.Threads = DefaultThreads
	}

	if config.Hash <= 0 {
		config.Hash = DefaultHash
	}

	if config.MateWeight <= 0 {
		config.MateWeight = DefaultMateWeight
	}
}

// Engines are engine configurations indexed by name.
type Engines map[string]Config

// NewEngines indexes the given configurations after applying defaults.
func NewEngines(configs []Config, paths Paths) (Engines, error) {
	engines := make(Engines, len(configs))
	for _, config := range configs {
		if config.Name == "" {
			return nil, fmt.Errorf("engine without a name")
		}

		if _, found := engines[config.Name]; found {
			return nil, fmt.Errorf("engine %s: configured twice", config.Name)
		}

		config.ApplyDefaults(paths)
		engines[config.Name] = config
	}

	return engines, engines.Validate()
}

// Names returns the names of the engines in alphabetical order.
func (engines Engines) Names() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// Validate checks that every engine can be started.
func (engines Engines) Validate() error {
	for _, name := range engines.Names() {
		config := engines[name]
		switch config.Type {
		case TypeMaia:
			if config.Weights == "" {
				return fmt.Errorf("engine %s: maia needs weights or a rating", name)
			}

			if config.Cmd == "" {
				return fmt.Errorf("engine %s: no lc0 binary configured", name)
			}

		case TypeStockfish:
			if config.Cmd == "" {
				return fmt.Errorf("engine %s: no stockfish binary configured", name)
			}

		case TypeAntimaia:
			if maia, found := engines[config.Maia]; !found || maia.Type != TypeMaia {
				return fmt.Errorf("engine %s: maia %q is not a configured maia engine", name, config.Maia)
			}

			if stockfish, found := engines[config.Stockfish]; !found || stockfish.Type != TypeStockfish {
				return fmt.Errorf("engine %s: stockfish %q is not a configured stockfish engine", name, config.Stockfish)
			}

		default:
			return fmt.Errorf("engine %s: unknown type %q", name, config.Type)
		}
	}

	return nil
}

// Start starts the named player for a game. Maia players sample with the
// given seed. Failures are reported as *match.EngineUnavailableError.
func (engines Engines) Start(ctx context.Context, name string, seed int64) (match.Player, error) {
	config, found := engines[name]
	if !found {
		return nil, fmt.Errorf("engine %s: not configured", name)
	}

	var (
		player match.Player
		err    error
	)

	switch config.Type {
	case TypeMaia:
		player, err = StartMaia(ctx, config, seed)
	case TypeStockfish:
		player, err = StartStockfish(ctx, config)
	case TypeAntimaia:
		player, err = StartAntimaia(ctx, config, engines[config.Maia], engines[config.Stockfish])
	default:
		return nil, fmt.Errorf("engine %s: unknown type %q", name, config.Type)
	}

	if err != nil {
		return nil, &match.EngineUnavailableError{Engine: name, Err: err}
	}

	return player, nil
}

// Check starts the named player and has it answer one query about the
// starting position, so that an engine which starts but doesn't speak uci
// is caught. The deadline of ctx bounds the query.
func (engines Engines) Check(ctx context.Context, name string) (err error) {
	player, err := engines.Start(ctx, name, 0)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := player.Close(); err == nil {
			err = cerr
		}
	}()

	start := match.Position{StartFEN: games.StartFEN, FEN: games.StartFEN}

	switch player := player.(type) {
	case *Antimaia:
		err = player.maia.Do(ctx, func(maia Distributor) error {
			_, err := maia.Distribution(ctx, start)
			return err
		})
		if err != nil {
			return err
		}

		return player.stockfish.Do(ctx, func(stockfish Analyser) error {
			_, err := stockfish.Analyse(ctx, start.FEN)
			return err
		})

	default:
		_, err = player.Move(ctx, start)
		return err
	}
}
