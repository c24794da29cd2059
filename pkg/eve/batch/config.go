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

package batch

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/eve/player"
)

// Defaults for batch configurations.
const (
	DefaultGames       = 100
	DefaultConcurrency = 1
	DefaultMaxPlies    = 300
)

type Config struct {
	// Name of the batch, under which its records are stored.
	Name string `yaml:"name"`

	// The engines which can be paired.
	Engines []player.Config `yaml:"engines"`

	Pairings []Pairing `yaml:"pairings"`

	// Number of games played by every pairing.
	Games int `yaml:"games"`

	// Number of games that will be played concurrently.
	Concurrency int `yaml:"concurrency"`

	// Game adjudication stuff.
	MaxPlies    int           `yaml:"max-plies"`
	MoveTimeout time.Duration `yaml:"move-timeout"`

	Openings struct {
		File  string `yaml:"file"`
		Order string `yaml:"order"` // random or sequential
	} `yaml:"openings"`

	// Base of the per game seeds used for sampling moves.
	Seed int64 `yaml:"seed"`

	Event string `yaml:"event"` // Event field of the PGN.
	Site  string `yaml:"site"`  // Site field of the PGN.

	PGNOut string `yaml:"pgn-out"` // File to append the game PGNs to.
}

// Pairing is an ordered pair of engines which play against each other.
type Pairing struct {
	White string `yaml:"white"`
	Black string `yaml:"black"`

	// Also play the pairing with colors swapped.
	Reverse bool `yaml:"reverse,omitempty"`
}

// Name returns the name of the pairing, which identifies it in a batch.
func (pairing Pairing) Name() string {
	return pairing.White + " vs " + pairing.Black
}

// LoadConfig reads a batch configuration from a yaml file.
func LoadConfig(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}

	return config, nil
}

// ParseConfig parses a yaml batch configuration and applies defaults.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, err
	}

	config.ApplyDefaults()
	return &config, config.Validate()
}

func (config *Config) ApplyDefaults() {
	if config.Games <= 0 {
		config.Games = DefaultGames
	}

	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}

	if config.MaxPlies <= 0 {
		config.MaxPlies = DefaultMaxPlies
	}

	if config.MoveTimeout <= 0 {
		config.MoveTimeout = match.DefaultMoveTimeout
	}

	if config.Openings.Order == "" {
		config.Openings.Order = "sequential"
	}
}

// Validate checks that the pairings only name configured engines.
func (config *Config) Validate() error {
	if config.Name == "" {
		return fmt.Errorf("batch has no name")
	}

	if strings.Contains(config.Name, "/") {
		return fmt.Errorf("batch %q: name contains a slash", config.Name)
	}

	if len(config.Pairings) == 0 {
		return fmt.Errorf("batch %s: no pairings", config.Name)
	}

	names := make(map[string]bool, len(config.Engines))
	for _, engine := range config.Engines {
		if strings.Contains(engine.Name, "/") {
			return fmt.Errorf("engine %q: name contains a slash", engine.Name)
		}

		names[engine.Name] = true
	}

	for _, pairing := range config.Pairings {
		for _, name := range []string{pairing.White, pairing.Black} {
			if !names[name] {
				return fmt.Errorf("pairing %s: engine %q is not configured", pairing.Name(), name)
			}
		}
	}

	switch config.Openings.Order {
	case "random", "sequential":
	default:
		return fmt.Errorf("openings: unknown order %q", config.Openings.Order)
	}

	return nil
}

// Schedule returns every pairing to be played, reversed ones included,
// without duplicates.
func (config *Config) Schedule() []Pairing {
	var pairings []Pairing
	seen := make(map[string]bool)

	add := func(pairing Pairing) {
		pairing.Reverse = false
		if !seen[pairing.Name()] {
			seen[pairing.Name()] = true
			pairings = append(pairings, pairing)
		}
	}

	for _, pairing := range config.Pairings {
		add(pairing)
		if pairing.Reverse {
			add(Pairing{White: pairing.Black, Black: pairing.White})
		}
	}

	return pairings
}
