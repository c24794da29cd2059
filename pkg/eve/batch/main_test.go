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
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// random plays uniformly random legal moves.
type random struct {
	name string
	rand *rand.Rand
}

func (player *random) Name() string { return player.name }
func (player *random) Close() error { return nil }

func (player *random) Move(_ context.Context, position match.Position) (string, error) {
	children, err := games.Children(position.FEN)
	if err != nil {
		return "", err
	}

	moves := make([]string, len(children))
	for i, child := range children {
		moves[i] = child.Move
	}
	sort.Strings(moves)

	return moves[player.rand.Intn(len(moves))], nil
}

// starter starts random players, except for the engines listed as
// unavailable.
type starter struct {
	unavailable map[string]bool

	mu      sync.Mutex
	started int
	seeds   map[int64]bool
}

func (starter *starter) Start(_ context.Context, name string, seed int64) (match.Player, error) {
	starter.mu.Lock()
	defer starter.mu.Unlock()

	if starter.unavailable[name] {
		return nil, &match.EngineUnavailableError{Engine: name, Err: errors.New("not installed")}
	}

	if starter.seeds == nil {
		starter.seeds = make(map[int64]bool)
	}

	starter.started++
	starter.seeds[seed] = true
	return &random{name: name, rand: rand.New(rand.NewSource(seed))}, nil
}
