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
	"math"
	"math/rand"
	"testing"
	"time"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/eve/match/games"
	"laptudirm.com/x/antimaia/pkg/internal/ucitest"
)

func TestParseMoveStat(t *testing.T) {
	tests := []struct {
		line string
		mov  string
		p    float64
		ok   bool
	}{
		{
			line: "info string e2e4  (322 ) N:       0 (+ 0) (P: 32.74%) (WL:  -.-----) (D: -.---) (M:  -.-) (Q: -0.01000) (U: 0.32742) (S: 0.32742) (V:  -.----)",
			mov:  "e2e4", p: 0.3274, ok: true,
		},
		{
			line: "info string g1f3  (159 ) N:       0 (+ 0) (P:  5.08%) (WL:  -.-----) (Q: -0.01000)",
			mov:  "g1f3", p: 0.0508, ok: true,
		},
		{
			line: "info string node  ( 20) N:       1 (+ 0) (P: 100.00%) (WL: -0.01000) (V: -0.0100)",
		},
		{line: "info depth 1 seldepth 1 time 1 nodes 1 score cp 1 pv e2e4"},
		{line: "info string no policy here"},
		{line: "bestmove e2e4"},
	}

	for _, test := range tests {
		mov, p, ok := ParseMoveStat(test.line)
		if ok != test.ok || mov != test.mov || math.Abs(p-test.p) > 1e-9 {
			t.Errorf("ParseMoveStat(%q) = %q, %v, %v, want %q, %v, %v", test.line, mov, p, ok, test.mov, test.p, test.ok)
		}
	}
}

func TestDistribution(t *testing.T) {
	dist := Distribution{
		{Move: "e2e4", P: 0.4},
		{Move: "d2d4", P: 0.3},
		{Move: "c2c4", P: 0.2},
		{Move: "g1f3", P: 0.1},
	}

	top := dist.Top(2)
	if len(top) != 2 || top[0].Move != "e2e4" || math.Abs(top[0].P-4.0/7) > 1e-9 || math.Abs(top[1].P-3.0/7) > 1e-9 {
		t.Errorf("Top(2) = %v", top)
	}

	if all := dist.Top(0); len(all) != len(dist) {
		t.Errorf("Top(0) kept %d moves, want %d", len(all), len(dist))
	}

	r := rand.New(rand.NewSource(1))
	counts := make(map[string]int)
	for i := 0; i < 10000; i++ {
		counts[dist.Sample(r)]++
	}

	for _, prob := range dist {
		if frequency := float64(counts[prob.Move]) / 10000; math.Abs(frequency-prob.P) > 0.03 {
			t.Errorf("%s sampled with frequency %.3f, want %.3f", prob.Move, frequency, prob.P)
		}
	}
}

func maiaConfig(kind string) Config {
	config := Config{
		Name:    "maia-" + kind,
		Type:    TypeMaia,
		Cmd:     ucitest.Cmd(),
		Arg:     ucitest.Arg(kind),
		Timeout: 5 * time.Second,
		Rating:  1100,
	}

	config.ApplyDefaults(Paths{Weights: "/weights"})
	return config
}

func TestMaia(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	maia, err := StartMaia(ctx, maiaConfig(ucitest.Lc0), 7)
	if err != nil {
		t.Fatalf("StartMaia: %v", err)
	}
	defer maia.Close()

	position := match.Position{
		StartFEN: games.StartFEN,
		Moves:    []string{"e2e4"},
	}
	position.FEN, _ = games.Apply(games.StartFEN, "e2e4")

	dist, err := maia.Distribution(ctx, position)
	if err != nil {
		t.Fatalf("Distribution: %v", err)
	}

	moves, probs := ucitest.Distribution(position.FEN)
	if len(dist) != len(moves) {
		t.Fatalf("distribution has %d moves, want %d", len(dist), len(moves))
	}

	if dist[0].Move != moves[0] || math.Abs(dist[0].P-probs[0]) > 1e-4 {
		t.Errorf("most likely move %v, want %s with %.2f", dist[0], moves[0], probs[0])
	}

	legal := make(map[string]bool)
	for _, mov := range moves {
		legal[mov] = true
	}

	for i := 0; i < 5; i++ {
		mov, err := maia.Move(ctx, position)
		if err != nil {
			t.Fatalf("Move: %v", err)
		}

		if !legal[mov] {
			t.Errorf("Move returned illegal move %q", mov)
		}
	}
}

func TestMaiaTopMove(t *testing.T) {
	config := maiaConfig(ucitest.Lc0)
	sample := false
	config.Sample = &sample

	maia, err := StartMaia(context.Background(), config, 1)
	if err != nil {
		t.Fatalf("StartMaia: %v", err)
	}
	defer maia.Close()

	position := match.Position{StartFEN: games.StartFEN, FEN: games.StartFEN}
	moves, _ := ucitest.Distribution(games.StartFEN)

	for i := 0; i < 3; i++ {
		mov, err := maia.Move(context.Background(), position)
		if err != nil {
			t.Fatalf("Move: %v", err)
		}

		if mov != moves[0] {
			t.Errorf("Move = %s, want top move %s", mov, moves[0])
		}
	}
}

func TestMaiaFailure(t *testing.T) {
	maia, err := StartMaia(context.Background(), maiaConfig(ucitest.Crash), 1)
	if err != nil {
		t.Fatalf("StartMaia: %v", err)
	}
	defer maia.Close()

	position := match.Position{StartFEN: games.StartFEN, FEN: games.StartFEN}
	if _, err := maia.Move(context.Background(), position); err == nil {
		t.Fatal("crashed engine returned a move")
	}

	if _, err := maia.Move(context.Background(), position); err == nil {
		t.Fatal("broken session returned a move")
	}
}
