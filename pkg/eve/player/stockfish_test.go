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
	"testing"
	"time"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/eve/match/games"
	"laptudirm.com/x/antimaia/pkg/internal/ucitest"
)

func stockfishConfig(kind string) Config {
	config := Config{
		Name:  "stockfish-" + kind,
		Type:  TypeStockfish,
		Cmd:   ucitest.Cmd(),
		Arg:   ucitest.Arg(kind),
		Depth: 2,
	}

	config.ApplyDefaults(Paths{})
	return config
}

func TestStockfish(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stockfish, err := StartStockfish(ctx, stockfishConfig(ucitest.Stockfish))
	if err != nil {
		t.Fatalf("StartStockfish: %v", err)
	}
	defer stockfish.Close()

	mateIn1, err := games.Apply(games.StartFEN, "f2f3", "e7e5", "g2g4")
	if err != nil {
		t.Fatal(err)
	}

	mov, err := stockfish.Move(ctx, match.Position{FEN: mateIn1})
	if err != nil {
		t.Fatalf("Move: %v", err)
	}

	if mov != "d8h4" {
		t.Errorf("Move = %s, want d8h4", mov)
	}

	tests := []struct {
		name string
		fen  string
		want Eval
	}{
		{"black mates in one", mateIn1, Eval{Value: -(DefaultMateWeight - 1), Mate: true}},
		{"white is a queen up", "4k3/8/8/8/8/8/8/3QK3 w - - 0 1", Eval{Value: 900}},
		{"black to move a queen down", "4k3/8/8/8/8/8/8/3QK3 b - - 0 1", Eval{Value: 900}},
		{"white is mated", "7k/8/8/8/8/8/5PPq/6Kr w - - 0 1", Eval{Value: -DefaultMateWeight, Mate: true}},
	}

	for _, test := range tests {
		analysis, err := stockfish.Analyse(ctx, test.fen)
		if err != nil {
			t.Fatalf("%s: Analyse: %v", test.name, err)
		}

		if analysis.Eval != test.want {
			t.Errorf("%s: eval = %v, want %v", test.name, analysis.Eval, test.want)
		}
	}
}

func TestStockfishTimeout(t *testing.T) {
	stockfish, err := StartStockfish(context.Background(), stockfishConfig(ucitest.Silent))
	if err != nil {
		t.Fatalf("StartStockfish: %v", err)
	}
	defer stockfish.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if _, err := stockfish.Analyse(ctx, games.StartFEN); err == nil {
		t.Fatal("silent engine returned an evaluation")
	}

	if _, err := stockfish.Analyse(context.Background(), games.StartFEN); err == nil {
		t.Fatal("broken session returned an evaluation")
	}
}
