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
	"errors"
	"testing"
	"time"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/internal/ucitest"
)

func TestNewEngines(t *testing.T) {
	paths := Paths{Lc0: "/usr/local/bin/lc0", Stockfish: "/usr/local/bin/stockfish", Weights: "/weights"}

	engines, err := NewEngines([]Config{
		{Name: "maia1100", Type: TypeMaia, Rating: 1100},
		{Name: "stockfish", Type: TypeStockfish},
		{Name: "antimaia", Type: TypeAntimaia, Maia: "maia1100", Stockfish: "stockfish"},
	}, paths)
	if err != nil {
		t.Fatalf("NewEngines: %v", err)
	}

	maia := engines["maia1100"]
	if maia.Cmd != paths.Lc0 || maia.Weights != "/weights/maia-1100.pb.gz" || maia.Sample == nil || !*maia.Sample {
		t.Errorf("maia defaults not applied: %+v", maia)
	}

	stockfish := engines["stockfish"]
	if stockfish.Cmd != paths.Stockfish || stockfish.Depth != DefaultDepth || stockfish.Threads != 2 || stockfish.Hash != 32 {
		t.Errorf("stockfish defaults not applied: %+v", stockfish)
	}

	if antimaia := engines["antimaia"]; antimaia.Parallel != 1 || antimaia.MateWeight != DefaultMateWeight {
		t.Errorf("antimaia defaults not applied: %+v", antimaia)
	}

	if names := engines.Names(); len(names) != 3 || names[0] != "antimaia" {
		t.Errorf("Names = %v", names)
	}
}

func TestNewEnginesInvalid(t *testing.T) {
	tests := []struct {
		name    string
		configs []Config
	}{
		{"unnamed", []Config{{Type: TypeStockfish}}},
		{"duplicate", []Config{{Name: "sf", Type: TypeStockfish}, {Name: "sf", Type: TypeStockfish}}},
		{"unknown type", []Config{{Name: "leela", Type: "lc0"}}},
		{"maia without weights", []Config{{Name: "maia", Type: TypeMaia}}},
		{"antimaia without maia", []Config{
			{Name: "sf", Type: TypeStockfish},
			{Name: "antimaia", Type: TypeAntimaia, Maia: "sf", Stockfish: "sf"},
		}},
	}

	for _, test := range tests {
		if _, err := NewEngines(test.configs, Paths{Lc0: "lc0", Stockfish: "stockfish"}); err == nil {
			t.Errorf("%s: configuration accepted", test.name)
		}
	}
}

func TestEnginesStart(t *testing.T) {
	ctx := context.Background()
	engines := Engines{
		"maia":  maiaConfig(ucitest.Lc0),
		"sf":    stockfishConfig(ucitest.Stockfish),
		"mute":  maiaConfig(ucitest.Mute),
		"combo": {Name: "combo", Type: TypeAntimaia, Maia: "maia", Stockfish: "sf", Parallel: 2, Candidates: 2, Replies: 2},
	}

	player, err := engines.Start(ctx, "combo", 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := player.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	mute := engines["mute"]
	mute.Timeout = 100 * time.Millisecond
	engines["mute"] = mute

	_, err = engines.Start(ctx, "mute", 1)

	var unavailable *match.EngineUnavailableError
	if !errors.As(err, &unavailable) || unavailable.Engine != "mute" {
		t.Errorf("Start error = %v, want EngineUnavailableError", err)
	}

	if _, err := engines.Start(ctx, "missing", 1); err == nil {
		t.Error("started an unconfigured engine")
	}
}

func TestEnginesCheck(t *testing.T) {
	engines := Engines{
		"maia":      maiaConfig(ucitest.Lc0),
		"sf":        stockfishConfig(ucitest.Stockfish),
		"mute-sf":   stockfishConfig(ucitest.Mute),
		"silent-sf": stockfishConfig(ucitest.Silent),
		"combo":     {Name: "combo", Type: TypeAntimaia, Maia: "maia", Stockfish: "sf", Parallel: 1},
		"mute-combo": {
			Name: "mute-combo", Type: TypeAntimaia, Maia: "maia", Stockfish: "mute-sf", Parallel: 1,
		},
	}

	tests := []struct {
		name string
		ok   bool
	}{
		{"maia", true},
		{"sf", true},
		{"combo", true},
		{"mute-sf", false},
		{"silent-sf", false},
		{"mute-combo", false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			err := engines.Check(ctx, test.name)
			if test.ok && err != nil {
				t.Errorf("Check: %v", err)
			}

			if !test.ok && err == nil {
				t.Error("engine which doesn't answer passed the check")
			}
		})
	}
}
