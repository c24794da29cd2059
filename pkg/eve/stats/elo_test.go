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

package stats

import (
	"math"
	"testing"
)

func TestElo(t *testing.T) {
	tests := []struct {
		name       string
		ws, ds, ls int
		elo        float64
	}{
		{"no games", 0, 0, 0, 0},
		{"even", 10, 10, 10, 0},
		{"75%", 15, 0, 5, 190.85},
		{"25%", 5, 0, 15, -190.85},
		{"all wins", 100, 0, 0, 919.54},
		{"all losses", 0, 0, 100, -919.54},
		{"one loss", 19, 0, 1, 511.50},
	}

	for _, test := range tests {
		estimate := EloOf(test.ws, test.ds, test.ls)
		if math.Abs(estimate.Elo-test.elo) > 0.01 {
			t.Errorf("%s: elo = %.2f, want %.2f", test.name, estimate.Elo, test.elo)
		}

		if estimate.Min > estimate.Elo || estimate.Elo > estimate.Max {
			t.Errorf("%s: elo %.2f outside of [%.2f, %.2f]", test.name, estimate.Elo, estimate.Min, estimate.Max)
		}

		if estimate.Error() < 0 || math.IsNaN(estimate.Error()) {
			t.Errorf("%s: error = %.2f", test.name, estimate.Error())
		}
	}
}

func TestEloOneSided(t *testing.T) {
	// the upper bound of 95% passes 100% and is clamped
	estimate := EloOf(19, 0, 1)

	if math.Abs(estimate.Min-307.5) > 0.5 {
		t.Errorf("min = %.2f, want 307.5", estimate.Min)
	}

	if math.Abs(estimate.Max-636.4) > 0.5 {
		t.Errorf("max = %.2f, want 636.4", estimate.Max)
	}

	if err := estimate.Error(); err < 150 || err > 180 {
		t.Errorf("error = %.2f, want about 164", err)
	}
}

func TestLOS(t *testing.T) {
	if los := LOS(0, 0); los != 0.5 {
		t.Errorf("LOS(0, 0) = %f, want 0.5", los)
	}

	if los := LOS(30, 10); los < 0.99 {
		t.Errorf("LOS(30, 10) = %f, want almost certain superiority", los)
	}

	if los := LOS(10, 30); los > 0.01 {
		t.Errorf("LOS(10, 30) = %f, want almost certain inferiority", los)
	}
}
