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
	"fmt"
	"math"
)

// Estimate is an estimate of the elo difference between two players with
// its 95% confidence interval.
type Estimate struct {
	Min, Elo, Max float64
}

// Error returns the half-width of the confidence interval.
func (estimate Estimate) Error() float64 {
	return math.Max(0, (estimate.Max-estimate.Min)/2)
}

func (estimate Estimate) String() string {
	return fmt.Sprintf("%+.1f ± %.1f", estimate.Elo, estimate.Error())
}

// EloOf estimates the elo difference of a player with the given number of
// wins, draws, and losses against its opponent.
func EloOf(ws, ds, ls int) Estimate {
	muMin, mu, muMax := Elo(ws, ds, ls)
	return Estimate{Min: muMin, Elo: mu, Max: muMax}
}

// Elo returns the likely elo of the target player along with its p < 0.05
// upper bound and lower bound, called mu, muMax, and muMin respectively.
// Scores are kept half a game away from 0% and 100%, which have no
// finite elo.
func Elo(ws, ds, ls int) (muMin float64, mu float64, muMax float64) {
	N := float64(ws + ds + ls) // total number of games

	if N == 0 {
		return 0, 0, 0
	}

	w := float64(ws) / N // measured win probability
	d := float64(ds) / N // measured draw probability
	l := float64(ls) / N // measured loss probability

	// empirical mean of random variable
	mu = w + d/2

	// standard deviation of the random variable
	sigma := math.Sqrt(w*math.Pow(1-mu, 2)+d*math.Pow(0.5-mu, 2)+l*math.Pow(0-mu, 2)) / math.Sqrt(N)

	muMin = mu + phiInv(0.025)*sigma // lower bound
	muMax = mu + phiInv(0.975)*sigma // upper bound

	eps := 0.5 / N
	return clampElo(muMin, eps), clampElo(mu, eps), clampElo(muMax, eps)
}

// LOS returns the likelihood of superiority of a player with the given
// number of wins and losses.
func LOS(ws, ls int) float64 {
	if ws+ls == 0 {
		return 0.5
	}

	return 0.5 * (1 + math.Erf(float64(ws-ls)/math.Sqrt(2*float64(ws+ls))))
}

// clampElo converts a score to elo after clamping it to [eps, 1-eps].
func clampElo(x, eps float64) float64 {
	x = math.Min(math.Max(x, eps), 1-eps)
	return -400 * math.Log10(1/x-1)
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
