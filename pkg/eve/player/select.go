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
	"errors"

	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// Candidate is a move considered by Antimaia together with the opponent's
// likely replies to it.
type Candidate struct {
	Move string

	// Eval is the evaluation of the position after Move.
	Eval Eval

	Replies []Reply
}

// Reply is a reply by the opponent to a candidate move.
type Reply struct {
	Move string
	Prob float64

	// Eval is the evaluation of the position after the reply.
	Eval Eval
}

var ErrNoCandidates = errors.New("antimaia: no candidate moves")

// Expectation returns the evaluation expected after the candidate: the
// probability weighted mean of the evaluations of its replies, or its own
// evaluation if it has no replies.
func (candidate Candidate) Expectation() float64 {
	if len(candidate.Replies) == 0 {
		return float64(candidate.Eval.Value)
	}

	var total, weights float64
	for _, reply := range candidate.Replies {
		total += reply.Prob * float64(reply.Eval.Value)
		weights += reply.Prob
	}

	if weights <= 0 {
		// replies without probabilities are equally likely
		total = 0
		for _, reply := range candidate.Replies {
			total += float64(reply.Eval.Value)
		}

		return total / float64(len(candidate.Replies))
	}

	return total / weights
}

// Select picks the move to play for side among the candidates. The first
// candidate whose evaluation is a mate for side is played at once.
// Otherwise the candidate with the best expectation for side wins, the
// earliest one on ties.
func Select(candidates []Candidate, side games.Color) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}

	for _, candidate := range candidates {
		if candidate.Eval.Mate && candidate.Eval.Favours(side) {
			return candidate.Move, nil
		}
	}

	best, bestScore := 0, candidates[0].Expectation()
	for i, candidate := range candidates[1:] {
		score := candidate.Expectation()
		if (side == games.White && score > bestScore) || (side == games.Black && score < bestScore) {
			best, bestScore = i+1, score
		}
	}

	return candidates[best].Move, nil
}
