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
	"fmt"

	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// DefaultMateWeight is the value in centipawns of a forced mate.
const DefaultMateWeight = 10 * 100

// Eval is an evaluation of a position from white's point of view. Mate
// scores are converted to centipawns.
type Eval struct {
	Value int
	Mate  bool
}

// MateEval converts a mate distance reported relative to the side to move
// into an Eval. A positive distance is a mate for the side to move and a
// zero distance means the side to move is mated.
func MateEval(distance int, stm games.Color, weight int) Eval {
	var value int
	switch {
	case distance > 0:
		value = weight - distance
	case distance < 0:
		value = -(weight + distance)
	default:
		value = -weight
	}

	if stm == games.Black {
		value = -value
	}

	return Eval{Value: value, Mate: true}
}

// CentipawnEval converts a centipawn score relative to the side to move
// into an Eval.
func CentipawnEval(cp int, stm games.Color) Eval {
	if stm == games.Black {
		cp = -cp
	}

	return Eval{Value: cp}
}

// TerminalEval evaluates a finished game.
func TerminalEval(result games.Result, weight int) Eval {
	switch result {
	case games.WhiteWins:
		return Eval{Value: weight, Mate: true}
	case games.BlackWins:
		return Eval{Value: -weight, Mate: true}
	default:
		return Eval{}
	}
}

// Favours reports whether the evaluation is good for the given side.
func (eval Eval) Favours(side games.Color) bool {
	if side == games.White {
		return eval.Value > 0
	}

	return eval.Value < 0
}

func (eval Eval) String() string {
	if eval.Mate {
		return fmt.Sprintf("mate(%+d)", eval.Value)
	}

	return fmt.Sprintf("%+d", eval.Value)
}
