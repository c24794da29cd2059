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

package match

import (
	"fmt"

	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// Result is the result of a game from white's point of view.
type Result int

const (
	Win  Result = +1
	Draw Result = 0
	Loss Result = -1
)

// GameLostBy maps the color of the losing side to the game's result.
var GameLostBy = [2]Result{
	games.White: Loss,
	games.Black: Win,
}

// ResultOf converts a terminal oracle result into a Result.
func ResultOf(result games.Result) Result {
	switch result {
	case games.WhiteWins:
		return Win
	case games.BlackWins:
		return Loss
	default:
		return Draw
	}
}

// Winner returns the winning color of the game, and false for a draw.
func (result Result) Winner() (games.Color, bool) {
	switch result {
	case Win:
		return games.White, true
	case Loss:
		return games.Black, true
	default:
		return games.White, false
	}
}

func (result Result) String() string {
	switch result {
	case Win:
		return "1-0"
	case Draw:
		return "1/2-1/2"
	case Loss:
		return "0-1"
	default:
		return "?-?"
	}
}

func (result Result) MarshalText() ([]byte, error) {
	switch result {
	case Win, Draw, Loss:
		return []byte(result.String()), nil
	default:
		return nil, fmt.Errorf("invalid result %d", int(result))
	}
}

func (result *Result) UnmarshalText(text []byte) error {
	switch string(text) {
	case "1-0":
		*result = Win
	case "1/2-1/2":
		*result = Draw
	case "0-1":
		*result = Loss
	default:
		return fmt.Errorf("invalid result %q", text)
	}

	return nil
}
