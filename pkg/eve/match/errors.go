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

// IllegalMoveError is reported when a player proposes a move which is not
// legal in the current position. The offending side loses the game.
type IllegalMoveError struct {
	Side games.Color `json:"side"`
	Move string      `json:"move"`
	FEN  string      `json:"fen"`
}

func (err *IllegalMoveError) Error() string {
	if err.Move == "" {
		return fmt.Sprintf("%s played no move in %s", err.Side, err.FEN)
	}

	return fmt.Sprintf("%s played illegal move %s in %s", err.Side, err.Move, err.FEN)
}

// EngineUnavailableError is reported when an engine fails to start or to
// answer in time. Games affected by it are aborted.
type EngineUnavailableError struct {
	Engine string
	Err    error
}

func (err *EngineUnavailableError) Error() string {
	return fmt.Sprintf("engine %s unavailable: %v", err.Engine, err.Err)
}

func (err *EngineUnavailableError) Unwrap() error {
	return err.Err
}
