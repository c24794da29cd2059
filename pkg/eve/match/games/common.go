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

package games

import "errors"

// StartFEN is the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ErrIllegalMove is returned by an Oracle when asked to make a move which
// is not legal in its current position.
var ErrIllegalMove = errors.New("illegal move")

type Oracle interface {
	Initialize(fen string) error
	MakeMove(mov string) error
	FEN() string
	SideToMove() Color
	GameResult() (Result, string)
	Adjudicate(result Result, reason string)
	PGN(tags []Tag) string
}

type Color uint8

const (
	White Color = iota
	Black
)

func (color Color) Other() Color {
	return color ^ 1
}

func (color Color) String() string {
	if color == White {
		return "white"
	}

	return "black"
}

// Result is the absolute result of a game.
type Result uint8

const (
	Ongoing Result = iota
	WhiteWins
	BlackWins
	Draw
)

// WinFor returns the result of a game won by the given color.
func WinFor(color Color) Result {
	if color == White {
		return WhiteWins
	}

	return BlackWins
}

func (result Result) String() string {
	switch result {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Tag is a single PGN tag pair.
type Tag struct {
	Key, Value string
}

// Reasons for the termination of a game.
const (
	ReasonCheckmate            = "Checkmate"
	ReasonStalemate            = "Stalemate"
	ReasonThreefold            = "Threefold Repetition"
	ReasonFivefold             = "Fivefold Repetition"
	ReasonFiftyMove            = "50-move Rule"
	ReasonSeventyFiveMove      = "75-move Rule"
	ReasonInsufficientMaterial = "Insufficient Material"
)
