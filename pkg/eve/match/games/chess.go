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

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// NewChessOracle returns an oracle initialized to the standard starting
// position.
func NewChessOracle() *ChessOracle {
	return &ChessOracle{game: chess.NewGame()}
}

type ChessOracle struct {
	game *chess.Game
}

var _ Oracle = (*ChessOracle)(nil)

func (oracle *ChessOracle) Initialize(fenstr string) error {
	game, err := newGame(fenstr)
	if err != nil {
		return err
	}

	oracle.game = game
	return nil
}

func newGame(fenstr string) (*chess.Game, error) {
	if fenstr == "" || fenstr == "startpos" {
		return chess.NewGame(), nil
	}

	fen, err := chess.FEN(fenstr)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fenstr, err)
	}

	return chess.NewGame(fen), nil
}

func (oracle *ChessOracle) SideToMove() Color {
	if oracle.game.Position().Turn() == chess.White {
		return White
	}

	return Black
}

// MakeMove plays the given uci move. Threefold repetitions and the fifty
// move rule are claimed as soon as they become available.
func (oracle *ChessOracle) MakeMove(mov string) error {
	if oracle.game.Outcome() != chess.NoOutcome {
		return fmt.Errorf("%w: %s: game is over", ErrIllegalMove, mov)
	}

	found := findMove(oracle.game.ValidMoves(), mov)
	if found == nil {
		return fmt.Errorf("%w: %s", ErrIllegalMove, mov)
	}

	if err := oracle.game.Move(found); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIllegalMove, mov, err)
	}

	if oracle.game.Outcome() == chess.NoOutcome {
		for _, method := range oracle.game.EligibleDraws() {
			if method == chess.ThreefoldRepetition || method == chess.FiftyMoveRule {
				// eligibility was just checked
				_ = oracle.game.Draw(method)
				break
			}
		}
	}

	return nil
}

func findMove(moves []*chess.Move, mov string) *chess.Move {
	for _, m := range moves {
		if strings.EqualFold(m.String(), mov) {
			return m
		}
	}

	return nil
}

func (oracle *ChessOracle) FEN() string {
	return oracle.game.Position().String()
}

func (oracle *ChessOracle) GameResult() (Result, string) {
	var result Result
	switch oracle.game.Outcome() {
	case chess.WhiteWon:
		result = WhiteWins
	case chess.BlackWon:
		result = BlackWins
	case chess.Draw:
		result = Draw
	default:
		return Ongoing, ""
	}

	return result, reason(oracle.game.Method())
}

func reason(method chess.Method) string {
	switch method {
	case chess.Checkmate:
		return ReasonCheckmate
	case chess.Stalemate:
		return ReasonStalemate
	case chess.ThreefoldRepetition:
		return ReasonThreefold
	case chess.FivefoldRepetition:
		return ReasonFivefold
	case chess.FiftyMoveRule:
		return ReasonFiftyMove
	case chess.SeventyFiveMoveRule:
		return ReasonSeventyFiveMove
	case chess.InsufficientMaterial:
		return ReasonInsufficientMaterial
	default:
		return method.String()
	}
}

// Adjudicate ends an ongoing game with the given result. The reason is
// only recorded by the caller; the underlying game stores a resignation
// or an agreed draw.
func (oracle *ChessOracle) Adjudicate(result Result, _ string) {
	if oracle.game.Outcome() != chess.NoOutcome {
		return
	}

	switch result {
	case WhiteWins:
		oracle.game.Resign(chess.Black)
	case BlackWins:
		oracle.game.Resign(chess.White)
	case Draw:
		// draw offers are always accepted
		_ = oracle.game.Draw(chess.DrawOffer)
	}
}

// PGN renders the game played so far with the given tag pairs.
func (oracle *ChessOracle) PGN(tags []Tag) string {
	for _, tag := range tags {
		oracle.game.AddTagPair(tag.Key, tag.Value)
	}

	return oracle.game.String()
}

// Child is a position reachable from another by a single move.
type Child struct {
	Move   string
	FEN    string
	Result Result
}

// Children returns every position reachable by a legal move from the
// given one. Only checkmate and stalemate are detected as terminal, since
// repetitions depend on the history of a game.
func Children(fenstr string) ([]Child, error) {
	game, err := newGame(fenstr)
	if err != nil {
		return nil, err
	}

	position := game.Position()
	mover := White
	if position.Turn() == chess.Black {
		mover = Black
	}

	valid := position.ValidMoves()
	children := make([]Child, 0, len(valid))
	for _, m := range valid {
		next := position.Update(m)

		child := Child{Move: m.String(), FEN: next.String()}
		switch next.Status() {
		case chess.Checkmate:
			child.Result = WinFor(mover)
		case chess.Stalemate:
			child.Result = Draw
		}

		children = append(children, child)
	}

	return children, nil
}

// Apply plays the given uci moves from fen and returns the resulting
// position.
func Apply(fenstr string, moves ...string) (string, error) {
	game, err := newGame(fenstr)
	if err != nil {
		return "", err
	}

	for _, mov := range moves {
		found := findMove(game.ValidMoves(), mov)
		if found == nil {
			return "", fmt.Errorf("%w: %s", ErrIllegalMove, mov)
		}

		if err := game.Move(found); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrIllegalMove, mov, err)
		}
	}

	return game.Position().String(), nil
}

// Status reports whether the position is checkmate or stalemate.
func Status(fenstr string) (Result, string, error) {
	game, err := newGame(fenstr)
	if err != nil {
		return Ongoing, "", err
	}

	position := game.Position()
	switch position.Status() {
	case chess.Checkmate:
		if position.Turn() == chess.White {
			return BlackWins, ReasonCheckmate, nil
		}

		return WhiteWins, ReasonCheckmate, nil
	case chess.Stalemate:
		return Draw, ReasonStalemate, nil
	}

	return Ongoing, "", nil
}
