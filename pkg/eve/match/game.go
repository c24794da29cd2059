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
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// DefaultMoveTimeout is the time a player gets to propose a move when the
// game's configuration doesn't specify one.
const DefaultMoveTimeout = 60 * time.Second

// Reasons for game termination which are decided by the runner instead of
// the rules of chess.
const (
	ReasonMoveLimit   = "Move Limit"
	ReasonIllegalMove = "Illegal Move"
)

type Config struct {
	Batch   string
	Pairing string
	Number  int
	Seed    int64

	// PositionFEN is the starting position of the game. The standard
	// starting position is used if it is empty.
	PositionFEN string

	// MaxPlies is the number of half-moves after which the game is
	// adjudicated as a draw. Zero means no limit.
	MaxPlies int

	MoveTimeout time.Duration
}

// Run plays a single game between white and black and returns its sealed
// record. A game whose player fails to answer is aborted: no record is
// returned and the error is an *EngineUnavailableError, or the context's
// error if ctx was cancelled. Run doesn't close the players.
func Run(ctx context.Context, config *Config, white, black Player) (*Record, error) {
	oracle := games.NewChessOracle()
	if err := oracle.Initialize(config.PositionFEN); err != nil {
		return nil, err
	}

	timeout := config.MoveTimeout
	if timeout <= 0 {
		timeout = DefaultMoveTimeout
	}

	players := [2]Player{
		games.White: white,
		games.Black: black,
	}

	record := NewRecord(config, white.Name(), black.Name())
	record.StartFEN = oracle.FEN()

	for {
		if result, reason := oracle.GameResult(); result != games.Ongoing {
			record.Seal(ResultOf(result), reason, oracle.FEN())
			return record, nil
		}

		if config.MaxPlies > 0 && record.HalfMoves() >= config.MaxPlies {
			oracle.Adjudicate(games.Draw, ReasonMoveLimit)
			record.Seal(Draw, ReasonMoveLimit, oracle.FEN())
			return record, nil
		}

		side := oracle.SideToMove()
		player := players[side]

		position := Position{
			StartFEN: record.StartFEN,
			Moves:    slices.Clone(record.Moves),
			FEN:      oracle.FEN(),
		}

		mov, err := move(ctx, player, position, timeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			var unavailable *EngineUnavailableError
			if !errors.As(err, &unavailable) {
				err = &EngineUnavailableError{Engine: player.Name(), Err: err}
			}

			return nil, err
		}

		if err := oracle.MakeMove(mov); err != nil {
			illegal := &IllegalMoveError{Side: side, Move: mov, FEN: position.FEN}
			logrus.WithFields(logrus.Fields{
				"game":   record.ID,
				"player": player.Name(),
				"move":   mov,
				"fen":    position.FEN,
			}).Warn(illegal)

			oracle.Adjudicate(games.WinFor(side.Other()), ReasonIllegalMove)

			record.Illegal = illegal
			record.Seal(GameLostBy[side], ReasonIllegalMove, position.FEN)
			return record, nil
		}

		record.Append(mov)
	}
}

type moveResult struct {
	mov string
	err error
}

// move asks the player for a move, giving up after timeout even if the
// player ignores its context.
func move(ctx context.Context, player Player, position Position, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	answer := make(chan moveResult, 1)
	go func() {
		mov, err := player.Move(ctx, position)
		answer <- moveResult{mov: strings.TrimSpace(mov), err: err}
	}()

	select {
	case res := <-answer:
		return res.mov, res.err
	case <-ctx.Done():
		return "", fmt.Errorf("no move within %s: %w", timeout, ctx.Err())
	}
}
