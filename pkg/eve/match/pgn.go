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
	"errors"
	"fmt"
	"strconv"

	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// State is the terminal state of a game.
type State struct {
	FEN    string
	Result Result
	Reason string
}

// Replay plays the moves of a sealed record from its start position and
// returns the terminal state they lead to.
func Replay(record *Record) (State, error) {
	oracle, err := replay(record)
	if err != nil {
		return State{}, err
	}

	if record.Illegal != nil {
		return State{
			FEN:    oracle.FEN(),
			Result: GameLostBy[record.Illegal.Side],
			Reason: ReasonIllegalMove,
		}, nil
	}

	result, reason := oracle.GameResult()
	if result != games.Ongoing {
		return State{FEN: oracle.FEN(), Result: ResultOf(result), Reason: reason}, nil
	}

	if record.Reason == ReasonMoveLimit {
		return State{FEN: oracle.FEN(), Result: Draw, Reason: ReasonMoveLimit}, nil
	}

	return State{}, fmt.Errorf("record %s: game is not over after %d plies", record.ID, record.HalfMoves())
}

func replay(record *Record) (*games.ChessOracle, error) {
	if !record.Sealed {
		return nil, errors.New("record " + record.ID + " is not sealed")
	}

	oracle := games.NewChessOracle()
	if err := oracle.Initialize(record.StartFEN); err != nil {
		return nil, fmt.Errorf("record %s: %w", record.ID, err)
	}

	for i, mov := range record.Moves {
		if err := oracle.MakeMove(mov); err != nil {
			return nil, fmt.Errorf("record %s: ply %d: %w", record.ID, i+1, err)
		}
	}

	return oracle, nil
}

// PGN renders a sealed record in the portable game notation. An empty
// event defaults to "<white> vs. <black>".
func PGN(record *Record, event, site string) (string, error) {
	oracle, err := replay(record)
	if err != nil {
		return "", err
	}

	switch record.Result {
	case Win:
		oracle.Adjudicate(games.WhiteWins, record.Reason)
	case Loss:
		oracle.Adjudicate(games.BlackWins, record.Reason)
	default:
		oracle.Adjudicate(games.Draw, record.Reason)
	}

	if event == "" {
		event = record.White + " vs. " + record.Black
	}

	if site == "" {
		site = "?"
	}

	tags := []games.Tag{
		{Key: "Event", Value: event},
		{Key: "Site", Value: site},
		{Key: "Date", Value: record.Started.Format("2006.01.02")},
		{Key: "Round", Value: strconv.Itoa(record.Number)},
		{Key: "White", Value: record.White},
		{Key: "Black", Value: record.Black},
		{Key: "Result", Value: record.Result.String()},
		{Key: "Termination", Value: record.Reason},
	}

	if record.StartFEN != games.StartFEN {
		tags = append(tags,
			games.Tag{Key: "SetUp", Value: "1"},
			games.Tag{Key: "FEN", Value: record.StartFEN},
		)
	}

	return oracle.PGN(tags), nil
}
