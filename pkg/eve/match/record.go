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
	"time"

	"github.com/google/uuid"

	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// Record is the record of a single game. It is created when the game
// starts, a move is appended every ply, and it is sealed exactly once
// when the game terminates.
type Record struct {
	ID string `json:"id"`

	Batch   string `json:"batch"`
	Pairing string `json:"pairing"`
	Number  int    `json:"number"`

	White string `json:"white"`
	Black string `json:"black"`

	StartFEN string   `json:"start_fen"`
	Moves    []string `json:"moves"`

	Result   Result            `json:"result"`
	Reason   string            `json:"reason"`
	FinalFEN string            `json:"final_fen"`
	Illegal  *IllegalMoveError `json:"illegal,omitempty"`

	Seed int64 `json:"seed"`

	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`

	Sealed bool `json:"sealed"`
}

// NewRecord creates an unsealed record for a game starting now.
func NewRecord(config *Config, white, black string) *Record {
	return &Record{
		ID:       uuid.NewString(),
		Batch:    config.Batch,
		Pairing:  config.Pairing,
		Number:   config.Number,
		White:    white,
		Black:    black,
		StartFEN: config.PositionFEN,
		Seed:     config.Seed,
		Started:  time.Now(),
	}
}

// HalfMoves returns the number of plies played in the game.
func (record *Record) HalfMoves() int {
	return len(record.Moves)
}

// Append adds a move to an unsealed record.
func (record *Record) Append(mov string) {
	if record.Sealed {
		panic("match: move appended to sealed record " + record.ID)
	}

	record.Moves = append(record.Moves, mov)
}

// Seal finalizes the record with the game's result.
func (record *Record) Seal(result Result, reason, fen string) {
	if record.Sealed {
		panic("match: record " + record.ID + " sealed twice")
	}

	record.Result = result
	record.Reason = reason
	record.FinalFEN = fen
	record.Finished = time.Now()
	record.Sealed = true
}

// Duration returns the wall-clock time taken by the game.
func (record *Record) Duration() time.Duration {
	return record.Finished.Sub(record.Started)
}

func (record *Record) String() string {
	winner, decisive := record.Result.Winner()
	switch {
	case !record.Sealed:
		return fmt.Sprintf("%s vs %s: in progress", record.White, record.Black)
	case !decisive:
		return fmt.Sprintf("%s vs %s: draw by %s", record.White, record.Black, record.Reason)
	case winner == games.White:
		return fmt.Sprintf("%s wins by %s", record.White, record.Reason)
	default:
		return fmt.Sprintf("%s wins by %s", record.Black, record.Reason)
	}
}
