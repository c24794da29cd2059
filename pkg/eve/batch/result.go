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

package batch

import (
	"fmt"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/eve/stats"
)

// Abort is a game which couldn't be completed.
type Abort struct {
	Number int    `json:"number" yaml:"number"`
	Reason string `json:"reason" yaml:"reason"`
}

// Result collects the games of a single pairing. Every statistic is
// computed from the sealed records.
type Result struct {
	White, Black string

	Records []*match.Record
	Aborted []Abort
}

func NewResult(pairing Pairing) *Result {
	return &Result{White: pairing.White, Black: pairing.Black}
}

// Pairing returns the pairing whose games are collected.
func (result *Result) Pairing() Pairing {
	return Pairing{White: result.White, Black: result.Black}
}

// Add appends a sealed record of the pairing.
func (result *Result) Add(record *match.Record) error {
	if !record.Sealed {
		return fmt.Errorf("record %s is not sealed", record.ID)
	}

	if record.White != result.White || record.Black != result.Black {
		return fmt.Errorf("record %s of %s vs %s added to %s", record.ID, record.White, record.Black, result.Pairing().Name())
	}

	result.Records = append(result.Records, record)
	return nil
}

// Abort notes that the given game was aborted.
func (result *Result) Abort(number int, err error) {
	result.Aborted = append(result.Aborted, Abort{Number: number, Reason: err.Error()})
}

// Games returns the number of completed games.
func (result *Result) Games() int {
	return len(result.Records)
}

// Score returns the number of wins, draws, and losses of white.
func (result *Result) Score() (ws, ds, ls int) {
	for _, record := range result.Records {
		switch record.Result {
		case match.Win:
			ws++
		case match.Draw:
			ds++
		case match.Loss:
			ls++
		}
	}

	return ws, ds, ls
}

func (result *Result) pct(n int) float64 {
	if result.Games() == 0 {
		return 0
	}

	return 100 * float64(n) / float64(result.Games())
}

func (result *Result) WhiteWinPct() float64 {
	ws, _, _ := result.Score()
	return result.pct(ws)
}

func (result *Result) DrawPct() float64 {
	_, ds, _ := result.Score()
	return result.pct(ds)
}

func (result *Result) BlackWinPct() float64 {
	_, _, ls := result.Score()
	return result.pct(ls)
}

// AvgHalfMoves returns the mean length of the completed games in plies.
func (result *Result) AvgHalfMoves() float64 {
	if result.Games() == 0 {
		return 0
	}

	total := 0
	for _, record := range result.Records {
		total += record.HalfMoves()
	}

	return float64(total) / float64(result.Games())
}

// Elo estimates white's elo advantage over black.
func (result *Result) Elo() stats.Estimate {
	return stats.EloOf(result.Score())
}

// LOS returns the likelihood that white is the stronger player.
func (result *Result) LOS() float64 {
	ws, _, ls := result.Score()
	return stats.LOS(ws, ls)
}

// Row is a line of the results table.
type Row struct {
	White string `json:"white" yaml:"white"`
	Black string `json:"black" yaml:"black"`
	Games int    `json:"games" yaml:"games"`

	WinPct  float64 `json:"win_pct" yaml:"win_pct"`
	DrawPct float64 `json:"draw_pct" yaml:"draw_pct"`
	LossPct float64 `json:"loss_pct" yaml:"loss_pct"`

	AvgHalfMoves float64 `json:"avg_halfmoves" yaml:"avg_halfmoves"`

	Elo      float64 `json:"elo" yaml:"elo"`
	EloError float64 `json:"elo_error" yaml:"elo_error"`
	LOS      float64 `json:"los" yaml:"los"`

	Aborted int `json:"aborted" yaml:"aborted"`
}

func (result *Result) Row() Row {
	elo := result.Elo()
	return Row{
		White:        result.White,
		Black:        result.Black,
		Games:        result.Games(),
		WinPct:       result.WhiteWinPct(),
		DrawPct:      result.DrawPct(),
		LossPct:      result.BlackWinPct(),
		AvgHalfMoves: result.AvgHalfMoves(),
		Elo:          elo.Elo,
		EloError:     elo.Error(),
		LOS:          result.LOS(),
		Aborted:      len(result.Aborted),
	}
}

// Collect groups records by pairing, in order of first appearance. It
// fails on records which aren't sealed.
func Collect(records []*match.Record) ([]*Result, error) {
	var results []*Result
	index := make(map[string]*Result)

	for _, record := range records {
		pairing := Pairing{White: record.White, Black: record.Black}

		result, found := index[pairing.Name()]
		if !found {
			result = NewResult(pairing)
			index[pairing.Name()] = result
			results = append(results, result)
		}

		if err := result.Add(record); err != nil {
			return nil, err
		}
	}

	return results, nil
}
