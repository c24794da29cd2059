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
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"laptudirm.com/x/antimaia/pkg/eve/match"
)

func record(white, black string, number int, result match.Result, plies int) *match.Record {
	config := &match.Config{Batch: "exp", Pairing: Pairing{White: white, Black: black}.Name(), Number: number}
	record := match.NewRecord(config, white, black)
	for i := 0; i < plies; i++ {
		record.Append("e2e4")
	}

	record.Seal(result, "Checkmate", "")
	return record
}

func TestResult(t *testing.T) {
	result := NewResult(Pairing{White: "a", Black: "b"})

	if result.WhiteWinPct() != 0 || result.DrawPct() != 0 || result.BlackWinPct() != 0 || result.AvgHalfMoves() != 0 {
		t.Errorf("empty result has statistics: %+v", result.Row())
	}

	outcomes := []match.Result{match.Win, match.Win, match.Draw, match.Loss, match.Win, match.Draw, match.Loss}
	for i, outcome := range outcomes {
		if err := result.Add(record("a", "b", i+1, outcome, 10*(i+1))); err != nil {
			t.Fatal(err)
		}
	}

	if ws, ds, ls := result.Score(); ws != 3 || ds != 2 || ls != 2 {
		t.Errorf("score = %d-%d-%d, want 3-2-2", ws, ds, ls)
	}

	sum := result.WhiteWinPct() + result.DrawPct() + result.BlackWinPct()
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("percentages sum to %f", sum)
	}

	if result.AvgHalfMoves() != 40 {
		t.Errorf("average half moves = %f, want 40", result.AvgHalfMoves())
	}

	if elo := result.Elo(); elo.Elo <= 0 {
		t.Errorf("white scored better, elo = %v", elo)
	}

	sweep := NewResult(Pairing{White: "a", Black: "b"})
	for i := 0; i < 20; i++ {
		if err := sweep.Add(record("a", "b", i+1, match.Win, 37)); err != nil {
			t.Fatal(err)
		}
	}

	if row := sweep.Row(); row.Elo <= 500 || row.EloError < 0 || row.LOS < 0.99 {
		t.Errorf("a clean sweep is reported as %+v", row)
	}

	if err := result.Add(record("b", "a", 8, match.Win, 1)); err == nil {
		t.Error("record of another pairing added")
	}

	unsealed := match.NewRecord(&match.Config{}, "a", "b")
	if err := result.Add(unsealed); err == nil {
		t.Error("unsealed record added")
	}

	result.Abort(9, errors.New("engine b: crashed"))
	if row := result.Row(); row.Games != 7 || row.Aborted != 1 {
		t.Errorf("row = %+v", row)
	}
}

func TestCollect(t *testing.T) {
	results, err := Collect([]*match.Record{
		record("a", "b", 1, match.Win, 3),
		record("b", "a", 1, match.Loss, 3),
		record("a", "b", 2, match.Draw, 3),
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("%d results, want 2", len(results))
	}

	if results[0].Pairing().Name() != "a vs b" || results[0].Games() != 2 || results[1].Games() != 1 {
		t.Errorf("records grouped wrongly: %+v %+v", results[0], results[1])
	}

	unsealed := match.NewRecord(&match.Config{Batch: "exp"}, "a", "b")
	if _, err := Collect([]*match.Record{record("a", "b", 1, match.Win, 3), unsealed}); err == nil {
		t.Error("unsealed record collected")
	}
}

func TestReport(t *testing.T) {
	results, err := Collect([]*match.Record{
		record("antimaia", "maia-1100", 1, match.Win, 41),
		record("antimaia", "maia-1100", 2, match.Draw, 80),
		record("maia-1100", "antimaia", 1, match.Loss, 52),
	})
	if err != nil {
		t.Fatal(err)
	}
	results[1].Abort(2, errors.New("lc0 not found"))

	var buf bytes.Buffer
	if err := Report(&buf, results, FormatTable); err != nil {
		t.Fatal(err)
	}

	plain := strings.NewReplacer("\x1b[31m", "", "\x1b[0m", "")

	width := -1
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if !strings.ContainsAny(line[:3], "║╔╠╚") {
			// aborted games note
			continue
		}

		line = plain.Replace(line)
		if width == -1 {
			width = utf8.RuneCountInString(line)
		} else if n := utf8.RuneCountInString(line); n != width {
			t.Errorf("line %q is %d wide, want %d", line, n, width)
		}
	}

	if !strings.Contains(buf.String(), "maia-1100 vs antimaia: 1 aborted games") {
		t.Errorf("table doesn't list aborted games:\n%s", buf.String())
	}

	if !strings.Contains(buf.String(), "antimaia vs maia-1100") {
		t.Errorf("table doesn't name the pairing:\n%s", buf.String())
	}

	buf.Reset()
	if err := Report(&buf, results, FormatMarkdown); err != nil {
		t.Fatal(err)
	}

	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 4 {
		t.Errorf("markdown table has %d lines, want 4:\n%s", len(lines), buf.String())
	}

	buf.Reset()
	if err := Report(&buf, results, FormatJSON); err != nil {
		t.Fatal(err)
	}

	var rows []Row
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}

	if len(rows) != 2 || rows[0].Games != 2 || rows[0].WinPct != 50 || rows[1].Aborted != 1 || rows[0].LOS <= 0.5 {
		t.Errorf("json rows = %+v", rows)
	}

	buf.Reset()
	if err := Report(&buf, results, FormatYAML); err != nil {
		t.Fatal(err)
	}

	rows = nil
	if err := yaml.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatal(err)
	}

	if len(rows) != 2 || rows[1].LossPct != 100 {
		t.Errorf("yaml rows = %+v", rows)
	}

	if err := Report(&buf, results, "html"); err == nil {
		t.Error("unknown format accepted")
	}
}
