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
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formats of result reports.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatYAML     = "yaml"
	FormatJSON     = "json"
)

// Rows returns the table rows of the results.
func Rows(results []*Result) []Row {
	rows := make([]Row, len(results))
	for i, result := range results {
		rows[i] = result.Row()
	}

	return rows
}

// Report writes the results table in the given format.
func Report(w io.Writer, results []*Result, format string) error {
	rows := Rows(results)

	switch format {
	case FormatTable, "":
		return table(w, rows)
	case FormatMarkdown:
		return markdown(w, rows)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(rows)
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func table(w io.Writer, rows []Row) error {
	var sb strings.Builder

	sb.WriteString("╔══════════════════════════════════════════════════════════════════════════════════════╗\n")
	sb.WriteString("║     Pairing                           Games   Win%  Draw%  Loss%  Plies    Elo Error ║\n")
	sb.WriteString("╠══════════════════════════════════════════════════════════════════════════════════════╣\n")
	for i, row := range rows {
		format := "║ %2d. %-32s %6d %6.1f %6.1f %6.1f %6.1f  %+5.0f %5.0f ║\n"
		if row.Aborted > 0 {
			format = "║ \x1b[31m%2d. %-32s %6d %6.1f %6.1f %6.1f %6.1f  %+5.0f %5.0f\x1b[0m ║\n"
		}

		fmt.Fprintf(
			&sb, format,
			i+1, truncate(row.White+" vs "+row.Black, 32),
			row.Games, row.WinPct, row.DrawPct, row.LossPct,
			row.AvgHalfMoves, row.Elo, row.EloError,
		)
	}
	sb.WriteString("╚══════════════════════════════════════════════════════════════════════════════════════╝\n")

	for _, row := range rows {
		if row.Aborted > 0 {
			fmt.Fprintf(&sb, "%s vs %s: %d aborted games\n", row.White, row.Black, row.Aborted)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func markdown(w io.Writer, rows []Row) error {
	var sb strings.Builder

	sb.WriteString("| White | Black | Games | Win % | Draw % | Loss % | Avg. half-moves | LOS % |\n")
	sb.WriteString("|---|---|---:|---:|---:|---:|---:|---:|\n")
	for _, row := range rows {
		fmt.Fprintf(
			&sb, "| %s | %s | %d | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
			row.White, row.Black, row.Games,
			row.WinPct, row.DrawPct, row.LossPct, row.AvgHalfMoves, 100*row.LOS,
		)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}

	return string([]rune(s)[:n-1]) + "…"
}
