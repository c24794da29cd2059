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

// Package ucitest provides fake uci engines for tests. A test binary acts
// as one of the engines when started with the argument returned by Arg,
// provided its TestMain calls MaybeRun.
package ucitest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// Kinds of fake engines.
const (
	// Lc0 reports a move probability distribution like lc0 with the
	// --verbose-move-stats flag.
	Lc0 = "lc0"

	// Stockfish searches one ply deep with a material evaluation and
	// reports scores like stockfish.
	Stockfish = "stockfish"

	// Silent completes the handshake but never answers a search.
	Silent = "silent"

	// Crash completes the handshake and exits when asked to search.
	Crash = "crash"

	// Mute never answers the handshake.
	Mute = "mute"
)

const flagPrefix = "-ucitest.engine="

// Cmd returns the path of the running test binary.
func Cmd() string {
	return os.Args[0]
}

// Arg returns the argument which makes the test binary act as the given
// kind of engine.
func Arg(kind string) string {
	return flagPrefix + kind
}

// MaybeRun serves the fake engine requested on the command line, if any,
// and exits the process.
func MaybeRun() {
	for _, arg := range os.Args[1:] {
		if kind, ok := strings.CutPrefix(arg, flagPrefix); ok {
			os.Exit(Serve(kind, os.Stdin, os.Stdout))
		}
	}
}

// Serve runs the given kind of engine over in and out until it receives
// quit or its input is closed, and returns the exit code.
func Serve(kind string, in io.Reader, out io.Writer) int {
	writer := bufio.NewWriter(out)
	send := func(format string, a ...any) {
		fmt.Fprintf(writer, format+"\n", a...)
		writer.Flush()
	}

	if kind == Stockfish {
		send("Stockfish by the ucitest authors")
	}

	fen := games.StartFEN
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "uci":
			if kind == Mute {
				continue
			}

			send("id name ucitest %s", kind)
			send("uciok")

		case "isready":
			send("readyok")

		case "position":
			next, err := parsePosition(fields[1:])
			if err != nil {
				send("info string %v", err)
				continue
			}

			fen = next

		case "go":
			switch kind {
			case Silent, Mute:
			case Crash:
				return 3
			case Lc0:
				lc0(fen, send)
			default:
				depth := 1
				if len(fields) >= 3 && fields[1] == "depth" {
					depth, _ = strconv.Atoi(fields[2])
				}

				stockfish(fen, depth, send)
			}

		case "quit":
			return 0
		}
	}

	return 0
}

func parsePosition(fields []string) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("empty position command")
	}

	fen := games.StartFEN
	rest := fields[1:]
	if fields[0] == "fen" {
		end := len(rest)
		for i, field := range rest {
			if field == "moves" {
				end = i
				break
			}
		}

		fen = strings.Join(rest[:end], " ")
		rest = rest[end:]
	}

	var moves []string
	if len(rest) > 0 && rest[0] == "moves" {
		moves = rest[1:]
	}

	return games.Apply(fen, moves...)
}

// Distribution is the move distribution reported by the Lc0 engine: the
// alphabetically first legal move gets half of the probability and the
// rest is shared equally. It returns the moves in alphabetical order.
func Distribution(fen string) ([]string, []float64) {
	children, err := games.Children(fen)
	if err != nil || len(children) == 0 {
		return nil, nil
	}

	moves := make([]string, len(children))
	for i, child := range children {
		moves[i] = child.Move
	}
	sort.Strings(moves)

	probs := make([]float64, len(moves))
	if len(moves) == 1 {
		probs[0] = 1
		return moves, probs
	}

	probs[0] = 0.5
	for i := 1; i < len(moves); i++ {
		probs[i] = 0.5 / float64(len(moves)-1)
	}

	return moves, probs
}

func lc0(fen string, send func(string, ...any)) {
	moves, probs := Distribution(fen)
	if len(moves) == 0 {
		send("bestmove (none)")
		return
	}

	// lc0 reports the least visited moves first
	for i := len(moves) - 1; i >= 0; i-- {
		send(
			"info string %-5s (%d ) N:       0 (+ 0) (P: %5.2f%%) (WL:  -.-----) (D: -.---) (M:  -.-) (Q: -0.01000) (U: 0.10000) (S: 0.10000) (V:  -.----)",
			moves[i], 100+i, probs[i]*100,
		)
	}

	send("info string node  ( 20) N:       1 (+ 0) (P: 100.00%%) (WL: -0.01000) (D: 0.000) (M:  0.0) (Q: -0.01000) (V: -0.0100)")
	send("info depth 1 seldepth 1 time 1 nodes 1 score cp 1 nps 1 tbhits 0 pv %s", moves[0])
	send("bestmove %s", moves[0])
}

var pieceValues = map[rune]int{
	'P': 100, 'N': 300, 'B': 300, 'R': 500, 'Q': 900,
	'p': -100, 'n': -300, 'b': -300, 'r': -500, 'q': -900,
}

// Material returns the material balance of the position from white's
// point of view in centipawns.
func Material(fen string) int {
	placement, _, _ := strings.Cut(fen, " ")

	score := 0
	for _, piece := range placement {
		score += pieceValues[piece]
	}

	return score
}

func stockfish(fen string, depth int, send func(string, ...any)) {
	sign := 1
	if strings.Contains(fen, " b ") {
		sign = -1
	}

	result, _, _ := games.Status(fen)
	switch result {
	case games.WhiteWins, games.BlackWins:
		send("info depth 0 score mate 0")
		send("bestmove (none)")
		return
	case games.Draw:
		send("info depth 0 score cp 0")
		send("bestmove (none)")
		return
	}

	children, err := games.Children(fen)
	if err != nil {
		send("bestmove (none)")
		return
	}

	sort.Slice(children, func(i, j int) bool {
		return children[i].Move < children[j].Move
	})

	best, bestScore := children[0], -1<<31
	for _, child := range children {
		if child.Result != games.Ongoing && child.Result != games.Draw {
			for d := 1; d <= depth; d++ {
				send("info depth %d seldepth %d multipv 1 score mate 1 nodes 20 nps 20000 tbhits 0 time 1 pv %s", d, d, child.Move)
			}

			send("bestmove %s", child.Move)
			return
		}

		score := sign * Material(child.FEN)
		if child.Result == games.Draw {
			score = 0
		}

		if score > bestScore {
			best, bestScore = child, score
		}
	}

	for d := 1; d <= depth; d++ {
		send("info depth %d seldepth %d multipv 1 score cp %d nodes 20 nps 20000 tbhits 0 time 1 pv %s", d, d, bestScore, best.Move)
	}

	send("bestmove %s", best.Move)
}
