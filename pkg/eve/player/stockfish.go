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

package player

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/freeeve/uci"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// Analysis is the result of a fixed depth search.
type Analysis struct {
	BestMove string
	Eval     Eval
}

var ErrNoAnalysis = errors.New("stockfish: no analysis")

// StartStockfish starts a stockfish process with the configured options.
func StartStockfish(ctx context.Context, config Config) (*Stockfish, error) {
	type started struct {
		engine *uci.Engine
		err    error
	}

	// the uci package can't be interrupted, so give up on it from here
	done := make(chan started, 1)
	go func() {
		engine, err := uci.NewEngine(config.Cmd, strings.Fields(config.Arg)...)
		if err != nil {
			done <- started{err: err}
			return
		}

		err = engine.SetOptions(uci.Options{
			Hash:    config.Hash,
			Threads: config.Threads,
			MultiPV: 1,
			Ponder:  false,
			OwnBook: false,
		})
		if err != nil {
			engine.Close()
			done <- started{err: err}
			return
		}

		done <- started{engine: engine}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("stockfish %s: %w", config.Name, res.err)
		}

		return &Stockfish{
			name:       config.Name,
			engine:     res.engine,
			depth:      config.Depth,
			mateWeight: config.MateWeight,
		}, nil

	case <-ctx.Done():
		go func() {
			if res := <-done; res.engine != nil {
				res.engine.Close()
			}
		}()

		return nil, ctx.Err()
	}
}

// Stockfish plays the best move of a fixed depth search.
type Stockfish struct {
	name   string
	engine *uci.Engine

	depth      int
	mateWeight int

	mu        sync.Mutex
	broken    error
	closeOnce sync.Once
}

var _ match.Player = (*Stockfish)(nil)

func (stockfish *Stockfish) Name() string {
	return stockfish.name
}

func (stockfish *Stockfish) Move(ctx context.Context, position match.Position) (string, error) {
	analysis, err := stockfish.Analyse(ctx, position.FEN)
	if err != nil {
		return "", err
	}

	if analysis.BestMove == "" || analysis.BestMove == "(none)" {
		return "", fmt.Errorf("stockfish %s: no move in %s", stockfish.name, position.FEN)
	}

	return analysis.BestMove, nil
}

// Analyse searches the position to the configured depth.
func (stockfish *Stockfish) Analyse(ctx context.Context, fen string) (Analysis, error) {
	stockfish.mu.Lock()
	defer stockfish.mu.Unlock()

	if stockfish.broken != nil {
		return Analysis{}, fmt.Errorf("stockfish %s: %w", stockfish.name, stockfish.broken)
	}

	type searched struct {
		results *uci.Results
		err     error
	}

	done := make(chan searched, 1)
	go func() {
		if err := stockfish.engine.SetFEN(fen); err != nil {
			done <- searched{err: err}
			return
		}

		results, err := stockfish.engine.GoDepth(stockfish.depth, uci.HighestDepthOnly)
		done <- searched{results: results, err: err}
	}()

	var res searched
	select {
	case res = <-done:
	case <-ctx.Done():
		// the engine is still searching; it can't be used again
		stockfish.broken = ctx.Err()
		go stockfish.Close()
		return Analysis{}, fmt.Errorf("stockfish %s: %w", stockfish.name, ctx.Err())
	}

	if res.err != nil {
		stockfish.broken = res.err
		return Analysis{}, fmt.Errorf("stockfish %s: %w", stockfish.name, res.err)
	}

	analysis, err := stockfish.analysis(fen, res.results)
	if err != nil {
		return Analysis{}, fmt.Errorf("stockfish %s: %s: %w", stockfish.name, fen, err)
	}

	logrus.Tracef("(%s) %s: %s %s", stockfish.name, fen, analysis.BestMove, analysis.Eval)
	return analysis, nil
}

func (stockfish *Stockfish) analysis(fen string, results *uci.Results) (Analysis, error) {
	if results == nil || len(results.Results) == 0 {
		return Analysis{}, ErrNoAnalysis
	}

	best := results.Results[0]
	for _, result := range results.Results {
		if result.Depth > best.Depth {
			best = result
		}
	}

	stm := games.White
	if strings.Contains(fen, " b ") {
		stm = games.Black
	}

	analysis := Analysis{BestMove: results.BestMove}
	if best.Mate {
		analysis.Eval = MateEval(best.Score, stm, stockfish.mateWeight)
	} else {
		analysis.Eval = CentipawnEval(best.Score, stm)
	}

	return analysis, nil
}

func (stockfish *Stockfish) Close() error {
	stockfish.closeOnce.Do(func() {
		stockfish.engine.Close()
	})

	return nil
}
