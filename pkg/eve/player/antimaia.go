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
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/eve/match/games"
)

// Distributor is a model of how humans move.
type Distributor interface {
	Distribution(ctx context.Context, position match.Position) (Distribution, error)
	Close() error
}

// Analyser judges positions.
type Analyser interface {
	Analyse(ctx context.Context, fen string) (Analysis, error)
	Close() error
}

// StartAntimaia starts the Maia and Stockfish sessions used by an antimaia
// player.
func StartAntimaia(ctx context.Context, config, maiaConfig, stockfishConfig Config) (*Antimaia, error) {
	parallel := max(config.Parallel, 1)

	// mates found by stockfish are scored on the same scale as mates on
	// the board
	stockfishConfig.MateWeight = mateWeightOf(config)

	var (
		maias      []Distributor
		stockfishs []Analyser
	)

	cleanup := func() {
		_ = NewPool(maias...).Close()
		_ = NewPool(stockfishs...).Close()
	}

	for i := 0; i < parallel; i++ {
		// the composite never samples, so the seed is irrelevant
		maia, err := StartMaia(ctx, maiaConfig, 0)
		if err != nil {
			cleanup()
			return nil, err
		}

		maias = append(maias, maia)

		stockfish, err := StartStockfish(ctx, stockfishConfig)
		if err != nil {
			cleanup()
			return nil, err
		}

		stockfishs = append(stockfishs, stockfish)
	}

	return NewAntimaia(config, NewPool(maias...), NewPool(stockfishs...)), nil
}

// NewAntimaia creates an antimaia player on top of the given sessions,
// which it takes ownership of.
func NewAntimaia(config Config, maia *Pool[Distributor], stockfish *Pool[Analyser]) *Antimaia {
	return &Antimaia{
		name:       config.Name,
		maia:       maia,
		stockfish:  stockfish,
		candidates: config.Candidates,
		replies:    config.Replies,
		mateWeight: mateWeightOf(config),
		evals:      make(map[string]Eval),
	}
}

// Antimaia plays the move which is best for it on average over the replies
// Maia expects from a human opponent, as judged by Stockfish.
type Antimaia struct {
	name string

	maia      *Pool[Distributor]
	stockfish *Pool[Analyser]

	candidates int
	replies    int
	mateWeight int

	mu    sync.Mutex
	evals map[string]Eval
}

var _ match.Player = (*Antimaia)(nil)

func (antimaia *Antimaia) Name() string {
	return antimaia.name
}

func (antimaia *Antimaia) Move(ctx context.Context, position match.Position) (string, error) {
	side, err := sideToMove(position.FEN)
	if err != nil {
		return "", err
	}

	// a mate seen by stockfish is played directly
	var root Analysis
	err = antimaia.stockfish.Do(ctx, func(stockfish Analyser) error {
		var err error
		root, err = stockfish.Analyse(ctx, position.FEN)
		return err
	})
	if err != nil {
		return "", err
	}

	antimaia.remember(position.FEN, root.Eval)
	if root.Eval.Mate && root.Eval.Favours(side) && root.BestMove != "" {
		logrus.Debugf("(%s) playing stockfish mate %s", antimaia.name, root.BestMove)
		return root.BestMove, nil
	}

	candidates, err := antimaia.Candidates(ctx, position)
	if err != nil {
		return "", err
	}

	mov, err := Select(candidates, side)
	if err != nil {
		return "", fmt.Errorf("antimaia %s: %w", antimaia.name, err)
	}

	logrus.Debugf("(%s) %s: %s of %d candidates", antimaia.name, position.FEN, mov, len(candidates))
	return mov, nil
}

// Candidates evaluates the moves considered in the position together with
// the replies Maia expects to each.
func (antimaia *Antimaia) Candidates(ctx context.Context, position match.Position) ([]Candidate, error) {
	children, err := games.Children(position.FEN)
	if err != nil {
		return nil, err
	}

	if len(children) == 0 {
		return nil, ErrNoCandidates
	}

	if antimaia.candidates > 0 {
		children, err = antimaia.preferred(ctx, position, children)
		if err != nil {
			return nil, err
		}
	}

	candidates := make([]Candidate, len(children))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(antimaia.maia.Size(), antimaia.stockfish.Size(), 1))

	for i, child := range children {
		g.Go(func() error {
			candidate, err := antimaia.candidate(ctx, position, child)
			candidates[i] = candidate
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return candidates, nil
}

// preferred keeps the children reached by the moves Maia itself is most
// likely to play, in order of likelihood.
func (antimaia *Antimaia) preferred(ctx context.Context, position match.Position, children []games.Child) ([]games.Child, error) {
	var dist Distribution
	err := antimaia.maia.Do(ctx, func(maia Distributor) error {
		var err error
		dist, err = maia.Distribution(ctx, position)
		return err
	})
	if err != nil {
		return nil, err
	}

	var preferred []games.Child
	for _, prob := range dist {
		i := slices.IndexFunc(children, func(child games.Child) bool {
			return child.Move == prob.Move
		})

		if i >= 0 {
			preferred = append(preferred, children[i])
		}

		if len(preferred) == antimaia.candidates {
			break
		}
	}

	if len(preferred) == 0 {
		return children, nil
	}

	return preferred, nil
}

func (antimaia *Antimaia) candidate(ctx context.Context, position match.Position, child games.Child) (Candidate, error) {
	candidate := Candidate{Move: child.Move}

	if child.Result != games.Ongoing {
		candidate.Eval = TerminalEval(child.Result, antimaia.mateWeight)
		return candidate, nil
	}

	eval, err := antimaia.evaluate(ctx, child.FEN)
	if err != nil {
		return candidate, err
	}

	candidate.Eval = eval

	next := match.Position{
		StartFEN: position.StartFEN,
		Moves:    append(slices.Clone(position.Moves), child.Move),
		FEN:      child.FEN,
	}

	var dist Distribution
	err = antimaia.maia.Do(ctx, func(maia Distributor) error {
		var err error
		dist, err = maia.Distribution(ctx, next)
		return err
	})
	if err != nil && !errors.Is(err, ErrEmptyDistribution) {
		return candidate, err
	}

	grandchildren, err := games.Children(child.FEN)
	if err != nil {
		return candidate, err
	}

	for _, prob := range dist.Top(antimaia.replies) {
		i := slices.IndexFunc(grandchildren, func(grandchild games.Child) bool {
			return grandchild.Move == prob.Move
		})

		if i < 0 {
			logrus.Debugf("(%s) ignoring illegal reply %s in %s", antimaia.name, prob.Move, child.FEN)
			continue
		}

		reply := Reply{Move: prob.Move, Prob: prob.P}
		if result := grandchildren[i].Result; result != games.Ongoing {
			reply.Eval = TerminalEval(result, antimaia.mateWeight)
		} else if reply.Eval, err = antimaia.evaluate(ctx, grandchildren[i].FEN); err != nil {
			return candidate, err
		}

		candidate.Replies = append(candidate.Replies, reply)
	}

	return candidate, nil
}

// evaluate returns stockfish's evaluation of the position, remembering it
// for the rest of the game.
func (antimaia *Antimaia) evaluate(ctx context.Context, fen string) (Eval, error) {
	antimaia.mu.Lock()
	eval, found := antimaia.evals[fen]
	antimaia.mu.Unlock()

	if found {
		return eval, nil
	}

	err := antimaia.stockfish.Do(ctx, func(stockfish Analyser) error {
		analysis, err := stockfish.Analyse(ctx, fen)
		eval = analysis.Eval
		return err
	})
	if err != nil {
		return Eval{}, err
	}

	antimaia.remember(fen, eval)
	return eval, nil
}

func (antimaia *Antimaia) remember(fen string, eval Eval) {
	antimaia.mu.Lock()
	antimaia.evals[fen] = eval
	antimaia.mu.Unlock()
}

func (antimaia *Antimaia) Close() error {
	return errors.Join(antimaia.maia.Close(), antimaia.stockfish.Close())
}

func mateWeightOf(config Config) int {
	if config.MateWeight <= 0 {
		return DefaultMateWeight
	}

	return config.MateWeight
}

func sideToMove(fen string) (games.Color, error) {
	oracle := games.NewChessOracle()
	if err := oracle.Initialize(fen); err != nil {
		return games.White, err
	}

	return oracle.SideToMove(), nil
}
