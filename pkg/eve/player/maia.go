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
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/antimaia/pkg/eve/match"
)

// Prob is the probability Maia assigns to a move.
type Prob struct {
	Move string
	P    float64
}

// Distribution is a probability distribution over moves, most likely move
// first.
type Distribution []Prob

// Top returns the n most likely moves renormalised to sum to one. A
// non-positive n keeps every move.
func (dist Distribution) Top(n int) Distribution {
	if n > 0 && n < len(dist) {
		dist = dist[:n]
	}

	var total float64
	for _, prob := range dist {
		total += prob.P
	}

	top := make(Distribution, len(dist))
	for i, prob := range dist {
		top[i] = prob
		if total > 0 {
			top[i].P = prob.P / total
		}
	}

	return top
}

// Sample picks a move with probability proportional to its weight.
func (dist Distribution) Sample(r *rand.Rand) string {
	var total float64
	for _, prob := range dist {
		total += prob.P
	}

	if total <= 0 {
		return dist[r.Intn(len(dist))].Move
	}

	pick := r.Float64() * total
	for _, prob := range dist {
		pick -= prob.P
		if pick < 0 {
			return prob.Move
		}
	}

	return dist[len(dist)-1].Move
}

// ParseMoveStat parses an lc0 verbose move statistics line into the move
// and its policy probability.
func ParseMoveStat(line string) (string, float64, bool) {
	stat, found := strings.CutPrefix(line, "info string ")
	if !found {
		return "", 0, false
	}

	stat = strings.ReplaceAll(stat, " ", "")

	mov, _, found := strings.Cut(stat, "(")
	if !found || mov == "" || mov == "node" {
		return "", 0, false
	}

	_, policy, found := strings.Cut(stat, "P:")
	if !found {
		return "", 0, false
	}

	pct, _, found := strings.Cut(policy, "%")
	if !found {
		return "", 0, false
	}

	p, err := strconv.ParseFloat(pct, 64)
	if err != nil {
		return "", 0, false
	}

	return mov, p / 100, true
}

var ErrEmptyDistribution = errors.New("maia: empty move distribution")

// StartMaia starts lc0 with the configured Maia network.
func StartMaia(ctx context.Context, config Config, seed int64) (*Maia, error) {
	args := fmt.Sprintf("--weights=%s --verbose-move-stats %s", config.Weights, config.Arg)

	engine, err := match.StartEngine(ctx, match.EngineConfig{
		Name:    config.Name,
		Cmd:     config.Cmd,
		Dir:     config.Dir,
		Arg:     strings.TrimSpace(args),
		Stderr:  config.Stderr,
		Timeout: config.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return &Maia{
		name:   config.Name,
		engine: engine,
		sample: config.Sample == nil || *config.Sample,
		rand:   rand.New(rand.NewSource(seed)),
	}, nil
}

// Maia plays moves chosen from the policy of a Maia network.
type Maia struct {
	name   string
	engine *match.Engine

	sample bool
	rand   *rand.Rand

	// set once a query is abandoned midway
	broken error
}

var _ match.Player = (*Maia)(nil)

func (maia *Maia) Name() string {
	return maia.name
}

func (maia *Maia) Move(ctx context.Context, position match.Position) (string, error) {
	dist, err := maia.Distribution(ctx, position)
	if err != nil {
		return "", err
	}

	if !maia.sample {
		return dist[0].Move, nil
	}

	return dist.Sample(maia.rand), nil
}

// Distribution returns Maia's move probabilities for the position from a
// single node search.
func (maia *Maia) Distribution(ctx context.Context, position match.Position) (Distribution, error) {
	if maia.broken != nil {
		return nil, fmt.Errorf("maia %s: %w", maia.name, maia.broken)
	}

	if err := maia.engine.Write("%s", position.Command()); err != nil {
		return nil, maia.fail(err)
	}

	if err := maia.engine.Write("go nodes 1"); err != nil {
		return nil, maia.fail(err)
	}

	var dist Distribution
	err := maia.engine.Scan(ctx, timeout(ctx), func(line string) bool {
		if strings.HasPrefix(line, "bestmove") {
			return true
		}

		if mov, p, ok := ParseMoveStat(line); ok {
			dist = append(dist, Prob{Move: mov, P: p})
		}

		return false
	})
	if err != nil {
		return nil, maia.fail(err)
	}

	if len(dist) == 0 {
		return nil, ErrEmptyDistribution
	}

	sort.SliceStable(dist, func(i, j int) bool {
		return dist[i].P > dist[j].P
	})

	logrus.Tracef("(%s) distribution: %v", maia.name, dist)
	return dist, nil
}

// fail marks the session as unusable, since the engine may still be
// answering the abandoned query.
func (maia *Maia) fail(err error) error {
	maia.broken = err
	_ = maia.engine.Kill()
	return fmt.Errorf("maia %s: %w", maia.name, err)
}

func (maia *Maia) Close() error {
	return maia.engine.Kill()
}

// timeout returns the time left until ctx's deadline, or a generous
// default if there is none.
func timeout(ctx context.Context) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		return time.Until(deadline)
	}

	return match.DefaultMoveTimeout
}
