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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"laptudirm.com/x/antimaia/pkg/eve/match"
	"laptudirm.com/x/antimaia/pkg/eve/store"
)

// ReportInterval is the number of games after which the results table is
// printed.
const ReportInterval = 5

// Starter starts players for games.
type Starter interface {
	Start(ctx context.Context, name string, seed int64) (match.Player, error)
}

func NewBatch(config *Config, starter Starter, records *store.Store) (*Batch, error) {
	var batch Batch
	batch.Config = config
	batch.starter = starter
	batch.store = records
	batch.Output = os.Stdout

	if config.Openings.File != "" {
		var err error
		batch.openings, err = match.NewBook(config.Openings.File, config.Openings.Order, config.Seed)
		if err != nil {
			return nil, err
		}
	}

	for _, pairing := range config.Schedule() {
		batch.Results = append(batch.Results, NewResult(pairing))
	}

	return &batch, nil
}

type Batch struct {
	Config *Config

	// Resume skips games whose records are already stored.
	Resume bool

	// Output receives the progress reports.
	Output io.Writer

	Results []*Result

	starter  Starter
	store    *store.Store
	openings *match.OpeningBook

	pgn   io.Writer
	mu    sync.Mutex
	games int
}

type job struct {
	result *Result
	number int
}

type outcome struct {
	job
	record *match.Record
	err    error
}

// Run plays every scheduled game and returns the results of the batch,
// one per pairing.
func (batch *Batch) Run(ctx context.Context) ([]*Result, error) {
	if err := batch.prepare(); err != nil {
		return nil, err
	}

	if closer, ok := batch.pgn.(io.Closer); ok {
		defer closer.Close()
	}

	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan job)
	outcomes := make(chan outcome)

	g.Go(func() error {
		defer close(jobs)
		return batch.schedule(ctx, jobs)
	})

	g.Go(func() error {
		return batch.collect(ctx, outcomes)
	})

	var wg sync.WaitGroup
	for i := 0; i < batch.Config.Concurrency; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return batch.play(ctx, jobs, outcomes)
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(outcomes)
		return nil
	})

	if err := g.Wait(); err != nil {
		return batch.Results, err
	}

	return batch.Results, batch.Report()
}

// prepare loads the stored records of a resumed batch, or clears them for
// a fresh one, and opens the pgn file.
func (batch *Batch) prepare() error {
	if batch.store != nil {
		if batch.Resume {
			records, err := batch.store.Records(batch.Config.Name)
			if err != nil {
				return err
			}

			for _, record := range records {
				if result := batch.result(record.Pairing); result != nil {
					if err := result.Add(record); err != nil {
						return err
					}
				}
			}
		} else if err := batch.store.DeleteBatch(batch.Config.Name); err != nil {
			return err
		}
	}

	if batch.Config.PGNOut != "" {
		file, err := os.OpenFile(batch.Config.PGNOut, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("pgn-out: %w", err)
		}

		batch.pgn = file
	}

	return nil
}

func (batch *Batch) result(pairing string) *Result {
	for _, result := range batch.Results {
		if result.Pairing().Name() == pairing {
			return result
		}
	}

	return nil
}

func (batch *Batch) schedule(ctx context.Context, jobs chan<- job) error {
	for _, result := range batch.Results {
		for number := 1; number <= batch.Config.Games; number++ {
			if batch.Resume && batch.store != nil {
				done, err := batch.store.Has(batch.Config.Name, result.Pairing().Name(), number)
				if err != nil {
					return err
				}

				if done {
					continue
				}
			}

			select {
			case jobs <- job{result: result, number: number}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return nil
}

func (batch *Batch) play(ctx context.Context, jobs <-chan job, outcomes chan<- outcome) error {
	for job := range jobs {
		record, err := batch.playGame(ctx, job)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case outcomes <- outcome{job: job, record: record, err: err}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (batch *Batch) playGame(ctx context.Context, job job) (*match.Record, error) {
	pairing := job.result.Pairing()
	seed := batch.Config.Seed + int64(job.number)

	config := &match.Config{
		Batch:       batch.Config.Name,
		Pairing:     pairing.Name(),
		Number:      job.number,
		Seed:        seed,
		MaxPlies:    batch.Config.MaxPlies,
		MoveTimeout: batch.Config.MoveTimeout,
	}

	if batch.openings != nil {
		// a pairing and its reverse play the same openings
		config.PositionFEN = batch.openings.Opening(job.number - 1)
	}

	logrus.Infof(
		"\x1b[33mStarting\x1b[0m %s Game #%d: %s vs %s",
		batch.Config.Name, job.number, pairing.White, pairing.Black,
	)

	white, err := batch.starter.Start(ctx, pairing.White, 2*seed)
	if err != nil {
		return nil, err
	}
	defer closePlayer(white)

	black, err := batch.starter.Start(ctx, pairing.Black, 2*seed+1)
	if err != nil {
		return nil, err
	}
	defer closePlayer(black)

	return match.Run(ctx, config, white, black)
}

func closePlayer(player match.Player) {
	if err := player.Close(); err != nil {
		logrus.Debugf("close %s: %v", player.Name(), err)
	}
}

func (batch *Batch) collect(ctx context.Context, outcomes <-chan outcome) error {
	for outcome := range outcomes {
		if err := batch.handle(outcome); err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}

	return nil
}

func (batch *Batch) handle(outcome outcome) error {
	batch.mu.Lock()
	defer batch.mu.Unlock()

	pairing := outcome.result.Pairing()

	if outcome.err != nil {
		var unavailable *match.EngineUnavailableError
		if !errors.As(outcome.err, &unavailable) {
			return outcome.err
		}

		logrus.Warnf(
			"\x1b[31mAborted\x1b[0m %s Game #%d: %s vs %s: %v",
			batch.Config.Name, outcome.number, pairing.White, pairing.Black, outcome.err,
		)

		outcome.result.Abort(outcome.number, outcome.err)
		return nil
	}

	record := outcome.record
	if err := outcome.result.Add(record); err != nil {
		return err
	}

	logrus.Infof(
		"\x1b[32mFinished\x1b[0m %s Game #%d: %s vs %s: %s in %s",
		batch.Config.Name, outcome.number, pairing.White, pairing.Black, record,
		record.Duration().Round(time.Millisecond),
	)

	if batch.store != nil {
		if err := batch.store.Put(record); err != nil {
			return err
		}
	}

	if batch.pgn != nil {
		pgn, err := match.PGN(record, batch.Config.Event, batch.Config.Site)
		if err != nil {
			return err
		}

		if _, err := fmt.Fprintf(batch.pgn, "%s\n\n", pgn); err != nil {
			return fmt.Errorf("pgn-out: %w", err)
		}
	}

	batch.games++
	if batch.games%ReportInterval == 0 {
		return batch.report()
	}

	return nil
}

// Report prints the results table.
func (batch *Batch) Report() error {
	batch.mu.Lock()
	defer batch.mu.Unlock()
	return batch.report()
}

func (batch *Batch) report() error {
	return Report(batch.Output, batch.Results, FormatTable)
}
