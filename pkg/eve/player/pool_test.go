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
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type session struct {
	busy   atomic.Bool
	closed atomic.Bool
}

func (session *session) Close() error {
	session.closed.Store(true)
	return nil
}

func TestPool(t *testing.T) {
	sessions := []*session{{}, {}}
	pool := NewPool(sessions...)

	var (
		wg      sync.WaitGroup
		active  atomic.Int32
		maximum atomic.Int32
	)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := pool.Do(context.Background(), func(s *session) error {
				if !s.busy.CompareAndSwap(false, true) {
					t.Error("session handed out twice")
				}
				defer s.busy.Store(false)

				n := active.Add(1)
				defer active.Add(-1)

				for {
					m := maximum.Load()
					if n <= m || maximum.CompareAndSwap(m, n) {
						break
					}
				}

				time.Sleep(5 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}

	wg.Wait()

	if maximum.Load() > 2 {
		t.Errorf("%d sessions in use at once, pool has 2", maximum.Load())
	}

	failure := errors.New("failure")
	if err := pool.Do(context.Background(), func(*session) error { return failure }); !errors.Is(err, failure) {
		t.Errorf("Do error = %v, want %v", err, failure)
	}

	// both sessions are held, so the pool is exhausted
	hold := make(chan struct{})
	held := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		go pool.Do(context.Background(), func(*session) error {
			held <- struct{}{}
			<-hold
			return nil
		})
	}
	<-held
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := pool.Do(ctx, func(*session) error { return nil }); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do on exhausted pool = %v, want deadline exceeded", err)
	}

	close(hold)

	if err := pool.Close(); err != nil {
		t.Fatal(err)
	}

	for i, s := range sessions {
		if !s.closed.Load() {
			t.Errorf("session %d not closed", i)
		}
	}
}
