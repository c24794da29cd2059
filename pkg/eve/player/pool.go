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
)

// Pool hands out a fixed set of engine sessions, one user at a time.
type Pool[T interface{ Close() error }] struct {
	free chan T
	all  []T
}

func NewPool[T interface{ Close() error }](sessions ...T) *Pool[T] {
	pool := &Pool[T]{
		free: make(chan T, len(sessions)),
		all:  sessions,
	}

	for _, session := range sessions {
		pool.free <- session
	}

	return pool
}

// Size returns the number of sessions in the pool.
func (pool *Pool[T]) Size() int {
	return len(pool.all)
}

// Do runs fn with a session from the pool, waiting for one to be free.
func (pool *Pool[T]) Do(ctx context.Context, fn func(session T) error) error {
	var session T
	select {
	case session = <-pool.free:
	case <-ctx.Done():
		return ctx.Err()
	}

	defer func() { pool.free <- session }()
	return fn(session)
}

// Close closes every session of the pool. The pool must not be in use.
func (pool *Pool[T]) Close() error {
	var errs []error
	for _, session := range pool.all {
		if err := session.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
