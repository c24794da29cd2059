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

// Package store persists sealed game records in a badger database.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"laptudirm.com/x/antimaia/pkg/eve/match"
)

const recordPrefix = "record/"

var (
	ErrNotSealed = errors.New("store: record is not sealed")
	ErrNotFound  = errors.New("store: record not found")
)

type Store struct {
	db *badger.DB
}

// Open opens the store in the given directory, creating it if needed.
func Open(dir string) (*Store, error) {
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a store which is lost when closed.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func batchPrefix(batch string) string {
	return recordPrefix + batch + "/"
}

func recordKey(batch, pairing string, number int) []byte {
	return []byte(fmt.Sprintf("%s%s/%06d", batchPrefix(batch), pairing, number))
}

// Put saves a sealed record, replacing any record of the same game.
func (s *Store) Put(record *match.Record) error {
	if !record.Sealed {
		return ErrNotSealed
	}

	if strings.Contains(record.Batch, "/") || strings.Contains(record.Pairing, "/") {
		return fmt.Errorf("store: invalid batch %q or pairing %q", record.Batch, record.Pairing)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(record.Batch, record.Pairing, record.Number), data)
	})
}

// Has reports whether the record of the given game is stored.
func (s *Store) Has(batch, pairing string, number int) (bool, error) {
	found := true
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(batch, pairing, number))
		if errors.Is(err, badger.ErrKeyNotFound) {
			found = false
			return nil
		}

		return err
	})

	return found, err
}

// Records returns every record of the batch, ordered by pairing and game
// number.
func (s *Store) Records(batch string) ([]*match.Record, error) {
	var records []*match.Record
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(batchPrefix(batch))

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var record match.Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &record)
			})
			if err != nil {
				return fmt.Errorf("store: %s: %w", it.Item().Key(), err)
			}

			records = append(records, &record)
		}

		return nil
	})

	return records, err
}

// Record returns the record of the batch with the given id.
func (s *Store) Record(batch, id string) (*match.Record, error) {
	records, err := s.Records(batch)
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, batch, id)
}

// Batches returns the names of the batches with stored records.
func (s *Store) Batches() ([]string, error) {
	var batches []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			batch, _, _ := strings.Cut(strings.TrimPrefix(string(it.Item().Key()), recordPrefix), "/")
			if len(batches) == 0 || batches[len(batches)-1] != batch {
				batches = append(batches, batch)
			}
		}

		return nil
	})

	return batches, err
}

// DeleteBatch removes every record of the batch.
func (s *Store) DeleteBatch(batch string) error {
	return s.db.DropPrefix([]byte(batchPrefix(batch)))
}
