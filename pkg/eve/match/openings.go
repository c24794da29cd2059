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

package match

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"unicode"
)

// NewBook reads an opening book of FEN or EPD positions, one per line.
// Strategy is either "random" or "sequential".
func NewBook(name string, strategy string, seed int64) (*OpeningBook, error) {
	file, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	book := ParseBook(string(file), strategy, seed)
	if len(book.entries) == 0 {
		return nil, fmt.Errorf("opening book %s: no positions", name)
	}

	return book, nil
}

// ParseBook parses the contents of an opening book. Blank lines and lines
// starting with # are skipped.
func ParseBook(contents string, strategy string, seed int64) *OpeningBook {
	var book OpeningBook
	for _, entry := range strings.Split(contents, "\n") {
		entry = strings.Trim(entry, "\n\r\t ")
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}

		book.entries = append(book.entries, toFEN(entry))
	}

	book.strategy = strategy
	book.seed = seed
	return &book
}

// toFEN converts an EPD record to a FEN string by dropping its operations
// and adding move counters. FEN strings are returned unchanged.
func toFEN(entry string) string {
	fields := strings.Fields(entry)
	if len(fields) <= 4 {
		return strings.Join(fields, " ") + " 0 1"
	}

	if len(fields) >= 6 && isNumber(fields[4]) && isNumber(fields[5]) {
		return strings.Join(fields[:6], " ")
	}

	return strings.Join(fields[:4], " ") + " 0 1"
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}

	return s != ""
}

type OpeningBook struct {
	entries  []string
	strategy string
	seed     int64
}

// Len returns the number of positions in the book.
func (book *OpeningBook) Len() int {
	return len(book.entries)
}

// Opening returns the opening position of the given game. The choice only
// depends on the game number, so resumed batches replay the same openings.
func (book *OpeningBook) Opening(game int) string {
	switch book.strategy {
	case "random":
		r := rand.New(rand.NewSource(book.seed + int64(game)))
		return book.entries[r.Intn(len(book.entries))]
	default:
		return book.entries[game%len(book.entries)]
	}
}
