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

package util

import (
	"regexp"
	"slices"
	"strconv"
)

var chunkifyRegexp = regexp.MustCompile(`(\d+|\D+)`)

func chunkify(s string) []string {
	return chunkifyRegexp.FindAllString(s, -1)
}

// AlphanumCompare compares two strings in natural order, so that maia-900
// sorts before maia-1100.
func AlphanumCompare(a, b string) int {
	chunksA := chunkify(a)
	chunksB := chunkify(b)

	for i := 0; i < len(chunksA) && i < len(chunksB); i++ {
		aInt, aErr := strconv.Atoi(chunksA[i])
		bInt, bErr := strconv.Atoi(chunksB[i])

		switch {
		// If both chunks are numeric, compare them as integers
		case aErr == nil && bErr == nil:
			if aInt != bInt {
				if aInt < bInt {
					return -1
				}
				return 1
			}

		case chunksA[i] < chunksB[i]:
			return -1
		case chunksA[i] > chunksB[i]:
			return 1
		}
	}

	// one is a prefix of the other
	return len(chunksA) - len(chunksB)
}

// SortNatural sorts names in natural order.
func SortNatural(names []string) {
	slices.SortStableFunc(names, AlphanumCompare)
}
