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
	"slices"
	"testing"
)

func TestSortNatural(t *testing.T) {
	names := []string{"maia-1900", "maia-1100", "antimaia", "maia-900", "maia", "maia-1100b"}
	SortNatural(names)

	want := []string{"antimaia", "maia", "maia-900", "maia-1100", "maia-1100b", "maia-1900"}
	if !slices.Equal(names, want) {
		t.Errorf("sorted = %v, want %v", names, want)
	}

	if AlphanumCompare("a10", "a10") != 0 {
		t.Error("equal strings compare unequal")
	}
}
