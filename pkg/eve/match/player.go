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

import "context"

// Position is what a player is asked to move in.
type Position struct {
	// StartFEN is the position the game started from.
	StartFEN string

	// Moves are the uci moves played from StartFEN.
	Moves []string

	// FEN is the current position.
	FEN string
}

// Command returns the uci position command for the position.
func (position Position) Command() string {
	return PositionCommand(position.StartFEN, position.Moves)
}

// Player is anything that can propose a move for a position.
type Player interface {
	Name() string

	// Move returns the uci move to play in the given position. Errors are
	// treated as the player being unavailable.
	Move(ctx context.Context, position Position) (string, error)

	// Close releases every resource, including engine processes, held
	// by the player.
	Close() error
}
