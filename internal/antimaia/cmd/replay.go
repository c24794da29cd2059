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

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"laptudirm.com/x/antimaia/pkg/eve/match"
)

// antimaia replay
func Replay() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay batch-name game-id",
		Short: "Print a stored game as PGN after checking that it replays",
		Args:  cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			event, _ := cmd.Flags().GetString("event")
			site, _ := cmd.Flags().GetString("site")

			env, err := environment()
			if err != nil {
				return err
			}

			records, err := openStore(env)
			if err != nil {
				return err
			}
			defer records.Close()

			record, err := records.Record(args[0], args[1])
			if err != nil {
				return err
			}

			state, err := match.Replay(record)
			if err != nil {
				return err
			}

			if state.Result != record.Result || state.FEN != record.FinalFEN {
				return fmt.Errorf(
					"game %s: replay ends in %s (%s) at %s, stored %s (%s) at %s",
					record.ID, state.Result, state.Reason, state.FEN,
					record.Result, record.Reason, record.FinalFEN,
				)
			}

			pgn, err := match.PGN(record, event, site)
			if err != nil {
				return err
			}

			fmt.Println(pgn)
			return nil
		},
	}

	cmd.Flags().String("event", "", "Event field of the PGN")
	cmd.Flags().String("site", "", "Site field of the PGN")
	return cmd
}
