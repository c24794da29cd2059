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
	"context"
	"os"
	"os/signal"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/antimaia/pkg/eve/batch"
)

// antimaia run
func Run() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run batch-file",
		Short: "Play the games of a batch",
		Args:  cobra.ExactArgs(1),
		Long: heredoc.Doc(`run plays the games of the batch described by the given
			yaml file and stores every finished game, printing the
			results table as the batch progresses.

			A batch is resumed with --resume: games already stored
			under the batch's name are loaded instead of being
			played again. Without it, stored games of the batch are
			discarded before it starts.

			The lc0 and stockfish binaries and the directory of the
			maia weights are taken from ANTIMAIA_LC0_PATH,
			ANTIMAIA_STOCKFISH_PATH, and ANTIMAIA_WEIGHTS_DIR when
			the engines don't configure them.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			resume, _ := cmd.Flags().GetBool("resume")

			config, err := batch.LoadConfig(args[0])
			if err != nil {
				return err
			}

			env, err := environment()
			if err != nil {
				return err
			}

			players, err := engines(env, config)
			if err != nil {
				return err
			}

			records, err := openStore(env)
			if err != nil {
				return err
			}
			defer records.Close()

			runner, err := batch.NewBatch(config, players, records)
			if err != nil {
				return err
			}
			runner.Resume = resume

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			logrus.Infof("Playing batch %s with %d concurrent games", config.Name, config.Concurrency)
			_, err = runner.Run(ctx)
			return err
		},
	}

	cmd.Flags().Bool("resume", false, "Resume the batch from its stored games")
	return cmd
}
