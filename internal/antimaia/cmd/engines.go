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
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"laptudirm.com/x/antimaia/pkg/eve/batch"
	"laptudirm.com/x/antimaia/internal/util"
)

// CheckTimeout bounds the query each engine has to answer.
const CheckTimeout = time.Minute

// antimaia engines
func Engines() *cobra.Command {
	return &cobra.Command{
		Use:   "engines batch-file",
		Short: "Check that the engines of a batch start and answer a query",
		Args:  cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
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

			names := players.Names()
			util.SortNatural(names)

			fmt.Println("\x1b[32mConfigured Engines\x1b[0m:")

			failed := 0
			for _, name := range names {
				err := util.Spin("checking "+name, func() error {
					ctx, cancel := context.WithTimeout(context.Background(), CheckTimeout)
					defer cancel()

					return players.Check(ctx, name)
				})

				label := fmt.Sprintf("\x1b[34m%s\x1b[0m:", name)
				if err != nil {
					failed++
					fmt.Printf("- %-30s \x1b[31m%v\x1b[0m\n", label, err)
					continue
				}

				fmt.Printf("- %-30s \x1b[33m%s\x1b[0m ok\n", label, players[name].Type)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d engines failed the check", failed, len(names))
			}

			return nil
		},
	}
}
