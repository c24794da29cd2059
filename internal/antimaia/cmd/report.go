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
	"os"

	"github.com/spf13/cobra"

	"laptudirm.com/x/antimaia/pkg/eve/batch"
	"laptudirm.com/x/antimaia/internal/util"
)

// antimaia report
func Report() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [batch-name]",
		Short: "Show the results of a stored batch, or list the batches",
		Args:  cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")

			env, err := environment()
			if err != nil {
				return err
			}

			records, err := openStore(env)
			if err != nil {
				return err
			}
			defer records.Close()

			if len(args) == 0 {
				names, err := records.Batches()
				if err != nil {
					return err
				}

				if len(names) == 0 {
					fmt.Println("\x1b[31mNo Batches Stored.\x1b[0m")
					return nil
				}

				util.SortNatural(names)

				fmt.Println("\x1b[32mStored Batches\x1b[0m:")
				for _, name := range names {
					fmt.Printf("- \x1b[34m%s\x1b[0m\n", name)
				}

				return nil
			}

			stored, err := records.Records(args[0])
			if err != nil {
				return err
			}

			if len(stored) == 0 {
				return fmt.Errorf("batch %s: no games stored", args[0])
			}

			results, err := batch.Collect(stored)
			if err != nil {
				return fmt.Errorf("batch %s: %w", args[0], err)
			}

			return batch.Report(os.Stdout, results, format)
		},
	}

	cmd.Flags().StringP("format", "f", batch.FormatTable, "Report format: table, markdown, yaml, or json")
	return cmd
}
