/**
 * Copyright (c) 2025 CrystalQueue Developers
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package trimqueue

import (
	"fmt"
	"os"
	"os/user"
	"strconv"

	"github.com/spf13/cobra"

	"CrystalQueue/internal/util"
)

var (
	FlagConfigFilePath string
	FlagUserName       string

	config *util.Config

	RootCmd = &cobra.Command{
		Use:   "trim-queue [flags] min_job_id",
		Short: "Cancel every queued job with an id above a threshold",
		Long: "Cancel every job of the invoking user whose id is strictly greater\n" +
			"than min_job_id. Jobs at or below the threshold are left alone.",
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return err
			}
			if _, err := strconv.ParseUint(args[0], 10, 32); err != nil {
				return fmt.Errorf("min_job_id must be a positive integer, got %q", args[0])
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config = util.ParseConfig(FlagConfigFilePath)
			util.InitLogger(config.LogLevel, config.LogFile)
		},
		Run: func(cmd *cobra.Command, args []string) {
			// Validated in Args above.
			threshold, _ := strconv.ParseUint(args[0], 10, 32)

			userName := FlagUserName
			if userName == "" {
				current, err := user.Current()
				if err != nil {
					fmt.Fprintf(os.Stderr, "Failed to determine current user: %v\n", err)
					os.Exit(util.ErrorCmdArg)
				}
				userName = current.Username
			}

			if err := Trim(uint32(threshold), userName); err != util.ErrorSuccess {
				os.Exit(err)
			}
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&FlagConfigFilePath, "config", "C",
		util.DefaultConfigPath, "Path to configuration file")
	RootCmd.Flags().StringVarP(&FlagUserName, "user", "u", "",
		"Trim the queue of this user instead of the invoking one")
}
