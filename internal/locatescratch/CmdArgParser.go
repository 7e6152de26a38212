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

package locatescratch

import (
	"os"

	"github.com/spf13/cobra"

	"CrystalQueue/internal/util"
)

var (
	FlagConfigFilePath string

	config *util.Config

	RootCmd = &cobra.Command{
		Use:   "locate-scratch [flags] [output_file]",
		Short: "Report the scratch directory recorded in a job's output file",
		Long: "Find the job output file (given explicitly or as the unique match of\n" +
			"the configured glob) and print the scratch directory recorded in it.\n" +
			"The caller's shell does the cd; exit code 1 means no output file,\n" +
			"2 means more than one.",
		Args: cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config = util.ParseConfig(FlagConfigFilePath)
			util.InitLogger(config.LogLevel, config.LogFile)
		},
		Run: func(cmd *cobra.Command, args []string) {
			explicit := ""
			if len(args) == 1 {
				explicit = args[0]
			}
			if err := Locate(explicit); err != util.ErrorSuccess {
				os.Exit(err)
			}
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&FlagConfigFilePath, "config", "C",
		util.DefaultConfigPath, "Path to configuration file")
}
