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

package watch

import (
	"errors"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"CrystalQueue/internal/output"
	"CrystalQueue/internal/util"
)

var (
	FlagConfigFilePath string

	config *util.Config

	RootCmd = &cobra.Command{
		Use:   "watch [flags] [job_name|output_file]",
		Short: "Follow a running job's output until it finishes or fails",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config = util.ParseConfig(FlagConfigFilePath)
			util.InitLogger(config.LogLevel, config.LogFile)
		},
		Run: func(cmd *cobra.Command, args []string) {
			arg := ""
			if len(args) == 1 {
				arg = args[0]
			}

			cwd, err := os.Getwd()
			if err != nil {
				log.Errorln(err)
				os.Exit(util.ErrorCmdArg)
			}

			path, err := Resolve(cwd, arg, config.OutputGlob)
			if err != nil {
				log.Errorln(err)
				var ambiguous *output.AmbiguousError
				if errors.As(err, &ambiguous) {
					os.Exit(util.ErrorOutputAmbiguous)
				}
				os.Exit(util.ErrorOutputNotFound)
			}

			if code := Follow(path); code != util.ErrorSuccess {
				os.Exit(code)
			}
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&FlagConfigFilePath, "config", "C",
		util.DefaultConfigPath, "Path to configuration file")
}
