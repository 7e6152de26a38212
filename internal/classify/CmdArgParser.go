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

package classify

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"CrystalQueue/internal/util"
)

var (
	FlagDir        string
	FlagArchiveDir string

	RootCmd = &cobra.Command{
		Use:   "classify [flags]",
		Short: "Sort job output files into outcome lists",
		Long: "Scan *.out files, write a <category>_list.csv per outcome, and\n" +
			"optionally move the file sets of finished jobs to an archive\n" +
			"directory.",
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := Run(FlagDir, FlagArchiveDir); err != nil {
				log.Errorln(err)
				os.Exit(util.ErrorCmdArg)
			}
		},
	}
)

func init() {
	RootCmd.Flags().StringVarP(&FlagDir, "dir", "d", ".",
		"Directory holding the output files")
	RootCmd.Flags().StringVar(&FlagArchiveDir, "archive", "",
		"Move finished jobs' files into this directory")
}
