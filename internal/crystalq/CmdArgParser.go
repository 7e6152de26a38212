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

package crystalq

import (
	"os"

	"github.com/spf13/cobra"

	"CrystalQueue/internal/classify"
	"CrystalQueue/internal/locatescratch"
	"CrystalQueue/internal/qmgr"
	"CrystalQueue/internal/submit"
	"CrystalQueue/internal/trimqueue"
	"CrystalQueue/internal/util"
	"CrystalQueue/internal/watch"
)

var (
	RootCmd = &cobra.Command{
		Use:     "crystalq",
		Short:   "CRYSTAL job tools for Slurm clusters",
		Long:    "Batch script generation, throttled submission and output handling\nfor CRYSTAL calculations on a shared cluster.",
		Version: util.Version(),
		// Subcommands that read the config file install their own
		// PersistentPreRun and re-init the logger from it.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			util.InitLogger("info", "")
		},
	}
)

func ParseCmdArgs() {
	RootCmd.SetVersionTemplate(util.VersionTemplate())

	RootCmd.AddCommand(submit.RootCmd)
	RootCmd.AddCommand(trimqueue.RootCmd)
	RootCmd.AddCommand(locatescratch.RootCmd)
	RootCmd.AddCommand(qmgr.RootCmd)
	RootCmd.AddCommand(classify.RootCmd)
	RootCmd.AddCommand(watch.RootCmd)

	if err := RootCmd.Execute(); err != nil {
		os.Exit(util.ErrorCmdArg)
	}
}
