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

package qmgr

import (
	"context"
	"os"
	"os/user"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"CrystalQueue/internal/util"
)

var (
	FlagConfigFilePath string
	FlagDeckDir        string
	FlagMaxSubmit      int
	FlagMaxJobs        int
	FlagReserveSlots   int

	config *util.Config

	RootCmd = &cobra.Command{
		Use:   "queue",
		Short: "Manage throttled submission of a batch of input decks",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config = util.ParseConfig(FlagConfigFilePath)
			util.InitLogger(config.LogLevel, config.LogFile)
			if cmd.Flags().Changed("max-jobs") {
				config.Queue.MaxJobs = FlagMaxJobs
			}
			if cmd.Flags().Changed("reserve-slots") {
				config.Queue.ReserveSlots = FlagReserveSlots
			}
		},
	}

	processCmd = &cobra.Command{
		Use:   "process",
		Short: "Submit pending decks while job slots remain",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			manager := newManagerOrExit()
			if _, err := manager.Process(context.Background(), FlagMaxSubmit); err != nil {
				log.Errorln(err)
				os.Exit(util.ErrorScheduler)
			}
		},
	}

	statusCmd = &cobra.Command{
		Use:   "status",
		Short: "Show pending/running/completed counts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			manager := newManagerOrExit()
			if err := manager.PrintStatus(context.Background(), os.Stdout); err != nil {
				log.Errorln(err)
				os.Exit(util.ErrorScheduler)
			}
		},
	}
)

func newManagerOrExit() *Manager {
	current, err := user.Current()
	if err != nil {
		log.Errorf("Failed to determine current user: %v", err)
		os.Exit(util.ErrorCmdArg)
	}

	manager, err := NewManager(config, current.Username, FlagDeckDir)
	if err != nil {
		log.Errorln(err)
		os.Exit(util.ErrorStatus)
	}
	return manager
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&FlagConfigFilePath, "config", "C",
		util.DefaultConfigPath, "Path to configuration file")
	RootCmd.PersistentFlags().StringVarP(&FlagDeckDir, "dir", "d", ".",
		"Directory scanned for input decks")
	RootCmd.PersistentFlags().IntVar(&FlagMaxJobs, "max-jobs", 0,
		"Override the configured per-user job limit")
	RootCmd.PersistentFlags().IntVar(&FlagReserveSlots, "reserve-slots", 0,
		"Override the configured number of reserved slots")
	processCmd.Flags().IntVar(&FlagMaxSubmit, "max-submit", -1,
		"Submit at most this many jobs in one run (-1 for no cap)")

	RootCmd.AddCommand(processCmd)
	RootCmd.AddCommand(statusCmd)
}
