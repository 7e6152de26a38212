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

package submit

import (
	"os"

	"github.com/spf13/cobra"

	"CrystalQueue/internal/util"
)

var (
	FlagConfigFilePath string
	FlagProfilePath    string
	FlagPartition      string
	FlagAccount        string
	FlagMem            string
	FlagTime           string
	FlagNodes          uint32
	FlagNtasks         uint32
	FlagCpusPerTask    uint32
	FlagDryRun         bool

	config *util.Config

	RootCmd = &cobra.Command{
		Use:   "submit [flags] job_name",
		Short: "Generate a batch script and submit it",
		Long: "Generate a batch script <job_name>.sh from the configured resource\n" +
			"profile and submit it to the scheduler.",
		Args: cobra.ExactArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config = util.ParseConfig(FlagConfigFilePath)
			util.InitLogger(config.LogLevel, config.LogFile)
		},
		Run: func(cmd *cobra.Command, args []string) {
			if err := Submit(cmd, args[0]); err != util.ErrorSuccess {
				os.Exit(err)
			}
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&FlagConfigFilePath, "config", "C",
		util.DefaultConfigPath, "Path to configuration file")
	RootCmd.Flags().StringVar(&FlagProfilePath, "profile", "",
		"Load the resource profile from a YAML file")
	RootCmd.Flags().StringVarP(&FlagPartition, "partition", "p", "",
		"Partition to submit to")
	RootCmd.Flags().StringVarP(&FlagAccount, "account", "A", "",
		"Account to charge the job to")
	RootCmd.Flags().StringVar(&FlagMem, "mem", "",
		"Memory request, e.g. 80G")
	RootCmd.Flags().StringVarP(&FlagTime, "time", "t", "",
		"Wall time limit, e.g. 7-00:00:00")
	RootCmd.Flags().Uint32VarP(&FlagNodes, "nodes", "N", 0,
		"Number of nodes")
	RootCmd.Flags().Uint32Var(&FlagNtasks, "ntasks-per-node", 0,
		"Tasks per node")
	RootCmd.Flags().Uint32VarP(&FlagCpusPerTask, "cpus-per-task", "c", 0,
		"Cpus per task")
	RootCmd.Flags().BoolVar(&FlagDryRun, "dry-run", false,
		"Render the script to stdout without writing or submitting")
}
