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
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"CrystalQueue/internal/script"
	"CrystalQueue/internal/slurm"
	"CrystalQueue/internal/util"
)

// BuildJobSpec layers the resource profile: config defaults, then an
// optional profile file, then explicit command line flags.
func BuildJobSpec(cmd *cobra.Command, name string) (*script.JobSpec, error) {
	profile := config.Profile

	if FlagProfilePath != "" {
		loaded, err := script.LoadProfile(FlagProfilePath, profile)
		if err != nil {
			return nil, err
		}
		profile = loaded
	}

	if cmd.Flags().Changed("partition") {
		profile.Partition = FlagPartition
	}
	if cmd.Flags().Changed("account") {
		profile.Account = FlagAccount
	}
	if cmd.Flags().Changed("mem") {
		profile.Memory = FlagMem
	}
	if cmd.Flags().Changed("time") {
		profile.WallTime = FlagTime
	}
	if cmd.Flags().Changed("nodes") {
		profile.Nodes = FlagNodes
	}
	if cmd.Flags().Changed("ntasks-per-node") {
		profile.NtasksPerNode = FlagNtasks
	}
	if cmd.Flags().Changed("cpus-per-task") {
		profile.CpusPerTask = FlagCpusPerTask
	}

	return &script.JobSpec{Name: name, Profile: profile}, nil
}

func Submit(cmd *cobra.Command, name string) util.CmdError {
	spec, err := BuildJobSpec(cmd, name)
	if err != nil {
		log.Errorln(err)
		return util.ErrorCmdArg
	}

	if FlagDryRun {
		if err := spec.Render(os.Stdout); err != nil {
			log.Errorln(err)
			return util.ErrorCmdArg
		}
		return util.ErrorSuccess
	}

	cwd, err := os.Getwd()
	if err != nil {
		log.Errorln(err)
		return util.ErrorCmdArg
	}

	path, err := spec.Write(cwd)
	if err != nil {
		log.Errorf("Failed to write batch script: %v", err)
		return util.ErrorCmdArg
	}

	client := slurm.NewClient(config.Scheduler)
	jobId, err := client.Submit(context.Background(), cwd, path)
	if err != nil {
		log.Errorf("Failed to submit %s: %v", path, err)
		var extErr *slurm.ExternalError
		if errors.As(err, &extErr) {
			os.Exit(extErr.ExitCode)
		}
		return util.ErrorScheduler
	}

	fmt.Printf("Submitted batch job %d\n", jobId)
	return util.ErrorSuccess
}
