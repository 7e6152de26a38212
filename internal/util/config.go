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

package util

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// ResourceProfile is the fixed resource request rendered into every
// generated batch script. The values are data; the script text lives in
// the template.
type ResourceProfile struct {
	Nodes         uint32   `mapstructure:"nodes" yaml:"nodes"`
	NtasksPerNode uint32   `mapstructure:"ntasks-per-node" yaml:"ntasks-per-node"`
	CpusPerTask   uint32   `mapstructure:"cpus-per-task" yaml:"cpus-per-task"`
	Memory        string   `mapstructure:"memory" yaml:"memory"`
	WallTime      string   `mapstructure:"walltime" yaml:"walltime"`
	Partition     string   `mapstructure:"partition" yaml:"partition"`
	Account       string   `mapstructure:"account" yaml:"account"`
	Modules       []string `mapstructure:"modules" yaml:"modules"`
	ScratchRoot   string   `mapstructure:"scratch-root" yaml:"scratch-root"`
	Program       string   `mapstructure:"program" yaml:"program"`
	InputExt      string   `mapstructure:"input-ext" yaml:"input-ext"`
}

type SchedulerConfig struct {
	SubmitCmd string `mapstructure:"submit-cmd"`
	QueueCmd  string `mapstructure:"queue-cmd"`
	CancelCmd string `mapstructure:"cancel-cmd"`
}

type QueueConfig struct {
	MaxJobs      int    `mapstructure:"max-jobs"`
	ReserveSlots int    `mapstructure:"reserve-slots"`
	StatusFile   string `mapstructure:"status-file"`
}

type Config struct {
	LogLevel string `mapstructure:"log-level"`
	LogFile  string `mapstructure:"log-file"`

	// Glob matched against the working directory when no output file is
	// given explicitly. Generated scripts use --output=<name>-%J.o, hence
	// the default.
	OutputGlob string `mapstructure:"output-glob"`

	// Literal line preceding the scratch path in a job's output.
	ScratchMarker string `mapstructure:"scratch-marker"`

	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Profile   ResourceProfile `mapstructure:"profile"`
	Queue     QueueConfig     `mapstructure:"queue"`
}

var DefaultConfigPath string

func init() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "/tmp"
	}
	DefaultConfigPath = filepath.Join(home, ".config", "crystalq", "config.yaml")
}

const DefaultScratchMarker = "scratch job directory:"

func setDefaults(v *viper.Viper) {
	v.SetDefault("log-level", "info")
	v.SetDefault("output-glob", "*.o")
	v.SetDefault("scratch-marker", DefaultScratchMarker)

	v.SetDefault("scheduler.submit-cmd", "sbatch")
	v.SetDefault("scheduler.queue-cmd", "squeue")
	v.SetDefault("scheduler.cancel-cmd", "scancel")

	v.SetDefault("profile.nodes", 1)
	v.SetDefault("profile.ntasks-per-node", 32)
	v.SetDefault("profile.cpus-per-task", 1)
	v.SetDefault("profile.memory", "80G")
	v.SetDefault("profile.walltime", "7-00:00:00")
	v.SetDefault("profile.modules", []string{"CRYSTAL/23-intel"})
	v.SetDefault("profile.scratch-root", "$SCRATCH/crys23")
	v.SetDefault("profile.program", "Pcrystal")
	v.SetDefault("profile.input-ext", ".d12")

	v.SetDefault("queue.max-jobs", 250)
	v.SetDefault("queue.reserve-slots", 30)
	v.SetDefault("queue.status-file", "crystalq_status.json")
}

// ParseConfig loads the configuration file at path, falling back to
// built-in defaults for anything unset. A missing file is not an error;
// a malformed one is fatal.
func ParseConfig(path string) *Config {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("CRYSTALQ")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Fatalf("Failed to read config file %s: %v", path, err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		log.Fatalf("Failed to parse config file %s: %v", path, err)
	}
	return config
}
