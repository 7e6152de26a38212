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

// Package watch follows a running job's output file and exits when the
// run reaches a terminal state, so shell pipelines can block on a job
// without polling the scheduler.
package watch

import (
	"fmt"
	"os"

	"github.com/nxadm/tail"
	log "github.com/sirupsen/logrus"

	"CrystalQueue/internal/classify"
	"CrystalQueue/internal/output"
	"CrystalQueue/internal/util"
)

// Follow prints lines of the file as they are appended. It returns
// ErrorSuccess on a completion marker and ErrorJobFailed on a known
// failure signature.
func Follow(path string) util.CmdError {
	t, err := tail.TailFile(path, tail.Config{
		Follow: true,
		ReOpen: false,
		Logger: tail.DiscardingLogger,
	})
	if err != nil {
		log.Errorf("Cannot follow %s: %v", path, err)
		return util.ErrorOutputNotFound
	}
	defer func() {
		_ = t.Stop()
		t.Cleanup()
	}()

	for line := range t.Lines {
		if line.Err != nil {
			log.Errorf("Error while following %s: %v", path, line.Err)
			return util.ErrorOutputNotFound
		}
		fmt.Println(line.Text)

		if category, failed := classify.MatchErrorLine(line.Text); failed {
			log.Errorf("Job failed (%s)", category)
			return util.ErrorJobFailed
		}
		if classify.IsCompletionLine(line.Text) {
			log.Infof("Job finished")
			return util.ErrorSuccess
		}
	}
	// Output ended without a terminal marker.
	return util.ErrorJobFailed
}

// Resolve maps the command argument to an output file: an existing path
// is taken as-is, anything else is treated as a job name and matched as
// <name>-*.o; with no argument the configured glob must match uniquely.
func Resolve(dir string, arg string, configGlob string) (string, error) {
	if arg != "" {
		if _, err := os.Stat(arg); err == nil {
			return arg, nil
		}
		return output.ResolveFile(dir, arg+"-*.o", "")
	}
	return output.ResolveFile(dir, configGlob, "")
}
