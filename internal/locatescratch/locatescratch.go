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
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"CrystalQueue/internal/output"
	"CrystalQueue/internal/util"
)

func Locate(explicit string) util.CmdError {
	cwd, err := os.Getwd()
	if err != nil {
		log.Errorln(err)
		return util.ErrorCmdArg
	}

	path, dir, code := LocateIn(cwd, explicit)
	if code != util.ErrorSuccess {
		return code
	}

	log.Debugf("Scratch directory of %s:", path)
	fmt.Println(dir)
	return util.ErrorSuccess
}

// LocateIn resolves the output file in dir and extracts the recorded
// scratch path. The returned code distinguishes not-found (1) from
// ambiguous (2) so a shell wrapper can branch.
func LocateIn(dir string, explicit string) (string, string, util.CmdError) {
	path, err := output.ResolveFile(dir, config.OutputGlob, explicit)
	if err != nil {
		var ambiguous *output.AmbiguousError
		if errors.As(err, &ambiguous) {
			log.Errorf("Ambiguous: %v. Candidates, oldest first:", ambiguous)
			for _, candidate := range ambiguous.Candidates {
				fmt.Fprintf(os.Stderr, "  %s\t%s\n",
					candidate.ModTime.Format("2006-01-02 15:04:05"), candidate.Path)
			}
			return "", "", util.ErrorOutputAmbiguous
		}
		log.Errorln(err)
		return "", "", util.ErrorOutputNotFound
	}

	scratchDir, err := output.ExtractScratchDir(path, config.ScratchMarker)
	if err != nil {
		log.Errorf("No scratch directory recorded in %s: %v", path, err)
		return "", "", util.ErrorOutputNotFound
	}
	return path, scratchDir, util.ErrorSuccess
}
