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
	"fmt"
	"strconv"
	"time"
)

// Overridden at link time:
//
//	go build -ldflags "-X CrystalQueue/internal/util.BuildVersion=v0.3.0 \
//	                   -X CrystalQueue/internal/util.BuildEpoch=$(date +%s)"
var (
	BuildVersion = "dev"
	BuildEpoch   = ""
)

func VersionTemplate() string {
	return "{{.Version}}\n"
}

// Version renders the one-line version string shown by --version.
func Version() string {
	built := "unknown"
	if epoch, err := strconv.ParseInt(BuildEpoch, 10, 64); err == nil {
		built = time.Unix(epoch, 0).UTC().Format(time.RFC1123Z)
	}
	return fmt.Sprintf("CrystalQueue %s (built %s)", BuildVersion, built)
}
