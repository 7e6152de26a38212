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
	"os"

	log "github.com/sirupsen/logrus"
)

func RemoveFileIfExists(path string) bool {
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			log.Warnf("Failed to remove %s: %v", path, err)
			return false
		}
	}
	return true
}

// MoveFileIfExists renames src to dst, falling back to copy+remove when
// the rename crosses filesystems. A missing src is not an error.
func MoveFileIfExists(src, dst string) (bool, error) {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	if err := os.Rename(src, dst); err == nil {
		return true, nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return false, err
	}
	return true, os.Remove(src)
}
