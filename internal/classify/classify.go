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

// Package classify sorts CRYSTAL output files into outcome buckets by the
// messages the program and the scheduler leave behind. An error pattern
// anywhere in the file wins over completion markers, because a job that
// segfaulted after printing timings did not finish.
package classify

import (
	"bufio"
	"os"
	"strings"
)

type Category string

const (
	CategoryComplete   Category = "complete"
	CategoryCompleteSP Category = "completesp"
	CategoryUnknown    Category = "unknown"
	CategoryOngoing    Category = "ongoing"
)

// Known failure signatures, matched case-insensitively. Order matters:
// the first category with a match claims the file.
var errorPatterns = []struct {
	Category Category
	Patterns []string
}{
	{"too_many_scf", []string{"TOO MANY CYCLES"}},
	{"memory", []string{"out-of-memory handler"}},
	{"quota", []string{"error during write"}},
	{"time", []string{"DUE TO TIME LIMIT"}},
	{"geometry_small_dist", []string{"**** NEIGHB ****"}},
	{"shrink_error", []string{"ANISOTROPIC SHRINKING FACTOR"}},
	{"linear_basis", []string{"BASIS SET LINEARLY DEPENDENT"}},
	{"potential", []string{
		"segmentation fault",
		"=   bad termination of",
		"abort(1) on node",
		"srun: error:",
		"slurmstepd: error: ***",
		"forrtl: error (78):",
		"Stack trace terminated abnormally.",
	}},
}

const (
	optEndMarker  = "OPT END"
	cpuTimeMarker = "    TOTAL CPU TIME ="
)

// ErrorCategories lists the failure bucket names in match order.
func ErrorCategories() []Category {
	categories := make([]Category, 0, len(errorPatterns))
	for _, group := range errorPatterns {
		categories = append(categories, group.Category)
	}
	return categories
}

// MatchErrorLine reports the failure category a single line belongs to,
// if any.
func MatchErrorLine(line string) (Category, bool) {
	lower := strings.ToLower(line)
	for _, group := range errorPatterns {
		for _, pattern := range group.Patterns {
			if strings.Contains(lower, strings.ToLower(pattern)) {
				return group.Category, true
			}
		}
	}
	return "", false
}

// IsCompletionLine reports whether a line marks a finished run, either a
// converged optimization or a single point with timings printed.
func IsCompletionLine(line string) bool {
	return strings.Contains(line, optEndMarker) || strings.Contains(line, cpuTimeMarker)
}

// ClassifyFile reads one output file and assigns its category.
func ClassifyFile(path string) (Category, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasOptEnd := false
	hasCpuTime := false
	hasGenericError := false

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if category, ok := MatchErrorLine(line); ok {
			return category, nil
		}
		if strings.Contains(line, optEndMarker) {
			hasOptEnd = true
		}
		if strings.Contains(line, cpuTimeMarker) {
			hasCpuTime = true
		}
		if strings.Contains(strings.ToLower(line), "error") {
			hasGenericError = true
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	switch {
	case hasOptEnd:
		return CategoryComplete, nil
	case hasCpuTime:
		return CategoryCompleteSP, nil
	case hasGenericError:
		return CategoryUnknown, nil
	default:
		return CategoryOngoing, nil
	}
}
