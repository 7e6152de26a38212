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

// Package output resolves and reads scheduler output files. Ambiguity is
// never guessed away: zero candidates and multiple candidates are
// distinct errors so callers can branch on them.
package output

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

type Candidate struct {
	Path    string
	ModTime time.Time
}

type NotFoundError struct {
	Pattern string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no output file matching %q found", e.Pattern)
}

// AmbiguousError lists every match, oldest first, so the user can see at
// a glance which job each file belongs to.
type AmbiguousError struct {
	Pattern    string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d output files match %q", len(e.Candidates), e.Pattern)
}

// ResolveFile picks the single output file to read. An explicit path wins
// outright; otherwise pattern is globbed in dir and exactly one match is
// required.
func ResolveFile(dir string, pattern string, explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", &NotFoundError{Pattern: explicit}
		}
		return explicit, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("bad output pattern %q: %w", pattern, err)
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Pattern: pattern}
	case 1:
		return matches[0], nil
	}

	candidates := make([]Candidate, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		candidates = append(candidates, Candidate{Path: match, ModTime: info.ModTime()})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ModTime.Before(candidates[j].ModTime)
	})
	return "", &AmbiguousError{Pattern: pattern, Candidates: candidates}
}

// ExtractScratchDir returns the line immediately following the literal
// marker line in the file at path. Exactly one scratch directory is
// recorded per output file; a marker with nothing after it means the job
// died before echoing the path and is reported as not found.
func ExtractScratchDir(path string, marker string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if scanner.Text() != marker {
			continue
		}
		if !scanner.Scan() {
			break
		}
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", &NotFoundError{Pattern: marker}
}
