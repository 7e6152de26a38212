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

package classify

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"

	"CrystalQueue/internal/util"
)

// Extensions of the per-job file set moved when archiving a finished run.
var archiveExtensions = []string{".sh", ".out", ".d12", ".f9"}

// Run classifies every *.out file in dir, writes one <category>_list.csv
// per non-empty bucket, and, when archiveDir is set, moves the file sets
// of finished jobs there.
func Run(dir string, archiveDir string) error {
	outs, err := filepath.Glob(filepath.Join(dir, "*.out"))
	if err != nil {
		return err
	}
	sort.Strings(outs)

	buckets := make(map[Category][]string)
	for _, path := range outs {
		category, err := ClassifyFile(path)
		if err != nil {
			log.Warnf("Could not read %s: %v", path, err)
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), ".out")
		buckets[category] = append(buckets[category], name)
	}

	for category, names := range buckets {
		csvPath := filepath.Join(dir, string(category)+"_list.csv")
		if err := writeList(csvPath, names); err != nil {
			return fmt.Errorf("failed to write %s: %w", csvPath, err)
		}
		log.Infof("%s: %d jobs", category, len(names))
	}

	if archiveDir == "" {
		return nil
	}
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return err
	}
	finished := append(append([]string{}, buckets[CategoryComplete]...), buckets[CategoryCompleteSP]...)
	for _, name := range finished {
		if err := archiveJob(dir, archiveDir, name); err != nil {
			return err
		}
	}
	log.Infof("Archived %d finished jobs to %s", len(finished), archiveDir)
	return nil
}

func writeList(path string, names []string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"data_files"}); err != nil {
		_ = file.Close()
		return err
	}
	for _, name := range names {
		if err := writer.Write([]string{name}); err != nil {
			_ = file.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// archiveJob moves the job's file set; members a run never produced are
// skipped silently, as not every calculation writes every file.
func archiveJob(dir string, archiveDir string, name string) error {
	for _, ext := range archiveExtensions {
		src := filepath.Join(dir, name+ext)
		dst := filepath.Join(archiveDir, name+ext)
		moved, err := util.MoveFileIfExists(src, dst)
		if err != nil {
			return fmt.Errorf("failed to move %s: %w", src, err)
		}
		if moved {
			log.Debugf("Moved %s", src)
		}
	}
	return nil
}
