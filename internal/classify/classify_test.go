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
	"os"
	"path/filepath"
	"testing"
)

func writeOut(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".out"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestClassifyFile(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    Category
	}{
		{
			name:    "converged optimization",
			content: "CRYSTAL23\n ... \n OPT END - CONVERGED\n    TOTAL CPU TIME =        312.44\n",
			want:    CategoryComplete,
		},
		{
			name:    "single point",
			content: "CRYSTAL23\n    TOTAL CPU TIME =         12.01\n",
			want:    CategoryCompleteSP,
		},
		{
			name:    "scf did not converge",
			content: " SCF ENDED - TOO MANY CYCLES\n",
			want:    "too_many_scf",
		},
		{
			name:    "killed by oom",
			content: "slurmstepd: Invoked out-of-memory handler\n",
			want:    "memory",
		},
		{
			name:    "walltime exceeded",
			content: "slurmstepd: *** JOB CANCELLED DUE TO TIME LIMIT ***\n",
			want:    "time",
		},
		{
			name:    "atoms too close",
			content: " **** NEIGHB ****\n",
			want:    "geometry_small_dist",
		},
		{
			name:    "segfault",
			content: "forrtl: severe (174): SIGSEGV, segmentation fault occurred\n",
			want:    "potential",
		},
		{
			name:    "case insensitive matching",
			content: "SEGMENTATION FAULT\n",
			want:    "potential",
		},
		{
			name: "error wins over completion marker",
			content: "    TOTAL CPU TIME =        100.00\n" +
				"srun: error: node died\n",
			want: "potential",
		},
		{
			name:    "unrecognized error",
			content: "some ERROR nobody has catalogued\n",
			want:    CategoryUnknown,
		},
		{
			name:    "still running",
			content: "CRYSTAL23\n SCF cycle 12\n",
			want:    CategoryOngoing,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeOut(t, dir, "job", tc.content)

			got, err := ClassifyFile(filepath.Join(dir, "job.out"))
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestRunWritesCategoryLists(t *testing.T) {
	dir := t.TempDir()
	writeOut(t, dir, "good", " OPT END - CONVERGED\n")
	writeOut(t, dir, "also_good", " OPT END - CONVERGED\n")
	writeOut(t, dir, "stuck", " SCF ENDED - TOO MANY CYCLES\n")

	if err := Run(dir, ""); err != nil {
		t.Fatal(err)
	}

	records := readList(t, filepath.Join(dir, "complete_list.csv"))
	if len(records) != 3 || records[0][0] != "data_files" {
		t.Fatalf("unexpected complete list: %v", records)
	}
	names := map[string]bool{records[1][0]: true, records[2][0]: true}
	if !names["good"] || !names["also_good"] {
		t.Errorf("complete list wrong: %v", records)
	}

	records = readList(t, filepath.Join(dir, "too_many_scf_list.csv"))
	if len(records) != 2 || records[1][0] != "stuck" {
		t.Errorf("too_many_scf list wrong: %v", records)
	}

	// No bucket, no file.
	if _, err := os.Stat(filepath.Join(dir, "ongoing_list.csv")); !os.IsNotExist(err) {
		t.Error("empty categories must not produce list files")
	}
}

func TestRunArchivesFinishedJobs(t *testing.T) {
	dir := t.TempDir()
	writeOut(t, dir, "finished", " OPT END - CONVERGED\n")
	writeOut(t, dir, "running", " SCF cycle 3\n")

	// The finished job's file set, minus the .f9 that this run never wrote.
	for _, ext := range []string{".sh", ".d12"} {
		if err := os.WriteFile(filepath.Join(dir, "finished"+ext), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	archive := filepath.Join(dir, "done")
	if err := Run(dir, archive); err != nil {
		t.Fatal(err)
	}

	for _, ext := range []string{".sh", ".out", ".d12"} {
		if _, err := os.Stat(filepath.Join(archive, "finished"+ext)); err != nil {
			t.Errorf("finished%s not archived: %v", ext, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "finished"+ext)); !os.IsNotExist(err) {
			t.Errorf("finished%s left behind", ext)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "running.out")); err != nil {
		t.Error("running job's output must stay put")
	}
}

func readList(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}
