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

package script

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"CrystalQueue/internal/util"
)

func testProfile() util.ResourceProfile {
	return util.ResourceProfile{
		Nodes:         1,
		NtasksPerNode: 32,
		CpusPerTask:   1,
		Memory:        "80G",
		WallTime:      "7-00:00:00",
		Modules:       []string{"CRYSTAL/23-intel"},
		ScratchRoot:   "$SCRATCH/crys23",
		Program:       "Pcrystal",
		InputExt:      ".d12",
	}
}

func TestRender(t *testing.T) {
	testCases := []struct {
		name      string
		spec      JobSpec
		contains  []string
		absent    []string
		expectErr bool
	}{
		{
			name: "basic job",
			spec: JobSpec{Name: "mgo_bulk", Profile: testProfile()},
			contains: []string{
				"#SBATCH --job-name=mgo_bulk",
				"#SBATCH --output=mgo_bulk-%J.o",
				"#SBATCH --ntasks-per-node=32",
				"#SBATCH --mem=80G",
				"#SBATCH --time=7-00:00:00",
				"module load CRYSTAL/23-intel",
				"cp $DIR/$JOB.d12 $scratch/INPUT",
				"scratch job directory:",
				"mpirun -np $SLURM_NTASKS Pcrystal",
			},
			absent: []string{"--partition", "--account"},
		},
		{
			name: "partition and account",
			spec: func() JobSpec {
				p := testProfile()
				p.Partition = "general"
				p.Account = "chem"
				return JobSpec{Name: "slab", Profile: p}
			}(),
			contains: []string{
				"#SBATCH --partition=general",
				"#SBATCH --account=chem",
			},
		},
		{
			name:      "empty name",
			spec:      JobSpec{Name: "", Profile: testProfile()},
			expectErr: true,
		},
		{
			name:      "name with path separator",
			spec:      JobSpec{Name: "../evil", Profile: testProfile()},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := tc.spec.Render(&buf)
			if tc.expectErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			text := buf.String()
			for _, want := range tc.contains {
				if !strings.Contains(text, want) {
					t.Errorf("rendered script missing %q", want)
				}
			}
			for _, unwanted := range tc.absent {
				if strings.Contains(text, unwanted) {
					t.Errorf("rendered script should not contain %q", unwanted)
				}
			}
		})
	}
}

func TestRenderSingleOutputDirective(t *testing.T) {
	var buf bytes.Buffer
	spec := JobSpec{Name: "diamond", Profile: testProfile()}
	if err := spec.Render(&buf); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(buf.String(), "#SBATCH --output="); got != 1 {
		t.Errorf("want exactly 1 output directive, got %d", got)
	}
	if !strings.Contains(buf.String(), "--output=diamond-%J.o") {
		t.Error("output directive does not reference the job name")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	spec := JobSpec{Name: "quartz", Profile: testProfile()}

	path, err := spec.Write(dir)
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "quartz.sh") {
		t.Errorf("unexpected path %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("want mode 0755, got %v", info.Mode().Perm())
	}

	// Overwrite must not fail or append.
	if _, err := spec.Write(dir); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "#!/bin/bash"); got != 1 {
		t.Errorf("overwrite left %d shebang lines", got)
	}
}

func TestWriteEmptyNameWritesNothing(t *testing.T) {
	dir := t.TempDir()
	spec := JobSpec{Name: "", Profile: testProfile()}
	if _, err := spec.Write(dir); err == nil {
		t.Fatal("expected error for empty name")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("no file should be written, found %d entries", len(entries))
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	content := "memory: 120G\nwalltime: 1-00:00:00\npartition: bigmem\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	profile, err := LoadProfile(path, testProfile())
	if err != nil {
		t.Fatal(err)
	}
	if profile.Memory != "120G" || profile.WallTime != "1-00:00:00" || profile.Partition != "bigmem" {
		t.Errorf("profile file values not applied: %+v", profile)
	}
	// Unset fields keep the base values.
	if profile.NtasksPerNode != 32 || profile.Program != "Pcrystal" {
		t.Errorf("base values lost: %+v", profile)
	}
}
