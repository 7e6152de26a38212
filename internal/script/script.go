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

// Package script renders scheduler batch files. A JobSpec is consumed
// once: the name and resource profile are substituted into a static
// template and the result is written next to the input deck. The shell
// body is deliberately opaque to the rest of the program; the only line
// other components rely on is the scratch directory marker.
package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/template"

	"gopkg.in/yaml.v3"

	"CrystalQueue/internal/util"
)

type JobSpec struct {
	Name    string
	Profile util.ResourceProfile
}

// The body mirrors the site submission script: stage the input deck into
// a per-job scratch directory, record that directory in the output file,
// run the program, copy the wavefunction and property files back, clean
// up. The "scratch job directory:" echo pair is the contract consumed by
// locate-scratch.
const batchTemplateText = `#!/bin/bash --login
#SBATCH --job-name={{.Name}}
#SBATCH --output={{.Name}}-%J.o
#SBATCH --nodes={{.Profile.Nodes}}
#SBATCH --ntasks-per-node={{.Profile.NtasksPerNode}}
#SBATCH --cpus-per-task={{.Profile.CpusPerTask}}
#SBATCH --mem={{.Profile.Memory}}
#SBATCH --time={{.Profile.WallTime}}
{{- if .Profile.Partition}}
#SBATCH --partition={{.Profile.Partition}}
{{- end}}
{{- if .Profile.Account}}
#SBATCH --account={{.Profile.Account}}
{{- end}}

export JOB={{.Name}}
export DIR=$SLURM_SUBMIT_DIR
export scratch={{.Profile.ScratchRoot}}/$SLURM_JOB_ID

echo "submit directory:"
echo $DIR
{{- range .Profile.Modules}}
module load {{.}}
{{- end}}

mkdir -p $scratch
cp $DIR/$JOB{{.Profile.InputExt}} $scratch/INPUT
cd $scratch

echo "scratch job directory:"
echo $scratch

mpirun -np $SLURM_NTASKS {{.Profile.Program}} >& $DIR/$JOB.out
cp fort.9 $DIR/$JOB.f9
cp fort.25 $DIR/$JOB.f25
cd $DIR
rm -rf $scratch
`

var batchTemplate = template.Must(template.New("batch").Parse(batchTemplateText))

func (s *JobSpec) validate() error {
	if s.Name == "" {
		return fmt.Errorf("job name must not be empty")
	}
	if filepath.Base(s.Name) != s.Name {
		return fmt.Errorf("job name %q must not contain path separators", s.Name)
	}
	return nil
}

func (s *JobSpec) Render(w io.Writer) error {
	if err := s.validate(); err != nil {
		return err
	}
	return batchTemplate.Execute(w, s)
}

// Write renders the batch script to <dir>/<name>.sh, overwriting any
// previous script of the same name, and returns the path.
func (s *JobSpec) Write(dir string) (string, error) {
	if err := s.validate(); err != nil {
		return "", err
	}

	path := filepath.Join(dir, s.Name+".sh")
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := batchTemplate.Execute(file, s); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to render %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// LoadProfile reads a standalone resource profile from a YAML file.
// Fields left unset keep the values of base.
func LoadProfile(path string, base util.ResourceProfile) (util.ResourceProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}

	profile := base
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return base, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return profile, nil
}
