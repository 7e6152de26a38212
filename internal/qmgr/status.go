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

package qmgr

// Status is the durable view of the deck directory: which decks have been
// handed to the scheduler (and under which job id), which are waiting,
// and which are done. Job names are deck basenames without extension.
type Status struct {
	Submitted map[string]uint32 `json:"submitted"`
	Pending   []string          `json:"pending"`
	Completed []string          `json:"completed"`
}

func NewStatus() *Status {
	return &Status{
		Submitted: make(map[string]uint32),
		Pending:   []string{},
		Completed: []string{},
	}
}

func (s *Status) normalize() {
	if s.Submitted == nil {
		s.Submitted = make(map[string]uint32)
	}
	if s.Pending == nil {
		s.Pending = []string{}
	}
	if s.Completed == nil {
		s.Completed = []string{}
	}
}

func (s *Status) knows(name string) bool {
	if _, ok := s.Submitted[name]; ok {
		return true
	}
	for _, pending := range s.Pending {
		if pending == name {
			return true
		}
	}
	for _, completed := range s.Completed {
		if completed == name {
			return true
		}
	}
	return false
}

func (s *Status) removePending(name string) {
	for i, pending := range s.Pending {
		if pending == name {
			s.Pending = append(s.Pending[:i], s.Pending[i+1:]...)
			return
		}
	}
}
