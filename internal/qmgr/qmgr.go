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

// Package qmgr keeps a large batch of input decks flowing through a
// shared cluster without exceeding the site's per-user job limit. State
// lives in a JSON status file; the live queue is consulted on every run,
// never cached between runs.
package qmgr

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"

	"CrystalQueue/internal/script"
	"CrystalQueue/internal/slurm"
	"CrystalQueue/internal/util"
)

type Deck struct {
	Name string
	Path string
}

type submitter interface {
	Submit(ctx context.Context, dir string, scriptPath string) (uint32, error)
	Queue(ctx context.Context, user string) ([]slurm.QueueEntry, error)
}

type Manager struct {
	client  submitter
	store   *util.PersistentStorage
	status  *Status
	profile util.ResourceProfile

	DeckDir      string
	User         string
	MaxJobs      int
	ReserveSlots int
}

func NewManager(config *util.Config, userName string, deckDir string) (*Manager, error) {
	store := util.NewPersistentStorage(config.Queue.StatusFile)
	if store == nil {
		return nil, fmt.Errorf("cannot open status file %s", config.Queue.StatusFile)
	}

	m := &Manager{
		client:       slurm.NewClient(config.Scheduler),
		store:        store,
		status:       NewStatus(),
		profile:      config.Profile,
		DeckDir:      deckDir,
		User:         userName,
		MaxJobs:      config.Queue.MaxJobs,
		ReserveSlots: config.Queue.ReserveSlots,
	}

	loaded, err := store.Load(m.status)
	if err != nil {
		return nil, fmt.Errorf("failed to load status file: %w", err)
	}
	if !loaded {
		log.Infof("Creating new status file at %s", store.Path())
	}
	m.status.normalize()
	return m, nil
}

// FindDecks walks the deck directory for input decks, sorted by name so
// submission order is stable across runs.
func (m *Manager) FindDecks() ([]Deck, error) {
	ext := m.profile.InputExt
	var decks []Deck
	err := filepath.WalkDir(m.DeckDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		decks = append(decks, Deck{
			Name: strings.TrimSuffix(d.Name(), ext),
			Path: path,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(decks, func(i, j int) bool { return decks[i].Name < decks[j].Name })
	return decks, nil
}

// Refresh reconciles the status file with the deck directory and the live
// queue: unseen decks become pending, submitted jobs whose ids no longer
// appear in the listing become completed.
func (m *Manager) Refresh(ctx context.Context) error {
	decks, err := m.FindDecks()
	if err != nil {
		return fmt.Errorf("failed to scan %s: %w", m.DeckDir, err)
	}
	for _, deck := range decks {
		if !m.status.knows(deck.Name) {
			m.status.Pending = append(m.status.Pending, deck.Name)
		}
	}

	if len(m.status.Submitted) > 0 {
		entries, err := m.client.Queue(ctx, m.User)
		if err != nil {
			return fmt.Errorf("failed to list jobs of %s: %w", m.User, err)
		}
		inQueue := make(map[uint32]bool, len(entries))
		for _, entry := range entries {
			inQueue[entry.JobId] = true
		}
		for name, jobId := range m.status.Submitted {
			if !inQueue[jobId] {
				delete(m.status.Submitted, name)
				m.status.Completed = append(m.status.Completed, name)
			}
		}
	}

	return m.store.Save(m.status)
}

// Process refreshes the status and then submits pending decks while slots
// remain. Slots = MaxJobs - currently queued jobs - ReserveSlots; a
// non-negative maxSubmit caps the count further. Returns the number of
// jobs submitted.
func (m *Manager) Process(ctx context.Context, maxSubmit int) (int, error) {
	if err := m.Refresh(ctx); err != nil {
		return 0, err
	}

	entries, err := m.client.Queue(ctx, m.User)
	if err != nil {
		return 0, fmt.Errorf("failed to list jobs of %s: %w", m.User, err)
	}
	currentJobs := len(entries)

	slots := m.MaxJobs - currentJobs - m.ReserveSlots
	if slots <= 0 {
		log.Infof("Queue full: %d jobs running, reserving %d slots", currentJobs, m.ReserveSlots)
		return 0, nil
	}
	if maxSubmit >= 0 && maxSubmit < slots {
		slots = maxSubmit
	}

	decks, err := m.FindDecks()
	if err != nil {
		return 0, err
	}
	deckByName := make(map[string]Deck, len(decks))
	for _, deck := range decks {
		deckByName[deck.Name] = deck
	}

	submitted := 0
	// Iterate over a copy: submitOne mutates the pending list.
	pending := append([]string(nil), m.status.Pending...)
	for _, name := range pending {
		if submitted >= slots {
			break
		}
		deck, ok := deckByName[name]
		if !ok {
			log.Warnf("Pending deck %s has no %s file, skipping", name, m.profile.InputExt)
			continue
		}
		if err := m.submitOne(ctx, deck); err != nil {
			log.Errorf("Failed to submit %s: %v", name, err)
			continue
		}
		submitted++
		if err := m.store.Save(m.status); err != nil {
			log.Warnf("Failed to save status: %v", err)
		}
	}

	log.Infof("Submitted %d new jobs (%d in queue, %d slots)", submitted, currentJobs, slots)
	return submitted, nil
}

func (m *Manager) submitOne(ctx context.Context, deck Deck) error {
	spec := &script.JobSpec{Name: deck.Name, Profile: m.profile}
	dir := filepath.Dir(deck.Path)

	scriptPath, err := spec.Write(dir)
	if err != nil {
		return err
	}

	jobId, err := m.client.Submit(ctx, dir, scriptPath)
	if err != nil {
		return err
	}

	m.status.Submitted[deck.Name] = jobId
	m.status.removePending(deck.Name)
	log.Infof("Submitted job %s with id %d", deck.Name, jobId)
	return nil
}

// PrintStatus refreshes and prints the queue summary plus the running
// name/id pairs.
func (m *Manager) PrintStatus(ctx context.Context, w io.Writer) error {
	if err := m.Refresh(ctx); err != nil {
		return err
	}

	total := len(m.status.Pending) + len(m.status.Submitted) + len(m.status.Completed)
	fmt.Fprintf(w, "Pending: %d  Running: %d  Completed: %d  Total: %d\n",
		len(m.status.Pending), len(m.status.Submitted), len(m.status.Completed), total)
	fmt.Fprintf(w, "Status file: %s\n\n", m.store.Path())

	if len(m.status.Submitted) == 0 {
		return nil
	}

	names := make([]string, 0, len(m.status.Submitted))
	for name := range m.status.Submitted {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(w)
	util.SetBorderlessTable(table)
	table.SetHeader([]string{"Name", "JobId"})
	for _, name := range names {
		table.Append([]string{name, strconv.FormatUint(uint64(m.status.Submitted[name]), 10)})
	}
	table.Render()
	return nil
}
