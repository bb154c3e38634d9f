package store

import (
	"context"
	"sort"
	"sync"

	"github.com/maruel/natural"
)

// Memory is the in-process store used when no persistent path is
// configured, and by tests.
type Memory struct {
	mu   sync.RWMutex
	recs map[string]*Record
}

func NewMemory() *Memory {
	return &Memory{recs: make(map[string]*Record)}
}

func (m *Memory) Put(_ context.Context, rec *Record) error {
	cp := *rec
	m.mu.Lock()
	m.recs[rec.ID] = &cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*Record, error) {
	m.mu.RLock()
	rec, ok := m.recs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.recs, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.recs = make(map[string]*Record)
	m.mu.Unlock()
	return nil
}

func (m *Memory) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	entries := make([]Entry, 0, len(m.recs))
	for _, rec := range m.recs {
		entries = append(entries, Entry{ID: rec.ID, Meta: rec.Meta})
	}
	m.mu.RUnlock()
	sortEntries(entries)
	return entries, nil
}

func (m *Memory) Close() error {
	return m.Clear(context.Background())
}

// sortEntries orders by file name the way a human expects ("doc2" before
// "doc10"), with id as tiebreaker.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i].Meta.FileName, entries[j].Meta.FileName
		if a != b {
			return natural.Less(a, b)
		}
		return entries[i].ID < entries[j].ID
	})
}
