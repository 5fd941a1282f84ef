// Package memstore is an in-process tournament store with the same contract
// as the Postgres repository. It backs STORAGE_DRIVER=memory and tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/chessdir/tournaments/internal/tournament"
)

// Store keeps tournaments in a map guarded by a mutex. Records are cloned
// on the way in and out.
type Store struct {
	mu     sync.RWMutex
	clock  clockwork.Clock
	nextID int64
	rows   map[int64]*tournament.Tournament
	titles map[string]int64
}

// New returns an empty store that timestamps records with clock.
func New(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		clock:  clock,
		rows:   make(map[int64]*tournament.Tournament),
		titles: make(map[string]int64),
	}
}

func (s *Store) Create(_ context.Context, t *tournament.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.titles[t.Title]; taken {
		return tournament.ErrDuplicateTitle
	}
	s.insert(t)
	return nil
}

// BulkCreate inserts every record or none of them.
func (s *Store) BulkCreate(_ context.Context, ts []*tournament.Tournament) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(ts))
	for _, t := range ts {
		if _, taken := s.titles[t.Title]; taken || seen[t.Title] {
			return 0, tournament.ErrDuplicateTitle
		}
		seen[t.Title] = true
	}
	for _, t := range ts {
		s.insert(t)
	}
	return len(ts), nil
}

// insert assigns id and timestamps on t and stores a copy. Caller holds mu.
func (s *Store) insert(t *tournament.Tournament) {
	s.nextID++
	now := s.now()
	t.ID = s.nextID
	t.CreatedAt = now
	t.UpdatedAt = now
	s.rows[t.ID] = t.Clone()
	s.titles[t.Title] = t.ID
}

func (s *Store) Get(_ context.Context, id int64) (*tournament.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.rows[id]
	if !ok {
		return nil, tournament.ErrNotFound
	}
	return t.Clone(), nil
}

func (s *Store) Update(_ context.Context, id int64, changes tournament.Changes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.rows[id]
	if !ok {
		return tournament.ErrNotFound
	}

	next := current.Clone()
	changes.ApplyTo(next)
	if next.Title != current.Title {
		if _, taken := s.titles[next.Title]; taken {
			return tournament.ErrDuplicateTitle
		}
		delete(s.titles, current.Title)
		s.titles[next.Title] = id
	}
	next.ID = id
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = s.now()
	s.rows[id] = next
	return nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.rows[id]
	if !ok {
		return tournament.ErrNotFound
	}
	delete(s.rows, id)
	delete(s.titles, t.Title)
	return nil
}

// List filters case-insensitively and orders newest first, ties by id.
func (s *Store) List(_ context.Context, q tournament.ListQuery) (*tournament.Page, error) {
	s.mu.RLock()
	matches := make([]*tournament.Tournament, 0, len(s.rows))
	for _, t := range s.rows {
		if matchesQuery(t, q) {
			matches = append(matches, t)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	total := int64(len(matches))
	start := min(q.Offset(), len(matches))
	end := min(start+q.Limit, len(matches))

	items := make([]*tournament.Tournament, 0, end-start)
	for _, t := range matches[start:end] {
		items = append(items, t.Clone())
	}
	return tournament.NewPage(items, total, q), nil
}

func matchesQuery(t *tournament.Tournament, q tournament.ListQuery) bool {
	if q.Title != "" && !tournament.ContainsFold(t.Title, q.Title) {
		return false
	}
	if q.City != "" && (t.City == nil || !tournament.ContainsFold(*t.City, q.City)) {
		return false
	}
	return true
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC().Truncate(time.Microsecond)
}
