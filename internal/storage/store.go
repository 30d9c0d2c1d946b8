package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"coinbot/internal/domain"
)

const snapshotVersion = 1

// Store owns every account record and the snapshot file backing them.
// It is the only component allowed to touch durable state: all writes go
// through Mutate/MutatePair, which commit to memory and disk as one unit.
type Store struct {
	mu   sync.RWMutex
	file *os.File
	snap *domain.Snapshot
	path string
	now  func() time.Time
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	s := &Store{file: f, path: path, now: time.Now}
	if err := s.load(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.file.Close() }

func (s *Store) Path() string { return s.path }

func (s *Store) load() error {
	info, err := s.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		// missing or empty file is an empty store, not an error
		now := s.now().UTC()
		s.snap = &domain.Snapshot{
			Version:   snapshotVersion,
			Accounts:  map[domain.UserID]*domain.Account{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return s.flushLocked()
	}
	dec := json.NewDecoder(s.file)
	var snap domain.Snapshot
	if err := dec.Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	if snap.Accounts == nil {
		snap.Accounts = map[domain.UserID]*domain.Account{}
	}
	for id, acc := range snap.Accounts {
		normalize(id, acc)
	}
	s.snap = &snap
	return nil
}

// normalize backfills fields missing from records written by older
// versions, once at load instead of on every access.
func normalize(id domain.UserID, acc *domain.Account) {
	acc.ID = id
	if acc.Cooldowns == nil {
		acc.Cooldowns = map[domain.Action]time.Time{}
	}
	if acc.Level < 1 {
		acc.Level = 1
	}
}

func (s *Store) flushLocked() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	enc := json.NewEncoder(s.file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.snap); err != nil {
		return err
	}
	// truncate in case new content is shorter
	pos, _ := s.file.Seek(0, io.SeekCurrent)
	if err := s.file.Truncate(pos); err != nil {
		return err
	}
	return s.file.Sync()
}

func (s *Store) getOrCreateLocked(id domain.UserID) *domain.Account {
	acc, ok := s.snap.Accounts[id]
	if !ok {
		acc = domain.NewAccount(id, "", s.now().UTC())
		s.snap.Accounts[id] = acc
	}
	return acc
}

// GetOrCreate returns a copy of the record for id, materializing defaults
// on first reference. It never fails; a freshly created record reaches
// disk with the next committed mutation.
func (s *Store) GetOrCreate(id domain.UserID) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id).Clone()
}

// Mutate runs fn against the record for id under exclusive access. fn works
// on a clone: returning an error aborts with no state change and no write.
// On commit the whole store is persisted synchronously; if that write
// fails, the in-memory record is rolled back so memory never runs ahead of
// disk.
func (s *Store) Mutate(id domain.UserID, fn func(acc *domain.Account) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	orig := s.getOrCreateLocked(id)
	work := orig.Clone()
	if err := fn(work); err != nil {
		return err
	}
	s.snap.Accounts[id] = work
	prevUpdated := s.snap.UpdatedAt
	s.snap.UpdatedAt = s.now().UTC()
	if err := s.flushLocked(); err != nil {
		s.snap.Accounts[id] = orig
		s.snap.UpdatedAt = prevUpdated
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// MutatePair is Mutate over two distinct records at once, for transfers.
// The store-wide mutex covers both records in one critical section, so
// concurrent cross-robberies serialize instead of deadlocking.
func (s *Store) MutatePair(idA, idB domain.UserID, fn func(a, b *domain.Account) error) error {
	if idA == idB {
		return fmt.Errorf("mutate pair: same account %s", idA)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	origA := s.getOrCreateLocked(idA)
	origB := s.getOrCreateLocked(idB)
	workA, workB := origA.Clone(), origB.Clone()
	if err := fn(workA, workB); err != nil {
		return err
	}
	s.snap.Accounts[idA] = workA
	s.snap.Accounts[idB] = workB
	prevUpdated := s.snap.UpdatedAt
	s.snap.UpdatedAt = s.now().UTC()
	if err := s.flushLocked(); err != nil {
		s.snap.Accounts[idA] = origA
		s.snap.Accounts[idB] = origB
		s.snap.UpdatedAt = prevUpdated
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of every record. It sees either all of a
// mutation or none of it, and holds only a read lock while copying.
func (s *Store) Snapshot() []*domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Account, 0, len(s.snap.Accounts))
	for _, acc := range s.snap.Accounts {
		out = append(out, acc.Clone())
	}
	return out
}
