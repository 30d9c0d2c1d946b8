package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"coinbot/internal/domain"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "economy.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestOpen_MissingFileIsEmptyStore(t *testing.T) {
	s, _ := openTestStore(t)
	if got := len(s.Snapshot()); got != 0 {
		t.Fatalf("expected empty store, got %d accounts", got)
	}
}

func TestGetOrCreate_Idempotent(t *testing.T) {
	s, _ := openTestStore(t)

	first := s.GetOrCreate("42")
	second := s.GetOrCreate("42")

	if first.ID != second.ID || first.Balance != second.Balance ||
		first.Level != second.Level || first.XP != second.XP ||
		!first.CreatedAt.Equal(second.CreatedAt) {
		t.Fatalf("records differ: %+v vs %+v", first, second)
	}
	if second.Level != 1 {
		t.Fatalf("expected default level 1, got %d", second.Level)
	}
}

func TestGetOrCreate_ReturnsCopy(t *testing.T) {
	s, _ := openTestStore(t)

	acc := s.GetOrCreate("42")
	acc.Balance = 9999
	acc.Cooldowns[domain.ActionWork] = time.Now()

	fresh := s.GetOrCreate("42")
	if fresh.Balance != 0 {
		t.Fatalf("caller mutation leaked into store: balance %d", fresh.Balance)
	}
	if len(fresh.Cooldowns) != 0 {
		t.Fatalf("caller mutation leaked into store: cooldowns %v", fresh.Cooldowns)
	}
}

func TestMutate_CommitSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "economy.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	err = s.Mutate("42", func(acc *domain.Account) error {
		acc.Balance += 150
		acc.Cooldowns[domain.ActionDaily] = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	s.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	acc := reopened.GetOrCreate("42")
	if acc.Balance != 150 {
		t.Fatalf("expected balance 150 after reopen, got %d", acc.Balance)
	}
	want := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if !acc.LastClaim(domain.ActionDaily).Equal(want) {
		t.Fatalf("expected daily claim %v, got %v", want, acc.LastClaim(domain.ActionDaily))
	}
}

func TestMutate_RejectionChangesNothing(t *testing.T) {
	s, path := openTestStore(t)

	if err := s.Mutate("42", func(acc *domain.Account) error {
		acc.Balance = 100
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	rejection := errors.New("insufficient funds")
	err = s.Mutate("42", func(acc *domain.Account) error {
		acc.Balance = -500 // staged but never committed
		return rejection
	})
	if !errors.Is(err, rejection) {
		t.Fatalf("expected rejection to surface, got %v", err)
	}

	if got := s.GetOrCreate("42").Balance; got != 100 {
		t.Fatalf("rejected mutation leaked: balance %d", got)
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("rejected mutation reached disk")
	}
}

func TestMutate_PersistFailureRollsBack(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Mutate("42", func(acc *domain.Account) error {
		acc.Balance = 100
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// break the snapshot file so the next flush fails
	s.file.Close()

	err := s.Mutate("42", func(acc *domain.Account) error {
		acc.Balance += 50
		return nil
	})
	if err == nil {
		t.Fatal("expected persist failure")
	}
	if got := s.GetOrCreate("42").Balance; got != 100 {
		t.Fatalf("memory ran ahead of disk: balance %d, want 100", got)
	}
}

func TestMutatePair_SameAccountRejected(t *testing.T) {
	s, _ := openTestStore(t)
	err := s.MutatePair("42", "42", func(a, b *domain.Account) error { return nil })
	if err == nil {
		t.Fatal("expected error for identical ids")
	}
}

func TestMutatePair_BothCommitTogether(t *testing.T) {
	s, _ := openTestStore(t)

	err := s.MutatePair("a", "b", func(a, b *domain.Account) error {
		a.Balance += 30
		b.Balance += 70
		return nil
	})
	if err != nil {
		t.Fatalf("mutate pair: %v", err)
	}
	if got := s.GetOrCreate("a").Balance; got != 30 {
		t.Fatalf("account a balance %d, want 30", got)
	}
	if got := s.GetOrCreate("b").Balance; got != 70 {
		t.Fatalf("account b balance %d, want 70", got)
	}
}

func TestMutatePair_RejectionChangesNeither(t *testing.T) {
	s, _ := openTestStore(t)

	rejection := errors.New("target broke")
	err := s.MutatePair("a", "b", func(a, b *domain.Account) error {
		a.Balance += 100
		b.Balance -= 100
		return rejection
	})
	if !errors.Is(err, rejection) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if got := s.GetOrCreate("a").Balance; got != 0 {
		t.Fatalf("account a mutated on rejection: %d", got)
	}
	if got := s.GetOrCreate("b").Balance; got != 0 {
		t.Fatalf("account b mutated on rejection: %d", got)
	}
}

func TestSnapshot_IsolatedFromMutations(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Mutate("42", func(acc *domain.Account) error {
		acc.Balance = 10
		return nil
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	snap := s.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 account, got %d", len(snap))
	}
	snap[0].Balance = 777

	if got := s.GetOrCreate("42").Balance; got != 10 {
		t.Fatalf("snapshot mutation leaked: balance %d", got)
	}
}

func TestLoad_BackfillsOldRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "economy.json")
	// a record written before cooldowns/level existed
	raw := `{
  "version": 1,
  "accounts": {
    "7": {"id": "7", "balance": 25}
  },
  "created_at": "2026-01-01T00:00:00Z",
  "updated_at": "2026-01-01T00:00:00Z"
}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	acc := s.GetOrCreate("7")
	if acc.Balance != 25 {
		t.Fatalf("balance %d, want 25", acc.Balance)
	}
	if acc.Level != 1 {
		t.Fatalf("level not backfilled: %d", acc.Level)
	}
	if acc.Cooldowns == nil {
		t.Fatal("cooldowns map not backfilled")
	}
	if !acc.LastClaim(domain.ActionWork).IsZero() {
		t.Fatal("missing cooldown should read as zero time")
	}
}
