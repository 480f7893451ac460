package registry

import (
	"context"
	"errors"
	"testing"
)

// fakeRepo is an in-memory store.Repo that can be told to fail writes.
type fakeRepo struct {
	saved     map[int64][]string
	failSaves bool
	saveCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{saved: make(map[int64][]string)}
}

func (f *fakeRepo) LoadLocations(context.Context) (map[int64][]string, error) {
	out := make(map[int64][]string, len(f.saved))
	for id, locs := range f.saved {
		out[id] = append([]string(nil), locs...)
	}
	return out, nil
}

func (f *fakeRepo) SaveUserLocations(_ context.Context, userID int64, locations []string) error {
	f.saveCalls++
	if f.failSaves {
		return errors.New("disk full")
	}
	if len(locations) == 0 {
		delete(f.saved, userID)
		return nil
	}
	f.saved[userID] = append([]string(nil), locations...)
	return nil
}

func (f *fakeRepo) Close() error { return nil }

func newTestRegistry(t *testing.T) (*Registry, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	reg, err := Load(context.Background(), repo)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return reg, repo
}

func TestAddRemoveRoundTrip(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, 1, "Paris"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Remove(ctx, 1, "Paris"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := reg.List(1); len(got) != 0 {
		t.Fatalf("want empty list, got %v", got)
	}
}

func TestAddCaseInsensitiveDuplicate(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, 1, "paris"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Add(ctx, 1, "Paris"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("want ErrDuplicate, got %v", err)
	}
	if got := reg.List(1); len(got) != 1 || got[0] != "paris" {
		t.Fatalf("original spelling must survive: %v", got)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	for _, city := range []string{"Tokyo", "Berlin", "Lima"} {
		if err := reg.Add(ctx, 1, city); err != nil {
			t.Fatalf("add %s: %v", city, err)
		}
	}

	got := reg.List(1)
	want := []string{"Tokyo", "Berlin", "Lima"}
	if len(got) != len(want) {
		t.Fatalf("want %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("want %v, got %v", want, got)
		}
	}
}

func TestRemoveNotFoundLeavesListUnchanged(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, 1, "Paris"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Remove(ctx, 1, "Tokyo"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if got := reg.List(1); len(got) != 1 || got[0] != "Paris" {
		t.Fatalf("list must be unchanged, got %v", got)
	}
}

func TestPersistenceFailureRollsBack(t *testing.T) {
	reg, repo := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, 1, "Paris"); err != nil {
		t.Fatalf("add: %v", err)
	}

	repo.failSaves = true
	if err := reg.Add(ctx, 1, "Tokyo"); err == nil {
		t.Fatal("want persistence error")
	}
	if err := reg.Remove(ctx, 1, "Paris"); err == nil {
		t.Fatal("want persistence error")
	}
	repo.failSaves = false

	// In-memory state must match the last successful persist.
	if got := reg.List(1); len(got) != 1 || got[0] != "Paris" {
		t.Fatalf("rollback failed, got %v", got)
	}
	if locs := repo.saved[1]; len(locs) != 1 || locs[0] != "Paris" {
		t.Fatalf("store diverged, got %v", locs)
	}
}

func TestUsersOnlyReportsNonEmpty(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, 1, "Paris"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Add(ctx, 2, "Tokyo"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := reg.Remove(ctx, 2, "Tokyo"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	users := reg.Users()
	if len(users) != 1 || users[0] != 1 {
		t.Fatalf("want [1], got %v", users)
	}
}

func TestSnapshotIsIsolatedCopy(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	if err := reg.Add(ctx, 1, "Paris"); err != nil {
		t.Fatalf("add: %v", err)
	}

	snap := reg.Snapshot()
	snap[1][0] = "mutated"

	if got := reg.List(1); got[0] != "Paris" {
		t.Fatalf("snapshot mutation leaked into registry: %v", got)
	}
}

func TestAddEmptyName(t *testing.T) {
	reg, repo := newTestRegistry(t)

	if err := reg.Add(context.Background(), 1, "   "); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("want ErrEmptyName, got %v", err)
	}
	if repo.saveCalls != 0 {
		t.Fatal("empty name must not reach the store")
	}
}

func TestLoadRestoresState(t *testing.T) {
	repo := newFakeRepo()
	repo.saved[7] = []string{"Oslo", "Quito"}

	reg, err := Load(context.Background(), repo)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := reg.List(7); len(got) != 2 || got[0] != "Oslo" || got[1] != "Quito" {
		t.Fatalf("want [Oslo Quito], got %v", got)
	}
}
