// Package registry owns the per-user location lists. It is the single writer:
// every mutation goes through Add or Remove, which persist the user's full
// list before the in-memory state is updated.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Neel-XV/tg-weather-bot/internal/store"
)

var (
	ErrDuplicate = errors.New("location already in list")
	ErrNotFound  = errors.New("location not in list")
	ErrEmptyName = errors.New("empty location name")
)

// Registry maps user IDs to ordered location lists, backed by a store.Repo.
// A single mutex serializes mutations; concurrent adds or removes for the
// same user can never race into a lost update or a duplicate.
type Registry struct {
	mu   sync.Mutex
	locs map[int64][]string
	repo store.Repo
}

// Load builds a Registry from the durable store. Called once at startup;
// an unreadable store is a fatal condition for the caller.
func Load(ctx context.Context, repo store.Repo) (*Registry, error) {
	locs, err := repo.LoadLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	if locs == nil {
		locs = make(map[int64][]string)
	}
	return &Registry{locs: locs, repo: repo}, nil
}

// normalize trims a name and folds its case for comparison.
func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add appends a location for the user, creating their entry if needed.
// Matching is case-insensitive; the trimmed original spelling is stored.
// The new list is persisted before the in-memory commit, so a store failure
// leaves the registry exactly as it was.
func (r *Registry) Add(ctx context.Context, userID int64, name string) error {
	display := strings.TrimSpace(name)
	norm := normalize(name)
	if norm == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.locs[userID]
	for _, loc := range current {
		if normalize(loc) == norm {
			return fmt.Errorf("%w: %s", ErrDuplicate, display)
		}
	}

	next := make([]string, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, display)

	if err := r.repo.SaveUserLocations(ctx, userID, next); err != nil {
		return fmt.Errorf("persist locations: %w", err)
	}
	r.locs[userID] = next
	return nil
}

// Remove deletes a location from the user's list, case-insensitively.
func (r *Registry) Remove(ctx context.Context, userID int64, name string) error {
	norm := normalize(name)
	if norm == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.locs[userID]
	next := make([]string, 0, len(current))
	found := false
	for _, loc := range current {
		if normalize(loc) == norm {
			found = true
			continue
		}
		next = append(next, loc)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(name))
	}

	if err := r.repo.SaveUserLocations(ctx, userID, next); err != nil {
		return fmt.Errorf("persist locations: %w", err)
	}
	if len(next) == 0 {
		delete(r.locs, userID)
	} else {
		r.locs[userID] = next
	}
	return nil
}

// List returns a copy of the user's locations in insertion order.
// An unknown user yields an empty slice, not an error.
func (r *Registry) List(userID int64) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.locs[userID]))
	copy(out, r.locs[userID])
	return out
}

// Users returns the IDs of all users with at least one location.
func (r *Registry) Users() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]int64, 0, len(r.locs))
	for id, locs := range r.locs {
		if len(locs) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// Snapshot returns a deep copy of every non-empty list. The scheduler works
// from one snapshot per firing so mid-fire mutations cannot shear its view.
func (r *Registry) Snapshot() map[int64][]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[int64][]string, len(r.locs))
	for id, locs := range r.locs {
		if len(locs) == 0 {
			continue
		}
		cp := make([]string, len(locs))
		copy(cp, locs)
		out[id] = cp
	}
	return out
}
