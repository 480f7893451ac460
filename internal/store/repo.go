package store

import "context"

// Repo defines durable storage for the per-user location lists.
type Repo interface {
	// LoadLocations returns every user's location list in insertion order.
	LoadLocations(ctx context.Context) (map[int64][]string, error)
	// SaveUserLocations rewrites the full list for one user atomically.
	// An empty list deletes the user's rows.
	SaveUserLocations(ctx context.Context, userID int64, locations []string) error
	Close() error
}
