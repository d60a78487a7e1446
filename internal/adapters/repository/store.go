// Package repository defines the profile store interface and errors.
package repository

import (
	"context"

	"github.com/okian/memtree/internal/domain/model"
)

// List selects one of the two per-user node lists.
type List int

const (
	// Favourites are the nodes a user likes; recommendations are ranked
	// against them.
	Favourites List = iota
	// Ignored nodes are never recommended.
	Ignored
)

func (l List) String() string {
	if l == Ignored {
		return "ignored"
	}
	return "favourites"
}

// Store provides read/write access to user profiles.
type Store interface {
	// Create registers a new user. Returns ErrAlreadyExists for a taken name.
	Create(ctx context.Context, name string) (model.Profile, error)
	// Get returns the profile, or ErrNotFound.
	Get(ctx context.Context, name string) (model.Profile, error)
	// Delete removes the profile, or returns ErrNotFound.
	Delete(ctx context.Context, name string) error
	// List returns every profile ordered by name.
	List(ctx context.Context) ([]model.Profile, error)

	// Add puts node on the user's list. A node may be on at most one list;
	// returns ErrAlreadyListed otherwise.
	Add(ctx context.Context, user string, list List, node string) (model.Profile, error)
	// Remove takes node off the user's list, or returns ErrNotListed.
	Remove(ctx context.Context, user string, list List, node string) (model.Profile, error)

	// Count returns the number of stored profiles.
	Count(ctx context.Context) int
}
