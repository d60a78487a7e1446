// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"time"
)

// Profile holds a user's preferences over hierarchy nodes.
type Profile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Favourites []string  `json:"favourites"`
	Ignored    []string  `json:"ignored"`
	CreatedAt  time.Time `json:"created_at"`
}

// Clone returns a deep copy so callers cannot alias stored slices.
func (p Profile) Clone() Profile {
	p.Favourites = slices.Clone(p.Favourites)
	p.Ignored = slices.Clone(p.Ignored)
	if p.Favourites == nil {
		p.Favourites = []string{}
	}
	if p.Ignored == nil {
		p.Ignored = []string{}
	}
	return p
}

// IsFavourite reports whether node is in the favourite list.
func (p Profile) IsFavourite(node string) bool {
	return slices.Contains(p.Favourites, node)
}

// IsIgnored reports whether node is in the do-not-show list.
func (p Profile) IsIgnored(node string) bool {
	return slices.Contains(p.Ignored, node)
}
