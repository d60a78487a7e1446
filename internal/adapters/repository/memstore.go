package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/memtree/internal/domain/model"
	"github.com/okian/memtree/pkg/metrics"
)

// InMemoryStore keeps profiles in a map guarded by a RWMutex. Reads return
// copies, so callers never alias stored slices.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*model.Profile

	now   func() time.Time
	newID func() string
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty store.
func NewInMemoryStore(opts ...Option) *InMemoryStore {
	s := &InMemoryStore{
		profiles: make(map[string]*model.Profile),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a new user.
func (s *InMemoryStore) Create(_ context.Context, name string) (model.Profile, error) {
	if strings.TrimSpace(name) == "" {
		return model.Profile{}, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; ok {
		return model.Profile{}, fmt.Errorf("%q: %w", name, ErrAlreadyExists)
	}
	p := &model.Profile{
		ID:         s.newID(),
		Name:       name,
		Favourites: []string{},
		Ignored:    []string{},
		CreatedAt:  s.now().UTC(),
	}
	s.profiles[name] = p
	metrics.UpdateProfileCount(len(s.profiles))
	return p.Clone(), nil
}

// Get returns a copy of the named profile.
func (s *InMemoryStore) Get(_ context.Context, name string) (model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return model.Profile{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return p.Clone(), nil
}

// Delete removes the named profile.
func (s *InMemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(s.profiles, name)
	metrics.UpdateProfileCount(len(s.profiles))
	return nil
}

// List returns every profile ordered by name.
func (s *InMemoryStore) List(_ context.Context) ([]model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Add puts node on one of the user's lists.
func (s *InMemoryStore) Add(_ context.Context, user string, list List, node string) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[user]
	if !ok {
		return model.Profile{}, fmt.Errorf("%q: %w", user, ErrNotFound)
	}
	if p.IsFavourite(node) || p.IsIgnored(node) {
		return model.Profile{}, fmt.Errorf("%q for %q: %w", node, user, ErrAlreadyListed)
	}
	switch list {
	case Ignored:
		p.Ignored = append(p.Ignored, node)
	default:
		p.Favourites = append(p.Favourites, node)
	}
	return p.Clone(), nil
}

// Remove takes node off one of the user's lists.
func (s *InMemoryStore) Remove(_ context.Context, user string, list List, node string) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[user]
	if !ok {
		return model.Profile{}, fmt.Errorf("%q: %w", user, ErrNotFound)
	}
	target := &p.Favourites
	if list == Ignored {
		target = &p.Ignored
	}
	i := slices.Index(*target, node)
	if i < 0 {
		return model.Profile{}, fmt.Errorf("%q not in %s of %q: %w", node, list, user, ErrNotListed)
	}
	*target = slices.Delete(*target, i, i+1)
	return p.Clone(), nil
}

// Count returns the number of stored profiles.
func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
