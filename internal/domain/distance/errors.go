package distance

import (
	"errors"
	"fmt"
)

// Sentinel kinds for distance errors. These allow errors.Is/As from callers.
var (
	// ErrInvalidArgument marks construction with a missing tree or name.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNilTree         = fmt.Errorf("%w: nil tree", ErrInvalidArgument)
	ErrEmptyName       = fmt.Errorf("%w: empty node name", ErrInvalidArgument)

	ErrNameNotFound        = errors.New("node not found")
	ErrInvalidMetric       = errors.New("invalid metric")
	ErrNumericalDegeneracy = errors.New("numerical degeneracy: zero variance attribute vector")
	// ErrUnreachable means the tree invariant is broken: two nodes of one
	// tree were not connected.
	ErrUnreachable = errors.New("node unreachable")
)

// NameNotFoundError identifies which bound name failed to resolve.
type NameNotFoundError struct {
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("node %q not found", e.Name)
}

// Is lets errors.Is(err, ErrNameNotFound) match.
func (e *NameNotFoundError) Is(target error) bool {
	return target == ErrNameNotFound
}
