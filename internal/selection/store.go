package selection

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/handiism/avatar-customizer/internal/model"
)

// ErrInvalidSelection is returned when a part or shape id is not in the catalog.
var ErrInvalidSelection = errors.New("invalid selection")

// Policy decides the default shape of a part.
type Policy int

const (
	// PreferNegativeOne picks -1 when present, else the smallest shape id.
	PreferNegativeOne Policy = iota
	// Minimum picks the smallest shape id.
	Minimum
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case Minimum:
		return "minimum"
	default:
		return "prefer-negative-one"
	}
}

// ParsePolicy converts a configuration name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "prefer-negative-one":
		return PreferNegativeOne, nil
	case "minimum", "min":
		return Minimum, nil
	default:
		return PreferNegativeOne, fmt.Errorf("unknown default policy %q", name)
	}
}

// Default returns the default shape id of part under policy p.
func (p Policy) Default(c *model.Catalog, part string) (int, bool) {
	ids := c.ShapeIDs(part)
	if len(ids) == 0 {
		return 0, false
	}
	if p == PreferNegativeOne && c.Has(part, -1) {
		return -1, true
	}
	return ids[0], true
}

// Store is the current selection. It is safe for concurrent use.
type Store struct {
	policy Policy
	picks  map[string]int
	mu     sync.RWMutex
}

// NewStore creates an empty Store using policy for defaults.
func NewStore(policy Policy) *Store {
	return &Store{
		policy: policy,
		picks:  make(map[string]int),
	}
}

// Get returns the selected shape id of part. The bool is false when the
// part has no selection; a selected id of 0 is reported as (0, true).
func (s *Store) Get(part string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.picks[part]
	return id, ok
}

// Set selects shapeID for part. It fails with ErrInvalidSelection, leaving
// the previous selection untouched, when c does not hold that shape.
func (s *Store) Set(c *model.Catalog, part string, shapeID int) error {
	if !c.HasPart(part) {
		return fmt.Errorf("%w: unknown part %q", ErrInvalidSelection, part)
	}
	if !c.Has(part, shapeID) {
		return fmt.Errorf("%w: part %q has no shape %d", ErrInvalidSelection, part, shapeID)
	}

	s.mu.Lock()
	s.picks[part] = shapeID
	s.mu.Unlock()
	return nil
}

// SeedDefaults reconciles the selection with c and fills in defaults.
//
// Selections whose shape no longer exists in c are dropped first. Then
// every part with shapes and no selection gets the policy default. Parts
// that already hold a valid selection are untouched, so calling it again
// after Set does not override the manual choice. It returns the parts
// whose selection changed.
func (s *Store) SeedDefaults(c *model.Catalog) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	for part, id := range s.picks {
		if !c.Has(part, id) {
			delete(s.picks, part)
			changed = append(changed, part)
		}
	}

	for _, part := range c.Parts() {
		if _, ok := s.picks[part]; ok {
			continue
		}
		id, ok := s.policy.Default(c, part)
		if !ok {
			continue
		}
		s.picks[part] = id
		if !slices.Contains(changed, part) {
			changed = append(changed, part)
		}
	}
	return changed
}

// Snapshot returns a copy of the current selection.
func (s *Store) Snapshot() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.picks)
}

// Clear removes every selection.
func (s *Store) Clear() {
	s.mu.Lock()
	clear(s.picks)
	s.mu.Unlock()
}
