package standings

import (
	"fmt"

	"github.com/okian/pennant/internal/domain/catalog"
)

// Load rebuilds a state from a persisted ordered list of ids.
//
// Position i of the list becomes rank i+1. Ids outside the catalog are
// dropped without renumbering the rest, as are repeats of an id already
// placed and positions past the last rank. Everything not placed stays in the
// pool. A nil list yields Empty(c).
func Load(c *catalog.Catalog, persisted []string) State {
	s := Empty(c)
	for i, id := range persisted {
		rank := i + 1
		if rank > c.Len() {
			break
		}
		if _, free := s.unranked[id]; !free {
			continue
		}
		delete(s.unranked, id)
		s.assigned[rank] = id
		s.rankOf[id] = rank
	}
	return s
}

// IsComplete reports whether every rank 1..N is filled.
func IsComplete(s State) bool {
	return s.cat != nil && len(s.assigned) == s.cat.Len()
}

// Serialize returns the ids ordered by rank. It fails with
// ErrIncompleteAssignment unless IsComplete(s).
func Serialize(s State) ([]string, error) {
	if !IsComplete(s) {
		return nil, fmt.Errorf("%w: %d of %d ranks filled", ErrIncompleteAssignment, len(s.assigned), s.Size())
	}
	out := make([]string, s.cat.Len())
	for r := 1; r <= len(out); r++ {
		out[r-1] = s.assigned[r]
	}
	return out, nil
}

// Check verifies the pool/assignment invariants of s.
func Check(s State) error {
	if s.cat == nil {
		return fmt.Errorf("%w: no catalog", ErrInvariant)
	}
	seen := make(map[string]int, s.cat.Len())
	for r, id := range s.assigned {
		if r < 1 || r > s.cat.Len() {
			return fmt.Errorf("%w: rank %d out of range", ErrInvariant, r)
		}
		if !s.cat.Contains(id) {
			return fmt.Errorf("%w: foreign id %q at rank %d", ErrInvariant, id, r)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%w: %q at ranks %d and %d", ErrInvariant, id, prev, r)
		}
		seen[id] = r
		if s.rankOf[id] != r {
			return fmt.Errorf("%w: index disagrees for %q", ErrInvariant, id)
		}
	}
	if len(s.rankOf) != len(s.assigned) {
		return fmt.Errorf("%w: index size %d, assigned %d", ErrInvariant, len(s.rankOf), len(s.assigned))
	}
	for id := range s.unranked {
		if !s.cat.Contains(id) {
			return fmt.Errorf("%w: foreign id %q in pool", ErrInvariant, id)
		}
		if r, both := seen[id]; both {
			return fmt.Errorf("%w: %q both pooled and at rank %d", ErrInvariant, id, r)
		}
	}
	if len(s.unranked)+len(s.assigned) != s.cat.Len() {
		return fmt.Errorf("%w: %d pooled + %d assigned != %d", ErrInvariant, len(s.unranked), len(s.assigned), s.cat.Len())
	}
	return nil
}
