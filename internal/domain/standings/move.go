package standings

import "fmt"

// Destination is where a move sends an item: the pool or a rank.
type Destination struct {
	rank   int
	ranked bool
}

// Pool is the destination that returns an item to the unranked pool.
var Pool = Destination{}

// Rank returns the destination for rank r (1-based).
func Rank(r int) Destination { return Destination{rank: r, ranked: true} }

// IsPool reports whether d targets the pool.
func (d Destination) IsPool() bool { return !d.ranked }

// Rank returns the target rank, if d targets one.
func (d Destination) Rank() (int, bool) { return d.rank, d.ranked }

func (d Destination) String() string {
	if !d.ranked {
		return "pool"
	}
	return fmt.Sprintf("rank-%d", d.rank)
}

// ApplyMove relocates itemID to dst and returns the resulting state.
//
// The move is a no-op (s is returned unchanged) when the item is not in the
// catalog, when the rank is outside 1..N, or when the rank is held by another
// item. Occupants are never evicted or swapped; they have to be moved away
// first. Dropping an item on its own rank yields an equal state.
func ApplyMove(s State, itemID string, dst Destination) State {
	if Validate(s, itemID, dst) != nil {
		return s
	}
	next := s.clone()
	if r, ok := next.rankOf[itemID]; ok {
		delete(next.assigned, r)
		delete(next.rankOf, itemID)
	}
	delete(next.unranked, itemID)

	if !dst.ranked {
		next.unranked[itemID] = struct{}{}
		return next
	}
	next.assigned[dst.rank] = itemID
	next.rankOf[itemID] = dst.rank
	return next
}

// Validate explains why ApplyMove would leave s unchanged, or returns nil if
// the move takes effect.
func Validate(s State, itemID string, dst Destination) error {
	if s.cat == nil || !s.cat.Contains(itemID) {
		return fmt.Errorf("%w: %q", ErrUnknownItem, itemID)
	}
	if !dst.ranked {
		return nil
	}
	if dst.rank < 1 || dst.rank > s.cat.Len() {
		return fmt.Errorf("%w: %d not in 1..%d", ErrRankOutOfRange, dst.rank, s.cat.Len())
	}
	if occupant, ok := s.assigned[dst.rank]; ok && occupant != itemID {
		return fmt.Errorf("%w: rank %d holds %q", ErrRankOccupied, dst.rank, occupant)
	}
	return nil
}
