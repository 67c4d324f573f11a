package standings

import (
	"sort"

	"github.com/okian/pennant/internal/domain/catalog"
)

// State is the pool/assignment split for one catalog. Build it with Empty or
// Load; the zero value has no catalog and accepts no moves.
type State struct {
	cat      *catalog.Catalog
	unranked map[string]struct{}
	assigned map[int]string
	rankOf   map[string]int
}

// Placement is one filled rank.
type Placement struct {
	Rank   int    `json:"rank"`
	ItemID string `json:"item_id"`
}

// Empty returns a state with every catalog item in the pool.
func Empty(c *catalog.Catalog) State {
	s := State{
		cat:      c,
		unranked: make(map[string]struct{}, c.Len()),
		assigned: make(map[int]string, c.Len()),
		rankOf:   make(map[string]int, c.Len()),
	}
	for _, id := range c.IDs() {
		s.unranked[id] = struct{}{}
	}
	return s
}

// Catalog returns the catalog the state ranges over.
func (s State) Catalog() *catalog.Catalog { return s.cat }

// Size returns N, the number of ranks.
func (s State) Size() int {
	if s.cat == nil {
		return 0
	}
	return s.cat.Len()
}

// Pool returns the unranked ids in catalog order.
func (s State) Pool() []string {
	if s.cat == nil {
		return nil
	}
	out := make([]string, 0, len(s.unranked))
	for _, id := range s.cat.IDs() {
		if _, ok := s.unranked[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Assigned returns a copy of the rank -> id mapping.
func (s State) Assigned() map[int]string {
	out := make(map[int]string, len(s.assigned))
	for r, id := range s.assigned {
		out[r] = id
	}
	return out
}

// Placements returns the filled ranks in ascending rank order.
func (s State) Placements() []Placement {
	out := make([]Placement, 0, len(s.assigned))
	for r, id := range s.assigned {
		out = append(out, Placement{Rank: r, ItemID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// At returns the id placed at rank.
func (s State) At(rank int) (string, bool) {
	id, ok := s.assigned[rank]
	return id, ok
}

// RankOf returns the rank holding id.
func (s State) RankOf(id string) (int, bool) {
	r, ok := s.rankOf[id]
	return r, ok
}

// InPool reports whether id is currently unranked.
func (s State) InPool(id string) bool {
	_, ok := s.unranked[id]
	return ok
}

// AssignedCount returns how many ranks are filled.
func (s State) AssignedCount() int { return len(s.assigned) }

// Equal reports whether both states hold the same pool and assignment.
func (s State) Equal(o State) bool {
	if len(s.assigned) != len(o.assigned) || len(s.unranked) != len(o.unranked) {
		return false
	}
	for r, id := range s.assigned {
		if o.assigned[r] != id {
			return false
		}
	}
	for id := range s.unranked {
		if _, ok := o.unranked[id]; !ok {
			return false
		}
	}
	return true
}

func (s State) clone() State {
	n := State{
		cat:      s.cat,
		unranked: make(map[string]struct{}, len(s.unranked)+1),
		assigned: make(map[int]string, len(s.assigned)+1),
		rankOf:   make(map[string]int, len(s.rankOf)+1),
	}
	for id := range s.unranked {
		n.unranked[id] = struct{}{}
	}
	for r, id := range s.assigned {
		n.assigned[r] = id
		n.rankOf[id] = r
	}
	return n
}
