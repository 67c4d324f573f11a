package service

import (
	"time"

	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/standings"
)

// Slot is one rank on the board.
type Slot struct {
	Rank int           `json:"rank"`
	Item *catalog.Item `json:"item,omitempty"`
}

// SessionView is an immutable snapshot of a session for presentation.
type SessionView struct {
	ID         string         `json:"id"`
	Owner      string         `json:"owner"`
	Season     int            `json:"season"`
	League     catalog.League `json:"league"`
	LeagueName string         `json:"league_name"`
	Pool       []catalog.Item `json:"pool"`
	Slots      []Slot         `json:"slots"`
	Complete   bool           `json:"complete"`
	Pending    bool           `json:"pending"`
	// LoadFailed is set when the stored prediction could not be read; the
	// board starts empty.
	LoadFailed  bool       `json:"load_failed"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

func (sess *session) view(season int) SessionView {
	st := sess.state
	v := SessionView{
		ID:         sess.id,
		Owner:      sess.owner,
		Season:     season,
		League:     sess.league,
		LeagueName: sess.league.DisplayName(),
		Pool:       make([]catalog.Item, 0, st.Size()),
		Slots:      make([]Slot, st.Size()),
		Complete:   standings.IsComplete(st),
		Pending:    sess.pending,
		LoadFailed: sess.loadFailed,
	}
	for _, id := range st.Pool() {
		item, _ := sess.cat.Lookup(id)
		v.Pool = append(v.Pool, item)
	}
	for i := range v.Slots {
		v.Slots[i].Rank = i + 1
		if id, ok := st.At(i + 1); ok {
			item, _ := sess.cat.Lookup(id)
			v.Slots[i].Item = &item
		}
	}
	if !sess.submittedAt.IsZero() {
		t := sess.submittedAt
		v.SubmittedAt = &t
	}
	return v
}

// ItemAt returns the item at rank, if any.
func (v SessionView) ItemAt(rank int) (catalog.Item, bool) {
	if rank < 1 || rank > len(v.Slots) || v.Slots[rank-1].Item == nil {
		return catalog.Item{}, false
	}
	return *v.Slots[rank-1].Item, true
}
