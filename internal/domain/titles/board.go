package titles

import (
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/model"
)

// Board is one fan's award predictions, split by league.
type Board struct {
	Owner   string            `json:"owner"`
	Central map[string]string `json:"central"`
	Pacific map[string]string `json:"pacific"`
}

// Group collects picks into one board per owner, in order of each owner's
// first pick. Picks for other leagues are dropped.
func Group(picks []model.TitlePick) []Board {
	var boards []Board
	index := map[string]int{}
	for _, p := range picks {
		i, ok := index[p.Owner]
		if !ok {
			i = len(boards)
			index[p.Owner] = i
			boards = append(boards, Board{
				Owner:   p.Owner,
				Central: map[string]string{},
				Pacific: map[string]string{},
			})
		}
		switch p.League {
		case catalog.Central:
			boards[i].Central[p.Title] = p.Player
		case catalog.Pacific:
			boards[i].Pacific[p.Title] = p.Player
		}
	}
	return boards
}
