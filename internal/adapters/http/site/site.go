// Package site renders the public prediction board as HTML.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	service "github.com/okian/pennant/internal/app"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/titles"
)

// Error constants.
var (
	ErrRender = errors.New("board render failed")
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"inc":       func(i int) int { return i + 1 },
	"titleName": catalog.Titles().Label,
}).ParseFS(templateFS, "templates/*.html"))

// Dependencies is the read side the board needs.
type Dependencies interface {
	Season() int
	Standings(ctx context.Context, league catalog.League) ([]service.StandingsEntry, error)
	TitleBoards(ctx context.Context) ([]titles.Board, error)
}

type leagueSection struct {
	League  catalog.League
	Name    string
	Entries []service.StandingsEntry
}

type boardPage struct {
	Season  int
	Leagues []leagueSection
	Titles  []string
	Boards  []titles.Board
}

// Register attaches the board routes to mux.
func Register(mux *http.ServeMux, deps Dependencies) {
	if mux == nil {
		panic("mux is nil")
	}
	h := &handler{deps: deps}
	mux.HandleFunc("GET /{$}", h.handleBoard)
	mux.HandleFunc("GET /board/{league}", h.handleLeague)
}

type handler struct {
	deps Dependencies
}

func (h *handler) handleBoard(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, catalog.Leagues())
}

func (h *handler) handleLeague(w http.ResponseWriter, r *http.Request) {
	league, err := catalog.ParseLeague(r.PathValue("league"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.render(w, r, []catalog.League{league})
}

func (h *handler) render(w http.ResponseWriter, r *http.Request, leagues []catalog.League) {
	page, err := h.build(r.Context(), leagues)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "board.html", page); err != nil {
		http.Error(w, fmt.Errorf("%w: %w", ErrRender, err).Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *handler) build(ctx context.Context, leagues []catalog.League) (boardPage, error) {
	page := boardPage{Season: h.deps.Season(), Titles: catalog.Titles().IDs()}
	for _, l := range leagues {
		entries, err := h.deps.Standings(ctx, l)
		if err != nil {
			return boardPage{}, err
		}
		page.Leagues = append(page.Leagues, leagueSection{League: l, Name: l.DisplayName(), Entries: entries})
	}
	if len(leagues) == len(catalog.Leagues()) {
		boards, err := h.deps.TitleBoards(ctx)
		if err != nil {
			return boardPage{}, err
		}
		page.Boards = boards
	}
	return page, nil
}
