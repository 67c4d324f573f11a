// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/pennant/internal/adapters/archive"
	"github.com/okian/pennant/internal/adapters/repository"
	service "github.com/okian/pennant/internal/app"
	"github.com/okian/pennant/internal/domain/catalog"
	"github.com/okian/pennant/internal/domain/standings"
	"github.com/okian/pennant/internal/domain/titles"
)

// Read shapes returned by the service.
type (
	SessionView    = service.SessionView
	MoveResult     = service.MoveResult
	StandingsEntry = service.StandingsEntry
)

// SessionDependencies drives editor sessions.
type SessionDependencies interface {
	OpenSession(ctx context.Context, owner string, league catalog.League) (SessionView, error)
	Session(ctx context.Context, id, owner string) (SessionView, error)
	Move(ctx context.Context, id, owner, itemID string, dst standings.Destination) (MoveResult, error)
	Submit(ctx context.Context, id, owner string) (SessionView, error)
	CloseSession(ctx context.Context, id, owner string) error
}

// PredictionDependencies exposes the public read side and awards.
type PredictionDependencies interface {
	Season() int
	Standings(ctx context.Context, league catalog.League) ([]StandingsEntry, error)
	TitleSheet(ctx context.Context, owner string) (titles.Sheet, error)
	SaveTitleSheet(ctx context.Context, owner string, sheet titles.Sheet) error
	TitleBoards(ctx context.Context) ([]titles.Board, error)
}

// ArchiveDependencies exports a season.
type ArchiveDependencies interface {
	Archive(ctx context.Context) ([]string, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SessionDependencies
	PredictionDependencies
	ArchiveDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	catalogHandler     *CatalogHandler
	sessionsHandler    *SessionsHandler
	predictionsHandler *PredictionsHandler
	titlesHandler      *TitlesHandler
	archiveHandler     *ArchiveHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		catalogHandler:     NewCatalogHandler(),
		sessionsHandler:    NewSessionsHandler(deps),
		predictionsHandler: NewPredictionsHandler(deps),
		titlesHandler:      NewTitlesHandler(deps),
		archiveHandler:     NewArchiveHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /catalog/{league}", MetricsMiddleware(s.catalogHandler.HandleGetCatalog, "catalog"))

	mux.HandleFunc("POST /sessions", MetricsMiddleware(s.sessionsHandler.HandleOpen, "sessions"))
	mux.HandleFunc("GET /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGet, "session"))
	mux.HandleFunc("DELETE /sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleClose, "session"))
	mux.HandleFunc("POST /sessions/{id}/moves", MetricsMiddleware(s.sessionsHandler.HandleMove, "session_moves"))
	mux.HandleFunc("POST /sessions/{id}/submit", MetricsMiddleware(s.sessionsHandler.HandleSubmit, "session_submit"))

	mux.HandleFunc("GET /predictions", MetricsMiddleware(s.predictionsHandler.HandleList, "predictions"))
	mux.HandleFunc("GET /titles", MetricsMiddleware(s.titlesHandler.HandleBoards, "titles"))
	mux.HandleFunc("GET /titles/me", MetricsMiddleware(s.titlesHandler.HandleGetSheet, "titles_me"))
	mux.HandleFunc("PUT /titles/me", MetricsMiddleware(s.titlesHandler.HandlePutSheet, "titles_me"))
	mux.HandleFunc("POST /archive", MetricsMiddleware(s.archiveHandler.HandleArchive, "archive"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and store error kinds onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrSessionBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, standings.ErrIncompleteAssignment):
		return http.StatusConflict, "incomplete_assignment"
	case errors.Is(err, service.ErrTooManySessions):
		return http.StatusTooManyRequests, "too_many_sessions"
	case errors.Is(err, service.ErrArchiveDisabled):
		return http.StatusServiceUnavailable, "archive_disabled"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, catalog.ErrUnknownLeague),
		errors.Is(err, titles.ErrUnknownTitle),
		errors.Is(err, titles.ErrNoPicks):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, repository.ErrFetch),
		errors.Is(err, repository.ErrSave),
		errors.Is(err, archive.ErrPut):
		return http.StatusBadGateway, "store_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
