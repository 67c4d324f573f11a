package api

import "net/http"

type archiveResponse struct {
	Objects []string `json:"objects"`
}

// ArchiveHandler triggers season exports.
type ArchiveHandler struct {
	deps ArchiveDependencies
}

// NewArchiveHandler creates a new archive handler.
func NewArchiveHandler(deps ArchiveDependencies) *ArchiveHandler {
	return &ArchiveHandler{deps: deps}
}

// HandleArchive handles POST /archive.
func (h *ArchiveHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	const op = "api.archive"
	keys, err := h.deps.Archive(r.Context())
	if err != nil {
		writeServiceError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, archiveResponse{Objects: keys})
}
