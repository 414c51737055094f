package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"bandroom/internal/shared"
	"bandroom/internal/tasks"
)

// API serves the REST surface of the band practice service. All routes run
// behind [RequireAuth]; handlers read the acting identity from the context.
type API struct {
	engine *tasks.Engine
	logger *log.Logger
}

// NewAPI creates the API handler set around an engine.
func NewAPI(engine *tasks.Engine, logger *log.Logger) *API {
	return &API{engine: engine, logger: logger}
}

// Register attaches all API routes to the router.
func (a *API) Register(r Router) {
	r.Handle("GET /api/collections", http.HandlerFunc(a.listCollections))
	r.Handle("POST /api/collections", http.HandlerFunc(a.createCollection))
	r.Handle("GET /api/collections/browse", http.HandlerFunc(a.browsePublic))
	r.Handle("GET /api/collections/personal", http.HandlerFunc(a.personalCollection))
	r.Handle("GET /api/collections/{id}", http.HandlerFunc(a.getCollection))
	r.Handle("PUT /api/collections/{id}", http.HandlerFunc(a.updateCollection))
	r.Handle("DELETE /api/collections/{id}", http.HandlerFunc(a.deleteCollection))
	r.Handle("GET /api/collections/{id}/export", http.HandlerFunc(a.exportCollection))

	r.Handle("POST /api/collections/{id}/playlists", http.HandlerFunc(a.importPlaylist))
	r.Handle("POST /api/collections/{id}/playlists/reorder", http.HandlerFunc(a.reorderPlaylists))
	r.Handle("DELETE /api/collections/{id}/playlists/{playlistID}", http.HandlerFunc(a.unlinkPlaylist))
	r.Handle("POST /api/collections/{id}/playlists/{playlistID}/sync", http.HandlerFunc(a.syncPlaylist))
	r.Handle("POST /api/collections/{id}/sync", http.HandlerFunc(a.syncCollection))
	r.Handle("POST /api/collections/{id}/fetch", http.HandlerFunc(a.fetchPending))
	r.Handle("POST /api/collections/{id}/purge", http.HandlerFunc(a.purgeOrphans))

	r.Handle("POST /api/collections/{id}/requests", http.HandlerFunc(a.requestAccess))
	r.Handle("POST /api/collections/{id}/requests/{uid}/accept", http.HandlerFunc(a.acceptRequest))
	r.Handle("POST /api/collections/{id}/requests/{uid}/deny", http.HandlerFunc(a.denyRequest))

	r.Handle("GET /api/collections/{id}/songs", http.HandlerFunc(a.listSongs))
	r.Handle("GET /api/collections/{id}/songs/{songID}", http.HandlerFunc(a.getSong))
	r.Handle("DELETE /api/collections/{id}/songs/{songID}", http.HandlerFunc(a.deleteSong))
	r.Handle("PUT /api/collections/{id}/songs/{songID}/lyrics", http.HandlerFunc(a.updateLyrics))
	r.Handle("PUT /api/collections/{id}/songs/{songID}/notes", http.HandlerFunc(a.updateNotes))
	r.Handle("PUT /api/collections/{id}/songs/{songID}/tempo", http.HandlerFunc(a.updateTempo))

	r.Handle("GET /api/playlists/recent", http.HandlerFunc(a.recentPlaylists))
}

// writeJSON encodes v as the response body with the given status.
func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses and writes a JSON error body.
func (a *API) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, shared.ErrCollectionNotFound),
		errors.Is(err, shared.ErrSongNotFound),
		errors.Is(err, shared.ErrPlaylistNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrNoAccess),
		errors.Is(err, shared.ErrNotOwner),
		errors.Is(err, shared.ErrPersonalLocked):
		status = http.StatusForbidden
	case errors.Is(err, shared.ErrAlreadyRequested),
		errors.Is(err, shared.ErrAlreadyCollaborator),
		errors.Is(err, shared.ErrNotOrphaned):
		status = http.StatusConflict
	case errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidArgument),
		errors.Is(err, shared.ErrMissingArgument):
		status = http.StatusBadRequest
	case errors.Is(err, shared.ErrNotAuthenticated),
		errors.Is(err, shared.ErrTokenExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, shared.ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// decodeBody decodes the JSON request body into v.
func (a *API) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// HealthHandler reports service liveness. Registered outside the auth middleware.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
}
