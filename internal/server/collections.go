package server

import (
	"fmt"
	"net/http"

	"bandroom/internal/formatter"
	"bandroom/internal/models"
	"bandroom/internal/services"
	"bandroom/internal/shared"
)

// identity pulls the verified identity out of the request context. RequireAuth
// guarantees it exists on every registered route.
func (a *API) identity(w http.ResponseWriter, r *http.Request) (services.Identity, bool) {
	identity, ok := IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
	}
	return identity, ok
}

func (a *API) listCollections(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	collections, err := a.engine.ListCollections(r.Context(), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"collections": collections})
}

func (a *API) createCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Visibility  string `json:"visibility"`
	}
	if !a.decodeBody(w, r, &body) {
		return
	}
	if body.Visibility == "" {
		body.Visibility = string(models.VisibilityPrivate)
	}

	collection, err := a.engine.CreateCollection(r.Context(), identity.UID, body.Name, body.Description, models.Visibility(body.Visibility))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, collection)
}

func (a *API) browsePublic(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	collections, err := a.engine.BrowsePublic(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}

	// Flag collections the viewer already has a pending request against, so
	// the browse view can render "requested" instead of a second button.
	type publicCollection struct {
		*models.Collection
		AccessRequested bool `json:"access_requested"`
	}
	payload := make([]publicCollection, 0, len(collections))
	for _, c := range collections {
		payload = append(payload, publicCollection{
			Collection:      c,
			AccessRequested: c.HasRequestFrom(identity.UID),
		})
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"collections": payload})
}

func (a *API) personalCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	collection, err := a.engine.GetOrCreatePersonal(r.Context(), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, collection)
}

func (a *API) getCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	collection, err := a.engine.GetCollection(r.Context(), r.PathValue("id"), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]any{
		"collection":   collection,
		"access_level": collection.AccessLevelFor(identity.UID),
	})
}

func (a *API) updateCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Visibility  *string `json:"visibility"`
	}
	if !a.decodeBody(w, r, &body) {
		return
	}

	collection, err := a.engine.GetCollection(r.Context(), r.PathValue("id"), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	if collection.OwnerUID != identity.UID {
		a.writeError(w, fmt.Errorf("%w: only the owner may edit collection settings", shared.ErrNotOwner))
		return
	}

	if body.Name != nil {
		collection.Name = *body.Name
	}
	if body.Description != nil {
		collection.Description = *body.Description
	}
	if body.Visibility != nil {
		if err := collection.SetVisibility(models.Visibility(*body.Visibility)); err != nil {
			a.writeError(w, err)
			return
		}
	}

	if err := a.engine.SaveCollection(r.Context(), collection); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, collection)
}

func (a *API) deleteCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	if err := a.engine.DeleteCollection(r.Context(), r.PathValue("id"), identity.UID); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) exportCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	collectionID := r.PathValue("id")
	collection, err := a.engine.GetCollection(r.Context(), collectionID, identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	songs, err := a.engine.ListSongs(r.Context(), collectionID, identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch format := r.URL.Query().Get("format"); format {
	case "csv":
		data, err = formatter.ExportToCSV(collection, songs)
		contentType = "text/csv"
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(collection, songs)
		contentType = "text/markdown"
	case "", "text":
		data, err = formatter.ExportToText(collection, songs)
		contentType = "text/plain"
	default:
		a.writeError(w, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format))
		return
	}
	if err != nil {
		a.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (a *API) importPlaylist(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	var body struct {
		Playlist string `json:"playlist"`
	}
	if !a.decodeBody(w, r, &body) {
		return
	}
	if body.Playlist == "" {
		a.writeError(w, fmt.Errorf("%w: playlist url or id required", shared.ErrMissingArgument))
		return
	}

	result, err := a.engine.ImportPlaylist(r.Context(), nil, r.PathValue("id"), body.Playlist, identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, result)
}

func (a *API) reorderPlaylists(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	var body struct {
		PlaylistIDs []string `json:"playlist_ids"`
	}
	if !a.decodeBody(w, r, &body) {
		return
	}

	if err := a.engine.ReorderPlaylists(r.Context(), r.PathValue("id"), identity.UID, body.PlaylistIDs); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) unlinkPlaylist(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	result, err := a.engine.Unlink(r.Context(), r.PathValue("id"), r.PathValue("playlistID"), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *API) syncPlaylist(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	result, err := a.engine.Reconcile(r.Context(), nil, r.PathValue("id"), r.PathValue("playlistID"), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *API) syncCollection(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	results, err := a.engine.SyncCollection(r.Context(), nil, r.PathValue("id"), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (a *API) fetchPending(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	result, err := a.engine.FetchPending(r.Context(), nil, r.PathValue("id"), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, result)
}

func (a *API) purgeOrphans(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	purged, err := a.engine.PurgeOrphans(r.Context(), r.PathValue("id"), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]int{"purged": purged})
}

func (a *API) requestAccess(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	if err := a.engine.RequestAccess(r.Context(), r.PathValue("id"), identity); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (a *API) acceptRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	if err := a.engine.AcceptRequest(r.Context(), r.PathValue("id"), identity.UID, r.PathValue("uid")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) denyRequest(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	if err := a.engine.DenyRequest(r.Context(), r.PathValue("id"), identity.UID, r.PathValue("uid")); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) recentPlaylists(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	memories, err := a.engine.RecentPlaylists(r.Context(), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"playlists": memories})
}
