package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bandroom/internal/models"
	"bandroom/internal/services"
	"bandroom/internal/shared"
)

// ImportResult summarizes a playlist import.
type ImportResult struct {
	Playlist     *models.Playlist `json:"playlist"`
	SongsAdded   int              `json:"songs_added"`
	SongsUpdated int              `json:"songs_updated"`
	TotalTracks  int              `json:"total_tracks"`
}

// ReconcileResult summarizes one playlist reconciliation.
type ReconcileResult struct {
	PlaylistID   string `json:"playlist_id"`
	Added        int    `json:"added"`
	Removed      int    `json:"removed"`
	Orphaned     int    `json:"orphaned"`
	Repositioned int    `json:"repositioned"`
}

// Changed reports whether the reconciliation touched anything.
func (r *ReconcileResult) Changed() bool {
	return r.Added+r.Removed+r.Orphaned+r.Repositioned > 0
}

// ImportPlaylist links a playlist into a collection and imports its tracks as
// songs. Tracks already present (by Spotify track id) gain the playlist as an
// additional source; their lyrics, notes, and tempo are untouched. New songs
// start with pending lyrics and tempo for later lazy fetching.
func (e *Engine) ImportPlaylist(ctx context.Context, progress chan<- ProgressUpdate, collectionID, playlistRef, userUID string) (*ImportResult, error) {
	if e.playlists == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrServiceUnavailable)
	}

	collection, err := e.editableCollection(collectionID, userUID)
	if err != nil {
		return nil, err
	}

	playlistID, err := services.ExtractPlaylistID(playlistRef)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, fetchPlaylistUpdate(playlistID))

	playlist, err := e.playlists.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	tracks, err := e.playlists.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, foundPlaylistUpdate(playlist))

	result := &ImportResult{Playlist: playlist, TotalTracks: len(tracks)}

	for i, track := range tracks {
		e.sendProgress(progress, importSongUpdate(i+1, len(tracks), track))

		added, err := e.upsertSong(collection.ID, track, playlistID, userUID)
		if err != nil {
			return nil, err
		}
		if added {
			result.SongsAdded++
		} else {
			result.SongsUpdated++
		}
	}

	now := time.Now().UTC()
	collection.LinkPlaylist(models.PlaylistLink{
		PlaylistID:   playlistID,
		Name:         playlist.Name,
		OwnerName:    playlist.OwnerName,
		URL:          playlist.URL,
		ImageURL:     playlist.ImageURL,
		TrackCount:   len(tracks),
		LinkedAt:     now,
		LastSyncedAt: now,
	})
	if err := e.refreshSongCount(collection); err != nil {
		return nil, err
	}

	memory := &models.PlaylistMemory{
		PlaylistID: playlistID,
		UserUID:    userUID,
		Name:       playlist.Name,
		OwnerName:  playlist.OwnerName,
		TrackCount: len(tracks),
		ImageURL:   playlist.ImageURL,
	}
	if err := e.memory.Record(memory); err != nil {
		// Memory is a convenience; a failed record must not fail the import.
		e.logger.Warn("failed to record playlist memory", "playlist", playlistID, "error", err)
	}

	e.logger.Info("imported playlist",
		"collection", collectionID,
		"playlist", playlistID,
		"added", result.SongsAdded,
		"updated", result.SongsUpdated,
	)
	return result, nil
}

// upsertSong creates a song for the track or adds playlistID as a source on
// the existing one. Returns true when a new song row was created.
func (e *Engine) upsertSong(collectionID string, track models.Track, playlistID, userUID string) (bool, error) {
	existing, err := e.songs.GetByTrackID(collectionID, track.ID)
	if errors.Is(err, shared.ErrSongNotFound) {
		song := models.NewSong(collectionID, track, playlistID, userUID)
		if err := e.songs.Create(song); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	existing.AddSource(playlistID, track.Position)
	if err := e.songs.Update(existing); err != nil {
		return false, err
	}
	return false, nil
}

// Reconcile brings one linked playlist back in line with its upstream state.
// Tracks added upstream become songs, tracks removed upstream lose this
// playlist as a source (orphaning songs whose last source disappears), and
// repositioned tracks get their stored positions updated. Reconciling an
// unchanged playlist changes nothing.
func (e *Engine) Reconcile(ctx context.Context, progress chan<- ProgressUpdate, collectionID, playlistID, userUID string) (*ReconcileResult, error) {
	if e.playlists == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrServiceUnavailable)
	}

	collection, err := e.editableCollection(collectionID, userUID)
	if err != nil {
		return nil, err
	}
	link := collection.PlaylistLinkFor(playlistID)
	if link == nil {
		return nil, fmt.Errorf("%w: playlist %s is not linked to collection %s", shared.ErrPlaylistNotFound, playlistID, collectionID)
	}

	playlist, err := e.playlists.GetPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	tracks, err := e.playlists.GetPlaylistTracks(ctx, playlistID)
	if err != nil {
		return nil, err
	}

	upstream := make(map[string]models.Track, len(tracks))
	for _, track := range tracks {
		upstream[track.ID] = track
	}

	songs, err := e.songs.ListByCollection(collectionID)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{PlaylistID: playlistID}

	for _, song := range songs {
		if !song.HasSource(playlistID) {
			continue
		}

		track, stillPresent := upstream[song.SpotifyTrackID]
		if !stillPresent {
			if song.RemoveSource(playlistID) {
				result.Orphaned++
			}
			result.Removed++
			if err := e.songs.Update(song); err != nil {
				return nil, err
			}
			continue
		}

		delete(upstream, song.SpotifyTrackID)
		if pos, ok := song.PositionIn(playlistID); !ok || pos != track.Position {
			song.AddSource(playlistID, track.Position)
			result.Repositioned++
			if err := e.songs.Update(song); err != nil {
				return nil, err
			}
		}
	}

	// Whatever survives in the map is new upstream, or already known to the
	// collection via another playlist.
	for _, track := range tracks {
		if _, isNew := upstream[track.ID]; !isNew {
			continue
		}
		added, err := e.upsertSong(collectionID, track, playlistID, userUID)
		if err != nil {
			return nil, err
		}
		if added {
			result.Added++
		}
	}

	link.Name = playlist.Name
	link.TrackCount = len(tracks)
	link.LastSyncedAt = time.Now().UTC()
	if err := e.refreshSongCount(collection); err != nil {
		return nil, err
	}

	if result.Changed() {
		e.logger.Info("reconciled playlist",
			"collection", collectionID,
			"playlist", playlistID,
			"added", result.Added,
			"removed", result.Removed,
			"orphaned", result.Orphaned,
			"repositioned", result.Repositioned,
		)
	}
	return result, nil
}

// SyncCollection reconciles every playlist linked to the collection, in link
// order. A failure on one playlist stops the sync and reports which playlists
// completed.
func (e *Engine) SyncCollection(ctx context.Context, progress chan<- ProgressUpdate, collectionID, userUID string) ([]*ReconcileResult, error) {
	collection, err := e.editableCollection(collectionID, userUID)
	if err != nil {
		return nil, err
	}

	links := make([]models.PlaylistLink, len(collection.Playlists))
	copy(links, collection.Playlists)

	var results []*ReconcileResult
	for i, link := range links {
		e.sendProgress(progress, reconcileUpdate(i+1, len(links), link.Name))

		result, err := e.Reconcile(ctx, progress, collectionID, link.PlaylistID, userUID)
		if err != nil {
			return results, fmt.Errorf("failed to reconcile %s: %w", link.PlaylistID, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Unlink removes a playlist from a collection. Every song sourced from it
// loses the source; songs left with no sources are orphaned, not deleted, so
// their lyrics and notes survive.
func (e *Engine) Unlink(ctx context.Context, collectionID, playlistID, userUID string) (*ReconcileResult, error) {
	collection, err := e.editableCollection(collectionID, userUID)
	if err != nil {
		return nil, err
	}
	if !collection.UnlinkPlaylist(playlistID) {
		return nil, fmt.Errorf("%w: playlist %s is not linked to collection %s", shared.ErrPlaylistNotFound, playlistID, collectionID)
	}

	songs, err := e.songs.ListByCollection(collectionID)
	if err != nil {
		return nil, err
	}

	result := &ReconcileResult{PlaylistID: playlistID}
	for _, song := range songs {
		if !song.HasSource(playlistID) {
			continue
		}
		if song.RemoveSource(playlistID) {
			result.Orphaned++
		}
		result.Removed++
		if err := e.songs.Update(song); err != nil {
			return nil, err
		}
	}

	if err := e.refreshSongCount(collection); err != nil {
		return nil, err
	}

	e.logger.Info("unlinked playlist",
		"collection", collectionID,
		"playlist", playlistID,
		"orphaned", result.Orphaned,
	)
	return result, nil
}
