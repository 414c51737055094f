package tasks

import (
	"context"
	"fmt"

	"bandroom/internal/lyrics"
	"bandroom/internal/models"
	"bandroom/internal/notes"
	"bandroom/internal/shared"
)

// viewableCollection loads a collection and verifies userUID may read it.
func (e *Engine) viewableCollection(collectionID, userUID string) (*models.Collection, error) {
	collection, err := e.collections.Get(collectionID)
	if err != nil {
		return nil, err
	}
	if collection.AccessLevelFor(userUID) == models.AccessNone {
		return nil, fmt.Errorf("%w: %s cannot view collection %s", shared.ErrNoAccess, userUID, collectionID)
	}
	return collection, nil
}

// GetCollection returns a collection the user may read.
func (e *Engine) GetCollection(ctx context.Context, collectionID, userUID string) (*models.Collection, error) {
	return e.viewableCollection(collectionID, userUID)
}

// ListSongs returns the songs of a collection the user may read.
func (e *Engine) ListSongs(ctx context.Context, collectionID, userUID string) ([]*models.Song, error) {
	if _, err := e.viewableCollection(collectionID, userUID); err != nil {
		return nil, err
	}
	return e.songs.ListByCollection(collectionID)
}

// GetSong returns one song, lazily resolving its lyrics and tempo on first
// view. Lookup misses are recorded on the song, never surfaced as errors.
func (e *Engine) GetSong(ctx context.Context, collectionID, songID, userUID string) (*models.Song, error) {
	if _, err := e.viewableCollection(collectionID, userUID); err != nil {
		return nil, err
	}

	song, err := e.songs.Get(songID)
	if err != nil {
		return nil, err
	}
	if song.CollectionID != collectionID {
		return nil, fmt.Errorf("%w: %s", shared.ErrSongNotFound, songID)
	}

	if song, err = e.EnsureLyrics(ctx, song); err != nil {
		return nil, err
	}
	if song, err = e.EnsureTempo(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

// UpdateLyrics replaces a song's lyrics with user-edited text. The numbered
// rendering is regenerated and the song is marked customized so upstream
// fetches never clobber the edit. Anchored notes keep their stored line
// numbers; tagged notes re-resolve against the new bounds on render.
func (e *Engine) UpdateLyrics(ctx context.Context, collectionID, songID, userUID, raw string) (*models.Song, error) {
	song, err := e.editableSong(collectionID, songID, userUID)
	if err != nil {
		return nil, err
	}

	song.SetLyrics(raw, lyrics.Number(raw), true)
	if err := e.songs.Update(song); err != nil {
		return nil, err
	}
	return song, nil
}

// UpdateNotes replaces a song's notes from a raw note block. Each line is
// parsed for a line reference against the song's current numbered lyrics;
// lines without one become free-form notes.
func (e *Engine) UpdateNotes(ctx context.Context, collectionID, songID, userUID, block string) (*models.Song, error) {
	song, err := e.editableSong(collectionID, songID, userUID)
	if err != nil {
		return nil, err
	}

	first, last := lyrics.Bounds(song.LyricsNumbered)
	song.Notes = notes.Parse(block, first, last)
	if err := e.songs.Update(song); err != nil {
		return nil, err
	}
	return song, nil
}

// SetManualTempo pins a song's tempo to a user-supplied value, excluding it
// from future automatic lookups. A non-positive tempo clears the manual pin
// and re-queues the song for lookup.
func (e *Engine) SetManualTempo(ctx context.Context, collectionID, songID, userUID string, tempo int) (*models.Song, error) {
	song, err := e.editableSong(collectionID, songID, userUID)
	if err != nil {
		return nil, err
	}

	if tempo <= 0 {
		song.Tempo = 0
		song.TempoManual = false
		song.TempoStatus = models.TempoPending
	} else {
		song.Tempo = tempo
		song.TempoManual = true
		song.TempoStatus = models.TempoFound
	}
	if err := e.songs.Update(song); err != nil {
		return nil, err
	}
	return song, nil
}

// editableSong loads a song after verifying the user may edit its collection
// and the song belongs to that collection.
func (e *Engine) editableSong(collectionID, songID, userUID string) (*models.Song, error) {
	if _, err := e.editableCollection(collectionID, userUID); err != nil {
		return nil, err
	}

	song, err := e.songs.Get(songID)
	if err != nil {
		return nil, err
	}
	if song.CollectionID != collectionID {
		return nil, fmt.Errorf("%w: %s", shared.ErrSongNotFound, songID)
	}
	return song, nil
}
