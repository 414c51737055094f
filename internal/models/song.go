package models

import (
	"fmt"
	"time"

	"bandroom/internal/shared"
)

// LyricsStatus tracks the lazy lyric fetch lifecycle.
type LyricsStatus string

const (
	LyricsPending LyricsStatus = "pending"
	LyricsFetched LyricsStatus = "fetched"
	LyricsFailed  LyricsStatus = "failed"
)

// TempoStatus tracks the lazy tempo lookup lifecycle.
type TempoStatus string

const (
	TempoPending  TempoStatus = "pending"
	TempoFound    TempoStatus = "found"
	TempoNotFound TempoStatus = "not_found"
)

// Song is a track scoped to one collection. The same external track in two
// collections is two independent Song records with independently mutable
// lyrics, notes, and tempo. Identity is collection id + Spotify track id,
// never title+artist, so legitimate duplicates survive.
type Song struct {
	ID             string       `json:"id"`
	Sequence       int          `json:"-"`
	CollectionID   string       `json:"collection_id"`
	SpotifyTrackID string       `json:"spotify_track_id"`
	Title          string       `json:"title"`
	Artist         string       `json:"artist"`
	Album          string       `json:"album"`
	Year           string       `json:"year"`
	ArtworkURL     string       `json:"album_art_url"`
	Lyrics         string       `json:"lyrics"`
	LyricsNumbered string       `json:"lyrics_numbered"`
	LyricsStatus   LyricsStatus `json:"lyrics_status"`
	IsCustomized   bool         `json:"is_customized"`
	Notes          []Note       `json:"notes"`
	Tempo          int          `json:"tempo"`
	TempoStatus    TempoStatus  `json:"tempo_status"`
	TempoManual    bool         `json:"tempo_manual"`

	// Playlist tracking: a song can belong to several playlists within the
	// same collection, with an independent position in each.
	SourcePlaylistIDs []string       `json:"source_playlist_ids"`
	PlaylistPositions map[string]int `json:"playlist_positions"`
	IsOrphaned        bool           `json:"is_orphaned"`

	CreatedByUID string    `json:"created_by_uid"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSong creates a song for a track first seen in playlistID.
func NewSong(collectionID string, track Track, playlistID, createdByUID string) *Song {
	now := time.Now().UTC()
	return &Song{
		CollectionID:      collectionID,
		SpotifyTrackID:    track.ID,
		Title:             track.Title,
		Artist:            track.Artist,
		Album:             track.Album,
		Year:              track.Year,
		ArtworkURL:        track.ArtworkURL,
		LyricsStatus:      LyricsPending,
		TempoStatus:       TempoPending,
		SourcePlaylistIDs: []string{playlistID},
		PlaylistPositions: map[string]int{playlistID: track.Position},
		CreatedByUID:      createdByUID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Validate checks the song's structural invariants.
func (s *Song) Validate() error {
	if s.CollectionID == "" {
		return fmt.Errorf("%w: song requires a collection id", shared.ErrInvalidInput)
	}
	if s.SpotifyTrackID == "" {
		return fmt.Errorf("%w: song requires a spotify track id", shared.ErrInvalidInput)
	}
	if s.Title == "" {
		return fmt.Errorf("%w: song requires a title", shared.ErrInvalidInput)
	}
	for _, note := range s.Notes {
		if err := note.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// HasSource reports whether playlistID currently supplies this song.
func (s *Song) HasSource(playlistID string) bool {
	for _, id := range s.SourcePlaylistIDs {
		if id == playlistID {
			return true
		}
	}
	return false
}

// AddSource records that playlistID supplies this song at the given position.
// Re-adding an existing source only updates the position. Adding a source
// clears the orphaned flag.
func (s *Song) AddSource(playlistID string, position int) {
	if s.PlaylistPositions == nil {
		s.PlaylistPositions = make(map[string]int)
	}
	if !s.HasSource(playlistID) {
		s.SourcePlaylistIDs = append(s.SourcePlaylistIDs, playlistID)
	}
	s.PlaylistPositions[playlistID] = position
	s.IsOrphaned = false
}

// RemoveSource drops playlistID from the song's sources and position map.
// When the last source is removed the song is marked orphaned rather than
// deleted, preserving its lyrics and notes. Returns true when the song became
// orphaned by this call.
func (s *Song) RemoveSource(playlistID string) bool {
	for i, id := range s.SourcePlaylistIDs {
		if id == playlistID {
			s.SourcePlaylistIDs = append(s.SourcePlaylistIDs[:i], s.SourcePlaylistIDs[i+1:]...)
			break
		}
	}
	delete(s.PlaylistPositions, playlistID)
	if len(s.SourcePlaylistIDs) == 0 && !s.IsOrphaned {
		s.IsOrphaned = true
		return true
	}
	return false
}

// PositionIn returns the song's position within playlistID.
func (s *Song) PositionIn(playlistID string) (int, bool) {
	pos, ok := s.PlaylistPositions[playlistID]
	return pos, ok
}

// SetLyrics replaces the raw lyrics and numbered cache together, so the cache
// is never stale relative to the raw text.
func (s *Song) SetLyrics(raw, numbered string, customized bool) {
	s.Lyrics = raw
	s.LyricsNumbered = numbered
	s.LyricsStatus = LyricsFetched
	s.IsCustomized = customized
}

// PlaylistMemory records a recently imported playlist for quick re-import.
type PlaylistMemory struct {
	PlaylistID     string    `json:"playlist_id"`
	UserUID        string    `json:"user_uid"`
	Name           string    `json:"name"`
	OwnerName      string    `json:"owner_name"`
	TrackCount     int       `json:"track_count"`
	ImageURL       string    `json:"image_url"`
	AccessCount    int       `json:"access_count"`
	LastAccessedAt time.Time `json:"last_accessed_at"`
}
