package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bandroom/internal/models"
	"bandroom/internal/shared"
)

const songColumns = `id, sequence, collection_id, spotify_track_id, title, artist, album, year,
	album_art_url, lyrics, lyrics_numbered, lyrics_status, is_customized, notes, tempo,
	tempo_status, tempo_manual, source_playlist_ids, playlist_positions, is_orphaned,
	created_by_uid, created_at, updated_at`

// SongRepository persists [models.Song] records. Songs are scoped to their
// collection: the same Spotify track in two collections is two rows.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new song into the database with generated ID and sequence
func (r *SongRepository) Create(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	song.ID = shared.GenerateID()
	song.Sequence = sequence

	notes, sources, positions, err := marshalSongColumns(song)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO songs (id, sequence, collection_id, spotify_track_id, title, artist, album, year,
			album_art_url, lyrics, lyrics_numbered, lyrics_status, is_customized, notes, tempo,
			tempo_status, tempo_manual, source_playlist_ids, playlist_positions, is_orphaned,
			created_by_uid, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		song.ID,
		sequence,
		song.CollectionID,
		song.SpotifyTrackID,
		song.Title,
		song.Artist,
		song.Album,
		song.Year,
		song.ArtworkURL,
		song.Lyrics,
		song.LyricsNumbered,
		string(song.LyricsStatus),
		song.IsCustomized,
		notes,
		song.Tempo,
		string(song.TempoStatus),
		song.TempoManual,
		sources,
		positions,
		song.IsOrphaned,
		song.CreatedByUID,
		song.CreatedAt,
		song.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE id = ?", songColumns)
	return scanSong(r.db.QueryRow(query, id))
}

// GetByTrackID retrieves the song for a Spotify track within one collection.
func (r *SongRepository) GetByTrackID(collectionID, spotifyTrackID string) (*models.Song, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE collection_id = ? AND spotify_track_id = ?", songColumns)
	return scanSong(r.db.QueryRow(query, collectionID, spotifyTrackID))
}

// Update modifies an existing song in the database
func (r *SongRepository) Update(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	notes, sources, positions, err := marshalSongColumns(song)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	song.UpdatedAt = now

	query := `
		UPDATE songs
		SET title = ?, artist = ?, album = ?, year = ?, album_art_url = ?,
			lyrics = ?, lyrics_numbered = ?, lyrics_status = ?, is_customized = ?, notes = ?,
			tempo = ?, tempo_status = ?, tempo_manual = ?,
			source_playlist_ids = ?, playlist_positions = ?, is_orphaned = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		song.Title,
		song.Artist,
		song.Album,
		song.Year,
		song.ArtworkURL,
		song.Lyrics,
		song.LyricsNumbered,
		string(song.LyricsStatus),
		song.IsCustomized,
		notes,
		song.Tempo,
		string(song.TempoStatus),
		song.TempoManual,
		sources,
		positions,
		song.IsOrphaned,
		now,
		song.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, song.ID)
	}

	return nil
}

// Delete removes a song by ID
func (r *SongRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM songs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	return nil
}

// ListByCollection retrieves all songs in a collection in sequence order.
func (r *SongRepository) ListByCollection(collectionID string) ([]*models.Song, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE collection_id = ? ORDER BY sequence ASC", songColumns)
	return r.list(query, collectionID)
}

// ListOrphaned retrieves the orphaned songs in a collection.
func (r *SongRepository) ListOrphaned(collectionID string) ([]*models.Song, error) {
	query := fmt.Sprintf("SELECT %s FROM songs WHERE collection_id = ? AND is_orphaned = 1 ORDER BY sequence ASC", songColumns)
	return r.list(query, collectionID)
}

// DeleteOrphaned purges all orphaned songs in a collection and returns the
// number removed. Songs with at least one source playlist are untouched.
func (r *SongRepository) DeleteOrphaned(collectionID string) (int, error) {
	result, err := r.db.Exec("DELETE FROM songs WHERE collection_id = ? AND is_orphaned = 1", collectionID)
	if err != nil {
		return 0, fmt.Errorf("failed to purge orphaned songs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(rows), nil
}

// CountByCollection returns the number of songs currently in a collection.
func (r *SongRepository) CountByCollection(collectionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM songs WHERE collection_id = ?", collectionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return count, nil
}

func (r *SongRepository) list(query string, args ...any) ([]*models.Song, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

func marshalSongColumns(song *models.Song) (notes, sources, positions string, err error) {
	if notes, err = marshalJSON(song.Notes); err != nil {
		return "", "", "", err
	}
	if sources, err = marshalJSON(song.SourcePlaylistIDs); err != nil {
		return "", "", "", err
	}
	if positions, err = marshalJSON(song.PlaylistPositions); err != nil {
		return "", "", "", err
	}
	return notes, sources, positions, nil
}

func scanSong(row rowScanner) (*models.Song, error) {
	var (
		song         models.Song
		lyricsStatus string
		tempoStatus  string
		notes        string
		sources      string
		positions    string
	)

	err := row.Scan(
		&song.ID,
		&song.Sequence,
		&song.CollectionID,
		&song.SpotifyTrackID,
		&song.Title,
		&song.Artist,
		&song.Album,
		&song.Year,
		&song.ArtworkURL,
		&song.Lyrics,
		&song.LyricsNumbered,
		&lyricsStatus,
		&song.IsCustomized,
		&notes,
		&song.Tempo,
		&tempoStatus,
		&song.TempoManual,
		&sources,
		&positions,
		&song.IsOrphaned,
		&song.CreatedByUID,
		&song.CreatedAt,
		&song.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSongNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	song.LyricsStatus = models.LyricsStatus(lyricsStatus)
	song.TempoStatus = models.TempoStatus(tempoStatus)
	if err := unmarshalJSON(notes, &song.Notes); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(sources, &song.SourcePlaylistIDs); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(positions, &song.PlaylistPositions); err != nil {
		return nil, err
	}

	return &song, nil
}
