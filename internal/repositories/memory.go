package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bandroom/internal/models"
	"bandroom/internal/shared"
)

// PlaylistMemoryRepository tracks recently imported playlists per user so the
// import flow can offer them again without a fresh upstream lookup.
type PlaylistMemoryRepository struct {
	db *sql.DB
}

// NewPlaylistMemoryRepository creates a new PlaylistMemoryRepository with the given database connection
func NewPlaylistMemoryRepository(db *sql.DB) *PlaylistMemoryRepository {
	return &PlaylistMemoryRepository{db: db}
}

// Record upserts a playlist memory entry, bumping its access count and
// last-accessed timestamp. When a different user records the same playlist,
// the memory is reassigned to that user and its access count restarts at 1.
func (r *PlaylistMemoryRepository) Record(memory *models.PlaylistMemory) error {
	if memory.PlaylistID == "" || memory.UserUID == "" {
		return fmt.Errorf("%w: playlist memory requires playlist and user ids", shared.ErrInvalidInput)
	}

	now := time.Now().UTC()
	memory.LastAccessedAt = now

	query := `
		INSERT INTO playlist_memory (playlist_id, user_uid, name, owner_name, track_count, image_url, access_count, last_accessed_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?)
		ON CONFLICT (playlist_id) DO UPDATE SET
			user_uid = excluded.user_uid,
			name = excluded.name,
			owner_name = excluded.owner_name,
			track_count = excluded.track_count,
			image_url = excluded.image_url,
			access_count = CASE
				WHEN playlist_memory.user_uid = excluded.user_uid THEN playlist_memory.access_count + 1
				ELSE 1
			END,
			last_accessed_at = excluded.last_accessed_at
	`

	_, err := r.db.Exec(query,
		memory.PlaylistID,
		memory.UserUID,
		memory.Name,
		memory.OwnerName,
		memory.TrackCount,
		memory.ImageURL,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to record playlist memory: %w", err)
	}

	return nil
}

// Get retrieves a remembered playlist by ID.
func (r *PlaylistMemoryRepository) Get(playlistID string) (*models.PlaylistMemory, error) {
	query := `
		SELECT playlist_id, user_uid, name, owner_name, track_count, image_url, access_count, last_accessed_at
		FROM playlist_memory
		WHERE playlist_id = ?
	`

	var memory models.PlaylistMemory
	err := r.db.QueryRow(query, playlistID).Scan(
		&memory.PlaylistID,
		&memory.UserUID,
		&memory.Name,
		&memory.OwnerName,
		&memory.TrackCount,
		&memory.ImageURL,
		&memory.AccessCount,
		&memory.LastAccessedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist memory: %w", err)
	}

	return &memory, nil
}

// ListByUser retrieves a user's remembered playlists, most recently accessed first.
func (r *PlaylistMemoryRepository) ListByUser(userUID string) ([]*models.PlaylistMemory, error) {
	query := `
		SELECT playlist_id, user_uid, name, owner_name, track_count, image_url, access_count, last_accessed_at
		FROM playlist_memory
		WHERE user_uid = ?
		ORDER BY last_accessed_at DESC
	`

	rows, err := r.db.Query(query, userUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist memory: %w", err)
	}
	defer rows.Close()

	var memories []*models.PlaylistMemory
	for rows.Next() {
		var memory models.PlaylistMemory
		err := rows.Scan(
			&memory.PlaylistID,
			&memory.UserUID,
			&memory.Name,
			&memory.OwnerName,
			&memory.TrackCount,
			&memory.ImageURL,
			&memory.AccessCount,
			&memory.LastAccessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playlist memory: %w", err)
		}
		memories = append(memories, &memory)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return memories, nil
}
