package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bandroom/internal/models"
	"bandroom/internal/shared"
)

const collectionColumns = `id, sequence, owner_uid, name, description, is_personal, visibility,
	collaborators, collaboration_requests, linked_playlists, song_count, created_at, updated_at`

// CollectionRepository persists [models.Collection] records.
type CollectionRepository struct {
	db *sql.DB
}

// NewCollectionRepository creates a new CollectionRepository with the given database connection
func NewCollectionRepository(db *sql.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Create inserts a new collection into the database with generated ID and sequence
func (r *CollectionRepository) Create(collection *models.Collection) error {
	if err := collection.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "collections")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	collection.ID = shared.GenerateID()
	collection.Sequence = sequence

	collaborators, err := marshalJSON(collection.Collaborators)
	if err != nil {
		return err
	}
	requests, err := marshalJSON(collection.Requests)
	if err != nil {
		return err
	}
	playlists, err := marshalJSON(collection.Playlists)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO collections (id, sequence, owner_uid, name, description, is_personal, visibility,
			collaborators, collaboration_requests, linked_playlists, song_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		collection.ID,
		sequence,
		collection.OwnerUID,
		collection.Name,
		collection.Description,
		collection.IsPersonal,
		string(collection.Visibility),
		collaborators,
		requests,
		playlists,
		collection.SongCount,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}

	return nil
}

// Get retrieves a collection by ID
func (r *CollectionRepository) Get(id string) (*models.Collection, error) {
	query := fmt.Sprintf("SELECT %s FROM collections WHERE id = ?", collectionColumns)
	return scanCollection(r.db.QueryRow(query, id))
}

// GetPersonal retrieves the personal collection for a user, or
// [shared.ErrCollectionNotFound] when none exists yet.
func (r *CollectionRepository) GetPersonal(ownerUID string) (*models.Collection, error) {
	query := fmt.Sprintf("SELECT %s FROM collections WHERE owner_uid = ? AND is_personal = 1", collectionColumns)
	return scanCollection(r.db.QueryRow(query, ownerUID))
}

// Update modifies an existing collection in the database
func (r *CollectionRepository) Update(collection *models.Collection) error {
	if err := collection.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	collaborators, err := marshalJSON(collection.Collaborators)
	if err != nil {
		return err
	}
	requests, err := marshalJSON(collection.Requests)
	if err != nil {
		return err
	}
	playlists, err := marshalJSON(collection.Playlists)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	collection.UpdatedAt = now

	query := `
		UPDATE collections
		SET name = ?, description = ?, visibility = ?, collaborators = ?, collaboration_requests = ?,
			linked_playlists = ?, song_count = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		collection.Name,
		collection.Description,
		string(collection.Visibility),
		collaborators,
		requests,
		playlists,
		collection.SongCount,
		now,
		collection.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update collection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrCollectionNotFound, collection.ID)
	}

	return nil
}

// Delete removes a collection. Its songs are removed by the schema's cascade.
// Personal collections cannot be deleted.
func (r *CollectionRepository) Delete(id string) error {
	collection, err := r.Get(id)
	if err != nil {
		return err
	}
	if collection.IsPersonal {
		return shared.ErrPersonalLocked
	}

	result, err := r.db.Exec("DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrCollectionNotFound, id)
	}

	return nil
}

// ListByOwner retrieves all collections owned by ownerUID in sequence order.
func (r *CollectionRepository) ListByOwner(ownerUID string) ([]*models.Collection, error) {
	query := fmt.Sprintf("SELECT %s FROM collections WHERE owner_uid = ? ORDER BY sequence ASC", collectionColumns)
	return r.list(query, ownerUID)
}

// ListByCollaborator retrieves collections where uid appears in the
// collaborator list. The collaborators column is a JSON array, so the match
// happens in Go after a visibility prefilter.
func (r *CollectionRepository) ListByCollaborator(uid string) ([]*models.Collection, error) {
	query := fmt.Sprintf("SELECT %s FROM collections WHERE owner_uid != ? AND collaborators != '[]' ORDER BY sequence ASC", collectionColumns)
	candidates, err := r.list(query, uid)
	if err != nil {
		return nil, err
	}

	var collections []*models.Collection
	for _, c := range candidates {
		if c.AccessLevelFor(uid) == models.AccessCollaborator {
			collections = append(collections, c)
		}
	}
	return collections, nil
}

// ListPublic retrieves all public collections in sequence order.
func (r *CollectionRepository) ListPublic() ([]*models.Collection, error) {
	query := fmt.Sprintf("SELECT %s FROM collections WHERE visibility = ? ORDER BY sequence ASC", collectionColumns)
	return r.list(query, string(models.VisibilityPublic))
}

func (r *CollectionRepository) list(query string, args ...any) ([]*models.Collection, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	var collections []*models.Collection
	for rows.Next() {
		collection, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		collections = append(collections, collection)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return collections, nil
}

// rowScanner abstracts [sql.Row] and [sql.Rows] so one scan path serves both.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCollection(row rowScanner) (*models.Collection, error) {
	var (
		collection    models.Collection
		visibility    string
		collaborators string
		requests      string
		playlists     string
	)

	err := row.Scan(
		&collection.ID,
		&collection.Sequence,
		&collection.OwnerUID,
		&collection.Name,
		&collection.Description,
		&collection.IsPersonal,
		&visibility,
		&collaborators,
		&requests,
		&playlists,
		&collection.SongCount,
		&collection.CreatedAt,
		&collection.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrCollectionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan collection: %w", err)
	}

	collection.Visibility = models.Visibility(visibility)
	if err := unmarshalJSON(collaborators, &collection.Collaborators); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(requests, &collection.Requests); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(playlists, &collection.Playlists); err != nil {
		return nil, err
	}

	return &collection, nil
}
