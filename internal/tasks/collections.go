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

// GetOrCreatePersonal returns the user's personal collection, creating it on
// first access. The personal collection is private and cannot be deleted.
func (e *Engine) GetOrCreatePersonal(ctx context.Context, userUID string) (*models.Collection, error) {
	personal, err := e.collections.GetPersonal(userUID)
	if err == nil {
		return personal, nil
	}
	if !errors.Is(err, shared.ErrCollectionNotFound) {
		return nil, err
	}

	personal = models.NewPersonalCollection(userUID)
	if err := e.collections.Create(personal); err != nil {
		// Concurrent first requests can race the insert; the loser re-reads.
		if existing, getErr := e.collections.GetPersonal(userUID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}

	e.logger.Info("created personal collection", "user", userUID, "collection", personal.ID)
	return personal, nil
}

// CreateCollection creates a new collection owned by userUID.
func (e *Engine) CreateCollection(ctx context.Context, userUID, name, description string, visibility models.Visibility) (*models.Collection, error) {
	collection := models.NewCollection(userUID, name, description, visibility)
	if err := e.collections.Create(collection); err != nil {
		return nil, err
	}
	e.logger.Info("created collection", "user", userUID, "collection", collection.ID, "name", name)
	return collection, nil
}

// DeleteCollection removes a collection and all of its songs. Only the owner
// may delete, and personal collections are refused.
func (e *Engine) DeleteCollection(ctx context.Context, collectionID, userUID string) error {
	collection, err := e.ownedCollection(collectionID, userUID)
	if err != nil {
		return err
	}
	if collection.IsPersonal {
		return shared.ErrPersonalLocked
	}
	if err := e.collections.Delete(collectionID); err != nil {
		return err
	}
	e.logger.Info("deleted collection", "user", userUID, "collection", collectionID)
	return nil
}

// SaveCollection persists settings edits on a collection the caller has
// already loaded and access-checked.
func (e *Engine) SaveCollection(ctx context.Context, collection *models.Collection) error {
	return e.collections.Update(collection)
}

// RecentPlaylists returns the user's remembered playlists, most recent first.
func (e *Engine) RecentPlaylists(ctx context.Context, userUID string) ([]*models.PlaylistMemory, error) {
	return e.memory.ListByUser(userUID)
}

// ListCollections returns the collections visible on a user's dashboard:
// owned collections followed by collections they collaborate on.
func (e *Engine) ListCollections(ctx context.Context, userUID string) ([]*models.Collection, error) {
	owned, err := e.collections.ListByOwner(userUID)
	if err != nil {
		return nil, err
	}
	collaborating, err := e.collections.ListByCollaborator(userUID)
	if err != nil {
		return nil, err
	}
	return append(owned, collaborating...), nil
}

// BrowsePublic returns all public collections.
func (e *Engine) BrowsePublic(ctx context.Context) ([]*models.Collection, error) {
	return e.collections.ListPublic()
}

// RequestAccess files a collaboration request by the identified user against
// a public collection.
func (e *Engine) RequestAccess(ctx context.Context, collectionID string, identity services.Identity) error {
	collection, err := e.collections.Get(collectionID)
	if err != nil {
		return err
	}
	if err := collection.RequestCollaboration(identity.UID, identity.Email, identity.DisplayName, time.Now().UTC()); err != nil {
		return err
	}
	if err := e.collections.Update(collection); err != nil {
		return err
	}
	e.logger.Info("collaboration requested", "collection", collectionID, "requester", identity.UID)
	return nil
}

// AcceptRequest promotes a pending collaboration request. Owner only.
func (e *Engine) AcceptRequest(ctx context.Context, collectionID, ownerUID, requesterUID string) error {
	collection, err := e.ownedCollection(collectionID, ownerUID)
	if err != nil {
		return err
	}
	if err := collection.AcceptRequest(requesterUID); err != nil {
		return err
	}
	if err := e.collections.Update(collection); err != nil {
		return err
	}
	e.logger.Info("collaboration accepted", "collection", collectionID, "collaborator", requesterUID)
	return nil
}

// DenyRequest drops a pending collaboration request. Owner only; denying a
// request that does not exist is a no-op.
func (e *Engine) DenyRequest(ctx context.Context, collectionID, ownerUID, requesterUID string) error {
	collection, err := e.ownedCollection(collectionID, ownerUID)
	if err != nil {
		return err
	}
	collection.DenyRequest(requesterUID)
	return e.collections.Update(collection)
}

// ReorderPlaylists atomically replaces the playlist order within a collection.
func (e *Engine) ReorderPlaylists(ctx context.Context, collectionID, userUID string, playlistIDs []string) error {
	collection, err := e.editableCollection(collectionID, userUID)
	if err != nil {
		return err
	}
	if err := collection.ReorderPlaylists(playlistIDs); err != nil {
		return err
	}
	return e.collections.Update(collection)
}

// PurgeOrphans deletes every orphaned song in a collection and returns the
// number removed.
func (e *Engine) PurgeOrphans(ctx context.Context, collectionID, userUID string) (int, error) {
	collection, err := e.editableCollection(collectionID, userUID)
	if err != nil {
		return 0, err
	}

	purged, err := e.songs.DeleteOrphaned(collectionID)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		if err := e.refreshSongCount(collection); err != nil {
			return purged, err
		}
		e.logger.Info("purged orphaned songs", "collection", collectionID, "count", purged)
	}
	return purged, nil
}

// DeleteSong permanently removes a single orphaned song. Songs still sourced
// from a linked playlist cannot be deleted directly; unlink or sync first so
// the song is orphaned, then delete.
func (e *Engine) DeleteSong(ctx context.Context, collectionID, songID, userUID string) error {
	collection, err := e.editableCollection(collectionID, userUID)
	if err != nil {
		return err
	}

	song, err := e.songs.Get(songID)
	if err != nil {
		return err
	}
	if song.CollectionID != collectionID {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, songID)
	}
	if !song.IsOrphaned {
		return fmt.Errorf("%w: %s", shared.ErrNotOrphaned, songID)
	}

	if err := e.songs.Delete(songID); err != nil {
		return err
	}
	return e.refreshSongCount(collection)
}
