package tasks

import (
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"bandroom/internal/models"
	"bandroom/internal/repositories"
	"bandroom/internal/services"
	"bandroom/internal/shared"
)

// Engine orchestrates collection operations. Repositories supply persistence,
// the sources supply upstream data, and every operation checks the acting
// user's access before mutating anything.
type Engine struct {
	collections *repositories.CollectionRepository
	songs       *repositories.SongRepository
	memory      *repositories.PlaylistMemoryRepository
	playlists   services.PlaylistSource
	lyrics      services.LyricsSource
	tempo       services.TempoSource
	limiter     *rate.Limiter
	logger      *log.Logger
}

// NewEngine creates an Engine. ratePerSecond bounds lyric and tempo lookups
// during batch fetches; zero or negative disables the limiter.
func NewEngine(
	collections *repositories.CollectionRepository,
	songs *repositories.SongRepository,
	memory *repositories.PlaylistMemoryRepository,
	playlists services.PlaylistSource,
	lyrics services.LyricsSource,
	tempo services.TempoSource,
	ratePerSecond float64,
	logger *log.Logger,
) *Engine {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), 1)
	}
	return &Engine{
		collections: collections,
		songs:       songs,
		memory:      memory,
		playlists:   playlists,
		lyrics:      lyrics,
		tempo:       tempo,
		limiter:     limiter,
		logger:      logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// editableCollection loads a collection and verifies userUID may mutate it.
func (e *Engine) editableCollection(collectionID, userUID string) (*models.Collection, error) {
	collection, err := e.collections.Get(collectionID)
	if err != nil {
		return nil, err
	}
	if !collection.CanEdit(userUID) {
		return nil, fmt.Errorf("%w: %s cannot edit collection %s", shared.ErrNoAccess, userUID, collectionID)
	}
	return collection, nil
}

// ownedCollection loads a collection and verifies userUID owns it.
func (e *Engine) ownedCollection(collectionID, userUID string) (*models.Collection, error) {
	collection, err := e.collections.Get(collectionID)
	if err != nil {
		return nil, err
	}
	if collection.OwnerUID != userUID {
		return nil, fmt.Errorf("%w: %s does not own collection %s", shared.ErrNotOwner, userUID, collectionID)
	}
	return collection, nil
}

// refreshSongCount recomputes and stores a collection's song count.
func (e *Engine) refreshSongCount(collection *models.Collection) error {
	count, err := e.songs.CountByCollection(collection.ID)
	if err != nil {
		return err
	}
	collection.SongCount = count
	return e.collections.Update(collection)
}
