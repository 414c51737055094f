package ui

import (
	"time"

	"bandroom/internal/models"
	"bandroom/internal/tasks"
)

type collectionsLoadedMsg struct {
	collections []*models.Collection
	err         error
}

type songsLoadedMsg struct {
	collection *models.Collection
	songs      []*models.Song
	err        error
}

type songLoadedMsg struct {
	song *models.Song
	err  error
}

type fetchProgressMsg tasks.ProgressUpdate

type fetchCompleteMsg struct {
	result *tasks.FetchResult
	err    error
}

// highlightExpiredMsg fires when a note highlight's dwell elapses.
type highlightExpiredMsg time.Time
