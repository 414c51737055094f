package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"bandroom/internal/models"
)

var (
	_ list.Item = collectionItem{}
	_ list.Item = songItem{}
)

// collectionItem wraps [models.Collection] to implement [list.Item].
type collectionItem struct {
	collection *models.Collection
}

func (i collectionItem) FilterValue() string { return i.collection.Name }
func (i collectionItem) Title() string       { return i.collection.Name }
func (i collectionItem) Description() string {
	desc := fmt.Sprintf("%d songs • %d playlists", i.collection.SongCount, len(i.collection.Playlists))
	if i.collection.IsPersonal {
		desc = fmt.Sprintf("%s • personal", desc)
	}
	return desc
}

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := i.song.Artist
	if i.song.Tempo > 0 {
		desc = fmt.Sprintf("%s • %d bpm", desc, i.song.Tempo)
	}
	if len(i.song.Notes) > 0 {
		desc = fmt.Sprintf("%s • %d notes", desc, len(i.song.Notes))
	}
	if i.song.IsOrphaned {
		desc = fmt.Sprintf("%s • orphaned", desc)
	}
	return desc
}
