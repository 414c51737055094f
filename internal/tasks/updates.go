package tasks

import (
	"fmt"

	"bandroom/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPlaylist Phase = iota
	ImportSongs
	Reconcile
	FetchLyrics
	FetchTempo
)

func (p Phase) String() string {
	switch p {
	case FetchPlaylist:
		return "fetch_playlist"
	case ImportSongs:
		return "import_songs"
	case Reconcile:
		return "reconcile"
	case FetchLyrics:
		return "fetch_lyrics"
	case FetchTempo:
		return "fetch_tempo"
	default:
		return ""
	}
}

func fetchPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching playlist (%s)...", name),
	}
}

func foundPlaylistUpdate(playlist *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", playlist.Name, playlist.TrackCount),
		Data:    playlist,
	}
}

func importSongUpdate(step, total int, track models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ImportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, track.Artist, track.Title),
	}
}

func reconcileUpdate(step, total int, playlistName string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Reconcile,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Reconciling: %s...", step, total, playlistName),
	}
}

func fetchLyricsUpdate(step, total int, song *models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchLyrics,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Lyrics: %s - %s", step, total, song.Artist, song.Title),
		Data:    song,
	}
}

func fetchTempoUpdate(step, total int, song *models.Song) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTempo,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Tempo: %s - %s", step, total, song.Artist, song.Title),
		Data:    song,
	}
}
