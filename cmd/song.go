package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"bandroom/internal/models"
	"bandroom/internal/notes"
	"bandroom/internal/shared"
	"bandroom/internal/tasks"
)

// SongList lists the songs in a collection.
func (r *Runner) SongList(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	songs, err := engine.ListSongs(ctx, cmd.String("collection"), r.identity().UID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d songs:\n\n", len(songs))
	for i, song := range songs {
		r.writePlain("%d. %s - %s\n", i+1, song.Artist, song.Title)
		r.writePlain("   ID: %s\n", song.ID)
		if song.Album != "" {
			r.writePlain("   Album: %s\n", song.Album)
		}
		r.writePlain("   Lyrics: %s", song.LyricsStatus)
		if song.IsCustomized {
			r.writePlain(" (customized)")
		}
		r.writePlain("\n")
		if song.Tempo > 0 {
			r.writePlain("   Tempo: %d bpm\n", song.Tempo)
		}
		if len(song.Notes) > 0 {
			r.writePlain("   Notes: %d\n", len(song.Notes))
		}
		if song.IsOrphaned {
			r.writePlain("   Orphaned\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// SongShow prints a song's numbered lyrics and note block, resolving pending
// lyrics and tempo on the way.
func (r *Runner) SongShow(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id required", shared.ErrMissingArgument)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	song, err := engine.GetSong(ctx, cmd.String("collection"), songID, r.identity().UID)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("%s - %s", song.Artist, song.Title))
	if song.Album != "" {
		r.writePlain("Album: %s", song.Album)
		if song.Year != "" {
			r.writePlain(" (%s)", song.Year)
		}
		r.writePlain("\n")
	}
	switch song.TempoStatus {
	case models.TempoFound:
		r.writePlain("Tempo: %d bpm", song.Tempo)
		if song.TempoManual {
			r.writePlain(" (manual)")
		}
		r.writePlain("\n")
	case models.TempoNotFound:
		r.writePlain("Tempo: unknown\n")
	}

	switch song.LyricsStatus {
	case models.LyricsFetched:
		r.writePlain("\n%s\n", song.LyricsNumbered)
	case models.LyricsFailed:
		r.writePlain("\nLyrics could not be found.\n")
	default:
		r.writePlain("\nLyrics not fetched yet.\n")
	}

	if len(song.Notes) > 0 {
		r.writePlain("\nNotes:\n%s\n", notes.Serialize(song.Notes))
	}

	return nil
}

// SongNotes replaces a song's practice notes from a file or stdin.
func (r *Runner) SongNotes(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id required", shared.ErrMissingArgument)
	}

	block, err := readInput(cmd.String("file"))
	if err != nil {
		return err
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	song, err := engine.UpdateNotes(ctx, cmd.String("collection"), songID, r.identity().UID, block)
	if err != nil {
		return err
	}

	r.writePlain("✓ Saved %d notes for %s - %s\n", len(song.Notes), song.Artist, song.Title)
	return nil
}

// SongLyrics replaces a song's lyrics with a customized version.
func (r *Runner) SongLyrics(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id required", shared.ErrMissingArgument)
	}

	raw, err := readInput(cmd.String("file"))
	if err != nil {
		return err
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	song, err := engine.UpdateLyrics(ctx, cmd.String("collection"), songID, r.identity().UID, raw)
	if err != nil {
		return err
	}

	r.writePlain("✓ Saved customized lyrics for %s - %s\n", song.Artist, song.Title)
	r.writePlain("  Automatic fetches will no longer overwrite them.\n")
	return nil
}

// SongTempo pins or clears a song's manual tempo.
func (r *Runner) SongTempo(ctx context.Context, cmd *cli.Command) error {
	songID := cmd.StringArg("id")
	if songID == "" {
		return fmt.Errorf("%w: song id required", shared.ErrMissingArgument)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	bpm := cmd.Int("bpm")
	song, err := engine.SetManualTempo(ctx, cmd.String("collection"), songID, r.identity().UID, bpm)
	if err != nil {
		return err
	}

	if bpm > 0 {
		r.writePlain("✓ Pinned %s - %s at %d bpm\n", song.Artist, song.Title, song.Tempo)
	} else {
		r.writePlain("✓ Cleared manual tempo for %s - %s\n", song.Artist, song.Title)
	}
	return nil
}

// SongFetch resolves pending lyrics and tempos across a collection.
func (r *Runner) SongFetch(ctx context.Context, cmd *cli.Command) error {
	if r.lyrics == nil && r.tempo == nil {
		return fmt.Errorf("%w: no lyrics or tempo service configured", shared.ErrServiceUnavailable)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchLyrics:
				r.writePlain("🎤 %s\n", update.Message)
			case tasks.FetchTempo:
				r.writePlain("🥁 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.FetchPending(ctx, progressCh, cmd.String("collection"), r.identity().UID)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlainln("✓ Fetch complete")
	r.writePlain("Lyrics fetched: %d (failed: %d)\n", result.LyricsFetched, result.LyricsFailed)
	r.writePlain("Tempos found: %d (missing: %d)\n", result.TempoFound, result.TempoMissing)
	if result.Skipped > 0 {
		r.writePlain("Skipped: %d already resolved\n", result.Skipped)
	}

	return nil
}

// readInput reads the whole file at path, or stdin when path is empty.
func readInput(path string) (string, error) {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
