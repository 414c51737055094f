package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"bandroom/internal/shared"
	"bandroom/internal/tasks"
)

// PlaylistImport imports a Spotify playlist into a collection, defaulting to
// the CLI user's personal collection.
func (r *Runner) PlaylistImport(ctx context.Context, cmd *cli.Command) error {
	playlistRef := cmd.StringArg("playlist")
	if playlistRef == "" {
		return fmt.Errorf("%w: playlist URL or id required", shared.ErrMissingArgument)
	}

	if r.playlists == nil {
		return fmt.Errorf("%w: Spotify service not initialized, run 'bandroom spotify auth'", shared.ErrServiceUnavailable)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	uid := r.identity().UID
	collectionID := cmd.String("collection")
	if collectionID == "" {
		personal, err := engine.GetOrCreatePersonal(ctx, uid)
		if err != nil {
			return err
		}
		collectionID = personal.ID
		r.writePlain("Importing into your personal collection\n")
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPlaylist:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ImportSongs:
				r.writePlain("   %s\n", update.Message)
			}
		}
	}()

	result, err := engine.ImportPlaylist(ctx, progressCh, collectionID, playlistRef, uid)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlainln("✓ Import complete")
	r.writePlain("Playlist: %s (%d tracks)\n", result.Playlist.Name, result.TotalTracks)
	r.writePlain("Added: %d new songs\n", result.SongsAdded)
	if result.SongsUpdated > 0 {
		r.writePlain("Already known: %d songs gained this playlist as a source\n", result.SongsUpdated)
	}

	return nil
}

// PlaylistSync reconciles one or all linked playlists against Spotify.
func (r *Runner) PlaylistSync(ctx context.Context, cmd *cli.Command) error {
	if r.playlists == nil {
		return fmt.Errorf("%w: Spotify service not initialized, run 'bandroom spotify auth'", shared.ErrServiceUnavailable)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	collectionID := cmd.String("collection")
	uid := r.identity().UID

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("🔄 %s\n", update.Message)
		}
	}()

	var results []*tasks.ReconcileResult
	if playlistID := cmd.String("playlist"); playlistID != "" {
		var result *tasks.ReconcileResult
		if result, err = engine.Reconcile(ctx, progressCh, collectionID, playlistID, uid); err == nil {
			results = []*tasks.ReconcileResult{result}
		}
	} else {
		results, err = engine.SyncCollection(ctx, progressCh, collectionID, uid)
	}
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlainln("✓ Sync complete")
	for _, result := range results {
		if !result.Changed() {
			r.writePlain("%s: no changes\n", result.PlaylistID)
			continue
		}
		r.writePlain("%s: +%d added, %d orphaned, %d repositioned\n",
			result.PlaylistID, result.Added, result.Orphaned, result.Repositioned)
	}

	return nil
}

// PlaylistUnlink removes a playlist link, orphaning songs only it supplied.
func (r *Runner) PlaylistUnlink(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	result, err := engine.Unlink(ctx, cmd.String("collection"), cmd.String("playlist"), r.identity().UID)
	if err != nil {
		return err
	}

	r.writePlain("✓ Unlinked playlist %s\n", result.PlaylistID)
	if result.Orphaned > 0 {
		r.writePlain("  %d songs orphaned (notes preserved, purge to delete)\n", result.Orphaned)
	}
	return nil
}

// PlaylistRecent lists recently imported playlists for quick re-import.
func (r *Runner) PlaylistRecent(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	memories, err := engine.RecentPlaylists(ctx, r.identity().UID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(memories, cmd.Bool("pretty"))
	}

	r.writePlain("Recently imported playlists:\n\n")
	for i, memory := range memories {
		r.writePlain("%d. %s (%d tracks)\n", i+1, memory.Name, memory.TrackCount)
		r.writePlain("   ID: %s\n", memory.PlaylistID)
		r.writePlain("   Imported %d times, last %s\n", memory.AccessCount, memory.LastAccessedAt.Format("2006-01-02 15:04"))
		r.writePlain("\n")
	}

	return nil
}
