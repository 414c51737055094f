package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"bandroom/internal/formatter"
	"bandroom/internal/models"
	"bandroom/internal/shared"
)

// CollectionList lists collections the CLI user owns or collaborates on.
func (r *Runner) CollectionList(ctx context.Context, cmd *cli.Command) error {
	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	collections, err := engine.ListCollections(ctx, r.identity().UID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(collections, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d collections:\n\n", len(collections))
	for i, collection := range collections {
		r.writePlain("%d. %s\n", i+1, collection.Name)
		if collection.Description != "" {
			r.writePlain("   Description: %s\n", collection.Description)
		}
		r.writePlain("   ID: %s\n", collection.ID)
		r.writePlain("   Songs: %d\n", collection.SongCount)
		r.writePlain("   Playlists: %d\n", len(collection.Playlists))
		r.writePlain("   Visibility: %s\n", collection.Visibility)
		if collection.IsPersonal {
			r.writePlain("   Personal collection\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// CollectionCreate creates a new collection owned by the CLI user.
func (r *Runner) CollectionCreate(ctx context.Context, cmd *cli.Command) error {
	visibility := models.Visibility(cmd.String("visibility"))
	switch visibility {
	case models.VisibilityPrivate, models.VisibilityShared, models.VisibilityPublic:
	default:
		return fmt.Errorf("%w: visibility must be private, shared, or public", shared.ErrInvalidArgument)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	collection, err := engine.CreateCollection(ctx, r.identity().UID, cmd.String("name"), cmd.String("description"), visibility)
	if err != nil {
		return err
	}

	r.writePlain("✓ Created collection %q\n", collection.Name)
	r.writePlain("  ID: %s\n", collection.ID)
	return nil
}

// CollectionShow prints one collection with its linked playlists and songs.
func (r *Runner) CollectionShow(ctx context.Context, cmd *cli.Command) error {
	collectionID := cmd.StringArg("id")
	if collectionID == "" {
		return fmt.Errorf("%w: collection id required", shared.ErrMissingArgument)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	uid := r.identity().UID
	collection, err := engine.GetCollection(ctx, collectionID, uid)
	if err != nil {
		return err
	}
	songs, err := engine.ListSongs(ctx, collectionID, uid)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"collection": collection, "songs": songs}, cmd.Bool("pretty"))
	}

	r.writePlainHeader(collection.Name)
	if collection.Description != "" {
		r.writePlain("%s\n", collection.Description)
	}
	r.writePlain("Visibility: %s\n", collection.Visibility)

	if len(collection.Playlists) > 0 {
		r.writePlain("\nLinked playlists:\n")
		for _, link := range collection.Playlists {
			r.writePlain("  %d. %s (%d tracks) [%s]\n", link.Position+1, link.Name, link.TrackCount, link.PlaylistID)
		}
	}

	r.writePlain("\nSongs (%d):\n", len(songs))
	for i, song := range songs {
		r.writePlain("  %d. %s - %s", i+1, song.Artist, song.Title)
		if song.Tempo > 0 {
			r.writePlain(" [%d bpm]", song.Tempo)
		}
		if song.IsOrphaned {
			r.writePlain(" (orphaned)")
		}
		r.writePlain("\n")
	}

	return nil
}

// CollectionDelete deletes a collection the CLI user owns.
func (r *Runner) CollectionDelete(ctx context.Context, cmd *cli.Command) error {
	collectionID := cmd.StringArg("id")
	if collectionID == "" {
		return fmt.Errorf("%w: collection id required", shared.ErrMissingArgument)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	if err := engine.DeleteCollection(ctx, collectionID, r.identity().UID); err != nil {
		return err
	}

	r.writePlain("✓ Deleted collection %s\n", collectionID)
	return nil
}

// CollectionExport writes a collection's songs and notes to a file or stdout.
func (r *Runner) CollectionExport(ctx context.Context, cmd *cli.Command) error {
	collectionID := cmd.StringArg("id")
	if collectionID == "" {
		return fmt.Errorf("%w: collection id required", shared.ErrMissingArgument)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	uid := r.identity().UID
	collection, err := engine.GetCollection(ctx, collectionID, uid)
	if err != nil {
		return err
	}
	songs, err := engine.ListSongs(ctx, collectionID, uid)
	if err != nil {
		return err
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "csv":
		data, err = formatter.ExportToCSV(collection, songs)
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(collection, songs)
	case "text", "txt":
		data, err = formatter.ExportToText(collection, songs)
	default:
		return fmt.Errorf("%w: unknown format %q (csv, markdown, text)", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	if outputFile := cmd.String("output"); outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write file: %w", err)
		}
		r.writePlain("✓ Exported %d songs to %s\n", len(songs), outputFile)
		return nil
	}

	return r.writePlain("%s", data)
}

// CollectionPurge permanently deletes a collection's orphaned songs.
func (r *Runner) CollectionPurge(ctx context.Context, cmd *cli.Command) error {
	collectionID := cmd.StringArg("id")
	if collectionID == "" {
		return fmt.Errorf("%w: collection id required", shared.ErrMissingArgument)
	}

	engine, err := r.openEngine()
	if err != nil {
		return err
	}

	purged, err := engine.PurgeOrphans(ctx, collectionID, r.identity().UID)
	if err != nil {
		return err
	}

	r.writePlain("✓ Purged %d orphaned songs\n", purged)
	return nil
}
