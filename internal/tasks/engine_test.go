package tasks

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"testing"

	"bandroom/internal/models"
	"bandroom/internal/repositories"
	"bandroom/internal/services"
	"bandroom/internal/shared"
	mocks "bandroom/internal/testing"
)

type engineFixture struct {
	engine      *Engine
	db          *sql.DB
	collections *repositories.CollectionRepository
	songs       *repositories.SongRepository
	playlists   *mocks.MockPlaylistSource
	lyrics      *mocks.MockLyricsSource
	tempo       *mocks.MockTempoSource
}

// setupEngine creates an Engine over an in-memory database with mock sources.
func setupEngine(t *testing.T) *engineFixture {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	collections := repositories.NewCollectionRepository(db)
	songs := repositories.NewSongRepository(db)
	memory := repositories.NewPlaylistMemoryRepository(db)

	playlists := &mocks.MockPlaylistSource{
		Playlists: map[string]*models.Playlist{
			"pl1": {ID: "pl1", Name: "Friday Set", OwnerName: "DJ", TrackCount: 2},
		},
	}
	playlists.SetTracks("pl1", []models.Track{
		{ID: "t1", Title: "Wonderwall", Artist: "Oasis"},
		{ID: "t2", Title: "Creep", Artist: "Radiohead"},
	})

	lyricsSource := &mocks.MockLyricsSource{Lyrics: map[string]string{
		"Wonderwall": "[Verse 1]\nToday is gonna be the day",
		"Creep":      "When you were here before",
	}}
	tempoSource := &mocks.MockTempoSource{Tempos: map[string]int{
		"Wonderwall": 87,
		"Creep":      92,
	}}

	logger := shared.NewLogger(io.Discard)
	engine := NewEngine(collections, songs, memory, playlists, lyricsSource, tempoSource, 0, logger)

	return &engineFixture{
		engine:      engine,
		db:          db,
		collections: collections,
		songs:       songs,
		playlists:   playlists,
		lyrics:      lyricsSource,
		tempo:       tempoSource,
	}
}

func (f *engineFixture) newCollection(t *testing.T, owner string) *models.Collection {
	t.Helper()
	collection := models.NewCollection(owner, "Practice", "", models.VisibilityPrivate)
	if err := f.collections.Create(collection); err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}
	return collection
}

func (f *engineFixture) importPL1(t *testing.T, collectionID, user string) *ImportResult {
	t.Helper()
	result, err := f.engine.ImportPlaylist(context.Background(), nil, collectionID, "pl1", user)
	if err != nil {
		t.Fatalf("failed to import playlist: %v", err)
	}
	return result
}

func TestImportPlaylist(t *testing.T) {
	t.Run("CreatesSongsAndLink", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")

		result := f.importPL1(t, collection.ID, "user-1")
		if result.SongsAdded != 2 || result.SongsUpdated != 0 {
			t.Errorf("expected 2 added, got %+v", result)
		}

		updated, err := f.collections.Get(collection.ID)
		if err != nil {
			t.Fatalf("failed to reload collection: %v", err)
		}
		if updated.SongCount != 2 {
			t.Errorf("expected song count 2, got %d", updated.SongCount)
		}
		if link := updated.PlaylistLinkFor("pl1"); link == nil || link.Name != "Friday Set" {
			t.Errorf("expected playlist link, got %+v", link)
		}

		song, err := f.songs.GetByTrackID(collection.ID, "t1")
		if err != nil {
			t.Fatalf("failed to get imported song: %v", err)
		}
		if song.LyricsStatus != models.LyricsPending {
			t.Errorf("import must not fetch lyrics eagerly, got %q", song.LyricsStatus)
		}
		if len(f.lyrics.Calls) != 0 {
			t.Errorf("import must not touch the lyrics source, got %d calls", len(f.lyrics.Calls))
		}
	})

	t.Run("AcceptsPlaylistURL", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")

		_, err := f.engine.ImportPlaylist(context.Background(), nil, collection.ID, "https://open.spotify.com/playlist/pl1?si=x", "user-1")
		if err != nil {
			t.Fatalf("failed to import by URL: %v", err)
		}
	})

	t.Run("ReimportAddsSourceNotDuplicate", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")
		f.importPL1(t, collection.ID, "user-1")

		// A second playlist sharing a track with the first.
		f.playlists.Playlists["pl2"] = &models.Playlist{ID: "pl2", Name: "Encore", TrackCount: 1}
		f.playlists.SetTracks("pl2", []models.Track{{ID: "t1", Title: "Wonderwall", Artist: "Oasis"}})

		result, err := f.engine.ImportPlaylist(context.Background(), nil, collection.ID, "pl2", "user-1")
		if err != nil {
			t.Fatalf("failed to import second playlist: %v", err)
		}
		if result.SongsAdded != 0 || result.SongsUpdated != 1 {
			t.Errorf("expected shared track to update not duplicate, got %+v", result)
		}

		song, err := f.songs.GetByTrackID(collection.ID, "t1")
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if !song.HasSource("pl1") || !song.HasSource("pl2") {
			t.Errorf("expected both sources, got %v", song.SourcePlaylistIDs)
		}
	})

	t.Run("ViewerCannotImport", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")

		if _, err := f.engine.ImportPlaylist(context.Background(), nil, collection.ID, "pl1", "stranger"); !errors.Is(err, shared.ErrNoAccess) {
			t.Errorf("expected ErrNoAccess, got %v", err)
		}
	})
}

func TestReconcile(t *testing.T) {
	t.Run("UnchangedPlaylistIsNoOp", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")
		f.importPL1(t, collection.ID, "user-1")

		for i := 0; i < 2; i++ {
			result, err := f.engine.Reconcile(context.Background(), nil, collection.ID, "pl1", "user-1")
			if err != nil {
				t.Fatalf("reconcile %d failed: %v", i, err)
			}
			if result.Changed() {
				t.Errorf("reconcile %d of unchanged playlist should be a no-op, got %+v", i, result)
			}
		}
	})

	t.Run("AddsRemovesAndRepositions", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")
		f.importPL1(t, collection.ID, "user-1")

		// Upstream: t1 removed, t2 moved to front, t3 added.
		f.playlists.SetTracks("pl1", []models.Track{
			{ID: "t2", Title: "Creep", Artist: "Radiohead"},
			{ID: "t3", Title: "Yellow", Artist: "Coldplay"},
		})

		result, err := f.engine.Reconcile(context.Background(), nil, collection.ID, "pl1", "user-1")
		if err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}
		if result.Added != 1 || result.Removed != 1 || result.Orphaned != 1 {
			t.Errorf("expected 1 added, 1 removed, 1 orphaned, got %+v", result)
		}

		removed, err := f.songs.GetByTrackID(collection.ID, "t1")
		if err != nil {
			t.Fatalf("removed track should survive as orphan: %v", err)
		}
		if !removed.IsOrphaned {
			t.Error("expected removed track to be orphaned, not deleted")
		}
	})

	t.Run("OrphanKeepsNotesAndRevives", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")
		f.importPL1(t, collection.ID, "user-1")

		song, err := f.songs.GetByTrackID(collection.ID, "t1")
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		song.Notes = []models.Note{{Content: "slow down here", Anchored: true, LineStart: 2, LineEnd: 2}}
		if err := f.songs.Update(song); err != nil {
			t.Fatalf("failed to save notes: %v", err)
		}

		f.playlists.SetTracks("pl1", []models.Track{{ID: "t2", Title: "Creep", Artist: "Radiohead"}})
		if _, err := f.engine.Reconcile(context.Background(), nil, collection.ID, "pl1", "user-1"); err != nil {
			t.Fatalf("reconcile failed: %v", err)
		}

		// Track comes back upstream: the orphan revives with notes intact.
		f.playlists.SetTracks("pl1", []models.Track{
			{ID: "t1", Title: "Wonderwall", Artist: "Oasis"},
			{ID: "t2", Title: "Creep", Artist: "Radiohead"},
		})
		if _, err := f.engine.Reconcile(context.Background(), nil, collection.ID, "pl1", "user-1"); err != nil {
			t.Fatalf("second reconcile failed: %v", err)
		}

		revived, err := f.songs.GetByTrackID(collection.ID, "t1")
		if err != nil {
			t.Fatalf("failed to get revived song: %v", err)
		}
		if revived.IsOrphaned {
			t.Error("expected revived song to lose its orphan flag")
		}
		if len(revived.Notes) != 1 || revived.Notes[0].Content != "slow down here" {
			t.Errorf("expected notes to survive the orphan round-trip, got %v", revived.Notes)
		}
	})

	t.Run("UnlinkedPlaylistRejected", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")

		if _, err := f.engine.Reconcile(context.Background(), nil, collection.ID, "pl1", "user-1"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestUnlink(t *testing.T) {
	f := setupEngine(t)
	collection := f.newCollection(t, "user-1")
	f.importPL1(t, collection.ID, "user-1")

	result, err := f.engine.Unlink(context.Background(), collection.ID, "pl1", "user-1")
	if err != nil {
		t.Fatalf("unlink failed: %v", err)
	}
	if result.Orphaned != 2 {
		t.Errorf("expected both songs orphaned, got %+v", result)
	}

	updated, err := f.collections.Get(collection.ID)
	if err != nil {
		t.Fatalf("failed to reload collection: %v", err)
	}
	if updated.PlaylistLinkFor("pl1") != nil {
		t.Error("expected playlist link to be removed")
	}
	if updated.SongCount != 2 {
		t.Errorf("orphans still count as songs, got %d", updated.SongCount)
	}

	purged, err := f.engine.PurgeOrphans(context.Background(), collection.ID, "user-1")
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if purged != 2 {
		t.Errorf("expected 2 purged, got %d", purged)
	}
}

func TestDeleteSong(t *testing.T) {
	f := setupEngine(t)
	collection := f.newCollection(t, "user-1")
	f.importPL1(t, collection.ID, "user-1")

	songs, err := f.engine.ListSongs(context.Background(), collection.ID, "user-1")
	if err != nil {
		t.Fatalf("failed to list songs: %v", err)
	}

	err = f.engine.DeleteSong(context.Background(), collection.ID, songs[0].ID, "user-1")
	if !errors.Is(err, shared.ErrNotOrphaned) {
		t.Errorf("expected ErrNotOrphaned for sourced song, got %v", err)
	}

	if _, err := f.engine.Unlink(context.Background(), collection.ID, "pl1", "user-1"); err != nil {
		t.Fatalf("unlink failed: %v", err)
	}

	if err := f.engine.DeleteSong(context.Background(), collection.ID, songs[0].ID, "user-1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := f.songs.Get(songs[0].ID); !errors.Is(err, shared.ErrSongNotFound) {
		t.Errorf("expected song gone, got %v", err)
	}

	updated, err := f.collections.Get(collection.ID)
	if err != nil {
		t.Fatalf("failed to reload collection: %v", err)
	}
	if updated.SongCount != 1 {
		t.Errorf("expected song count 1 after delete, got %d", updated.SongCount)
	}
}

func TestFetchPending(t *testing.T) {
	t.Run("ResolvesLyricsAndTempo", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")
		f.importPL1(t, collection.ID, "user-1")

		result, err := f.engine.FetchPending(context.Background(), nil, collection.ID, "user-1")
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if result.LyricsFetched != 2 || result.TempoFound != 2 {
			t.Errorf("expected all lookups resolved, got %+v", result)
		}

		song, err := f.songs.GetByTrackID(collection.ID, "t1")
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if song.LyricsStatus != models.LyricsFetched || song.LyricsNumbered == "" {
			t.Errorf("expected fetched and numbered lyrics, got %q / %q", song.LyricsStatus, song.LyricsNumbered)
		}
		if song.Tempo != 87 {
			t.Errorf("expected tempo 87, got %d", song.Tempo)
		}
	})

	t.Run("MissesMarkSongsAndContinue", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")
		f.importPL1(t, collection.ID, "user-1")

		delete(f.lyrics.Lyrics, "Creep")
		delete(f.tempo.Tempos, "Creep")

		result, err := f.engine.FetchPending(context.Background(), nil, collection.ID, "user-1")
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if result.LyricsFetched != 1 || result.LyricsFailed != 1 {
			t.Errorf("expected one hit one miss for lyrics, got %+v", result)
		}
		if result.TempoFound != 1 || result.TempoMissing != 1 {
			t.Errorf("expected one hit one miss for tempo, got %+v", result)
		}

		song, err := f.songs.GetByTrackID(collection.ID, "t2")
		if err != nil {
			t.Fatalf("failed to get song: %v", err)
		}
		if song.LyricsStatus != models.LyricsFailed {
			t.Errorf("expected failed lyric status, got %q", song.LyricsStatus)
		}
		if song.TempoStatus != models.TempoNotFound {
			t.Errorf("expected not_found tempo status, got %q", song.TempoStatus)
		}
	})

	t.Run("SecondRunSkipsResolved", func(t *testing.T) {
		f := setupEngine(t)
		collection := f.newCollection(t, "user-1")
		f.importPL1(t, collection.ID, "user-1")

		if _, err := f.engine.FetchPending(context.Background(), nil, collection.ID, "user-1"); err != nil {
			t.Fatalf("first fetch failed: %v", err)
		}
		calls := len(f.lyrics.Calls)

		result, err := f.engine.FetchPending(context.Background(), nil, collection.ID, "user-1")
		if err != nil {
			t.Fatalf("second fetch failed: %v", err)
		}
		if result.Skipped != 2 {
			t.Errorf("expected both songs skipped, got %+v", result)
		}
		if len(f.lyrics.Calls) != calls {
			t.Error("resolved songs must not be re-fetched")
		}
	})
}

func TestGetSongLazyFetch(t *testing.T) {
	f := setupEngine(t)
	collection := f.newCollection(t, "user-1")
	f.importPL1(t, collection.ID, "user-1")

	stored, err := f.songs.GetByTrackID(collection.ID, "t1")
	if err != nil {
		t.Fatalf("failed to get song: %v", err)
	}

	song, err := f.engine.GetSong(context.Background(), collection.ID, stored.ID, "user-1")
	if err != nil {
		t.Fatalf("GetSong failed: %v", err)
	}
	if song.LyricsStatus != models.LyricsFetched {
		t.Errorf("expected first view to fetch lyrics, got %q", song.LyricsStatus)
	}
	if song.TempoStatus != models.TempoFound {
		t.Errorf("expected first view to fetch tempo, got %q", song.TempoStatus)
	}

	// Second view hits the stored copy.
	if _, err := f.engine.GetSong(context.Background(), collection.ID, stored.ID, "user-1"); err != nil {
		t.Fatalf("second GetSong failed: %v", err)
	}
	if got := len(f.lyrics.Calls); got != 1 {
		t.Errorf("expected a single lyrics fetch, got %d", got)
	}
}

func TestUpdateLyricsAndNotes(t *testing.T) {
	f := setupEngine(t)
	collection := f.newCollection(t, "user-1")
	f.importPL1(t, collection.ID, "user-1")

	stored, err := f.songs.GetByTrackID(collection.ID, "t1")
	if err != nil {
		t.Fatalf("failed to get song: %v", err)
	}

	song, err := f.engine.UpdateLyrics(context.Background(), collection.ID, stored.ID, "user-1", "line one\nline two\nline three")
	if err != nil {
		t.Fatalf("UpdateLyrics failed: %v", err)
	}
	if !song.IsCustomized {
		t.Error("expected customized flag after a lyric edit")
	}

	song, err = f.engine.UpdateNotes(context.Background(), collection.ID, stored.ID, "user-1", "2: quiet here\nEND: big finish\nwatch the drummer")
	if err != nil {
		t.Fatalf("UpdateNotes failed: %v", err)
	}
	if len(song.Notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(song.Notes))
	}
	if !song.Notes[0].Anchored || song.Notes[0].LineStart != 2 {
		t.Errorf("expected first note anchored to line 2, got %+v", song.Notes[0])
	}
	if song.Notes[1].Tag != models.TagEnd || song.Notes[1].LineStart != 3 {
		t.Errorf("expected END note resolved to last line 3, got %+v", song.Notes[1])
	}
	if song.Notes[2].Anchored {
		t.Errorf("expected free-form note, got %+v", song.Notes[2])
	}

	// Customized lyrics are never clobbered by the fetcher.
	result, err := f.engine.FetchPending(context.Background(), nil, collection.ID, "user-1")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if result.LyricsFetched+result.LyricsFailed > 1 {
		t.Errorf("customized song must be skipped by lyric fetch, got %+v", result)
	}
}

func TestPersonalCollection(t *testing.T) {
	f := setupEngine(t)

	first, err := f.engine.GetOrCreatePersonal(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("failed to create personal collection: %v", err)
	}
	second, err := f.engine.GetOrCreatePersonal(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("failed to reuse personal collection: %v", err)
	}
	if first.ID != second.ID {
		t.Error("expected a single personal collection per user")
	}

	if err := f.engine.DeleteCollection(context.Background(), first.ID, "user-1"); !errors.Is(err, shared.ErrPersonalLocked) {
		t.Errorf("expected ErrPersonalLocked, got %v", err)
	}
}

func TestCollaborationFlow(t *testing.T) {
	f := setupEngine(t)

	collection, err := f.engine.CreateCollection(context.Background(), "owner", "Open Mic", "", models.VisibilityPublic)
	if err != nil {
		t.Fatalf("failed to create collection: %v", err)
	}

	requester := services.Identity{UID: "fan", Email: "fan@example.com", DisplayName: "Fan"}
	if err := f.engine.RequestAccess(context.Background(), collection.ID, requester); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := f.engine.RequestAccess(context.Background(), collection.ID, requester); !errors.Is(err, shared.ErrAlreadyRequested) {
		t.Errorf("expected duplicate request to be rejected, got %v", err)
	}

	if err := f.engine.AcceptRequest(context.Background(), collection.ID, "fan", "fan"); !errors.Is(err, shared.ErrNotOwner) {
		t.Errorf("only the owner may accept, got %v", err)
	}
	if err := f.engine.AcceptRequest(context.Background(), collection.ID, "owner", "fan"); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	updated, err := f.collections.Get(collection.ID)
	if err != nil {
		t.Fatalf("failed to reload collection: %v", err)
	}
	if updated.AccessLevelFor("fan") != models.AccessCollaborator {
		t.Errorf("expected fan to be a collaborator, got %q", updated.AccessLevelFor("fan"))
	}
	if updated.HasRequestFrom("fan") {
		t.Error("expected accepted request to be consumed")
	}

	// Denying a request that no longer exists is a quiet no-op.
	if err := f.engine.DenyRequest(context.Background(), collection.ID, "owner", "fan"); err != nil {
		t.Fatalf("deny should be idempotent: %v", err)
	}
}
