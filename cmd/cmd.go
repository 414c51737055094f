// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and run migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.SetupDatabase,
	}
}

// spotifyCommand handles Spotify operations
func spotifyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "spotify",
		Aliases: []string{"spot"},
		Usage:   "Spotify account operations",
		Commands: []*cli.Command{
			{
				Name:  "auth",
				Usage: "Authenticate with Spotify using OAuth2",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SpotifyAuth,
			},
		},
	}
}

// serveCommand runs the HTTP API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Bind address (overrides config)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides config)",
			},
		},
		Action: r.Serve,
	}
}

// collectionCommand handles collection management operations
func collectionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "collection",
		Aliases: []string{"col"},
		Usage:   "Manage song collections",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List collections you own or collaborate on",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CollectionList,
			},
			{
				Name:  "create",
				Usage: "Create a new collection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Collection name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Collection description",
					},
					&cli.StringFlag{
						Name:  "visibility",
						Usage: "Visibility (private, shared, public)",
						Value: "private",
					},
				},
				Action: r.CollectionCreate,
			},
			{
				Name:  "show",
				Usage: "Show a collection with its linked playlists and songs",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CollectionShow,
			},
			{
				Name:  "delete",
				Usage: "Delete a collection you own",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.CollectionDelete,
			},
			{
				Name:  "export",
				Usage: "Export a collection's songs and notes",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format (csv, markdown, text)",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.CollectionExport,
			},
			{
				Name:  "purge",
				Usage: "Permanently delete orphaned songs from a collection",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.CollectionPurge,
			},
		},
	}
}

// playlistCommand handles playlist import and sync operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Import and sync Spotify playlists",
		Commands: []*cli.Command{
			{
				Name:  "import",
				Usage: "Import a Spotify playlist into a collection",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Target collection ID (defaults to your personal collection)",
						Required: false,
					},
				},
				Action: r.PlaylistImport,
			},
			{
				Name:  "sync",
				Usage: "Reconcile linked playlists against Spotify",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "playlist",
						Usage: "Sync a single linked playlist",
					},
				},
				Action: r.PlaylistSync,
			},
			{
				Name:  "unlink",
				Usage: "Unlink a playlist, orphaning songs it solely supplied",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "playlist",
						Usage:    "Playlist ID to unlink",
						Required: true,
					},
				},
				Action: r.PlaylistUnlink,
			},
			{
				Name:  "recent",
				Usage: "List recently imported playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistRecent,
			},
		},
	}
}

// songCommand handles per-song lyric, note, and tempo operations
func songCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "song",
		Usage: "Work with songs, lyrics, and practice notes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List songs in a collection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SongList,
			},
			{
				Name:  "show",
				Usage: "Show a song's numbered lyrics and notes, fetching lazily",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection ID",
						Required: true,
					},
				},
				Action: r.SongShow,
			},
			{
				Name:  "notes",
				Usage: "Replace a song's practice notes from a file or stdin",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Path to a note block file (reads stdin when omitted)",
					},
				},
				Action: r.SongNotes,
			},
			{
				Name:  "lyrics",
				Usage: "Replace a song's lyrics with a customized version",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a lyrics file",
						Required: true,
					},
				},
				Action: r.SongLyrics,
			},
			{
				Name:  "tempo",
				Usage: "Pin or clear a song's manual tempo",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection ID",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "bpm",
						Usage: "Tempo in beats per minute (0 clears the pin)",
					},
				},
				Action: r.SongTempo,
			},
			{
				Name:  "fetch",
				Usage: "Fetch pending lyrics and tempos for a collection",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "collection",
						Usage:    "Collection ID",
						Required: true,
					},
				},
				Action: r.SongFetch,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive practice browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for browsing collections and lyrics",
		Action:  r.TUI,
	}
}
