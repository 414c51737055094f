package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"bandroom/internal/services"
	"bandroom/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		}
	}

	var playlistSource services.PlaylistSource
	var lyricsSource services.LyricsSource
	var tempoSource services.TempoSource

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if token := config.Credentials.Spotify.Token(); token != nil {
				if err := svc.AuthenticateToken(context.Background(), token); err != nil {
					logger.Warnf("failed to install saved Spotify token: %v", err)
				}
			}
			playlistSource = svc
		}
	}

	if config.Credentials.Genius.AccessToken != "" {
		lyricsSource = services.NewGeniusService(config.Credentials.Genius.AccessToken, nil)
	}

	if config.Credentials.Tempo.APIKey != "" {
		tempoSource = services.NewSongBPMService(config.Credentials.Tempo.APIKey, nil)
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Playlists:  playlistSource,
		Lyrics:     lyricsSource,
		Tempo:      tempoSource,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "bandroom",
		Usage:    "Import Spotify playlists and annotate lyrics for band practice",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
