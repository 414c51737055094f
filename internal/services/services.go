// package services defines interfaces for the external collaborators of the
// band practice service
//
// Spotify (playlists), Genius (lyrics), GetSongBPM (tempo)
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"bandroom/internal/models"
	"bandroom/internal/shared"
)

// decodeJSON decodes a JSON response body into v.
func decodeJSON(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

// PlaylistSource yields playlist metadata and ordered track listings from an
// external music service.
type PlaylistSource interface {
	// Authenticate performs OAuth or API key authentication with the service.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetPlaylist retrieves metadata for a specific playlist by ID.
	GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error)

	// GetPlaylistTracks retrieves the playlist's full ordered track listing.
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// LyricsSource yields raw lyric text for a (title, artist) pair.
// A missing song is reported as [shared.ErrLyricsNotFound], never a crash.
type LyricsSource interface {
	FetchLyrics(ctx context.Context, title, artist string) (string, error)
	Name() string
}

// TempoSource yields a numeric tempo for a (title, artist) pair, or
// [shared.ErrTempoNotFound] when the catalog has no entry.
type TempoSource interface {
	FetchTempo(ctx context.Context, title, artist string) (int, error)
	Name() string
}

// Identity is the verified user behind an opaque bearer credential.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// Authenticator verifies an opaque bearer credential and yields a user
// identity. The rest of the service trusts the identity as given.
type Authenticator interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// StaticAuthenticator verifies tokens against a fixed token-to-identity map.
// Used for local development and tests; production deploys swap in a real
// identity provider behind the same interface.
type StaticAuthenticator map[string]Identity

// Verify implements [Authenticator].
func (a StaticAuthenticator) Verify(_ context.Context, token string) (Identity, error) {
	identity, ok := a[token]
	if !ok {
		return Identity{}, fmt.Errorf("%w: unknown token", shared.ErrAuthFailed)
	}
	return identity, nil
}
