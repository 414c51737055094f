// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"bandroom/internal/models"
	"bandroom/internal/shared"
)

// MockPlaylistSource is a test double for [services.PlaylistSource] backed by
// fixed playlist and track fixtures keyed by playlist id.
type MockPlaylistSource struct {
	Playlists map[string]*models.Playlist
	Tracks    map[string][]models.Track

	// Err, when set, is returned from every call.
	Err error
}

func (m *MockPlaylistSource) Authenticate(ctx context.Context, credentials map[string]string) error {
	return m.Err
}

func (m *MockPlaylistSource) GetPlaylist(ctx context.Context, playlistID string) (*models.Playlist, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	playlist, ok := m.Playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	return playlist, nil
}

func (m *MockPlaylistSource) GetPlaylistTracks(ctx context.Context, playlistID string) ([]models.Track, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if _, ok := m.Playlists[playlistID]; !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}
	return m.Tracks[playlistID], nil
}

func (m *MockPlaylistSource) Name() string { return "mock" }

// SetTracks replaces a playlist's track listing, renumbering positions, so
// reconciliation tests can simulate upstream edits.
func (m *MockPlaylistSource) SetTracks(playlistID string, tracks []models.Track) {
	for i := range tracks {
		tracks[i].Position = i
	}
	if m.Tracks == nil {
		m.Tracks = make(map[string][]models.Track)
	}
	m.Tracks[playlistID] = tracks
	if playlist, ok := m.Playlists[playlistID]; ok {
		playlist.TrackCount = len(tracks)
	}
}

// MockLyricsSource is a test double for [services.LyricsSource] keyed by song title.
type MockLyricsSource struct {
	Lyrics map[string]string
	Err    error

	// Calls records each title requested, in order.
	Calls []string
}

func (m *MockLyricsSource) FetchLyrics(ctx context.Context, title, artist string) (string, error) {
	m.Calls = append(m.Calls, title)
	if m.Err != nil {
		return "", m.Err
	}
	lyrics, ok := m.Lyrics[title]
	if !ok {
		return "", fmt.Errorf("%w: %s", shared.ErrLyricsNotFound, title)
	}
	return lyrics, nil
}

func (m *MockLyricsSource) Name() string { return "mock" }

// MockTempoSource is a test double for [services.TempoSource] keyed by song title.
type MockTempoSource struct {
	Tempos map[string]int
	Err    error
}

func (m *MockTempoSource) FetchTempo(ctx context.Context, title, artist string) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	tempo, ok := m.Tempos[title]
	if !ok {
		return 0, fmt.Errorf("%w: %s", shared.ErrTempoNotFound, title)
	}
	return tempo, nil
}

func (m *MockTempoSource) Name() string { return "mock" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}
