// GetSongBPM implementation of [TempoSource]
package services

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bandroom/internal/shared"
)

const songBPMBaseURL = "https://api.getsong.co"

type songBPMResult struct {
	Title  string `json:"title"`
	Tempo  string `json:"tempo"`
	Artist struct {
		Name string `json:"name"`
	} `json:"artist"`
}

type songBPMResponse struct {
	Search []songBPMResult `json:"search"`
}

// SongBPMService implements [TempoSource] backed by the GetSongBPM API.
type SongBPMService struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewSongBPMService creates a GetSongBPM client with the given API key.
func NewSongBPMService(apiKey string, client *http.Client) *SongBPMService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SongBPMService{
		apiKey:     apiKey,
		httpClient: client,
		baseURL:    songBPMBaseURL,
	}
}

func (s *SongBPMService) Name() string {
	return "GetSongBPM"
}

// FetchTempo looks up the song by title and prefers a result whose artist
// matches; when no artist matches, the first result's tempo is used. A song
// absent from the catalog yields [shared.ErrTempoNotFound].
func (s *SongBPMService) FetchTempo(ctx context.Context, title, artist string) (int, error) {
	if s.apiKey == "" {
		return 0, fmt.Errorf("%w: GetSongBPM API key not configured", shared.ErrMissingCredentials)
	}

	// Searching on title alone matches better than "artist title".
	endpoint := fmt.Sprintf("%s/search/?api_key=%s&type=song&lookup=%s",
		s.baseURL, url.QueryEscape(s.apiKey), url.QueryEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("tempo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: search returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result songBPMResponse
	if err := decodeJSON(resp.Body, &result); err != nil {
		return 0, fmt.Errorf("failed to decode tempo response: %w", err)
	}

	if len(result.Search) == 0 {
		return 0, shared.ErrTempoNotFound
	}

	wantArtist := strings.ToLower(artist)
	for _, hit := range result.Search {
		gotArtist := strings.ToLower(hit.Artist.Name)
		if gotArtist == "" {
			continue
		}
		if strings.Contains(gotArtist, wantArtist) || strings.Contains(wantArtist, gotArtist) {
			if tempo, ok := parseTempo(hit.Tempo); ok {
				return tempo, nil
			}
		}
	}

	if tempo, ok := parseTempo(result.Search[0].Tempo); ok {
		return tempo, nil
	}
	return 0, shared.ErrTempoNotFound
}

func parseTempo(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return int(math.Round(value)), true
}
