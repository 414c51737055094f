// Genius implementation of [LyricsSource]
//
// Lyrics are located with the official search API, then extracted from the
// song page since Genius serves no lyrics over the API itself.
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"bandroom/internal/shared"
	"golang.org/x/net/html"
)

const geniusBaseURL = "https://api.genius.com"

type geniusHit struct {
	Result struct {
		URL           string `json:"url"`
		Title         string `json:"title"`
		PrimaryArtist struct {
			Name string `json:"name"`
		} `json:"primary_artist"`
	} `json:"result"`
}

type geniusSearchResponse struct {
	Response struct {
		Hits []geniusHit `json:"hits"`
	} `json:"response"`
}

// GeniusService implements [LyricsSource] backed by genius.com.
type GeniusService struct {
	accessToken string
	httpClient  *http.Client
	baseURL     string
}

// NewGeniusService creates a Genius client with the given API access token.
func NewGeniusService(accessToken string, client *http.Client) *GeniusService {
	if client == nil {
		client = http.DefaultClient
	}
	return &GeniusService{
		accessToken: accessToken,
		httpClient:  client,
		baseURL:     geniusBaseURL,
	}
}

func (g *GeniusService) Name() string {
	return "Genius"
}

// FetchLyrics searches Genius for the song and extracts the lyric text from
// the top hit's page. A song with no hits or an unparseable page yields
// [shared.ErrLyricsNotFound].
func (g *GeniusService) FetchLyrics(ctx context.Context, title, artist string) (string, error) {
	if g.accessToken == "" {
		return "", fmt.Errorf("%w: Genius access token not configured", shared.ErrMissingCredentials)
	}

	pageURL, err := g.search(ctx, fmt.Sprintf("%s %s", title, artist))
	if err != nil {
		return "", err
	}

	raw, err := g.scrapePage(ctx, pageURL)
	if err != nil {
		return "", err
	}

	cleaned := cleanLyrics(raw)
	if cleaned == "" {
		return "", fmt.Errorf("%w: empty lyrics at %s", shared.ErrLyricsNotFound, pageURL)
	}
	return cleaned, nil
}

// search returns the page URL of the top search hit.
func (g *GeniusService) search(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s", g.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.accessToken)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: search returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var result geniusSearchResponse
	if err := decodeJSON(resp.Body, &result); err != nil {
		return "", fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(result.Response.Hits) == 0 {
		return "", fmt.Errorf("%w: no search hits", shared.ErrLyricsNotFound)
	}
	return result.Response.Hits[0].Result.URL, nil
}

// scrapePage fetches a song page and extracts the lyric text from the
// data-lyrics-container elements.
func (g *GeniusService) scrapePage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; bandroom/1.0)")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("page request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: page returned %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasAttr(n, "data-lyrics-container", "true") {
			var buf strings.Builder
			collectText(n, &buf)
			parts = append(parts, buf.String())
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no lyric container on page", shared.ErrLyricsNotFound)
	}
	return strings.Join(parts, "\n"), nil
}

func hasAttr(n *html.Node, key, value string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key && attr.Val == value {
			return true
		}
	}
	return false
}

// collectText flattens a lyric container to text, turning <br> into newlines.
func collectText(n *html.Node, buf *strings.Builder) {
	switch {
	case n.Type == html.TextNode:
		buf.WriteString(n.Data)
	case n.Type == html.ElementNode && n.Data == "br":
		buf.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, buf)
	}
}

var (
	sectionHeaderPattern = regexp.MustCompile(`\[[^\[\]]*\]`)
	excessNewlines       = regexp.MustCompile(`\n{3,}`)
	embedFooterPattern   = regexp.MustCompile(`\d*Embed$`)
)

// cleanLyrics normalizes scraped lyric text: section headers get their own
// surrounding blank lines, page chrome is stripped, and runs of blank lines
// collapse.
func cleanLyrics(raw string) string {
	text := sectionHeaderPattern.ReplaceAllStringFunc(raw, func(m string) string {
		return "\n" + m + "\n"
	})
	text = strings.ReplaceAll(text, "You might also like", "")
	text = embedFooterPattern.ReplaceAllString(text, "")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
