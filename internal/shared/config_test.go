package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "bandroom.db" {
			t.Errorf("expected default database path 'bandroom.db', got %q", config.Database.Path)
		}
		if config.Database.MaxOpenConns != 10 {
			t.Errorf("expected default max open conns 10, got %d", config.Database.MaxOpenConns)
		}
		if config.Server.Host != "localhost" {
			t.Errorf("expected default server host 'localhost', got %q", config.Server.Host)
		}
		if config.Server.Port != 8080 {
			t.Errorf("expected default server port 8080, got %d", config.Server.Port)
		}
		if config.Credentials.Spotify.RedirectURI != "http://localhost:8080/callback" {
			t.Errorf("unexpected default redirect URI: %q", config.Credentials.Spotify.RedirectURI)
		}
		if config.Fetch.RatePerSecond != 1.0 {
			t.Errorf("expected default fetch rate 1.0, got %v", config.Fetch.RatePerSecond)
		}
		if len(config.Users) != 1 || config.Users[0].UID != "local" {
			t.Errorf("expected a single default user 'local', got %+v", config.Users)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file was not created: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaults := DefaultConfig()
		if config.Database.Path != defaults.Database.Path {
			t.Errorf("created config database path %q differs from default %q", config.Database.Path, defaults.Database.Path)
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")

		content := `
[credentials.spotify]
client_id = "test-client"
client_secret = "test-secret"
redirect_uri = "http://localhost:9999/callback"

[credentials.genius]
access_token = "genius-token"

[credentials.tempo]
api_key = "bpm-key"

[database]
path = "/tmp/test.db"
max_open_conns = 3
max_idle_conns = 1

[server]
host = "0.0.0.0"
port = 9999

[fetch]
rate_per_second = 0.5

[[users]]
uid = "alice"
email = "alice@example.com"
display_name = "Alice"
token = "alice-token"
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Spotify.ClientID != "test-client" {
			t.Errorf("expected client ID 'test-client', got %q", config.Credentials.Spotify.ClientID)
		}
		if config.Credentials.Genius.AccessToken != "genius-token" {
			t.Errorf("expected genius token 'genius-token', got %q", config.Credentials.Genius.AccessToken)
		}
		if config.Credentials.Tempo.APIKey != "bpm-key" {
			t.Errorf("expected tempo API key 'bpm-key', got %q", config.Credentials.Tempo.APIKey)
		}
		if config.Database.Path != "/tmp/test.db" {
			t.Errorf("expected database path '/tmp/test.db', got %q", config.Database.Path)
		}
		if config.Server.Port != 9999 {
			t.Errorf("expected server port 9999, got %d", config.Server.Port)
		}
		if config.Fetch.RatePerSecond != 0.5 {
			t.Errorf("expected fetch rate 0.5, got %v", config.Fetch.RatePerSecond)
		}
		if len(config.Users) != 1 || config.Users[0].Token != "alice-token" {
			t.Errorf("expected one user with token 'alice-token', got %+v", config.Users)
		}
	})

	t.Run("SaveConfig Round Trip", func(t *testing.T) {
		dir := t.TempDir()
		configPath := filepath.Join(dir, "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "saved-client"
		config.Credentials.Spotify.AccessToken = "saved-access"
		config.Credentials.Spotify.RefreshToken = "saved-refresh"
		config.Credentials.Spotify.TokenExpiry = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		config.Users = append(config.Users, UserConfig{UID: "bob", DisplayName: "Bob", Token: "bob-token"})

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}

		if loaded.Credentials.Spotify.ClientID != "saved-client" {
			t.Errorf("expected client ID 'saved-client', got %q", loaded.Credentials.Spotify.ClientID)
		}
		if loaded.Credentials.Spotify.RefreshToken != "saved-refresh" {
			t.Errorf("expected refresh token 'saved-refresh', got %q", loaded.Credentials.Spotify.RefreshToken)
		}
		if !loaded.Credentials.Spotify.TokenExpiry.Equal(config.Credentials.Spotify.TokenExpiry) {
			t.Errorf("token expiry did not survive round trip: %v", loaded.Credentials.Spotify.TokenExpiry)
		}
		if len(loaded.Users) != 2 || loaded.Users[1].UID != "bob" {
			t.Errorf("expected two users ending with 'bob', got %+v", loaded.Users)
		}
	})

	t.Run("SpotifyConfig Token", func(t *testing.T) {
		var c SpotifyConfig
		if c.Token() != nil {
			t.Error("expected nil token when no access token is saved")
		}

		c.AccessToken = "abc"
		c.RefreshToken = "def"
		token := c.Token()
		if token == nil || token.AccessToken != "abc" || token.RefreshToken != "def" {
			t.Errorf("unexpected reconstructed token: %+v", token)
		}

		if err := c.Update(nil); err == nil {
			t.Error("updating from a nil token should fail")
		}

		token.AccessToken = "new-access"
		token.RefreshToken = ""
		if err := c.Update(token); err != nil {
			t.Fatalf("failed to update token: %v", err)
		}
		if c.AccessToken != "new-access" {
			t.Errorf("expected access token 'new-access', got %q", c.AccessToken)
		}
		if c.RefreshToken != "def" {
			t.Errorf("refresh token should be kept when the update omits it, got %q", c.RefreshToken)
		}
	})
}
