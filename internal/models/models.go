// package models defines the data model for the band practice service
package models

// Playlist represents playlist metadata from the external playlist source.
type Playlist struct {
	ID          string
	Name        string
	Description string
	OwnerName   string
	TrackCount  int
	ImageURL    string
	URL         string
}

// Track represents an ordered track tuple from the external playlist source.
type Track struct {
	ID         string // Stable external track id; song identity is scoped by collection + this id
	Title      string
	Artist     string
	Album      string
	Year       string
	ArtworkURL string
	Position   int // Zero-based position within the source playlist
}
