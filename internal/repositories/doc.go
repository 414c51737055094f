// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// List-valued and map-valued fields (collaborators, playlist links, notes, playlist positions)
// are stored as JSON text columns and round-tripped through encoding/json on scan.
//
// Key Implementations:
//   - [CollectionRepository] : Collection persistence with owner, collaborator, and public listings
//   - [SongRepository] : Per-collection song persistence keyed by collection id + Spotify track id
//   - [PlaylistMemoryRepository] : Recently imported playlists for quick re-import
//
// Sequence numbers provide stable, human-readable ordering (e.g., collection #42, song #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
