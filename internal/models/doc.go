// Package models defines domain entities for the band practice service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [Playlist] : Playlist metadata from the playlist source
//   - [Track] : Ordered track tuple from the playlist source
//
// 2. Persistent Entities: Database-backed records
//   - [Collection] : Top-level grouping of songs with ownership, visibility, collaborators, and linked playlists
//   - [Song] : A track scoped to one collection, carrying lyrics, notes, and tempo
//   - [Note] : A practice note, optionally anchored to numbered lyric lines
//   - [PlaylistMemory] : Recently imported playlists per user
//
// Relationship invariants (single owner, request deduplication, contiguous playlist
// positions, orphan-instead-of-delete) are enforced by methods on the entities so
// the persistence and HTTP layers cannot produce an invalid record.
package models
