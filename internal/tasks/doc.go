// Package tasks orchestrates collection operations against the upstream music services with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] carries the repository and service dependencies for the long-running flows:
//
//  1. [Engine.ImportPlaylist] : Link a Spotify playlist into a collection
//     - Fetches the playlist's metadata and full ordered track listing
//     - Creates a song per new track, or adds the playlist as a source on an existing song
//     - Records the playlist in the user's playlist memory for quick re-import
//     - Lyrics and tempo stay pending; they are fetched lazily
//
//  2. [Engine.Reconcile] : Bring one linked playlist back in line with upstream
//     - Adds songs for tracks added upstream
//     - Removes the playlist as a source from tracks removed upstream, orphaning
//       songs whose last source disappears instead of deleting them
//     - Updates stored positions for repositioned tracks
//     - Running it twice against an unchanged playlist is a no-op
//
//  3. [Engine.FetchPending] : Batch-resolve pending lyrics and tempo lookups
//     - Rate limited so batch imports do not hammer the lyric and tempo services
//     - A failed lookup marks the song failed/not_found; it never fails the batch
//
// # Progress Reporting
//
// All operations accept an optional channel for [ProgressUpdate] events.
// Updates use select with default to prevent blocking.
package tasks
