// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for practice sessions:
//  1. [CollectionListView] : Browse your collections
//  2. [SongListView] : Browse a collection's songs
//  3. [LyricsView] : Read numbered lyrics and step through anchored notes
//  4. [FetchView] : Monitor batch lyric and tempo fetches
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Opening a song resolves its lyrics and tempo lazily through the engine, and
// batch fetch progress flows through a channel for non-blocking status
// reporting.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help. Inside the lyrics
// view, n/p step between line-anchored notes and light up their line spans.
package ui
