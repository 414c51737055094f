package server

import (
	"net/http"

	"bandroom/internal/lyrics"
	"bandroom/internal/models"
	"bandroom/internal/notes"
)

// songView is the API shape of a song, with the numbered lyric rendering and
// note line spans resolved against the current lyrics.
type songView struct {
	*models.Song
	NoteBlock string     `json:"note_block"`
	NoteSpans []noteSpan `json:"note_spans"`
}

type noteSpan struct {
	Content   string `json:"content"`
	LineStart int    `json:"line_start,omitempty"`
	LineEnd   int    `json:"line_end,omitempty"`
	Anchored  bool   `json:"anchored"`
}

func newSongView(song *models.Song) songView {
	first, last := lyrics.Bounds(song.LyricsNumbered)

	spans := make([]noteSpan, 0, len(song.Notes))
	for _, note := range song.Notes {
		span := noteSpan{Content: note.Content}
		if start, end, ok := note.Span(first, last); ok {
			span.LineStart = start
			span.LineEnd = end
			span.Anchored = true
		}
		spans = append(spans, span)
	}

	return songView{
		Song:      song,
		NoteBlock: notes.Serialize(song.Notes),
		NoteSpans: spans,
	}
}

func (a *API) listSongs(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	songs, err := a.engine.ListSongs(r.Context(), r.PathValue("id"), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]any{"songs": songs})
}

func (a *API) getSong(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	song, err := a.engine.GetSong(r.Context(), r.PathValue("id"), r.PathValue("songID"), identity.UID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, newSongView(song))
}

func (a *API) deleteSong(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	if err := a.engine.DeleteSong(r.Context(), r.PathValue("id"), r.PathValue("songID"), identity.UID); err != nil {
		a.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) updateLyrics(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	var body struct {
		Lyrics string `json:"lyrics"`
	}
	if !a.decodeBody(w, r, &body) {
		return
	}

	song, err := a.engine.UpdateLyrics(r.Context(), r.PathValue("id"), r.PathValue("songID"), identity.UID, body.Lyrics)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, newSongView(song))
}

func (a *API) updateNotes(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if !a.decodeBody(w, r, &body) {
		return
	}

	song, err := a.engine.UpdateNotes(r.Context(), r.PathValue("id"), r.PathValue("songID"), identity.UID, body.Notes)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, newSongView(song))
}

func (a *API) updateTempo(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}

	var body struct {
		Tempo int `json:"tempo"`
	}
	if !a.decodeBody(w, r, &body) {
		return
	}

	song, err := a.engine.SetManualTempo(r.Context(), r.PathValue("id"), r.PathValue("songID"), identity.UID, body.Tempo)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, newSongView(song))
}
