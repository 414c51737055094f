package tasks

import (
	"context"
	"errors"
	"fmt"

	"bandroom/internal/lyrics"
	"bandroom/internal/models"
	"bandroom/internal/shared"
)

// FetchResult summarizes a batch lyric and tempo fetch.
type FetchResult struct {
	LyricsFetched int `json:"lyrics_fetched"`
	LyricsFailed  int `json:"lyrics_failed"`
	TempoFound    int `json:"tempo_found"`
	TempoMissing  int `json:"tempo_missing"`
	Skipped       int `json:"skipped"`
}

// EnsureLyrics lazily resolves a song's lyrics. Fetched and customized lyrics
// are never overwritten; a song whose lookup failed before can be retried.
// The returned song reflects the stored state after the call.
func (e *Engine) EnsureLyrics(ctx context.Context, song *models.Song) (*models.Song, error) {
	if song.LyricsStatus == models.LyricsFetched || song.IsCustomized {
		return song, nil
	}
	if e.lyrics == nil {
		return nil, fmt.Errorf("%w: lyrics source not initialized", shared.ErrServiceUnavailable)
	}

	raw, err := e.lyrics.FetchLyrics(ctx, song.Title, song.Artist)
	if err != nil {
		if !errors.Is(err, shared.ErrLyricsNotFound) {
			return nil, err
		}
		song.LyricsStatus = models.LyricsFailed
		if updateErr := e.songs.Update(song); updateErr != nil {
			return nil, updateErr
		}
		e.logger.Debug("lyrics not found", "song", song.ID, "title", song.Title)
		return song, nil
	}

	song.SetLyrics(raw, lyrics.Number(raw), false)
	if err := e.songs.Update(song); err != nil {
		return nil, err
	}
	return song, nil
}

// EnsureTempo lazily resolves a song's tempo. Manual tempos are never
// overwritten.
func (e *Engine) EnsureTempo(ctx context.Context, song *models.Song) (*models.Song, error) {
	if song.TempoStatus == models.TempoFound || song.TempoManual {
		return song, nil
	}
	if e.tempo == nil {
		return nil, fmt.Errorf("%w: tempo source not initialized", shared.ErrServiceUnavailable)
	}

	tempo, err := e.tempo.FetchTempo(ctx, song.Title, song.Artist)
	if err != nil {
		if !errors.Is(err, shared.ErrTempoNotFound) {
			return nil, err
		}
		song.TempoStatus = models.TempoNotFound
		if updateErr := e.songs.Update(song); updateErr != nil {
			return nil, updateErr
		}
		return song, nil
	}

	song.Tempo = tempo
	song.TempoStatus = models.TempoFound
	if err := e.songs.Update(song); err != nil {
		return nil, err
	}
	return song, nil
}

// FetchPending resolves lyrics and tempo for every song in the collection
// still pending either. Lookups are rate limited, and a cancelled context
// stops the batch between songs. Individual lookup misses mark the song and
// continue; only infra failures abort.
func (e *Engine) FetchPending(ctx context.Context, progress chan<- ProgressUpdate, collectionID, userUID string) (*FetchResult, error) {
	if _, err := e.editableCollection(collectionID, userUID); err != nil {
		return nil, err
	}

	songs, err := e.songs.ListByCollection(collectionID)
	if err != nil {
		return nil, err
	}

	result := &FetchResult{}
	total := len(songs)

	for i, song := range songs {
		lyricsPending := song.LyricsStatus == models.LyricsPending && !song.IsCustomized
		tempoPending := song.TempoStatus == models.TempoPending && !song.TempoManual
		if !lyricsPending && !tempoPending {
			result.Skipped++
			continue
		}

		if lyricsPending {
			if err := e.wait(ctx); err != nil {
				return result, err
			}
			e.sendProgress(progress, fetchLyricsUpdate(i+1, total, song))

			song, err = e.EnsureLyrics(ctx, song)
			if err != nil {
				return result, err
			}
			if song.LyricsStatus == models.LyricsFetched {
				result.LyricsFetched++
			} else {
				result.LyricsFailed++
			}
		}

		if tempoPending {
			if err := e.wait(ctx); err != nil {
				return result, err
			}
			e.sendProgress(progress, fetchTempoUpdate(i+1, total, song))

			song, err = e.EnsureTempo(ctx, song)
			if err != nil {
				return result, err
			}
			if song.TempoStatus == models.TempoFound {
				result.TempoFound++
			} else {
				result.TempoMissing++
			}
		}
	}

	e.logger.Info("batch fetch complete",
		"collection", collectionID,
		"lyrics_fetched", result.LyricsFetched,
		"lyrics_failed", result.LyricsFailed,
		"tempo_found", result.TempoFound,
		"tempo_missing", result.TempoMissing,
	)
	return result, nil
}

// wait blocks for the next rate limiter slot, or returns early when ctx is done.
func (e *Engine) wait(ctx context.Context) error {
	if e.limiter == nil {
		return ctx.Err()
	}
	return e.limiter.Wait(ctx)
}
