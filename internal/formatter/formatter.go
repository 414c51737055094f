// package formatter provides functions to export a collection's setlist to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"bandroom/internal/models"
	"bandroom/internal/notes"
)

// ExportToCSV converts a collection's songs to CSV format with columns: Title, Artist, Album, Year, Tempo, Notes
func ExportToCSV(collection *models.Collection, songs []*models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Album", "Year", "Tempo", "Notes"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			song.Title,
			song.Artist,
			song.Album,
			song.Year,
			tempoString(song),
			notes.Serialize(song.Notes),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a collection's songs to Markdown format
func ExportToMarkdown(collection *models.Collection, songs []*models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", collection.Name))

	if collection.Description != "" {
		buf.WriteString(fmt.Sprintf("**Description**: %s\n\n", collection.Description))
	}

	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	buf.WriteString("## Setlist\n\n")
	for i, song := range songs {
		albumPart := ""
		if song.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", song.Album)
		}
		tempoPart := ""
		if song.Tempo > 0 {
			tempoPart = fmt.Sprintf(" [%d bpm]", song.Tempo)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s%s\n", i+1, song.Artist, song.Title, albumPart, tempoPart))

		for _, note := range song.Notes {
			buf.WriteString(fmt.Sprintf("   - %s\n", noteLine(note)))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a collection's songs to plain text format
func ExportToText(collection *models.Collection, songs []*models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Collection: %s\n", collection.Name))
	if collection.Description != "" {
		buf.WriteString(fmt.Sprintf("Description: %s\n", collection.Description))
	}
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, song.Artist, song.Title, tempoSuffix(song)))
	}

	return buf.Bytes(), nil
}

func tempoString(song *models.Song) string {
	if song.Tempo <= 0 {
		return ""
	}
	return strconv.Itoa(song.Tempo)
}

func tempoSuffix(song *models.Song) string {
	if song.Tempo <= 0 {
		return ""
	}
	return fmt.Sprintf(" (%d bpm)", song.Tempo)
}

// noteLine renders a single note for the setlist, keeping the line reference
// when the note is anchored.
func noteLine(note models.Note) string {
	switch {
	case note.Tag == models.TagStart:
		return fmt.Sprintf("START: %s", note.Content)
	case note.Tag == models.TagEnd:
		return fmt.Sprintf("END: %s", note.Content)
	case note.Anchored && note.IsRange:
		return fmt.Sprintf("%d-%d: %s", note.LineStart, note.LineEnd, note.Content)
	case note.Anchored:
		return fmt.Sprintf("%d: %s", note.LineStart, note.Content)
	default:
		return note.Content
	}
}
