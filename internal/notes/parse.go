// package notes parses practice-note text blocks into line-referenced note
// records and drives note navigation over numbered lyrics.
//
// The note text format is user-facing and preserved exactly: one note per
// line, `REF: content` where REF is a line number N, a range N-M (whitespace
// around the dash tolerated), or the keywords START / END (case-insensitive).
// Lines that do not match the grammar survive as free-form notes, so
// arbitrary commentary is never lost, only left unanchored.
package notes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"bandroom/internal/models"
)

// refPattern matches the `REF: content` note grammar. A single space after
// the colon is consumed; anything beyond it belongs to the content.
var refPattern = regexp.MustCompile(`^([0-9]+\s*-\s*[0-9]+|[0-9]+|[Ss][Tt][Aa][Rr][Tt]|[Ee][Nn][Dd]): ?(.*)$`)

// Parse converts a free-text note block into structured notes. firstLine and
// lastLine are the current numbered-lyric bounds (see lyrics.Bounds); START
// and END references resolve against them but keep their tag, so they follow
// the lyrics through later edits.
func Parse(block string, firstLine, lastLine int) []models.Note {
	if block == "" {
		return nil
	}

	lines := strings.Split(block, "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	parsed := make([]models.Note, 0, len(lines))
	for _, line := range lines {
		parsed = append(parsed, parseLine(line, firstLine, lastLine))
	}
	return parsed
}

func parseLine(line string, firstLine, lastLine int) models.Note {
	match := refPattern.FindStringSubmatch(line)
	if match == nil {
		// Free-form note: the entire line is content, with no line anchor.
		return models.Note{Content: line}
	}

	ref, content := match[1], match[2]

	switch strings.ToUpper(ref) {
	case "START":
		return models.Note{
			Content:   content,
			Anchored:  true,
			LineStart: firstLine,
			LineEnd:   firstLine,
			Tag:       models.TagStart,
		}
	case "END":
		return models.Note{
			Content:   content,
			Anchored:  true,
			LineStart: lastLine,
			LineEnd:   lastLine,
			Tag:       models.TagEnd,
		}
	}

	if start, end, ok := parseRange(ref); ok {
		return models.Note{
			Content:   content,
			Anchored:  true,
			LineStart: start,
			LineEnd:   end,
			IsRange:   true,
		}
	}

	num, err := strconv.Atoi(ref)
	if err != nil {
		// Unreachable given the pattern, but degrade to free-form rather
		// than dropping the line.
		return models.Note{Content: line}
	}
	return models.Note{
		Content:   content,
		Anchored:  true,
		LineStart: num,
		LineEnd:   num,
	}
}

func parseRange(ref string) (start, end int, ok bool) {
	dash := strings.IndexByte(ref, '-')
	if dash < 0 {
		return 0, 0, false
	}

	start, err := strconv.Atoi(strings.TrimSpace(ref[:dash]))
	if err != nil {
		return 0, 0, false
	}
	end, err = strconv.Atoi(strings.TrimSpace(ref[dash+1:]))
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}

// Serialize writes notes back to the user-facing text format. Tags serialize
// as their keyword, not their resolved line number, and ranges keep their
// N-M form even when N equals M, so Serialize(Parse(text)) reproduces text
// modulo whitespace around dashes.
func Serialize(notes []models.Note) string {
	lines := make([]string, 0, len(notes))
	for _, note := range notes {
		lines = append(lines, serializeNote(note))
	}
	return strings.Join(lines, "\n")
}

func serializeNote(note models.Note) string {
	switch {
	case note.Tag == models.TagStart:
		return "START: " + note.Content
	case note.Tag == models.TagEnd:
		return "END: " + note.Content
	case note.Anchored && note.IsRange:
		return fmt.Sprintf("%d-%d: %s", note.LineStart, note.LineEnd, note.Content)
	case note.Anchored:
		return fmt.Sprintf("%d: %s", note.LineStart, note.Content)
	default:
		return note.Content
	}
}
