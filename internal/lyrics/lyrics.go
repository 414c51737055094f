// package lyrics renders raw lyric text into its line-numbered display form.
//
// Content lines get a 1-based sequential number. [Section] headers and blank
// lines pass through unnumbered and never consume a number. Numbering is
// always recomputed from the raw text, never edited in place, and the result
// is cached per song and invalidated whenever the raw lyrics change.
package lyrics

import (
	"fmt"
	"strconv"
	"strings"
)

// SentinelLastLine stands in for the last line number when lyrics are empty
// or carry no numbered lines yet. END-tagged notes resolve against it so they
// stay parseable before lyrics arrive.
const SentinelLastLine = 9999

// IsSectionHeader reports whether line is a bracketed section header such as
// "[Verse 1]" or "[Chorus]". The line qualifies iff, after trimming
// whitespace, it starts with '[' and ends with ']'.
func IsSectionHeader(line string) bool {
	trimmed := strings.TrimSpace(line)
	return len(trimmed) >= 2 && strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
}

// Number prefixes every content line of raw with a sequential 1-based line
// number. Section headers and blank lines are passed through unnumbered.
func Number(raw string) string {
	if raw == "" {
		return ""
	}

	lines := strings.Split(raw, "\n")
	formatted := make([]string, 0, len(lines))
	lineNum := 1

	for _, line := range lines {
		switch {
		case IsSectionHeader(line):
			formatted = append(formatted, strings.TrimSpace(line))
		case strings.TrimSpace(line) != "":
			formatted = append(formatted, fmt.Sprintf("%3d  %s", lineNum, line))
			lineNum++
		default:
			formatted = append(formatted, "")
		}
	}

	return strings.Join(formatted, "\n")
}

// Bounds scans numbered lyrics for the lowest and highest assigned line
// numbers. Empty or unnumbered input defaults to (1, SentinelLastLine).
func Bounds(numbered string) (first, last int) {
	first, last = 0, 0
	for _, line := range strings.Split(numbered, "\n") {
		num, _, ok := parseNumbered(line)
		if !ok {
			continue
		}
		if first == 0 || num < first {
			first = num
		}
		if num > last {
			last = num
		}
	}
	if first == 0 {
		return 1, SentinelLastLine
	}
	return first, last
}

// Lines indexes numbered lyrics by line number. Headers and blanks are absent
// from the index, matching what is rendered on screen.
func Lines(numbered string) map[int]string {
	index := make(map[int]string)
	for _, line := range strings.Split(numbered, "\n") {
		if num, text, ok := parseNumbered(line); ok {
			index[num] = text
		}
	}
	return index
}

// LineNumber extracts the assigned number from a rendered lyric line.
// Headers and blanks report false.
func LineNumber(line string) (int, bool) {
	num, _, ok := parseNumbered(line)
	return num, ok
}

// parseNumbered splits a rendered line into its number and content.
func parseNumbered(line string) (int, string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" || trimmed[0] < '0' || trimmed[0] > '9' {
		return 0, "", false
	}

	digits := 0
	for digits < len(trimmed) && trimmed[digits] >= '0' && trimmed[digits] <= '9' {
		digits++
	}

	rest := trimmed[digits:]
	if !strings.HasPrefix(rest, "  ") {
		return 0, "", false
	}

	num, err := strconv.Atoi(trimmed[:digits])
	if err != nil {
		return 0, "", false
	}

	return num, rest[2:], true
}
