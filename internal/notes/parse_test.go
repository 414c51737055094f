package notes

import (
	"testing"

	"bandroom/internal/lyrics"
	"bandroom/internal/models"
)

func TestParse(t *testing.T) {
	t.Run("MixedNoteBlock", func(t *testing.T) {
		numbered := lyrics.Number("[Verse]\nHello\nWorld\n\n[Chorus]\nSing")
		first, last := lyrics.Bounds(numbered)

		block := "START: intro cue\n2: watch breath\n5 - 5: big note\njust a reminder"
		parsed := Parse(block, first, last)

		if len(parsed) != 4 {
			t.Fatalf("expected 4 notes, got %d", len(parsed))
		}

		if parsed[0].Tag != models.TagStart || parsed[0].LineStart != 1 {
			t.Errorf("START note should resolve to line 1 with tag: %+v", parsed[0])
		}
		if !parsed[1].Anchored || parsed[1].LineStart != 2 || parsed[1].LineEnd != 2 {
			t.Errorf("expected line 2 anchor: %+v", parsed[1])
		}
		if parsed[2].LineStart != 5 || parsed[2].LineEnd != 5 || !parsed[2].IsRange {
			t.Errorf("out-of-range note should still be stored: %+v", parsed[2])
		}
		if parsed[3].Anchored || parsed[3].Content != "just a reminder" {
			t.Errorf("expected free-form note: %+v", parsed[3])
		}
	})

	t.Run("EndResolvesToLastLine", func(t *testing.T) {
		parsed := Parse("END: outro", 1, 7)

		if len(parsed) != 1 {
			t.Fatalf("expected 1 note, got %d", len(parsed))
		}
		if parsed[0].Tag != models.TagEnd || parsed[0].LineStart != 7 || parsed[0].LineEnd != 7 {
			t.Errorf("END should resolve to line 7: %+v", parsed[0])
		}
	})

	t.Run("KeywordsCaseInsensitive", func(t *testing.T) {
		parsed := Parse("start: a\neNd: b", 2, 9)

		if parsed[0].Tag != models.TagStart {
			t.Errorf("expected START tag: %+v", parsed[0])
		}
		if parsed[1].Tag != models.TagEnd {
			t.Errorf("expected END tag: %+v", parsed[1])
		}
	})

	t.Run("EmptyLyricsUseSentinelBounds", func(t *testing.T) {
		first, last := lyrics.Bounds("")
		parsed := Parse("END: hold", first, last)

		if parsed[0].LineEnd != lyrics.SentinelLastLine {
			t.Errorf("expected sentinel line end, got %d", parsed[0].LineEnd)
		}
	})

	t.Run("RangeWithWhitespace", func(t *testing.T) {
		tests := []struct {
			in         string
			start, end int
		}{
			{"3-5: chorus swell", 3, 5},
			{"3 - 5: chorus swell", 3, 5},
			{"3- 5: chorus swell", 3, 5},
			{"12 -14: bridge", 12, 14},
		}

		for _, tt := range tests {
			parsed := Parse(tt.in, 1, 99)
			if len(parsed) != 1 {
				t.Fatalf("Parse(%q): expected 1 note", tt.in)
			}
			n := parsed[0]
			if !n.Anchored || n.LineStart != tt.start || n.LineEnd != tt.end {
				t.Errorf("Parse(%q) = %+v, expected [%d, %d]", tt.in, n, tt.start, tt.end)
			}
		}
	})

	t.Run("FreeFormPreservedVerbatim", func(t *testing.T) {
		tests := []string{
			"remember to tune down",
			"a-b: not a number",
			"START without colon",
			"-3: negative is not a ref",
		}

		for _, line := range tests {
			parsed := Parse(line, 1, 10)
			if len(parsed) != 1 {
				t.Fatalf("Parse(%q): expected 1 note, got %d", line, len(parsed))
			}
			if parsed[0].Anchored || parsed[0].Content != line {
				t.Errorf("Parse(%q) should be free-form with verbatim content: %+v", line, parsed[0])
			}
		}
	})

	t.Run("EmptyBlock", func(t *testing.T) {
		if parsed := Parse("", 1, 10); parsed != nil {
			t.Errorf("expected nil, got %v", parsed)
		}
	})
}

func TestSerialize(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		blocks := []string{
			"START: intro cue\n2: watch breath\n5-5: big note\njust a reminder",
			"END: ritardando",
			"1: quiet\n2-4: build\nEND: cutoff",
			"free form only",
		}

		for _, block := range blocks {
			parsed := Parse(block, 1, 50)
			if got := Serialize(parsed); got != block {
				t.Errorf("round trip failed:\n in: %q\nout: %q", block, got)
			}
		}
	})

	t.Run("TagRoundTripsNotResolvedNumber", func(t *testing.T) {
		parsed := Parse("START: cue", 4, 9)

		got := Serialize(parsed)
		if got != "START: cue" {
			t.Errorf("expected tag keyword to round-trip, got %q", got)
		}
	})

	t.Run("DashWhitespaceNormalized", func(t *testing.T) {
		parsed := Parse("3 - 5: swell", 1, 10)

		if got := Serialize(parsed); got != "3-5: swell" {
			t.Errorf("expected normalized range form, got %q", got)
		}
	})

	t.Run("SingleLineRangeKeepsRangeForm", func(t *testing.T) {
		parsed := Parse("5-5: big note", 1, 10)

		if got := Serialize(parsed); got != "5-5: big note" {
			t.Errorf("N-N should keep its range form, got %q", got)
		}
	})
}
