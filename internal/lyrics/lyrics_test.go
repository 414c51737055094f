package lyrics

import (
	"strings"
	"testing"
)

func TestNumber(t *testing.T) {
	t.Run("NumbersContentLinesOnly", func(t *testing.T) {
		raw := "[Verse]\nHello\nWorld\n\n[Chorus]\nSing"
		numbered := Number(raw)

		lines := Lines(numbered)
		want := map[int]string{1: "Hello", 2: "World", 3: "Sing"}

		if len(lines) != len(want) {
			t.Fatalf("expected %d numbered lines, got %d: %q", len(want), len(lines), numbered)
		}
		for num, text := range want {
			if lines[num] != text {
				t.Errorf("line %d: expected %q, got %q", num, text, lines[num])
			}
		}
	})

	t.Run("HeadersPassThroughUnnumbered", func(t *testing.T) {
		numbered := Number("[Intro]\nFirst line")

		if !strings.Contains(numbered, "[Intro]") {
			t.Errorf("header missing from output: %q", numbered)
		}
		if strings.Contains(numbered, "1  [Intro]") {
			t.Errorf("header should not be numbered: %q", numbered)
		}
	})

	t.Run("BlankLinesPreserved", func(t *testing.T) {
		numbered := Number("One\n\nTwo")
		parts := strings.Split(numbered, "\n")

		if len(parts) != 3 {
			t.Fatalf("expected 3 output lines, got %d: %q", len(parts), numbered)
		}
		if parts[1] != "" {
			t.Errorf("expected blank middle line, got %q", parts[1])
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		if out := Number(""); out != "" {
			t.Errorf("expected empty output, got %q", out)
		}
	})

	t.Run("RecomputedFromScratch", func(t *testing.T) {
		first := Number("A\nB\nC")
		second := Number("B\nC")

		lines := Lines(second)
		if lines[1] != "B" || lines[2] != "C" {
			t.Errorf("renumbering should restart at 1: %v (was %q)", lines, first)
		}
	})

	t.Run("HeaderDetectionRequiresBothBrackets", func(t *testing.T) {
		tests := []struct {
			line   string
			header bool
		}{
			{"[Verse 1]", true},
			{"  [Chorus]  ", true},
			{"[Bridge", false},
			{"Bridge]", false},
			{"plain line", false},
			{"", false},
		}

		for _, tt := range tests {
			if got := IsSectionHeader(tt.line); got != tt.header {
				t.Errorf("IsSectionHeader(%q) = %v, expected %v", tt.line, got, tt.header)
			}
		}
	})
}

func TestBounds(t *testing.T) {
	t.Run("FindsLowestAndHighest", func(t *testing.T) {
		numbered := Number("[Verse]\nHello\nWorld\n\n[Chorus]\nSing")

		first, last := Bounds(numbered)
		if first != 1 || last != 3 {
			t.Errorf("expected bounds (1, 3), got (%d, %d)", first, last)
		}
	})

	t.Run("EmptyLyricsDefaultToSentinel", func(t *testing.T) {
		first, last := Bounds("")
		if first != 1 || last != SentinelLastLine {
			t.Errorf("expected (1, %d), got (%d, %d)", SentinelLastLine, first, last)
		}
	})

	t.Run("UnnumberedTextDefaultsToSentinel", func(t *testing.T) {
		first, last := Bounds("[Verse]\n\n[Chorus]")
		if first != 1 || last != SentinelLastLine {
			t.Errorf("expected (1, %d), got (%d, %d)", SentinelLastLine, first, last)
		}
	})
}

func TestLines(t *testing.T) {
	t.Run("IndexMatchesContentLines", func(t *testing.T) {
		raw := "One\nTwo\n[Break]\nThree"
		lines := Lines(Number(raw))

		if len(lines) != 3 {
			t.Fatalf("expected 3 indexed lines, got %d", len(lines))
		}
		if lines[3] != "Three" {
			t.Errorf("expected line 3 = %q, got %q", "Three", lines[3])
		}
	})

	t.Run("LyricLineStartingWithDigitsSurvives", func(t *testing.T) {
		numbered := Number("99 problems")
		lines := Lines(numbered)

		if lines[1] != "99 problems" {
			t.Errorf("expected %q at line 1, got %v", "99 problems", lines)
		}
	})
}
