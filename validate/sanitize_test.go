package validate

import (
	"strings"
	"testing"
)

func TestSanitize_StripsMarkupCharacters(t *testing.T) {
	got := Sanitize(`<script>alert("x&y")</script>'`, 0)
	want := "scriptalert(xy)/script"

	if got != want {
		t.Errorf("Sanitize = %q, want %q", got, want)
	}
	if strings.ContainsAny(got, `<>"'&`) {
		t.Errorf("Sanitize left markup characters in %q", got)
	}
}

func TestSanitize_Truncates(t *testing.T) {
	got := Sanitize("abcdefgh", 5)
	if got != "abcde" {
		t.Errorf("Sanitize = %q, want %q", got, "abcde")
	}
}

func TestSanitize_TruncatesAfterStripping(t *testing.T) {
	// Stripping happens first, so short inputs full of markup survive.
	got := Sanitize("<<<ab>>>", 2)
	if got != "ab" {
		t.Errorf("Sanitize = %q, want %q", got, "ab")
	}
}

func TestSanitize_RuneSafeTruncation(t *testing.T) {
	got := Sanitize("héllo wörld", 4)
	if got != "héll" {
		t.Errorf("Sanitize = %q, want %q", got, "héll")
	}
}

func TestSanitize_NoLimit(t *testing.T) {
	in := strings.Repeat("a", 1000)
	if got := Sanitize(in, 0); got != in {
		t.Errorf("Sanitize with maxLength=0 altered length: got %d, want %d", len(got), len(in))
	}
}
