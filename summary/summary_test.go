package summary

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractFirstSentence(t *testing.T) {
	got := Extract("AI is changing software. It's everywhere.", DefaultMaxLength)
	assert.Equal(t, "AI is changing software", got)
}

func TestExtractNoTerminator(t *testing.T) {
	got := Extract("no terminator here", DefaultMaxLength)
	assert.Equal(t, "no terminator here", got)
}

func TestExtractTruncatesAtWordBoundary(t *testing.T) {
	text := "alpha beta gamma delta epsilon"
	got := Extract(text, 15)

	assert.Equal(t, "alpha beta"+Ellipsis, got)
	assert.LessOrEqual(t, len(got), 15+len(Ellipsis))
}

func TestExtractHardCutForOversizedFirstWord(t *testing.T) {
	text := strings.Repeat("a", 50)
	got := Extract(text, 10)

	assert.Equal(t, strings.Repeat("a", 10)+Ellipsis, got)
}

func TestExtractHardCutKeepsValidUTF8(t *testing.T) {
	// 15 bytes falls in the middle of a two-byte rune; the cut must back
	// off to the rune boundary instead of splitting it.
	text := strings.Repeat("é", 100)
	got := Extract(text, 15)

	assert.True(t, utf8.ValidString(got), "Extract produced invalid UTF-8: %q", got)
	assert.Equal(t, strings.Repeat("é", 7)+Ellipsis, got)
	assert.LessOrEqual(t, len(got), 15+len(Ellipsis))
}

func TestExtractTrimsWhitespace(t *testing.T) {
	got := Extract("  leading and trailing  . next sentence", DefaultMaxLength)
	assert.Equal(t, "leading and trailing", got)
}

func TestExtractZeroMaxLengthUsesDefault(t *testing.T) {
	text := strings.Repeat("word ", 100)
	got := Extract(text, 0)
	assert.LessOrEqual(t, len(got), DefaultMaxLength+len(Ellipsis))
}

func TestExtractBoundProperty(t *testing.T) {
	inputs := []string{
		"",
		"short",
		"one. two. three.",
		strings.Repeat("x", 1000),
		strings.Repeat("word ", 500),
		strings.Repeat("é", 200),
		strings.Repeat("世界 ", 100),
		"   spaced   out   words   everywhere   with   no   period   at   all",
	}
	for _, maxLength := range []int{1, 5, 10, 150, 1000} {
		for _, text := range inputs {
			got := Extract(text, maxLength)
			assert.LessOrEqual(t, len(got), maxLength+len(Ellipsis),
				"Extract(%q, %d)", text, maxLength)
			assert.Equal(t, strings.TrimSpace(got), got,
				"Extract(%q, %d) has surrounding whitespace", text, maxLength)
			assert.True(t, utf8.ValidString(got),
				"Extract(%q, %d) produced invalid UTF-8", text, maxLength)
		}
	}
}
