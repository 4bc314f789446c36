// Package summary derives bounded-length extractive summaries from article
// text. There is no language model involved; the summary is the first
// sentence, trimmed to fit.
package summary

import (
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxLength is the summary bound used when none is configured.
	DefaultMaxLength = 150

	// Ellipsis marks a truncated summary.
	Ellipsis = "..."
)

// Extract returns the first sentence of text, bounded to maxLength
// characters. A maxLength of zero or less selects DefaultMaxLength.
//
// The candidate is everything before the first period, or the whole text when
// no period exists. Candidates longer than maxLength are cut at maxLength and
// backed off to the last word boundary before the ellipsis is appended, so
// the result never exceeds maxLength + len(Ellipsis) and never splits a word
// except when the first word alone exceeds the bound. The result carries no
// leading or trailing whitespace.
func Extract(text string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	candidate := text
	if idx := strings.IndexByte(text, '.'); idx >= 0 {
		candidate = text[:idx]
	}

	if len(candidate) > maxLength {
		end := maxLength
		// Never split a multibyte rune at the cut point.
		for end > 0 && !utf8.RuneStart(candidate[end]) {
			end--
		}
		cut := candidate[:end]
		if sp := strings.LastIndexByte(cut, ' '); sp > 0 {
			cut = cut[:sp]
		}
		candidate = cut + Ellipsis
	}

	return strings.TrimSpace(candidate)
}
