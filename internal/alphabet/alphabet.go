// Package alphabet reduces raw text to the letters of one writing system.
//
// Normalization runs in two passes. The first folds away everything that is
// not a base letter: marks are stripped after canonical decomposition and
// script-specific substitutions are applied (Hebrew final forms, Greek final
// sigma). The second upper-cases and drops every rune outside the alphabet.
package alphabet

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Language names a supported alphabet.
type Language string

const (
	Latin  Language = "latin"
	Greek  Language = "greek"
	Hebrew Language = "hebrew"
)

// Languages lists every supported alphabet in display order.
var Languages = []Language{Latin, Greek, Hebrew}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}

// Normalizer maps raw text onto an alphabet. Implementations are pure and
// safe for concurrent use.
type Normalizer interface {
	Normalize(raw string) string
	Language() Language
}

type normalizer struct {
	lang Language
	fold map[rune]rune
	keep func(rune) bool
}

// Language implements Normalizer.
func (n *normalizer) Language() Language {
	return n.lang
}

// Normalize implements Normalizer.
func (n *normalizer) Normalize(raw string) string {
	stripped, _, err := transform.String(stripMarks(), raw)
	if err != nil {
		stripped = raw
	}

	var sb strings.Builder
	sb.Grow(len(stripped))
	for _, r := range stripped {
		if f, ok := n.fold[r]; ok {
			r = f
		}
		r = unicode.ToUpper(r)
		if n.keep(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// stripMarks decomposes text and removes nonspacing marks: accents, breathings,
// Hebrew points and cantillation. Chains carry buffers, so each call builds its own.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
}

// NewLatin returns a normalizer for A-Z.
func NewLatin() Normalizer {
	return &normalizer{
		lang: Latin,
		keep: func(r rune) bool { return r >= 'A' && r <= 'Z' },
	}
}

// NewGreek returns a normalizer for the 24 capital Greek letters.
func NewGreek() Normalizer {
	return &normalizer{
		lang: Greek,
		fold: map[rune]rune{
			'ς': 'σ',
			'ϲ': 'σ',
			'Ϲ': 'Σ',
		},
		keep: func(r rune) bool { return r >= 'Α' && r <= 'Ω' && r != 0x03A2 },
	}
}

// NewHebrew returns a normalizer for the 22 Hebrew letters with final forms
// collapsed onto their base letters.
func NewHebrew() Normalizer {
	return &normalizer{
		lang: Hebrew,
		fold: map[rune]rune{
			'ך': 'כ',
			'ם': 'מ',
			'ן': 'נ',
			'ף': 'פ',
			'ץ': 'צ',
		},
		keep: func(r rune) bool { return r >= 'א' && r <= 'ת' },
	}
}

// For returns the normalizer of a language, or false if it is not supported.
func For(lang Language) (Normalizer, bool) {
	switch lang {
	case Latin:
		return NewLatin(), true
	case Greek:
		return NewGreek(), true
	case Hebrew:
		return NewHebrew(), true
	default:
		return nil, false
	}
}

// Detect guesses the language of text by counting letters per script.
// It returns false when the text holds no letters of any supported script.
func Detect(text string) (Language, bool) {
	var latin, greek, hebrew int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Hebrew, r) && unicode.IsLetter(r):
			hebrew++
		case unicode.Is(unicode.Greek, r) && unicode.IsLetter(r):
			greek++
		case unicode.Is(unicode.Latin, r) && unicode.IsLetter(r):
			latin++
		}
	}

	switch {
	case latin == 0 && greek == 0 && hebrew == 0:
		return Latin, false
	case hebrew >= greek && hebrew >= latin:
		return Hebrew, true
	case greek >= latin:
		return Greek, true
	default:
		return Latin, true
	}
}
