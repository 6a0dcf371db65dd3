package domain

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// strict strips every element and attribute; script and style bodies are dropped with their tags.
var strict = bluemonday.StrictPolicy()

// Sanitize returns a copy of f with markup neutralized in every value.
// It never rejects input.
func Sanitize(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = SanitizeValue(v)
	}
	return out
}

// markup re-escapes the two characters that could open a tag after the
// policy's entities are decoded.
var markup = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// SanitizeValue removes NUL bytes and control characters, then strips HTML.
// Other punctuation comes back as typed: o'brien stays o'brien.
func SanitizeValue(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == 0 || (unicode.IsControl(r) && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
	return markup.Replace(html.UnescapeString(strict.Sanitize(s)))
}
