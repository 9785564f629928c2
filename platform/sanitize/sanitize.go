// Package sanitize cleans user-provided text before it is stored.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", "\"",
		"&#39;", "'",
	)
)

// StripHTML removes HTML tags, including tags hidden behind entities.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Name strips markup from a display name and collapses runs of whitespace.
func Name(s string) string {
	return whitespaceRegex.ReplaceAllString(StripHTML(s), " ")
}

// NamePtr applies Name to an optional value.
func NamePtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Name(*s)
	return &result
}

// Email trims and lower-cases an address. The identity provider compares
// addresses case-insensitively, so the profile copy is kept in the same form.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// EmailPtr applies Email to an optional value.
func EmailPtr(s *string) *string {
	if s == nil {
		return nil
	}
	result := Email(*s)
	return &result
}
