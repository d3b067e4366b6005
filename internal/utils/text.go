package utils

import (
	"regexp"
	"strings"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL-safe slug: lowercase, runs of
// non-alphanumerics collapsed to single hyphens, trimmed, capped at 100
// characters. Uniqueness is the caller's problem.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugStrip.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 100 {
		slug = slug[:100]
		slug = strings.Trim(slug, "-")
	}
	if slug == "" {
		slug = "post"
	}
	return slug
}

// CountWords counts whitespace-separated words in plain text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ReadTimeMins estimates reading time at 200 words per minute, minimum 1.
func ReadTimeMins(words int) int {
	mins := (words + 199) / 200
	if mins < 1 {
		mins = 1
	}
	return mins
}

// MakeExcerpt takes the first limit characters of plain text, appending
// an ellipsis when truncated.
func MakeExcerpt(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
