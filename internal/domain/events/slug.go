package events

import (
	"regexp"
	"strings"
)

var (
	nonSlugChars  = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// Slugify derives the URL-safe identifier from a title: lowercase, trim,
// strip everything outside word characters / whitespace / hyphens, collapse
// whitespace runs into single hyphens, then collapse hyphen runs.
// Deterministic, so the same title always maps to the same slug; uniqueness
// is enforced by storage.
func Slugify(title string) string {
	slug := strings.TrimSpace(strings.ToLower(title))
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = whitespaceRun.ReplaceAllString(slug, "-")
	slug = hyphenRun.ReplaceAllString(slug, "-")
	return slug
}
