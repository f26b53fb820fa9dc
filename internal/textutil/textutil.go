// Package textutil holds the small text transforms shared by the graph
// builder, classifier adapters and queue (tag stripping, word trimming,
// slugs). All operate on UTF-8 strings and never panic on malformed HTML.
package textutil

import (
	"html"
	"regexp"
	"strings"
)

var (
	reTag        = regexp.MustCompile(`(?s)<[^>]*>`)
	reScript     = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyle      = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
	reShortcode  = regexp.MustCompile(`\[[^\]]{1,128}\]`)
	reWhitespace = regexp.MustCompile(`\s+`)
	reSlugStrip  = regexp.MustCompile(`[^a-z0-9]+`)
)

// StripTags removes script/style blocks (with their contents) and all
// remaining markup, then decodes entities.
func StripTags(s string) string {
	s = reScript.ReplaceAllString(s, " ")
	s = reStyle.ReplaceAllString(s, " ")
	s = reTag.ReplaceAllString(s, " ")
	return strings.TrimSpace(html.UnescapeString(s))
}

// StripShortcodes removes square-bracket shortcode markers.
func StripShortcodes(s string) string {
	return reShortcode.ReplaceAllString(s, " ")
}

// CollapseWhitespace folds runs of whitespace into single spaces.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// Decode unescapes HTML entities.
func Decode(s string) string { return html.UnescapeString(s) }

// TrimWords returns at most n whitespace-delimited words, appending an
// ellipsis when anything was cut.
func TrimWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) <= n {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:n], " ") + "…"
}

// Slugify lowercases and reduces a name to hyphen-separated alphanumerics,
// suitable for fragment identifiers.
func Slugify(s string) string {
	s = strings.ToLower(StripTags(s))
	s = reSlugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
