package ai

import (
	"regexp"

	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/textutil"
)

// List-hint extraction: substantial <ul>/<ol> blocks in the article body are
// offered to the classifier and used as an ItemList fallback when the model
// returns an empty list.

const (
	minListItems = 3
	maxListHints = 25
)

var (
	reListBlock = regexp.MustCompile(`(?is)<(?:ul|ol)[^>]*>(.*?)</(?:ul|ol)>`)
	reListItem  = regexp.MustCompile(`(?is)<li[^>]*>(.*?)</li>`)
	reItemHref  = regexp.MustCompile(`(?is)<a[^>]+href\s*=\s*["']([^"']+)["']`)
)

// extractListHints pulls named entries from lists with at least minListItems
// items, up to the limit across all lists.
func extractListHints(body string, limit int) []model.ListEntry {
	var out []model.ListEntry
	for _, block := range reListBlock.FindAllStringSubmatch(body, -1) {
		items := reListItem.FindAllStringSubmatch(block[1], -1)
		if len(items) < minListItems {
			continue
		}
		for _, item := range items {
			name := textutil.CollapseWhitespace(textutil.StripTags(item[1]))
			if name == "" {
				continue
			}
			entry := model.ListEntry{Name: name}
			if href := reItemHref.FindStringSubmatch(item[1]); href != nil {
				entry.URL = href[1]
			}
			out = append(out, entry)
			if len(out) >= limit {
				return out
			}
		}
	}
	return out
}
