package ai

import (
	"regexp"
	"strings"

	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/textutil"

	"github.com/pkoukk/tiktoken-go"
)

// cleaner prepares article content for the prompt: strips scripts, styles
// and shortcodes, keeps an allowlisted HTML subset, and bounds the result by
// token count (char count when no encoding is available).
type cleaner struct {
	enc       *tiktoken.Tiktoken
	maxTokens int
	maxChars  int
}

func newCleaner(maxTokens, maxChars int) *cleaner {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		enc = nil // fall back to the char cap
	}
	return &cleaner{enc: enc, maxTokens: maxTokens, maxChars: maxChars}
}

// promptInput is the cleaned view of one content record the prompt is built
// from.
type promptInput struct {
	Title string
	Text  string
	HTML  string
	Hints []model.ListEntry
}

func (c *cleaner) prepare(content *model.Content) promptInput {
	body := textutil.StripShortcodes(content.Body)
	return promptInput{
		Title: textutil.Decode(textutil.StripTags(content.Title)),
		Text:  c.truncate(textutil.CollapseWhitespace(textutil.StripTags(body))),
		HTML:  c.truncate(c.htmlSubset(body)),
		Hints: extractListHints(content.Body, maxListHints),
	}
}

var (
	reAnyTag = regexp.MustCompile(`(?s)<[^>]*>`)
	reTagName = regexp.MustCompile(`^</?\s*([a-zA-Z0-9]+)`)
	reHrefAttr = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']+)["']`)
)

var allowedTags = map[string]struct{}{
	"p": {}, "br": {}, "ul": {}, "ol": {}, "li": {},
	"h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {},
	"a": {}, "strong": {}, "em": {}, "b": {}, "i": {},
	"blockquote": {}, "table": {}, "tr": {}, "td": {}, "th": {},
}

// htmlSubset removes script/style blocks and reduces the remaining markup to
// the structural allowlist, dropping every attribute except a's href.
func (c *cleaner) htmlSubset(body string) string {
	body = reScriptBlock.ReplaceAllString(body, " ")
	body = reStyleBlock.ReplaceAllString(body, " ")
	body = reAnyTag.ReplaceAllStringFunc(body, func(tag string) string {
		m := reTagName.FindStringSubmatch(tag)
		if m == nil {
			return " "
		}
		name := strings.ToLower(m[1])
		if _, ok := allowedTags[name]; !ok {
			return " "
		}
		closing := strings.HasPrefix(tag, "</")
		if closing {
			return "</" + name + ">"
		}
		if name == "a" {
			if href := reHrefAttr.FindStringSubmatch(tag); href != nil {
				return `<a href="` + href[1] + `">`
			}
		}
		return "<" + name + ">"
	})
	return textutil.CollapseWhitespace(body)
}

var (
	reScriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	reStyleBlock  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style>`)
)

func (c *cleaner) truncate(s string) string {
	if c.enc != nil {
		tokens := c.enc.Encode(s, nil, nil)
		if len(tokens) <= c.maxTokens {
			return s
		}
		return c.enc.Decode(tokens[:c.maxTokens])
	}
	if len(s) <= c.maxChars {
		return s
	}
	return s[:c.maxChars]
}
