// Package builder turns a content record plus its AI classification into a
// schema.org JSON-LD graph. Building is deterministic: no I/O, no clock, no
// randomness, so the same inputs always produce the same graph.
package builder

import (
	"net/url"
	"strings"
	"time"

	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/schema"
	"schema-ai-service/internal/textutil"
)

// Site describes the publishing site; the builder anchors organization,
// website and author nodes to its URL.
type Site struct {
	Name            string
	URL             string
	LogoURL         string
	Language        string
	WebsiteAllPages bool
}

type Builder struct {
	site     Site
	siteHost string
}

func New(site Site) *Builder {
	site.URL = strings.TrimRight(strings.TrimSpace(site.URL), "/")
	host := ""
	if u, err := url.Parse(site.URL); err == nil {
		host = strings.ToLower(u.Hostname())
	}
	return &Builder{site: site, siteHost: host}
}

const articleBodyWords = 300

// Build assembles the full pruned @graph document for one content record.
// Unknown classification types degrade to a BlogPosting backbone.
func (b *Builder) Build(c *model.Content, cls *model.Classification) map[string]any {
	template := cls.Type
	if !model.IsSupportedType(template) {
		template = model.TypeBlogPosting
	}
	primaryType := template
	switch template {
	case model.TypeBlogPosting, model.TypeArticle, model.TypeNewsArticle:
	default:
		primaryType = model.TypeBlogPosting
	}

	title := textutil.Decode(textutil.StripTags(c.Title))
	excerpt := strings.TrimSpace(c.Excerpt)
	if excerpt == "" {
		excerpt = textutil.TrimWords(textutil.StripTags(textutil.StripShortcodes(c.Body)), 35)
	}
	description := strings.TrimSpace(textutil.Decode(cls.Summary))
	if description == "" {
		description = excerpt
	}
	lang := NormalizeLocale(firstNonEmpty(c.Language, b.site.Language))
	published := c.PublishedAt.Format(time.RFC3339)
	modified := c.ModifiedAt.Format(time.RFC3339)
	imageURL := b.resolveImage(c, &cls.Details)

	ids := b.newIDs(c)
	var nodes []schema.Node

	if b.site.LogoURL != "" {
		nodes = append(nodes, schema.Node{
			schema.KeyType: "ImageObject",
			schema.KeyID:   ids.logo,
			"url":          b.site.LogoURL,
			"contentUrl":   b.site.LogoURL,
		})
	}

	org := schema.Node{
		schema.KeyType: "Organization",
		schema.KeyID:   ids.org,
		"name":         b.site.Name,
		"url":          b.site.URL,
	}
	if b.site.LogoURL != "" {
		org["logo"] = schema.Ref(ids.logo)
	}
	nodes = append(nodes, org)

	withWebsite := b.site.WebsiteAllPages
	if withWebsite {
		nodes = append(nodes, schema.Node{
			schema.KeyType: "WebSite",
			schema.KeyID:   ids.website,
			"name":         b.site.Name,
			"url":          b.site.URL,
			"publisher":    schema.Ref(ids.org),
			"inLanguage":   lang,
		})
	}

	if imageURL != "" {
		nodes = append(nodes, schema.Node{
			schema.KeyType: "ImageObject",
			schema.KeyID:   ids.primaryImage,
			"url":          imageURL,
			"contentUrl":   imageURL,
		})
	}

	webpage := schema.Node{
		schema.KeyType: "WebPage",
		schema.KeyID:   ids.webpage,
		"url":          c.Permalink,
		"name":         title,
		"description":  excerpt,
		"datePublished": published,
		"dateModified":  modified,
		"breadcrumb":    schema.Ref(ids.breadcrumb),
		"inLanguage":    lang,
	}
	if withWebsite {
		webpage["isPartOf"] = schema.Ref(ids.website)
	}
	if imageURL != "" {
		webpage["primaryImageOfPage"] = schema.Ref(ids.primaryImage)
	}
	nodes = append(nodes, webpage)

	nodes = append(nodes, schema.Node{
		schema.KeyType: "BreadcrumbList",
		schema.KeyID:   ids.breadcrumb,
		"itemListElement": []schema.Node{
			{schema.KeyType: "ListItem", "position": 1, "name": "Home", "item": b.site.URL},
			{schema.KeyType: "ListItem", "position": 2, "name": title, "item": c.Permalink},
		},
	})

	hasAuthor := strings.TrimSpace(c.AuthorName) != ""
	if hasAuthor {
		author := schema.Node{
			schema.KeyType: "Person",
			schema.KeyID:   ids.author,
			"name":         c.AuthorName,
			"url":          c.AuthorURL,
		}
		if c.AuthorImageURL != "" {
			author["image"] = schema.Node{
				schema.KeyType: "ImageObject",
				"url":          c.AuthorImageURL,
			}
		}
		nodes = append(nodes, author)
	}

	primary := schema.Node{
		schema.KeyType:     primaryType,
		schema.KeyID:       ids.primary,
		"headline":         title,
		"description":      description,
		"url":              c.Permalink,
		"datePublished":    published,
		"dateModified":     modified,
		"publisher":        schema.Ref(ids.org),
		"isPartOf":         schema.Ref(ids.webpage),
		"mainEntityOfPage": schema.Ref(ids.webpage),
		"inLanguage":       lang,
		"articleBody":      textutil.TrimWords(textutil.StripTags(textutil.StripShortcodes(c.Body)), articleBodyWords),
	}
	if hasAuthor {
		primary["author"] = schema.Ref(ids.author)
	}
	if imageURL != "" {
		primary["image"] = schema.Ref(ids.primaryImage)
	}
	nodes = append(nodes, primary)

	extra, link := b.secondaryEntity(template, c, cls, ids, title, description, published)
	for _, n := range extra {
		nodes = append(nodes, n)
	}
	if link.id != "" {
		addLinkedEntity(primary, link.key, schema.Ref(link.id))
		addLinkedEntity(webpage, link.key, schema.Ref(link.id))
	}

	if _, ok := webpage["mainEntity"]; !ok {
		webpage["mainEntity"] = schema.Ref(ids.primary)
	}

	return schema.Document(nodes)
}

// graphIDs are the fragment identifiers one document's nodes hang off.
type graphIDs struct {
	logo         string
	org          string
	website      string
	primaryImage string
	webpage      string
	breadcrumb   string
	author       string
	primary      string
	secondary    string
	reviewed     string
}

func (b *Builder) newIDs(c *model.Content) graphIDs {
	return graphIDs{
		logo:         b.site.URL + "#logo",
		org:          b.site.URL + "#organization",
		website:      b.site.URL + "#website",
		primaryImage: c.Permalink + "#primaryimage",
		webpage:      c.Permalink + "#webpage",
		breadcrumb:   c.Permalink + "#breadcrumb",
		author:       b.site.URL + "#author",
		primary:      c.Permalink + "#primary",
	}
}

// entityLink says how a secondary entity hangs off the primary and webpage
// nodes: videos via `video`, airlines via `mentions`, everything else `about`.
type entityLink struct {
	key string
	id  string
}

// addLinkedEntity appends a reference under key, keeping the value a list and
// de-duplicating by @id.
func addLinkedEntity(node schema.Node, key string, ref schema.Node) {
	cur, ok := node[key]
	if !ok || cur == nil {
		node[key] = []any{ref}
		return
	}
	list, ok := cur.([]any)
	if !ok {
		list = []any{cur}
	}
	for _, v := range list {
		if existing, ok := v.(schema.Node); ok && existing[schema.KeyID] == ref[schema.KeyID] {
			return
		}
	}
	node[key] = append(list, ref)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
