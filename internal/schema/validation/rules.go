package validation

// Rule declares the property expectations for one schema type. Missing
// required properties raise at the rule's severity (error unless downgraded);
// missing recommended properties always raise warnings; each one_of group
// needs at least one member present.
type Rule struct {
	Required    []string
	Recommended []string
	OneOf       [][]string
	Severity    Severity
}

var typeRules = map[string]Rule{
	"BlogPosting": {
		Required:    []string{"headline", "datePublished", "author", "publisher"},
		Recommended: []string{"image", "dateModified", "mainEntityOfPage"},
	},
	"Article": {
		Required:    []string{"headline", "datePublished", "author", "publisher"},
		Recommended: []string{"image", "dateModified", "mainEntityOfPage"},
	},
	"NewsArticle": {
		Required:    []string{"headline", "datePublished", "author", "publisher"},
		Recommended: []string{"image", "dateModified", "mainEntityOfPage"},
	},
	"Review": {
		Required:    []string{"itemReviewed"},
		Recommended: []string{"reviewRating", "author"},
	},
	"FAQPage": {
		Required: []string{"mainEntity"},
	},
	"HowTo": {
		Required:    []string{"step"},
		Recommended: []string{"name"},
	},
	"ItemList": {
		Required: []string{"itemListElement"},
	},
	"VideoObject": {
		Required:    []string{"name", "thumbnailUrl", "uploadDate"},
		OneOf:       [][]string{{"contentUrl", "embedUrl"}},
		Recommended: []string{"description"},
	},
	"Product": {
		Required:    []string{"name"},
		Recommended: []string{"offers", "brand", "image"},
	},
	"Trip": {
		Required:    []string{"name"},
		Recommended: []string{"itinerary"},
	},
	"Place": {
		Required:    []string{"name"},
		Recommended: []string{"address"},
	},
	"Airline": {
		Required:    []string{"name"},
		Recommended: []string{"iataCode"},
	},

	// Backbone types never block promotion on their own.
	"WebPage": {
		Required: []string{"url", "name"},
		Severity: SeverityWarning,
	},
	"WebSite": {
		Required: []string{"url", "name"},
		Severity: SeverityWarning,
	},
	"Organization": {
		Required: []string{"name", "url"},
		Severity: SeverityWarning,
	},
	"BreadcrumbList": {
		Required: []string{"itemListElement"},
		Severity: SeverityWarning,
	},
}
