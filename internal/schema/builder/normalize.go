package builder

import (
	"regexp"
	"strconv"
	"strings"

	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/schema"
)

var (
	// Canonical tier markers: "$" through "$$$$", optionally as a range.
	reCanonicalPrice = regexp.MustCompile(`^\${1,4}(\s*[-–]\s*\${1,4})?$`)
	rePriceAmount    = regexp.MustCompile(`\$\s*\d[\d,]*(?:\.\d+)?`)
)

// NormalizePriceRange canonicalizes free-text price hints. Tier markers and
// short strings pass through unchanged; longer prose is scanned for dollar
// amounts, outliers outside (0, 5000] are dropped, and the survivors collapse
// to "$min–$max" (or a single "$max"). Returns "" when nothing usable remains.
func NormalizePriceRange(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if reCanonicalPrice.MatchString(s) {
		return s
	}
	if len([]rune(s)) <= 30 {
		return s
	}

	var amounts []float64
	for _, m := range rePriceAmount.FindAllString(s, -1) {
		m = strings.NewReplacer("$", "", ",", "", " ", "").Replace(m)
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		if v <= 0 || v > 5000 {
			continue
		}
		amounts = append(amounts, v)
	}
	if len(amounts) == 0 {
		return ""
	}
	min, max := amounts[0], amounts[0]
	for _, v := range amounts[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return formatPriceRange(min, max)
}

// formatPriceRange renders "$min–$max" (or a single "$max") under the same
// 30-character bound as the passthrough. An overlong range falls back to the
// max alone; if even that is too long the property is omitted.
func formatPriceRange(min, max float64) string {
	out := "$" + formatAmount(max)
	if min != max {
		out = "$" + formatAmount(min) + "–$" + formatAmount(max)
	}
	if len([]rune(out)) <= 30 {
		return out
	}
	out = "$" + formatAmount(max)
	if len([]rune(out)) <= 30 {
		return out
	}
	return ""
}

// formatAmount rounds to cents and drops trailing zeros, so whole amounts
// print without a decimal point.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// NormalizeLocale converts an underscore locale (en_US) to a BCP-47 language
// tag (en-US).
func NormalizeLocale(locale string) string {
	locale = strings.TrimSpace(strings.ReplaceAll(locale, "_", "-"))
	if locale == "" {
		return ""
	}
	parts := strings.Split(locale, "-")
	parts[0] = strings.ToLower(parts[0])
	if len(parts) > 1 && len(parts[1]) == 2 {
		parts[1] = strings.ToUpper(parts[1])
	}
	return strings.Join(parts, "-")
}

// clampRating forces a rating into the 1..5 band.
func clampRating(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

func ratingNode(r *model.Number) schema.Node {
	if r == nil {
		return nil
	}
	return schema.Node{
		schema.KeyType: "Rating",
		"ratingValue":  clampRating(r.Float()),
		"bestRating":   5,
		"worstRating":  1,
	}
}

func addressNode(a *model.Address) schema.Node {
	if a.Empty() {
		return nil
	}
	return schema.Node{
		schema.KeyType:    "PostalAddress",
		"streetAddress":   a.Street,
		"addressLocality": a.City,
		"addressRegion":   a.Region,
		"postalCode":      a.PostalCode,
		"addressCountry":  a.Country,
	}
}

func geoNode(g *model.Geo) schema.Node {
	if !g.Valid() {
		return nil
	}
	return schema.Node{
		schema.KeyType: "GeoCoordinates",
		"latitude":     g.Latitude.Float(),
		"longitude":    g.Longitude.Float(),
	}
}

func hoursSpecNodes(rows []model.HoursRow) []schema.Node {
	out := make([]schema.Node, 0, len(rows))
	for i := range rows {
		row := &rows[i]
		out = append(out, schema.Node{
			schema.KeyType: "OpeningHoursSpecification",
			"dayOfWeek":    row.Days(),
			"opens":        row.Opens,
			"closes":       row.Closes,
			"validFrom":    row.ValidFrom,
			"validThrough": row.ValidThrough,
		})
	}
	return out
}

// applyPlaceProps copies the shared place-like property set onto a node.
// Structured opening-hours rows win outright over free-text hours.
func applyPlaceProps(node schema.Node, p *model.PlaceCore) {
	if addr := p.Addr(); addr != nil {
		node["address"] = addressNode(addr)
	}
	if tel := p.Tel(); tel != "" {
		node["telephone"] = tel
	}
	if g := geoNode(p.Geo); g != nil {
		node["geo"] = g
	}
	if pr := NormalizePriceRange(p.Price()); pr != "" {
		node["priceRange"] = pr
	}
	if spec := p.HoursSpec(); len(spec) > 0 {
		node["openingHoursSpecification"] = hoursSpecNodes(spec)
	} else if text := p.HoursText(); len(text) > 0 {
		if len(text) == 1 {
			node["openingHours"] = text[0]
		} else {
			node["openingHours"] = text
		}
	}
	if links := p.Links(); len(links) > 0 {
		node["sameAs"] = links
	}
}
