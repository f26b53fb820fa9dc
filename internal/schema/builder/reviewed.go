package builder

import (
	"strings"

	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/schema"
	"schema-ai-service/internal/textutil"
)

// reviewEntity emits a Review node plus the reviewed-item node it points at.
// Airport lounges additionally get an Airport node the lounge is contained in.
func (b *Builder) reviewEntity(c *model.Content, cls *model.Classification, ids graphIDs, title, description, published string) ([]schema.Node, entityLink) {
	d := &cls.Details
	reviewID := c.Permalink + "#review"

	itemNodes, reviewedID := b.reviewedItem(c, d, title)
	if reviewedID == "" {
		// No reviewed item could be synthesized; skip the Review entirely
		// rather than emit one that fails validation.
		return nil, entityLink{}
	}

	review := schema.Node{
		schema.KeyType:  "Review",
		schema.KeyID:    reviewID,
		"name":          title,
		"reviewBody":    description,
		"itemReviewed":  schema.Ref(reviewedID),
		"publisher":     schema.Ref(ids.org),
		"datePublished": published,
	}
	if strings.TrimSpace(c.AuthorName) != "" {
		review["author"] = schema.Ref(ids.author)
	}
	if rn := ratingNode(d.HuntRating()); rn != nil {
		review["reviewRating"] = rn
	}

	nodes := append(itemNodes, review)
	return nodes, entityLink{key: "about", id: reviewID}
}

// reviewedItem builds the node for the thing under review, keyed by the
// classifier's reviewed_type. Unknown sub-types degrade to Product.
func (b *Builder) reviewedItem(c *model.Content, d *model.Details, title string) ([]schema.Node, string) {
	id := c.Permalink + "#revieweditem"
	switch d.ReviewedType {
	case model.ReviewedHotel:
		h := d.Hotel
		if h == nil {
			h = &model.HotelDetails{}
		}
		node := schema.Node{
			schema.KeyType: "Hotel",
			schema.KeyID:   id,
			"name":         firstNonEmpty(h.Name, title),
			"url":          h.URL,
		}
		applyPlaceProps(node, &h.PlaceCore)
		if h.StarRating != nil {
			node["starRating"] = schema.Node{
				schema.KeyType: "Rating",
				"ratingValue":  h.StarRating.Float(),
			}
		}
		if h.Image != "" && b.allowedImageURL(h.Image) {
			node["image"] = h.Image
		}
		return []schema.Node{node}, id

	case model.ReviewedRestaurant:
		r := d.Restaurant
		if r == nil {
			r = &model.RestaurantDetails{}
		}
		node := schema.Node{
			schema.KeyType: "Restaurant",
			schema.KeyID:   id,
			"name":         firstNonEmpty(r.Name, title),
			"url":          r.URL,
		}
		applyPlaceProps(node, &r.PlaceCore)
		if cuisines := r.Cuisines(); len(cuisines) > 0 {
			node["servesCuisine"] = cuisines
		}
		return []schema.Node{node}, id

	case model.ReviewedLocalBusiness:
		return b.loungeNodes(c, d, title)

	case model.ReviewedAirline:
		node := schema.Node{
			schema.KeyType: "Airline",
			schema.KeyID:   id,
			"name":         firstNonEmpty(d.AirlineName, d.Name, title),
			"iataCode":     d.IATA,
			"url":          d.URL,
		}
		if links := d.Links(); len(links) > 0 {
			node["sameAs"] = links
		}
		return []schema.Node{node}, id

	case model.ReviewedFlight:
		f := d.Flight
		if f == nil {
			f = &model.FlightDetails{}
		}
		node := schema.Node{
			schema.KeyType: "Flight",
			schema.KeyID:   id,
			"name":         firstNonEmpty(strings.TrimSpace(f.AirlineName+" "+f.FlightNumber), title),
			"flightNumber": f.FlightNumber,
			"url":          f.URL,
		}
		if f.AirlineName != "" || f.IATA != "" {
			node["provider"] = schema.Node{
				schema.KeyType: "Airline",
				"name":         f.AirlineName,
				"iataCode":     f.IATA,
			}
		}
		return []schema.Node{node}, id

	case model.ReviewedSoftware:
		s := d.Software
		if s == nil {
			s = &model.SoftwareDetails{}
		}
		node := schema.Node{
			schema.KeyType:      "SoftwareApplication",
			schema.KeyID:        id,
			"name":              firstNonEmpty(s.Name, title),
			"operatingSystem":   s.OperatingSystem,
			"applicationCategory": s.Category,
			"url":               s.URL,
		}
		if s.Price != "" {
			node["offers"] = schema.Node{
				schema.KeyType:  "Offer",
				"price":         s.Price,
				"priceCurrency": firstNonEmpty(s.Currency, "USD"),
			}
		}
		return []schema.Node{node}, id

	case model.ReviewedCreditCard, model.ReviewedFinancialProduct:
		card := d.Card
		if card == nil {
			card = &model.CardDetails{}
		}
		node := schema.Node{
			schema.KeyType: d.ReviewedType,
			schema.KeyID:   id,
			"name":         firstNonEmpty(card.Name, title),
			"url":          card.URL,
		}
		if card.Issuer != "" {
			node["provider"] = schema.Node{schema.KeyType: "Organization", "name": card.Issuer}
		}
		if card.AnnualFee != "" {
			node["feesAndCommissionsSpecification"] = card.AnnualFee
		}
		return []schema.Node{node}, id

	case model.ReviewedPlace:
		node := schema.Node{
			schema.KeyType: "Place",
			schema.KeyID:   id,
			"name":         firstNonEmpty(d.PlaceName, d.Name, title),
			"url":          d.URL,
		}
		applyPlaceProps(node, &d.PlaceCore)
		return []schema.Node{node}, id

	default:
		p := d.Product
		if p == nil {
			p = &model.ProductDetails{Name: firstNonEmpty(d.Name, title)}
		}
		node := schema.Node{
			schema.KeyType: "Product",
			schema.KeyID:   id,
			"name":         firstNonEmpty(p.Name, title),
			"url":          p.URL,
		}
		if p.Brand != "" {
			node["brand"] = schema.Node{schema.KeyType: "Brand", "name": p.Brand}
		}
		return []schema.Node{node}, id
	}
}

// loungeNodes emits a LocalBusiness for the lounge plus an Airport node it is
// containedInPlace of. IDs are site-scoped so lounge pages across the site
// converge on stable identifiers.
func (b *Builder) loungeNodes(c *model.Content, d *model.Details, title string) ([]schema.Node, string) {
	l := d.Lounge
	if l == nil {
		l = &model.LoungeDetails{}
	}
	name := firstNonEmpty(l.Name, title)
	airportName := firstNonEmpty(l.AirportName, l.AirportIATA)

	loungeID := b.site.URL + "#airportlounge-" + textutil.Slugify(name)
	if airportName != "" {
		loungeID += "-" + textutil.Slugify(airportName)
	}

	node := schema.Node{
		schema.KeyType: "LocalBusiness",
		schema.KeyID:   loungeID,
		"name":         name,
		"url":          l.URL,
	}
	applyPlaceProps(node, &l.PlaceCore)
	if l.Terminal != "" {
		node["location"] = schema.Node{schema.KeyType: "Place", "name": l.Terminal}
	}
	if len(l.Amenities) > 0 {
		features := make([]schema.Node, 0, len(l.Amenities))
		for _, a := range l.Amenities.Deduped() {
			features = append(features, schema.Node{
				schema.KeyType: "LocationFeatureSpecification",
				"name":         a,
				"value":        true,
			})
		}
		node["amenityFeature"] = features
	}
	if l.Image != "" && b.allowedImageURL(l.Image) {
		node["image"] = l.Image
	}

	nodes := []schema.Node{node}
	if airportName != "" {
		airportID := b.site.URL + "#airport-" + textutil.Slugify(airportName)
		node["containedInPlace"] = schema.Ref(airportID)
		nodes = append(nodes, schema.Node{
			schema.KeyType: "Airport",
			schema.KeyID:   airportID,
			"name":         airportName,
			"iataCode":     l.AirportIATA,
		})
	}
	return nodes, loungeID
}
