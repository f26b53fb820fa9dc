package builder

import (
	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/schema"
	"schema-ai-service/internal/textutil"
)

// secondaryEntity builds the single non-backbone entity the classification
// calls for, plus any supporting nodes (reviewed item, airport). The returned
// link describes how the entity attaches to the primary and webpage nodes.
func (b *Builder) secondaryEntity(template string, c *model.Content, cls *model.Classification, ids graphIDs, title, description, published string) ([]schema.Node, entityLink) {
	d := &cls.Details
	switch template {
	case model.TypeFAQPage:
		return b.faqEntity(c, d)
	case model.TypeHowTo:
		return b.howToEntity(c, d, title)
	case model.TypeItemList:
		return b.itemListEntity(c, d, title)
	case model.TypeVideoObject:
		return b.videoEntity(c, d, title, description, published)
	case model.TypeTrip:
		return b.tripEntity(c, d, title)
	case model.TypePlace:
		return b.placeEntity(c, d, title)
	case model.TypeAirline:
		return b.airlineEntity(c, d, title)
	case model.TypeProduct:
		return b.productEntity(c, d, title, description)
	case model.TypeReview:
		return b.reviewEntity(c, cls, ids, title, description, published)
	default:
		return nil, entityLink{}
	}
}

func (b *Builder) faqEntity(c *model.Content, d *model.Details) ([]schema.Node, entityLink) {
	if len(d.FAQ) == 0 {
		return nil, entityLink{}
	}
	questions := make([]schema.Node, 0, len(d.FAQ))
	for _, entry := range d.FAQ {
		if entry.Question == "" || entry.Answer == "" {
			continue
		}
		questions = append(questions, schema.Node{
			schema.KeyType: "Question",
			"name":         textutil.Decode(entry.Question),
			"acceptedAnswer": schema.Node{
				schema.KeyType: "Answer",
				"text":         textutil.Decode(entry.Answer),
			},
		})
	}
	if len(questions) == 0 {
		return nil, entityLink{}
	}
	id := c.Permalink + "#faq"
	node := schema.Node{
		schema.KeyType: "FAQPage",
		schema.KeyID:   id,
		"mainEntity":   questions,
	}
	return []schema.Node{node}, entityLink{key: "about", id: id}
}

func (b *Builder) howToEntity(c *model.Content, d *model.Details, title string) ([]schema.Node, entityLink) {
	if len(d.HowToSteps) == 0 {
		return nil, entityLink{}
	}
	steps := make([]schema.Node, 0, len(d.HowToSteps))
	for i, text := range d.HowToSteps {
		steps = append(steps, schema.Node{
			schema.KeyType: "HowToStep",
			"position":     i + 1,
			"text":         textutil.Decode(text),
		})
	}
	id := c.Permalink + "#howto"
	node := schema.Node{
		schema.KeyType: "HowTo",
		schema.KeyID:   id,
		"name":         title,
		"step":         steps,
		"totalTime":    d.HowToTotalTime(),
	}
	return []schema.Node{node}, entityLink{key: "about", id: id}
}

func (b *Builder) itemListEntity(c *model.Content, d *model.Details, title string) ([]schema.Node, entityLink) {
	if len(d.ItemList) == 0 {
		return nil, entityLink{}
	}
	elements := make([]schema.Node, 0, len(d.ItemList))
	for i, entry := range d.ItemList {
		if entry.Name == "" {
			continue
		}
		item := schema.Node{
			schema.KeyType: "ListItem",
			"position":     i + 1,
			"name":         textutil.Decode(entry.Name),
		}
		if entry.URL != "" {
			item["url"] = entry.URL
		}
		elements = append(elements, item)
	}
	if len(elements) == 0 {
		return nil, entityLink{}
	}
	id := c.Permalink + "#itemlist"
	node := schema.Node{
		schema.KeyType:    "ItemList",
		schema.KeyID:      id,
		"name":            title,
		"itemListElement": elements,
	}
	return []schema.Node{node}, entityLink{key: "about", id: id}
}

func (b *Builder) videoEntity(c *model.Content, d *model.Details, title, description, published string) ([]schema.Node, entityLink) {
	v := d.Video
	if v == nil {
		return nil, entityLink{}
	}
	id := c.Permalink + "#video"
	node := schema.Node{
		schema.KeyType: "VideoObject",
		schema.KeyID:   id,
		"name":         firstNonEmpty(v.Name, title),
		"description":  firstNonEmpty(v.Description, description),
		"thumbnailUrl": v.Thumbnail,
		"uploadDate":   firstNonEmpty(v.UploadDate, published),
		"duration":     v.Duration,
		"embedUrl":     v.EmbedURL,
		"contentUrl":   v.ContentURL,
	}
	return []schema.Node{node}, entityLink{key: "video", id: id}
}

func (b *Builder) tripEntity(c *model.Content, d *model.Details, title string) ([]schema.Node, entityLink) {
	id := c.Permalink + "#trip"
	node := schema.Node{
		schema.KeyType: "Trip",
		schema.KeyID:   id,
		"name":         firstNonEmpty(d.TripName, title),
	}
	if len(d.Itinerary) > 0 {
		stops := make([]schema.Node, 0, len(d.Itinerary))
		for _, stop := range d.Itinerary {
			place := schema.Node{
				schema.KeyType: "Place",
				"name":         firstNonEmpty(stop.DisplayName(), stop.Location),
				"url":          stop.URL,
			}
			if a := addressNode(stop.Address); a != nil {
				place["address"] = a
			} else if stop.Location != "" && stop.DisplayName() != "" {
				place["address"] = stop.Location
			}
			stops = append(stops, place)
		}
		node["itinerary"] = stops
	}
	if d.Offers != nil && d.Offers.Price != "" {
		node["offers"] = schema.Node{
			schema.KeyType:  "Offer",
			"price":         d.Offers.Price,
			"priceCurrency": firstNonEmpty(d.Offers.PriceCurrency, "USD"),
			"url":           firstNonEmpty(d.Offers.URL, c.Permalink),
		}
	}
	return []schema.Node{node}, entityLink{key: "about", id: id}
}

func (b *Builder) placeEntity(c *model.Content, d *model.Details, title string) ([]schema.Node, entityLink) {
	id := c.Permalink + "#place"
	node := schema.Node{
		schema.KeyType: "Place",
		schema.KeyID:   id,
		"name":         firstNonEmpty(d.PlaceName, d.Name, title),
		"url":          d.URL,
	}
	applyPlaceProps(node, &d.PlaceCore)
	if d.Image != "" && b.allowedImageURL(d.Image) {
		node["image"] = d.Image
	}
	return []schema.Node{node}, entityLink{key: "about", id: id}
}

func (b *Builder) airlineEntity(c *model.Content, d *model.Details, title string) ([]schema.Node, entityLink) {
	id := c.Permalink + "#airline"
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
	return []schema.Node{node}, entityLink{key: "mentions", id: id}
}

func (b *Builder) productEntity(c *model.Content, d *model.Details, title, description string) ([]schema.Node, entityLink) {
	p := d.Product
	if p == nil {
		p = &model.ProductDetails{Name: d.Name}
	}
	id := c.Permalink + "#product"
	node := schema.Node{
		schema.KeyType: "Product",
		schema.KeyID:   id,
		"name":         firstNonEmpty(p.Name, title),
		"description":  firstNonEmpty(p.Description, description),
		"url":          firstNonEmpty(p.URL, c.Permalink),
	}
	if p.Brand != "" {
		node["brand"] = schema.Node{schema.KeyType: "Brand", "name": p.Brand}
	}
	if p.Image != "" && b.allowedImageURL(p.Image) {
		node["image"] = p.Image
	}
	if p.Price != "" {
		node["offers"] = schema.Node{
			schema.KeyType:  "Offer",
			"price":         p.Price,
			"priceCurrency": firstNonEmpty(p.Currency, "USD"),
			"url":           firstNonEmpty(p.URL, c.Permalink),
		}
	}
	if rn := ratingNode(p.Rating); rn != nil {
		node["aggregateRating"] = schema.Node{
			schema.KeyType: "AggregateRating",
			"ratingValue":  clampRating(p.Rating.Float()),
			"bestRating":   5,
			"worstRating":  1,
			"ratingCount":  1,
		}
	}
	return []schema.Node{node}, entityLink{key: "about", id: id}
}
