package ai

import (
	"sort"

	"schema-ai-service/internal/domain/model"
)

// Strict-mode response format. OpenAI's json_schema strict mode demands every
// property be listed in required and additionalProperties be false, so
// optionality is expressed through nullable types.

func relaxedResponseFormat() map[string]any {
	return map[string]any{"type": "json_object"}
}

func strictResponseFormat() map[string]any {
	return map[string]any{
		"type": "json_schema",
		"json_schema": map[string]any{
			"name":   "schema_classification",
			"strict": true,
			"schema": sobj(map[string]any{
				"result": resultSchema(),
			}),
		},
	}
}

func resultSchema() map[string]any {
	return sobj(map[string]any{
		"type":          enum(model.SupportedTypes()),
		"justification": sstr(),
		"summary":       sstr(),
		"missing_info":  sarr(sstr()),
		"details": map[string]any{
			"anyOf": []any{
				sobj(map[string]any{}), // article types carry no details
				faqDetails(),
				howToDetails(),
				itemListDetails(),
				reviewDetails(),
				videoDetails(),
				tripDetails(),
				placeDetails(),
				airlineDetails(),
				productDetails(),
			},
		},
	})
}

func faqDetails() map[string]any {
	return sobj(map[string]any{
		"faq": sarr(sobj(map[string]any{"q": sstr(), "a": sstr()})),
	})
}

func howToDetails() map[string]any {
	return sobj(map[string]any{
		"howto_steps": sarr(sstr()),
		"totalTime":   nstr(),
	})
}

func itemListDetails() map[string]any {
	return sobj(map[string]any{
		"itemlist": sarr(sobj(map[string]any{"name": sstr(), "url": nstr()})),
	})
}

func reviewDetails() map[string]any {
	return sobj(map[string]any{
		"reviewed_type": enum([]string{
			model.ReviewedHotel, model.ReviewedRestaurant, model.ReviewedLocalBusiness,
			model.ReviewedAirline, model.ReviewedFlight, model.ReviewedSoftware,
			model.ReviewedCreditCard, model.ReviewedFinancialProduct,
			model.ReviewedPlace, model.ReviewedProduct,
		}),
		"rating": nnum(),
		"flight": nobj(map[string]any{
			"airline_name": nstr(), "iata": nstr(), "flight_number": nstr(), "url": nstr(),
		}),
		"hotel":      nullablePlace(map[string]any{"star_rating": nnum()}),
		"lounge":     nullablePlace(map[string]any{"airport_name": nstr(), "airport_iata": nstr(), "terminal": nstr(), "amenities": sarr(sstr())}),
		"restaurant": nullablePlace(map[string]any{"serves_cuisine": sarr(sstr())}),
		"software": nobj(map[string]any{
			"name": nstr(), "operating_system": nstr(), "category": nstr(),
			"price": nstr(), "currency": nstr(), "rating": nnum(), "url": nstr(),
		}),
		"card": nobj(map[string]any{
			"name": nstr(), "issuer": nstr(), "annual_fee": nstr(), "rating": nnum(), "url": nstr(),
		}),
		"product": nobj(map[string]any{
			"name": nstr(), "brand": nstr(), "description": nstr(), "price": nstr(),
			"currency": nstr(), "rating": nnum(), "url": nstr(), "image": nstr(),
		}),
	})
}

func videoDetails() map[string]any {
	return sobj(map[string]any{
		"video": sobj(map[string]any{
			"name": sstr(), "description": nstr(), "thumbnail": nstr(),
			"upload_date": nstr(), "duration": nstr(), "embed_url": nstr(), "content_url": nstr(),
		}),
	})
}

func tripDetails() map[string]any {
	return sobj(map[string]any{
		"trip_name": nstr(),
		"itinerary": sarr(sobj(map[string]any{
			"name": sstr(), "location": nstr(), "url": nstr(), "position": nnum(),
			"startDate": nstr(), "endDate": nstr(),
		})),
		"offers": nobj(map[string]any{"price": nstr(), "priceCurrency": nstr(), "url": nstr()}),
	})
}

func placeDetails() map[string]any {
	props := placeProps(map[string]any{"place_name": sstr()})
	return sobj(props)
}

func airlineDetails() map[string]any {
	return sobj(map[string]any{
		"airline_name": sstr(), "iata": nstr(), "url": nstr(), "sameAs": sarr(sstr()),
	})
}

func productDetails() map[string]any {
	return sobj(map[string]any{
		"product": sobj(map[string]any{
			"name": sstr(), "brand": nstr(), "description": nstr(), "price": nstr(),
			"currency": nstr(), "rating": nnum(), "url": nstr(), "image": nstr(),
		}),
	})
}

// placeProps is the shared place-like property set.
func placeProps(extra map[string]any) map[string]any {
	props := map[string]any{
		"name":      nstr(),
		"address":   nstr(),
		"telephone": nstr(),
		"url":       nstr(),
		"image":     nstr(),
		"sameAs":    sarr(sstr()),
		"priceRange": nstr(),
		"opening_hours": sarr(sstr()),
		"opening_hours_spec": sarr(sobj(map[string]any{
			"dayOfWeek": sarr(sstr()), "opens": nstr(), "closes": nstr(),
			"validFrom": nstr(), "validThrough": nstr(),
		})),
		"geo": nobj(map[string]any{"latitude": nnum(), "longitude": nnum()}),
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func nullablePlace(extra map[string]any) map[string]any {
	props := placeProps(extra)
	props["rating"] = nnum()
	n := sobj(props)
	n["type"] = []string{"object", "null"}
	return n
}

// --- schema helpers ---

func sstr() map[string]any { return map[string]any{"type": "string"} }
func nstr() map[string]any { return map[string]any{"type": []string{"string", "null"}} }
func nnum() map[string]any { return map[string]any{"type": []string{"number", "null"}} }

func enum(values []string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func sarr(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

// sobj builds a strict object: every property required, nothing extra.
func sobj(props map[string]any) map[string]any {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	sort.Strings(required)
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             required,
		"properties":           props,
	}
}

// nobj is a strict object that may also be null.
func nobj(props map[string]any) map[string]any {
	n := sobj(props)
	n["type"] = []string{"object", "null"}
	return n
}
