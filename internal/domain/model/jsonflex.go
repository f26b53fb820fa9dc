package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Tolerant JSON scalar/shape types. Relaxed-mode classifier output does not
// honor a strict schema, so numbers may arrive quoted, lists may arrive as
// comma-separated strings, and addresses may be free text or structured
// objects with alias keys. These types absorb that variance at decode time so
// the builder only ever sees canonical shapes.

// Number decodes a JSON number or a numeric string.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			// Non-numeric string: treat as absent rather than failing the
			// whole classification decode.
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (n *Number) Float() float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// StringList decodes a JSON array of strings or a single (possibly
// comma-separated) string. Entries are trimmed; blanks dropped.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = splitList(s)
		return nil
	}
	var raw []any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(StringList, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	*l = out
	return nil
}

func splitList(s string) StringList {
	var out StringList
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Deduped returns the list with duplicates removed, order preserved.
func (l StringList) Deduped() []string {
	seen := make(map[string]struct{}, len(l))
	out := make([]string, 0, len(l))
	for _, s := range l {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Address decodes either a free-text string (kept as the street line) or a
// structured object. Alias keys (street, city, region, zip, country) map onto
// the canonical postal fields.
type Address struct {
	Street     string
	City       string
	Region     string
	PostalCode string
	Country    string
}

func (a *Address) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		a.Street = strings.TrimSpace(s)
		return nil
	}
	var aux struct {
		StreetAddress   string `json:"streetAddress"`
		Street          string `json:"street"`
		AddressLocality string `json:"addressLocality"`
		City            string `json:"city"`
		AddressRegion   string `json:"addressRegion"`
		Region          string `json:"region"`
		PostalCode      string `json:"postalCode"`
		Zip             string `json:"zip"`
		AddressCountry  string `json:"addressCountry"`
		Country         string `json:"country"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	a.Street = firstNonEmpty(aux.StreetAddress, aux.Street)
	a.City = firstNonEmpty(aux.AddressLocality, aux.City)
	a.Region = firstNonEmpty(aux.AddressRegion, aux.Region)
	a.PostalCode = firstNonEmpty(aux.PostalCode, aux.Zip)
	a.Country = firstNonEmpty(aux.AddressCountry, aux.Country)
	return nil
}

func (a *Address) Empty() bool {
	return a == nil || (a.Street == "" && a.City == "" && a.Region == "" && a.PostalCode == "" && a.Country == "")
}

// Geo decodes a coordinate pair accepting lat/lng aliases and quoted numbers.
type Geo struct {
	Latitude  *Number
	Longitude *Number
}

func (g *Geo) UnmarshalJSON(b []byte) error {
	var aux struct {
		Latitude  *Number `json:"latitude"`
		Lat       *Number `json:"lat"`
		Longitude *Number `json:"longitude"`
		Lng       *Number `json:"lng"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	g.Latitude = aux.Latitude
	if g.Latitude == nil {
		g.Latitude = aux.Lat
	}
	g.Longitude = aux.Longitude
	if g.Longitude == nil {
		g.Longitude = aux.Lng
	}
	return nil
}

// Valid requires both coordinates present and rejects the (0,0) null-island
// placeholder classifiers emit when they have no real data.
func (g *Geo) Valid() bool {
	if g == nil || g.Latitude == nil || g.Longitude == nil {
		return false
	}
	return !(g.Latitude.Float() == 0 && g.Longitude.Float() == 0)
}

// HoursRow is one structured opening-hours specification row.
type HoursRow struct {
	DayOfWeek    StringList `json:"dayOfWeek"`
	Day          StringList `json:"day"`
	Opens        string     `json:"opens"`
	Closes       string     `json:"closes"`
	ValidFrom    string     `json:"validFrom"`
	ValidThrough string     `json:"validThrough"`
}

func (h *HoursRow) Days() []string {
	if len(h.DayOfWeek) > 0 {
		return h.DayOfWeek
	}
	return h.Day
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
