package builder

import (
	"encoding/json"
	"testing"

	"schema-ai-service/internal/domain/model"
)

func TestNormalizePriceRange(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tier marker", "$$", "$$"},
		{"tier range", "$ - $$$", "$ - $$$"},
		{"short passthrough", "around $40 per person", "around $40 per person"},
		{"prose with amounts", "Starters run from $12, mains are $38 and the tasting menu is $120 per head which is fair", "$12–$120"},
		{"single amount in prose", "Expect to pay roughly $1,450 for a one-way business class ticket on this route today", "$1450"},
		{"outliers dropped", "The suite goes for $25,000 a night but the standard room is $450 and breakfast adds $35 extra", "$35–$450"},
		{"all outliers", "Flights on this route in first class hover between $14,000 and $22,000 round trip these days", ""},
		{"no amounts in long prose", "Prices vary wildly depending on the season so it is hard to give a meaningful figure here", ""},
		{"amounts rounded to cents", "Dinner for two came to $1234.567890123456 while the chef's counter runs $4321.987654321098 a head", "$1234.57–$4321.99"},
		{"trailing zeros trimmed", "The day pass costs $120.50 while an annual membership works out to $950.00 if you prepay in full", "$120.5–$950"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePriceRange(tc.in); got != tc.want {
				t.Fatalf("NormalizePriceRange(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatPriceRangeLengthBound(t *testing.T) {
	// Cent-rounded amounts within the outlier band always fit, so drive the
	// fallback chain directly with values wide enough to blow the bound.
	wide := 1e25  // "$1...0" is 27 runes, a range of two is not
	huge := 1e31  // 33 runes on its own
	if got := formatPriceRange(12, 120); got != "$12–$120" {
		t.Errorf("in-bound range: %q", got)
	}
	if got := formatPriceRange(wide, wide*2); got != "$"+formatAmount(wide*2) {
		t.Errorf("overlong range should collapse to the max alone, got %q", got)
	}
	if got := formatPriceRange(wide, huge); got != "" {
		t.Errorf("overlong max should omit the property, got %q", got)
	}
}

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"en_US": "en-US",
		"en-us": "en-US",
		"de_DE": "de-DE",
		"fr":    "fr",
		"":      "",
	}
	for in, want := range cases {
		if got := NormalizeLocale(in); got != want {
			t.Errorf("NormalizeLocale(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClampRating(t *testing.T) {
	if got := clampRating(0.2); got != 1 {
		t.Errorf("clampRating(0.2) = %v, want 1", got)
	}
	if got := clampRating(7); got != 5 {
		t.Errorf("clampRating(7) = %v, want 5", got)
	}
	if got := clampRating(4.5); got != 4.5 {
		t.Errorf("clampRating(4.5) = %v, want 4.5", got)
	}
}

func TestGeoNodeRejectsNullIsland(t *testing.T) {
	var g model.Geo
	if err := json.Unmarshal([]byte(`{"latitude": 0, "longitude": 0}`), &g); err != nil {
		t.Fatal(err)
	}
	if node := geoNode(&g); node != nil {
		t.Fatalf("expected nil node for (0,0), got %v", node)
	}

	if err := json.Unmarshal([]byte(`{"lat": "51.47", "lng": "-0.4543"}`), &g); err != nil {
		t.Fatal(err)
	}
	node := geoNode(&g)
	if node == nil {
		t.Fatal("expected node for valid aliased coordinates")
	}
	if node["latitude"] != 51.47 || node["longitude"] != -0.4543 {
		t.Fatalf("unexpected coordinates: %v", node)
	}
}

func TestApplyPlacePropsHoursPrecedence(t *testing.T) {
	var p model.PlaceCore
	raw := `{
		"openingHoursSpecification": [{"dayOfWeek": ["Monday","Tuesday"], "opens": "09:00", "closes": "17:00"}],
		"opening_hours": ["Mo-Fr 09:00-17:00"]
	}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatal(err)
	}

	node := map[string]any{}
	applyPlaceProps(node, &p)
	if _, ok := node["openingHoursSpecification"]; !ok {
		t.Fatal("structured hours should be emitted")
	}
	if _, ok := node["openingHours"]; ok {
		t.Fatal("free-text hours should lose to structured rows")
	}
}

func TestApplyPlacePropsSingleHoursString(t *testing.T) {
	var p model.PlaceCore
	if err := json.Unmarshal([]byte(`{"opening_hours": ["Mo-Su 00:00-24:00"]}`), &p); err != nil {
		t.Fatal(err)
	}
	node := map[string]any{}
	applyPlaceProps(node, &p)
	if got, ok := node["openingHours"].(string); !ok || got != "Mo-Su 00:00-24:00" {
		t.Fatalf("single hours entry should flatten to a string, got %v", node["openingHours"])
	}
}
