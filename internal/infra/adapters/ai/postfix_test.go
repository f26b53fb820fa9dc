package ai

import (
	"testing"

	"schema-ai-service/internal/domain/model"
)

func TestApplyPostFixesDecodesEntities(t *testing.T) {
	cls := &model.Classification{
		Type:          model.TypeBlogPosting,
		Summary:       "Fish &amp; chips",
		Justification: "it&#39;s a post",
	}
	applyPostFixes(cls, promptInput{})
	if cls.Summary != "Fish & chips" {
		t.Errorf("summary: %q", cls.Summary)
	}
	if cls.Justification != "it's a post" {
		t.Errorf("justification: %q", cls.Justification)
	}
}

func TestApplyPostFixesItemListHintFallback(t *testing.T) {
	hints := []model.ListEntry{{Name: "Card A"}, {Name: "Card B"}, {Name: "Card C"}}
	cls := &model.Classification{Type: model.TypeItemList}
	applyPostFixes(cls, promptInput{Hints: hints})
	if len(cls.Details.ItemList) != 3 {
		t.Fatalf("empty itemlist should take the hints: %v", cls.Details.ItemList)
	}

	// A model-provided list wins over hints.
	cls = &model.Classification{
		Type:    model.TypeItemList,
		Details: model.Details{ItemList: []model.ListEntry{{Name: "From model"}}},
	}
	applyPostFixes(cls, promptInput{Hints: hints})
	if len(cls.Details.ItemList) != 1 {
		t.Fatalf("model list should be kept: %v", cls.Details.ItemList)
	}
}

func TestTripGuardrailTitleSignals(t *testing.T) {
	cls := &model.Classification{
		Type:    model.TypeReview,
		Details: model.Details{ReviewedType: model.ReviewedAirline},
	}
	applyPostFixes(cls, promptInput{Title: "ANA First Class Trip Report: Tokyo and back"})
	if cls.Type != model.TypeTrip {
		t.Fatalf("trip report title should convert, got %s", cls.Type)
	}
	if cls.Details.TripName == "" {
		t.Error("trip name should fall back to the title")
	}
}

func TestTripGuardrailReviewTitleWins(t *testing.T) {
	cls := &model.Classification{
		Type:    model.TypeReview,
		Details: model.Details{ReviewedType: model.ReviewedFlight},
	}
	applyPostFixes(cls, promptInput{
		Title: "ANA First Class Review",
		Text:  "day 1 we had a layover and a stopover before the first leg",
	})
	if cls.Type != model.TypeReview {
		t.Fatalf("explicit review title must keep the Review, got %s", cls.Type)
	}
}

func TestTripGuardrailBodySignals(t *testing.T) {
	cls := &model.Classification{
		Type:    model.TypeReview,
		Details: model.Details{ReviewedType: model.ReviewedFlight},
	}
	applyPostFixes(cls, promptInput{
		Title: "Flying ANA to Tokyo",
		Text:  "Our itinerary had a long layover in Taipei before the second segment.",
	})
	if cls.Type != model.TypeTrip {
		t.Fatalf("two trip signals should convert, got %s", cls.Type)
	}
}

func TestTripGuardrailReviewFocusVetoes(t *testing.T) {
	cls := &model.Classification{
		Type:    model.TypeReview,
		Details: model.Details{ReviewedType: model.ReviewedFlight},
	}
	applyPostFixes(cls, promptInput{
		Title: "Flying ANA to Tokyo",
		Text: "Our itinerary had a layover in Taipei. This review covers the seat in detail; " +
			"my verdict and rating follow the full review below.",
	})
	if cls.Type != model.TypeReview {
		t.Fatalf("review-focused body should veto the conversion, got %s", cls.Type)
	}
}

func TestTripGuardrailOnlyAirlineAndFlight(t *testing.T) {
	cls := &model.Classification{
		Type:    model.TypeReview,
		Details: model.Details{ReviewedType: model.ReviewedHotel},
	}
	applyPostFixes(cls, promptInput{Title: "Trip Report: Park Hyatt"})
	if cls.Type != model.TypeReview {
		t.Fatalf("hotel reviews are exempt from the guardrail, got %s", cls.Type)
	}
}
