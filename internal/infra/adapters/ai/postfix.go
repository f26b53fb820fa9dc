package ai

import (
	"strings"

	"schema-ai-service/internal/domain/model"
	"schema-ai-service/internal/textutil"
)

// Post-classification fixes shared by all providers: entity decoding, the
// ItemList hint fallback, and the Review→Trip guardrail.
func applyPostFixes(cls *model.Classification, in promptInput) {
	cls.Summary = textutil.Decode(cls.Summary)
	cls.Justification = textutil.Decode(cls.Justification)

	if cls.Type == model.TypeItemList && len(cls.Details.ItemList) == 0 && len(in.Hints) > 0 {
		cls.Details.ItemList = in.Hints
	}

	applyTripGuardrail(cls, in.Title, in.Text)
}

var tripSignals = []string{
	"itinerary", "trip report", "day 1", "day one", "first leg",
	"stopover", "layover", "connecting flight", "segment",
}

// applyTripGuardrail reclassifies Airline/Flight "reviews" that are really
// leg-by-leg trip narratives. Titles decide when they can; otherwise at
// least two distinct trip signals in the body are needed, and a clear review
// focus vetoes the switch.
func applyTripGuardrail(cls *model.Classification, title, text string) {
	if cls.Type != model.TypeReview {
		return
	}
	switch cls.Details.ReviewedType {
	case model.ReviewedAirline, model.ReviewedFlight:
	default:
		return
	}

	titleLower := strings.ToLower(title)
	if strings.Contains(titleLower, "trip report") || strings.Contains(titleLower, "itinerary") {
		convertToTrip(cls, title)
		return
	}
	if strings.Contains(titleLower, "review") {
		return
	}

	textLower := strings.ToLower(text)
	signals := 0
	for _, s := range tripSignals {
		if strings.Contains(textLower, s) {
			signals++
		}
	}
	if signals >= 2 && !reviewFocused(textLower) {
		convertToTrip(cls, title)
	}
}

// reviewFocused detects a body that keeps returning to verdict language.
func reviewFocused(textLower string) bool {
	count := strings.Count(textLower, "review") +
		strings.Count(textLower, "verdict") +
		strings.Count(textLower, "rating")
	return count >= 3
}

func convertToTrip(cls *model.Classification, title string) {
	cls.Type = model.TypeTrip
	if cls.Details.TripName == "" {
		cls.Details.TripName = title
	}
}
