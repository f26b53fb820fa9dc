package ai

import (
	"fmt"
	"strings"

	"schema-ai-service/internal/domain/model"
)

// systemPrompt instructs the model to classify the article and extract the
// details the graph builder needs. Operator overrides pin the type up front.
func systemPrompt(forcedType, forcedReviewedType string) string {
	var b strings.Builder
	b.WriteString("You are a structured-data analyst for a travel publishing site. ")
	b.WriteString("Classify the article into exactly one schema.org type and extract supporting details.\n\n")
	b.WriteString("Allowed types: " + strings.Join(model.SupportedTypes(), ", ") + ".\n")
	b.WriteString("For Review, also pick reviewed_type from: Hotel, Restaurant, LocalBusiness (airport lounges), Airline, Flight, SoftwareApplication, CreditCard, FinancialProduct, Place, Product.\n\n")
	b.WriteString("Respond with JSON only, no prose. The object has keys: type, justification, summary, missing_info, details.\n")
	b.WriteString("- justification: one sentence on why the type fits.\n")
	b.WriteString("- summary: two to three factual sentences describing the article.\n")
	b.WriteString("- missing_info: facts you looked for but could not find (empty array if none).\n")
	b.WriteString("- details: only fields supported by the article text. Never invent addresses, coordinates, ratings, or prices.\n")
	b.WriteString("- An article that narrates a journey leg by leg is a Trip, not a Review, even when opinions appear.\n")
	b.WriteString("- Lists only qualify as ItemList when the list is the point of the article.\n")

	if forcedType != "" && forcedType != "Auto" {
		fmt.Fprintf(&b, "\nThe editorial team fixed the type to %s. Do not choose another type; extract details for %s only.\n", forcedType, forcedType)
	}
	if forcedReviewedType != "" {
		fmt.Fprintf(&b, "\nThe editorial team fixed reviewed_type to %s.\n", forcedReviewedType)
	}
	return b.String()
}

func userMessage(in promptInput) string {
	var b strings.Builder
	b.WriteString("TITLE: " + in.Title + "\n\n")
	b.WriteString("ARTICLE TEXT:\n" + in.Text + "\n")
	if in.HTML != "" {
		b.WriteString("\nARTICLE MARKUP (structural subset):\n" + in.HTML + "\n")
	}
	if len(in.Hints) > 0 {
		b.WriteString("\nLISTS DETECTED IN THE ARTICLE:\n")
		for _, h := range in.Hints {
			if h.URL != "" {
				fmt.Fprintf(&b, "- %s (%s)\n", h.Name, h.URL)
			} else {
				fmt.Fprintf(&b, "- %s\n", h.Name)
			}
		}
	}
	return b.String()
}
