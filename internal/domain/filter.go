// internal/domain/filter.go
package domain

import "log/slog"

// FilterByLoungeRequirements keeps the cards whose lounge access covers both
// the domestic and the international requirement. The input order is the
// recommendation API's ranking and is preserved. A card without travel
// benefits never passes, even when nothing is required.
//
// Requiring both dimensions can leave nothing even when one of them is
// generously covered; that is the product's current policy.
func FilterByLoungeRequirements(cards []CardRecommendation, prefs UserPreferences) []CardRecommendation {
	requiredDomestic := prefs.DomesticLoungeUsageQuarterly
	requiredInternational := prefs.InternationalLoungeUsageQuarterly

	filtered := make([]CardRecommendation, 0, len(cards))
	for i, card := range cards {
		if card.TravelBenefits == nil {
			slog.Debug("card excluded: no travel benefits", "index", i, "card", card.DisplayName())
			continue
		}

		offeredDomestic := card.TravelBenefits.Domestic()
		offeredInternational := card.TravelBenefits.International()

		if offeredDomestic >= requiredDomestic && offeredInternational >= requiredInternational {
			filtered = append(filtered, card)
			continue
		}
		slog.Debug("card excluded: lounge requirements not met",
			"index", i,
			"card", card.DisplayName(),
			"offered_domestic", offeredDomestic,
			"offered_international", offeredInternational,
		)
	}

	slog.Debug("lounge filter applied",
		"required_domestic", requiredDomestic,
		"required_international", requiredInternational,
		"received", len(cards),
		"passed", len(filtered),
	)
	return filtered
}

// Truncate returns at most the first n cards. n <= 0 means no limit.
func Truncate(cards []CardRecommendation, n int) []CardRecommendation {
	if n <= 0 || len(cards) <= n {
		return cards
	}
	return cards[:n]
}
