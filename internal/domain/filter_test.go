// internal/domain/filter_test.go
package domain

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lounges(domestic, international float64) *TravelBenefits {
	return &TravelBenefits{DomesticLoungesUnlocked: &domestic, InternationalLoungesUnlocked: &international}
}

func card(name string, benefits *TravelBenefits) CardRecommendation {
	return CardRecommendation{CardName: name, TravelBenefits: benefits}
}

func prefs(domestic, international float64) UserPreferences {
	p := DefaultPreferences()
	p.DomesticLoungeUsageQuarterly = domestic
	p.InternationalLoungeUsageQuarterly = international
	return p
}

func names(cards []CardRecommendation) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.CardName
	}
	return out
}

func TestFilterByLoungeRequirements_MissingBenefitsFailClosed(t *testing.T) {
	cards := []CardRecommendation{
		card("card1", nil),
		card("card2", lounges(0, 0)),
	}

	got := FilterByLoungeRequirements(cards, prefs(0, 0))

	assert.Equal(t, []string{"card2"}, names(got))
}

func TestFilterByLoungeRequirements_PreservesRanking(t *testing.T) {
	var cards []CardRecommendation
	for i := 1; i <= 10; i++ {
		b := lounges(1, 0)
		if i == 2 || i == 5 || i == 9 {
			b = lounges(12, 6)
		}
		cards = append(cards, card(fmt.Sprintf("card%d", i), b))
	}

	got := FilterByLoungeRequirements(cards, prefs(10, 5))

	assert.Equal(t, []string{"card2", "card5", "card9"}, names(got))
}

func TestFilterByLoungeRequirements_BothDimensionsRequired(t *testing.T) {
	cards := []CardRecommendation{
		card("a", lounges(20, 0)),
		card("b", lounges(15, 2)),
		card("c", lounges(10, 4)),
	}

	got := FilterByLoungeRequirements(cards, prefs(10, 5))

	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, StatusNoMatches, NewRecommendation(got, 6).Status)
}

func TestFilterByLoungeRequirements_EmptyInput(t *testing.T) {
	assert.Empty(t, FilterByLoungeRequirements(nil, prefs(3, 3)))
	assert.Empty(t, FilterByLoungeRequirements([]CardRecommendation{}, prefs(0, 0)))
}

func TestFilterByLoungeRequirements_NoUpperBound(t *testing.T) {
	cards := []CardRecommendation{card("generous", lounges(1000, 1000))}

	got := FilterByLoungeRequirements(cards, prefs(1, 1))

	assert.Len(t, got, 1)
}

func TestFilterByLoungeRequirements_MissingCountDefaultsToZero(t *testing.T) {
	var cards []CardRecommendation
	require.NoError(t, json.Unmarshal([]byte(`[
		{"card_name": "domestic only", "travel_benefits": {"domestic_lounges_unlocked": 3}}
	]`), &cards))

	require.NotNil(t, cards[0].TravelBenefits)
	assert.Equal(t, float64(0), cards[0].TravelBenefits.International())
	assert.Len(t, FilterByLoungeRequirements(cards, prefs(3, 0)), 1)
	assert.Empty(t, FilterByLoungeRequirements(cards, prefs(3, 1)))
}

func TestTravelBenefits_LenientCounts(t *testing.T) {
	var cards []CardRecommendation
	require.NoError(t, json.Unmarshal([]byte(`[
		{"card_name": "string count", "travel_benefits": {"domestic_lounges_unlocked": "4", "international_lounges_unlocked": 2}},
		{"card_name": "bool counts", "travel_benefits": {"domestic_lounges_unlocked": false, "international_lounges_unlocked": true}},
		{"card_name": "junk", "travel_benefits": {"domestic_lounges_unlocked": "lots", "international_lounges_unlocked": [1]}}
	]`), &cards))
	require.Len(t, cards, 3)

	assert.Equal(t, 4.0, cards[0].TravelBenefits.Domestic())
	assert.Equal(t, 2.0, cards[0].TravelBenefits.International())
	assert.Equal(t, 0.0, cards[1].TravelBenefits.Domestic())
	assert.Equal(t, 1.0, cards[1].TravelBenefits.International())
	assert.Nil(t, cards[2].TravelBenefits.DomesticLoungesUnlocked)
	assert.Nil(t, cards[2].TravelBenefits.InternationalLoungesUnlocked)

	got := FilterByLoungeRequirements(cards, prefs(3, 1))
	require.Len(t, got, 1)
	assert.Equal(t, "string count", got[0].CardName)
}

func TestFilterByLoungeRequirements_MembershipAndOrder(t *testing.T) {
	var cards []CardRecommendation
	for i := 0; i < 40; i++ {
		var b *TravelBenefits
		if i%7 != 0 {
			b = lounges(float64(i%5), float64(i%3))
		}
		cards = append(cards, card(fmt.Sprintf("card%02d", i), b))
	}

	for d := 0.0; d <= 5; d++ {
		for in := 0.0; in <= 3; in++ {
			p := prefs(d, in)
			got := FilterByLoungeRequirements(cards, p)

			var want []string
			for _, c := range cards {
				if c.TravelBenefits != nil && c.TravelBenefits.Domestic() >= d && c.TravelBenefits.International() >= in {
					want = append(want, c.CardName)
				}
			}
			if want == nil {
				want = []string{}
			}
			assert.Equal(t, want, names(got), "domestic=%v international=%v", d, in)

			again := FilterByLoungeRequirements(got, p)
			assert.Equal(t, names(got), names(again), "filter must be idempotent")

			for _, n := range []int{0, 1, 6, 100} {
				truncated := Truncate(got, n)
				if n <= 0 {
					assert.Len(t, truncated, len(got))
					continue
				}
				assert.Len(t, truncated, min(n, len(got)))
				assert.Equal(t, names(got)[:len(truncated)], names(truncated))
			}
		}
	}
}

func TestCardRecommendation_RoundTripsOpaqueFields(t *testing.T) {
	in := `{"card_name":"Atlas","joining_fees":5000,"rating":4.6,"commissin":"1500","travel_benefits":{"domestic_lounges_unlocked":8,"international_lounges_unlocked":4}}`

	var c CardRecommendation
	require.NoError(t, json.Unmarshal([]byte(in), &c))
	out, err := json.Marshal(c)
	require.NoError(t, err)

	assert.JSONEq(t, in, string(out))
	assert.Equal(t, float64(8), c.TravelBenefits.Domestic())

	var fee int
	ok, err := c.Field("joining_fees", &fee)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5000, fee)

	ok, err = c.Field("image", &fee)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCardRecommendation_TravelBenefitsShapes(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		declared bool
	}{
		{"absent", `{"card_name":"x"}`, false},
		{"null", `{"travel_benefits":null}`, false},
		{"false", `{"travel_benefits":false}`, false},
		{"empty object", `{"travel_benefits":{}}`, true},
		{"list", `{"travel_benefits":[{"header":"Lounge","description":"8 visits"}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c CardRecommendation
			require.NoError(t, json.Unmarshal([]byte(tt.json), &c))
			assert.Equal(t, tt.declared, c.TravelBenefits != nil)
		})
	}
}

func TestCardRecommendation_DisplayName(t *testing.T) {
	assert.Equal(t, "Fancy", CardRecommendation{Name: "Fancy", CardName: "fancy_v2"}.DisplayName())
	assert.Equal(t, "fancy_v2", CardRecommendation{CardName: "fancy_v2"}.DisplayName())
	assert.Equal(t, "Premium Travel Card", CardRecommendation{}.DisplayName())
}

func TestNewRecommendation(t *testing.T) {
	six := make([]CardRecommendation, 6)
	three := make([]CardRecommendation, 3)

	matched := NewRecommendation(six, 6)
	assert.Equal(t, StatusMatched, matched.Status)
	assert.Equal(t, "Found 6 perfect travel cards that match your lounge needs!", matched.Notice.Description)

	partial := NewRecommendation(three, 6)
	assert.Equal(t, StatusPartial, partial.Status)
	assert.Equal(t, 3, partial.Count)
	assert.Contains(t, partial.Notice.Description, "Only 3 cards")

	none := NewRecommendation(nil, 6)
	assert.Equal(t, StatusNoMatches, none.Status)
	assert.NotNil(t, none.Cards)
	assert.Equal(t, VariantDestructive, none.Notice.Variant)
}
