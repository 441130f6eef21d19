// internal/domain/models.go
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UserPreferences is a visitor's travel profile as captured by the sliders.
// Values are plain scalars; nothing here is clamped, the recommendation API
// decides what is in range.
type UserPreferences struct {
	HotelsAnnual                      float64  `json:"hotels_annual" validate:"finite,gte=0"`
	FlightsAnnual                     float64  `json:"flights_annual" validate:"finite,gte=0"`
	DomesticLoungeUsageQuarterly      float64  `json:"domestic_lounge_usage_quarterly" validate:"finite,gte=0"`
	InternationalLoungeUsageQuarterly float64  `json:"international_lounge_usage_quarterly" validate:"finite,gte=0"`
	RailwayLoungeUsageQuarterly       *float64 `json:"railway_lounge_usage_quarterly,omitempty" validate:"omitempty,finite,gte=0"`
}

// DefaultPreferences are the slider positions the page starts with.
func DefaultPreferences() UserPreferences {
	return UserPreferences{
		HotelsAnnual:                      50000,
		FlightsAnnual:                     75000,
		DomesticLoungeUsageQuarterly:      10,
		InternationalLoungeUsageQuarterly: 5,
	}
}

// TravelBenefits is the lounge part of a scored card. Absent counts mean zero.
type TravelBenefits struct {
	DomesticLoungesUnlocked      *float64 `json:"domestic_lounges_unlocked,omitempty"`
	InternationalLoungesUnlocked *float64 `json:"international_lounges_unlocked,omitempty"`
}

// UnmarshalJSON reads each count leniently so one odd card cannot fail the
// whole list: numeric strings are parsed, true is 1, anything else is absent.
func (b *TravelBenefits) UnmarshalJSON(data []byte) error {
	var f struct {
		Domestic      json.RawMessage `json:"domestic_lounges_unlocked"`
		International json.RawMessage `json:"international_lounges_unlocked"`
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	b.DomesticLoungesUnlocked = loungeCount(f.Domestic)
	b.InternationalLoungesUnlocked = loungeCount(f.International)
	return nil
}

func loungeCount(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return &n
		}
		return nil
	}
	if bytes.Equal(raw, []byte("true")) {
		n = 1
		return &n
	}
	return nil
}

func (b TravelBenefits) Domestic() float64 {
	if b.DomesticLoungesUnlocked == nil {
		return 0
	}
	return *b.DomesticLoungesUnlocked
}

func (b TravelBenefits) International() float64 {
	if b.InternationalLoungesUnlocked == nil {
		return 0
	}
	return *b.InternationalLoungesUnlocked
}

// CardRecommendation is one entry of the recommendation API's savings list.
// Only the fields the lounge filter and the logs need are typed; the whole
// upstream object is kept and written back unchanged.
type CardRecommendation struct {
	CardName       string
	Name           string
	TravelBenefits *TravelBenefits

	raw json.RawMessage
}

type cardFields struct {
	CardName       string          `json:"card_name,omitempty"`
	Name           string          `json:"name,omitempty"`
	TravelBenefits json.RawMessage `json:"travel_benefits,omitempty"`
}

func (c *CardRecommendation) UnmarshalJSON(data []byte) error {
	var f cardFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	benefits, err := decodeTravelBenefits(f.TravelBenefits)
	if err != nil {
		return fmt.Errorf("travel_benefits: %w", err)
	}
	c.CardName = f.CardName
	c.Name = f.Name
	c.TravelBenefits = benefits
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (c CardRecommendation) MarshalJSON() ([]byte, error) {
	if len(c.raw) > 0 {
		return c.raw, nil
	}
	f := cardFields{CardName: c.CardName, Name: c.Name}
	if c.TravelBenefits != nil {
		b, err := json.Marshal(c.TravelBenefits)
		if err != nil {
			return nil, err
		}
		f.TravelBenefits = b
	}
	return json.Marshal(f)
}

// Field decodes one pass-through field of the upstream object into v.
// It reports false when the field is absent.
func (c CardRecommendation) Field(name string, v any) (bool, error) {
	if len(c.raw) == 0 {
		return false, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.raw, &fields); err != nil {
		return false, err
	}
	value, ok := fields[name]
	if !ok || bytes.Equal(value, []byte("null")) {
		return false, nil
	}
	return true, json.Unmarshal(value, v)
}

// DisplayName is the title the card is shown under.
func (c CardRecommendation) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.CardName != "":
		return c.CardName
	default:
		return "Premium Travel Card"
	}
}

// decodeTravelBenefits treats null, false, 0 and "" as "no benefits
// declared". An object is decoded; any other value counts as declared
// benefits with no lounge access.
func decodeTravelBenefits(raw json.RawMessage) (*TravelBenefits, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	switch string(trimmed) {
	case "null", "false", "0", `""`:
		return nil, nil
	}
	if trimmed[0] != '{' {
		return &TravelBenefits{}, nil
	}
	var b TravelBenefits
	if err := json.Unmarshal(trimmed, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// RecommendationStatus tells the page which notice to show.
type RecommendationStatus string

const (
	StatusMatched   RecommendationStatus = "matched"
	StatusPartial   RecommendationStatus = "partial"
	StatusNoMatches RecommendationStatus = "no_matches"
)

// Notice is the toast the page renders for a recommendation outcome.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// ErrorNotice is shown when the recommendation API could not be reached.
var ErrorNotice = Notice{
	Title:       "Oops! 😅",
	Description: "Something went wrong. Don't worry, let's try again!",
	Variant:     VariantDestructive,
}

type Recommendation struct {
	Status RecommendationStatus `json:"status"`
	Cards  []CardRecommendation `json:"cards"`
	Count  int                  `json:"count"`
	Limit  int                  `json:"limit"`
	Notice Notice               `json:"notice"`
}

// NewRecommendation classifies an already filtered and truncated card list.
// An empty list is a normal outcome with its own notice, not an error.
func NewRecommendation(cards []CardRecommendation, limit int) Recommendation {
	if cards == nil {
		cards = []CardRecommendation{}
	}
	rec := Recommendation{Cards: cards, Count: len(cards), Limit: limit}

	switch {
	case len(cards) == 0:
		rec.Status = StatusNoMatches
		rec.Notice = Notice{
			Title:       "No Matching Cards Found! 😔",
			Description: "Try adjusting your lounge requirements to see more options.",
			Variant:     VariantDestructive,
		}
	case limit > 0 && len(cards) < limit:
		rec.Status = StatusPartial
		rec.Notice = Notice{
			Title:       "Heads up! 👀",
			Description: fmt.Sprintf("Only %d %s match your lounge needs. Relax your criteria to see more options.", len(cards), plural(len(cards), "card", "cards")),
			Variant:     VariantDefault,
		}
	default:
		rec.Status = StatusMatched
		rec.Notice = Notice{
			Title:       "Boom! 💥",
			Description: fmt.Sprintf("Found %d perfect travel %s that match your lounge needs!", len(cards), plural(len(cards), "card", "cards")),
			Variant:     VariantDefault,
		}
	}
	return rec
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Lead is one recorded recommendation request.
type Lead struct {
	ID           int64                `json:"id"`
	Preferences  UserPreferences      `json:"preferences"`
	Status       RecommendationStatus `json:"status"`
	MatchedCount int                  `json:"matched_count"`
	Source       string               `json:"source"`
	CreatedAt    time.Time            `json:"created_at"`
}

// LeadStats summarises recorded leads per outcome.
type LeadStats struct {
	Total     int64 `json:"total"`
	Matched   int64 `json:"matched"`
	Partial   int64 `json:"partial"`
	NoMatches int64 `json:"no_matches"`
}
