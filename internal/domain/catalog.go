// internal/domain/catalog.go
package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// Benefit is a header/description pair shown on card pages.
type Benefit struct {
	Header      string `json:"header"`
	Description string `json:"description"`
}

// CatalogCard is a card listed by the catalog API.
type CatalogCard struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	NickName        string    `json:"nick_name"`
	Rating          float64   `json:"rating"`
	Image           string    `json:"image"`
	JoiningFeeText  string    `json:"joining_fee_text"`
	AnnualSaving    string    `json:"annual_saving"`
	Commission      string    `json:"commission,omitempty"`
	CommissionType  string    `json:"commission_type,omitempty"`
	BKCommission    string    `json:"bk_commission,omitempty"`
	CardType        string    `json:"card_type"`
	BankID          int       `json:"bank_id"`
	ProductUSPs     []Benefit `json:"product_usps"`
	WelcomeBenefits []Benefit `json:"welcome_benefits,omitempty"`
	TravelBenefits  []Benefit `json:"travel_benefits,omitempty"`
	RewardBenefits  []Benefit `json:"reward_benefits,omitempty"`
}

// JoiningFee reads the leading integer of the fee text ("500 + GST" is 500).
// Text that does not start with a number counts as free.
func (c CatalogCard) JoiningFee() int {
	return leadingInt(c.JoiningFeeText)
}

// FormattedCommission renders the affiliate reward as the listing shows it,
// or "" when there is none.
func (c CatalogCard) FormattedCommission() string {
	return c.commission(" Reward")
}

// DetailCommission is the detail page wording: a flat reward is the bare
// amount.
func (c CatalogCard) DetailCommission() string {
	return c.commission("")
}

func (c CatalogCard) commission(flatSuffix string) string {
	if c.Commission == "" || c.Commission == "0" {
		return ""
	}
	if c.CommissionType == "percentage" {
		return c.Commission + "% Cashback"
	}
	return "₹" + c.Commission + flatSuffix
}

func leadingInt(s string) int {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// Fee ranges accepted by CatalogFilter.FeeRange.
const (
	FeeRangeAll    = "all"
	FeeRangeFree   = "free"
	FeeRangeLow    = "low"
	FeeRangeMedium = "medium"
	FeeRangeHigh   = "high"
)

// CatalogFilter narrows the catalog listing. Empty fields and "all" match
// everything.
type CatalogFilter struct {
	Search   string `form:"q" validate:"max=100"`
	Brand    string `form:"brand" validate:"max=100"`
	FeeRange string `form:"fee" validate:"omitempty,feerange"`
}

func (f CatalogFilter) Matches(c CatalogCard) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.NickName), q) {
			return false
		}
	}
	if f.Brand != "" && f.Brand != "all" {
		if !strings.Contains(strings.ToLower(c.CardType), strings.ToLower(f.Brand)) {
			return false
		}
	}
	if f.FeeRange != "" && f.FeeRange != FeeRangeAll {
		fee := c.JoiningFee()
		switch f.FeeRange {
		case FeeRangeFree:
			return fee == 0
		case FeeRangeLow:
			return fee > 0 && fee <= 1000
		case FeeRangeMedium:
			return fee > 1000 && fee <= 5000
		case FeeRangeHigh:
			return fee > 5000
		}
	}
	return true
}

// Apply keeps the matching cards in catalog order.
func (f CatalogFilter) Apply(cards []CatalogCard) []CatalogCard {
	out := make([]CatalogCard, 0, len(cards))
	for _, c := range cards {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// Brands lists the distinct non-empty card types in first-seen order.
func Brands(cards []CatalogCard) []string {
	seen := make(map[string]bool)
	brands := []string{}
	for _, c := range cards {
		if c.CardType == "" || seen[c.CardType] {
			continue
		}
		seen[c.CardType] = true
		brands = append(brands, c.CardType)
	}
	return brands
}
