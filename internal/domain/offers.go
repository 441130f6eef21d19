// internal/domain/offers.go
package domain

import (
	"strconv"
	"strings"
)

// TravelOffer is a partner cashback deal.
type TravelOffer struct {
	ID                 int      `json:"id"`
	BrandName          string   `json:"brand_name"`
	Cashback           string   `json:"cashback"`
	CashbackPercentage *float64 `json:"cashback_percentage,omitempty"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	TermsLink          string   `json:"terms_link"`
	FlatOff            string   `json:"flat_off,omitempty"`
}

func (o TravelOffer) Percentage() float64 {
	if o.CashbackPercentage == nil {
		return 0
	}
	return *o.CashbackPercentage
}

// OfferFilter narrows the offers page. Cashback is a "min-max" range in
// percent ("6-10"); a missing max means 100.
type OfferFilter struct {
	Search   string `form:"q" validate:"max=100"`
	Brand    string `form:"brand" validate:"max=100"`
	Cashback string `form:"cashback" validate:"omitempty,cashbackrange"`
	Category string `form:"category" validate:"max=50"`
}

// CashbackBounds parses the cashback range. ok is false when no range
// filter applies.
func (f OfferFilter) CashbackBounds() (lo, hi float64, ok bool) {
	if f.Cashback == "" || f.Cashback == "all" {
		return 0, 0, false
	}
	minStr, maxStr, hasMax := strings.Cut(f.Cashback, "-")
	lo, err := strconv.ParseFloat(strings.TrimSpace(minStr), 64)
	if err != nil {
		return 0, 0, false
	}
	hi = 100
	if hasMax && strings.TrimSpace(maxStr) != "" {
		if hi, err = strconv.ParseFloat(strings.TrimSpace(maxStr), 64); err != nil {
			return 0, 0, false
		}
	}
	return lo, hi, true
}

func (f OfferFilter) Matches(o TravelOffer) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(o.BrandName), q) &&
			!strings.Contains(strings.ToLower(o.Title), q) &&
			!strings.Contains(strings.ToLower(o.Description), q) {
			return false
		}
	}
	if f.Brand != "" && f.Brand != "all" {
		if !strings.Contains(strings.ToLower(o.BrandName), strings.ToLower(f.Brand)) {
			return false
		}
	}
	if lo, hi, ok := f.CashbackBounds(); ok {
		p := o.Percentage()
		if p < lo || p > hi {
			return false
		}
	}
	if f.Category != "" && f.Category != "all" && o.Category != f.Category {
		return false
	}
	return true
}

func (f OfferFilter) Apply(offers []TravelOffer) []TravelOffer {
	out := make([]TravelOffer, 0, len(offers))
	for _, o := range offers {
		if f.Matches(o) {
			out = append(out, o)
		}
	}
	return out
}

func pct(v float64) *float64 { return &v }

// DefaultOffers is the offer list the site launches with. The offers
// migration seeds the same rows.
func DefaultOffers() []TravelOffer {
	return []TravelOffer{
		{ID: 1, BrandName: "MakeMyTrip", Cashback: "12%", CashbackPercentage: pct(12), Title: "Flight Bookings",
			Description: "Score up to 12% cashback on domestic and international flights - because every rupee saved is a rupee earned for your next adventure! ✈️",
			Category:    "flights", TermsLink: "#"},
		{ID: 2, BrandName: "Booking.com", Cashback: "8%", CashbackPercentage: pct(8), Title: "Hotel Reservations",
			Description: "Get 8% cashback on hotel bookings worldwide. From budget stays to luxury resorts - we've got your back! 🏨",
			Category:    "hotels", TermsLink: "#"},
		{ID: 3, BrandName: "Agoda", Cashback: "10%", CashbackPercentage: pct(10), Title: "Accommodation Deals",
			Description: "Save 10% on your next hotel or resort booking. More savings = more travel experiences! 🌴",
			Category:    "hotels", TermsLink: "#"},
		{ID: 4, BrandName: "Cleartrip", Cashback: "15%", CashbackPercentage: pct(15), Title: "Travel Packages",
			Description: "Special cashback on complete travel packages. Let us handle the planning while you save big! 📦",
			Category:    "packages", TermsLink: "#", FlatOff: "2000"},
		{ID: 5, BrandName: "Goibibo", Cashback: "9%", CashbackPercentage: pct(9), Title: "Flight + Hotel Combos",
			Description: "Combo deals with extra cashback on flight + hotel bookings. Double the savings, double the fun! 🎯",
			Category:    "combo", TermsLink: "#"},
		{ID: 6, BrandName: "Yatra", Cashback: "7%", CashbackPercentage: pct(7), Title: "Bus & Train Tickets",
			Description: "Cashback on bus and train ticket bookings. Every journey counts, every saving matters! 🚆",
			Category:    "transport", TermsLink: "#"},
		{ID: 7, BrandName: "Expedia", Cashback: "11%", CashbackPercentage: pct(11), Title: "International Hotels",
			Description: "Premium cashback on international hotel bookings. Make your overseas trips more affordable! 🌍",
			Category:    "hotels", TermsLink: "#"},
		{ID: 8, BrandName: "Trivago", Cashback: "6%", CashbackPercentage: pct(6), Title: "Hotel Comparisons",
			Description: "Find the best hotel deals and earn cashback too. Compare, book, and save! 🔍",
			Category:    "hotels", TermsLink: "#", FlatOff: "1500"},
	}
}
