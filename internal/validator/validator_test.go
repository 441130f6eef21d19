// internal/validator/validator_test.go
package validator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"travel-cards/internal/domain"
)

func TestFinite(t *testing.T) {
	p := domain.DefaultPreferences()
	assert.NoError(t, Validate.Struct(p))

	p.HotelsAnnual = math.Inf(1)
	assert.Error(t, Validate.Struct(p))

	p = domain.DefaultPreferences()
	p.FlightsAnnual = math.NaN()
	assert.Error(t, Validate.Struct(p))

	p = domain.DefaultPreferences()
	p.DomesticLoungeUsageQuarterly = -1
	assert.Error(t, Validate.Struct(p))

	railway := math.Inf(-1)
	p = domain.DefaultPreferences()
	p.RailwayLoungeUsageQuarterly = &railway
	assert.Error(t, Validate.Struct(p))
}

func TestFilterTags(t *testing.T) {
	assert.NoError(t, Validate.Struct(domain.CatalogFilter{FeeRange: "medium"}))
	assert.Error(t, Validate.Struct(domain.CatalogFilter{FeeRange: "cheap"}))

	for _, ok := range []string{"", "all", "0-5", "16-100", "12", "12-"} {
		assert.NoError(t, Validate.Struct(domain.OfferFilter{Cashback: ok}), ok)
	}
	for _, bad := range []string{"lots", "-5", "5--6"} {
		assert.Error(t, Validate.Struct(domain.OfferFilter{Cashback: bad}), bad)
	}
}

func TestNotBlank(t *testing.T) {
	type msg struct {
		Text string `json:"text" validate:"notblank"`
	}
	assert.NoError(t, Validate.Struct(msg{Text: " hi "}))
	assert.Error(t, Validate.Struct(msg{Text: " \t\n"}))
}
