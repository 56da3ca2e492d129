package packs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SpaBookingService/internal/domain"
)

func TestSuggest_OneMissingCategory(t *testing.T) {
	rules := []*domain.DiscountRule{
		rule(1, 0, 45000, domain.CategoryLodging, domain.CategoryHotTub),
		rule(2, 0, 50000, domain.CategoryLodging, domain.CategoryMassage),
		rule(3, 0, 90000, domain.CategoryLodging, domain.CategoryHotTub, domain.CategoryMassage),
		rule(4, 0, 10000, domain.CategoryLodging, domain.CategoryDecoration),
	}
	cart := domain.Cart{Lines: []domain.CartLineItem{line(domain.CategoryLodging, monday, 2)}}

	got := Suggest(cart, rules, monday)

	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, int64(2), got[0].RuleID)
	assert.Equal(t, domain.CategoryMassage, got[0].MissingCategory)
	assert.Equal(t, int64(1), got[1].RuleID)
	assert.Contains(t, got[1].Message, "HOT_TUB")
}

func TestSuggest_SkipsInactiveAndSatisfied(t *testing.T) {
	inactive := rule(1, 0, 45000, domain.CategoryLodging, domain.CategoryHotTub)
	inactive.Active = false
	satisfied := rule(2, 0, 30000, domain.CategoryLodging)

	cart := domain.Cart{Lines: []domain.CartLineItem{line(domain.CategoryLodging, monday, 2)}}

	assert.Empty(t, Suggest(cart, []*domain.DiscountRule{inactive, satisfied}, monday))
}

func TestSuggest_EmptyCart(t *testing.T) {
	rules := []*domain.DiscountRule{rule(1, 0, 45000, domain.CategoryHotTub)}

	got := Suggest(domain.Cart{}, rules, monday)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}
