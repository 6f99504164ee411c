package scanner

import (
	"testing"

	"github.com/alejandrodnm/baserate/internal/domain"
	"github.com/stretchr/testify/assert"
)

func opp(edge, ev, kelly, quantity float64, platform domain.Platform) domain.Opportunity {
	return domain.Opportunity{
		Market:            domain.Market{ID: "m", Platform: platform},
		Side:              domain.SideYes,
		Edge:              edge,
		ExpectedValue:     ev,
		KellyFraction:     kelly,
		AvailableQuantity: quantity,
	}
}

func TestCriteria_Matches_Defaults(t *testing.T) {
	c := DefaultCriteria()

	assert.True(t, c.matches(opp(0.10, 1.5, 0.2, domain.QuantityUnlimited, domain.PlatformKalshi), 0))
	assert.False(t, c.matches(opp(0.01, 1.5, 0.2, domain.QuantityUnlimited, domain.PlatformKalshi), 0),
		"edge por debajo del mínimo")
	assert.False(t, c.matches(opp(0.10, 1.05, 0.2, domain.QuantityUnlimited, domain.PlatformKalshi), 0),
		"EV por debajo del mínimo")
}

func TestCriteria_Matches_KellyWindow(t *testing.T) {
	c := Criteria{MinKelly: 0.05, MaxKelly: 0.25}

	assert.False(t, c.matches(opp(0.2, 1.5, 0.01, domain.QuantityUnlimited, domain.PlatformKalshi), 0))
	assert.True(t, c.matches(opp(0.2, 1.5, 0.10, domain.QuantityUnlimited, domain.PlatformKalshi), 0))
	assert.False(t, c.matches(opp(0.2, 1.5, 0.50, domain.QuantityUnlimited, domain.PlatformKalshi), 0))
}

func TestCriteria_Matches_MaxKellyZeroDisablesCeiling(t *testing.T) {
	c := Criteria{}
	assert.True(t, c.matches(opp(0.2, 1.5, 3.0, domain.QuantityUnlimited, domain.PlatformKalshi), 0))
}

func TestCriteria_Matches_QuantityFloorStricterWins(t *testing.T) {
	c := Criteria{MinQuantity: 10}

	// max(10, 100) = 100 > 40 → fuera
	assert.False(t, c.matches(opp(0.2, 1.5, 0.1, 40, domain.PlatformKalshi), 100))
	// max(10, 0) = 10 ≤ 40 → dentro
	assert.True(t, c.matches(opp(0.2, 1.5, 0.1, 40, domain.PlatformKalshi), 0))
}

func TestCriteria_Matches_PlatformRestriction(t *testing.T) {
	c := Criteria{Platforms: []domain.Platform{domain.PlatformPolymarket}}

	assert.False(t, c.matches(opp(0.2, 1.5, 0.1, domain.QuantityUnlimited, domain.PlatformKalshi), 0))
	assert.True(t, c.matches(opp(0.2, 1.5, 0.1, domain.QuantityUnlimited, domain.PlatformPolymarket), 0))
}

func TestCriteria_Matches_OutOfRangeYieldsEmpty(t *testing.T) {
	// Configuración absurda: no se rechaza, simplemente no matchea nada sensato
	c := Criteria{MinEdge: 2.0}
	assert.False(t, c.matches(opp(0.5, 5.0, 0.9, domain.QuantityUnlimited, domain.PlatformKalshi), 0))
}
