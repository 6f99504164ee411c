package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/baserate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type stubSource struct {
	markets []domain.Market
	err     error
}

func (s *stubSource) GetMarkets(_ context.Context) ([]domain.Market, error) {
	return s.markets, s.err
}

type stubBooks struct {
	books     map[string]domain.MarketBook
	requested []domain.Market
	err       error
}

func (s *stubBooks) FetchOrderBooks(_ context.Context, markets []domain.Market) (map[string]domain.MarketBook, error) {
	s.requested = append(s.requested, markets...)
	return s.books, s.err
}

func testMarket(id string, yesPrice, fairRate float64) domain.Market {
	return domain.Market{
		ID:             id,
		Platform:       domain.PlatformKalshi,
		Title:          "Test market " + id,
		ResolutionDate: testNow.Add(30 * 24 * time.Hour),
		YesPrice:       yesPrice,
		NoPrice:        100 - yesPrice,
		BaseRate:       &domain.BaseRate{Rate: fairRate, Unit: domain.UnitAbsolute},
	}
}

func newTestAnalyzer(src *stubSource, books *stubBooks) *Analyzer {
	clock := func() time.Time { return testNow }
	if books == nil {
		// nil explícito: un *stubBooks nil dentro de la interfaz no sería nil
		return NewAnalyzer(src, nil).WithClock(clock)
	}
	return NewAnalyzer(src, books).WithClock(clock)
}

func TestAnalyzeMarket_YesOpportunity(t *testing.T) {
	// fair=50%, mercado=30% → YES infravalorado
	m := testMarket("m1", 30, 0.5)

	a := newTestAnalyzer(&stubSource{}, nil)
	opps := a.AnalyzeMarket(testNow, m)

	require.Len(t, opps, 1)
	opp := opps[0]
	assert.Equal(t, domain.SideYes, opp.Side)
	assert.InDelta(t, 0.20, opp.Edge, 0.001)
	assert.Greater(t, opp.ExpectedValue, 1.0)
	assert.Greater(t, opp.KellyFraction, 0.0)
	assert.Equal(t, 30.0, opp.RecommendedPrice)
}

func TestAnalyzeMarket_NoOpportunity(t *testing.T) {
	// fair=20%, mercado=50% → NO infravalorado
	m := testMarket("m1", 50, 0.2)

	a := newTestAnalyzer(&stubSource{}, nil)
	opps := a.AnalyzeMarket(testNow, m)

	require.Len(t, opps, 1)
	opp := opps[0]
	assert.Equal(t, domain.SideNo, opp.Side)
	assert.InDelta(t, 0.30, opp.Edge, 0.001)
	assert.InDelta(t, 0.80, opp.FairProbability, 0.001)
	assert.Greater(t, opp.ExpectedValue, 1.0)
	assert.Equal(t, 50.0, opp.RecommendedPrice)
}

func TestAnalyzeMarket_FairlyPriced(t *testing.T) {
	m := testMarket("m1", 50, 0.5)

	a := newTestAnalyzer(&stubSource{}, nil)
	assert.Empty(t, a.AnalyzeMarket(testNow, m), "sin edge no hay oportunidad")
}

func TestAnalyzeMarket_WithoutBaseRate(t *testing.T) {
	m := testMarket("m1", 30, 0.5)
	m.BaseRate = nil

	a := newTestAnalyzer(&stubSource{}, nil)
	assert.Empty(t, a.AnalyzeMarket(testNow, m))
}

func TestAnalyzeMarket_ZeroPriceStillOpportunity(t *testing.T) {
	// Precio YES=0: edge positivo pero EV indefinido → registro con EV=0
	m := testMarket("m1", 0, 0.5)

	a := newTestAnalyzer(&stubSource{}, nil)
	opps := a.AnalyzeMarket(testNow, m)

	require.Len(t, opps, 1)
	assert.Equal(t, domain.SideYes, opps[0].Side)
	assert.Equal(t, 0.0, opps[0].ExpectedValue)
}

func TestFindOpportunities_MinEdge(t *testing.T) {
	m5 := testMarket("m5pct", 30, 0.35)   // 5% de edge
	m20 := testMarket("m20pct", 30, 0.50) // 20% de edge

	a := newTestAnalyzer(&stubSource{markets: []domain.Market{m5, m20}}, nil)

	criteria := Criteria{MinEdge: 0.10}
	opps, err := a.FindOpportunities(context.Background(), criteria, 0)

	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "m20pct", opps[0].Market.ID)
}

func TestFindOpportunities_MinEV(t *testing.T) {
	high := testMarket("high", 30, 0.6) // EV = 2.0
	low := testMarket("low", 30, 0.35)  // EV ≈ 1.17

	a := newTestAnalyzer(&stubSource{markets: []domain.Market{high, low}}, nil)

	opps, err := a.FindOpportunities(context.Background(), Criteria{MinEV: 1.5}, 0)

	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, "high", opps[0].Market.ID)
}

func TestFindOpportunities_ByPlatform(t *testing.T) {
	kalshi := testMarket("k1", 30, 0.5)
	poly := testMarket("p1", 30, 0.5)
	poly.Platform = domain.PlatformPolymarket

	a := newTestAnalyzer(&stubSource{markets: []domain.Market{kalshi, poly}}, nil)

	criteria := Criteria{Platforms: []domain.Platform{domain.PlatformKalshi}}
	opps, err := a.FindOpportunities(context.Background(), criteria, 0)

	require.NoError(t, err)
	require.NotEmpty(t, opps)
	for _, o := range opps {
		assert.Equal(t, domain.PlatformKalshi, o.Market.Platform)
	}
}

func TestFindOpportunities_KellyRange(t *testing.T) {
	highKelly := testMarket("hk", 20, 0.6)
	lowKelly := testMarket("lk", 45, 0.5)

	a := newTestAnalyzer(&stubSource{markets: []domain.Market{highKelly, lowKelly}}, nil)

	opps, err := a.FindOpportunities(context.Background(), Criteria{MaxKelly: 0.20}, 0)

	require.NoError(t, err)
	for _, o := range opps {
		assert.LessOrEqual(t, o.KellyFraction, 0.20)
	}
}

func TestFindOpportunities_QuantityFloors(t *testing.T) {
	m := testMarket("m1", 30, 0.5)
	books := &stubBooks{books: map[string]domain.MarketBook{
		"m1": {Yes: domain.OrderBook{Asks: []domain.BookLevel{{Price: 30, Quantity: 50}}}},
	}}

	a := newTestAnalyzer(&stubSource{markets: []domain.Market{m}}, books)

	// Gana el suelo más estricto: max(criteria 10, caller 100) = 100 > 50 disponible
	opps, err := a.FindOpportunities(context.Background(), Criteria{MinQuantity: 10}, 100)
	require.NoError(t, err)
	assert.Empty(t, opps)

	// Con ambos suelos desactivados (0), la liquidez no filtra
	opps, err = a.FindOpportunities(context.Background(), Criteria{}, 0)
	require.NoError(t, err)
	assert.Len(t, opps, 1)
	assert.Equal(t, 50.0, opps[0].AvailableQuantity)
}

func TestFindOpportunities_BooksReceiveFullMarkets(t *testing.T) {
	kalshi := testMarket("k1", 30, 0.5)
	poly := testMarket("0xp1", 30, 0.5)
	poly.Platform = domain.PlatformPolymarket

	books := &stubBooks{}
	a := newTestAnalyzer(&stubSource{markets: []domain.Market{kalshi, poly}}, books)

	_, err := a.FindOpportunities(context.Background(), Criteria{}, 0)
	require.NoError(t, err)

	// El provider recibe los mercados con su plataforma, no IDs pelados:
	// así puede saltarse los que no sirve sin gastar requests
	require.Len(t, books.requested, 2)
	assert.Equal(t, domain.PlatformKalshi, books.requested[0].Platform)
	assert.Equal(t, domain.PlatformPolymarket, books.requested[1].Platform)
}

func TestFindOpportunities_BookErrorDegrades(t *testing.T) {
	m := testMarket("m1", 30, 0.5)
	books := &stubBooks{err: context.DeadlineExceeded}

	a := newTestAnalyzer(&stubSource{markets: []domain.Market{m}}, books)

	// Fallo de books → cantidad desconocida, el pase sigue adelante
	opps, err := a.FindOpportunities(context.Background(), Criteria{}, 100)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, domain.QuantityUnlimited, opps[0].AvailableQuantity)
}

func TestFindOpportunities_SourceError(t *testing.T) {
	a := newTestAnalyzer(&stubSource{err: context.DeadlineExceeded}, nil)

	_, err := a.FindOpportunities(context.Background(), Criteria{}, 0)
	assert.Error(t, err)
}
