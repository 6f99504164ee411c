package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/alejandrodnm/baserate/internal/domain"
	"github.com/alejandrodnm/baserate/internal/ports"
)

// Analyzer escanea mercados contra sus base rates y produce oportunidades.
// El reloj se inyecta para que cada pase sea una función pura de sus inputs.
type Analyzer struct {
	source ports.MarketSource
	books  ports.BookProvider // opcional: nil = liquidez desconocida
	now    func() time.Time
}

// NewAnalyzer crea un Analyzer sobre la fuente de mercados dada.
// books puede ser nil; en ese caso AvailableQuantity queda sin límite.
func NewAnalyzer(source ports.MarketSource, books ports.BookProvider) *Analyzer {
	return &Analyzer{
		source: source,
		books:  books,
		now:    time.Now,
	}
}

// WithClock fija el reloj del analyzer. Para tests.
func (a *Analyzer) WithClock(now func() time.Time) *Analyzer {
	a.now = now
	return a
}

// AnalyzeMarket deriva las oportunidades de un mercado: cero, una o dos
// (como mucho una por lado). Un lado solo produce registro con edge > 0;
// sin base rate no se produce nada. EV o Kelly indefinidos (precio 0 o 100)
// se reportan como 0 — el edge positivo ya establece la oportunidad.
func (a *Analyzer) AnalyzeMarket(now time.Time, m domain.Market) []domain.Opportunity {
	if m.BaseRate == nil {
		return nil
	}

	fair, _ := m.FairProbability(now)
	var opps []domain.Opportunity

	if edge, ok := m.EdgeYes(now); ok && edge > 0 {
		ev, _ := m.ExpectedValueYes(now)
		kelly, _ := m.KellyFractionYes(now)
		opps = append(opps, domain.Opportunity{
			Market:            m,
			Side:              domain.SideYes,
			FairProbability:   fair,
			MarketProbability: m.MarketProbabilityYes(),
			Edge:              edge,
			ExpectedValue:     ev,
			KellyFraction:     kelly,
			RecommendedPrice:  m.YesPrice,
			AvailableQuantity: domain.QuantityUnlimited,
		})
	}

	if edge, ok := m.EdgeNo(now); ok && edge > 0 {
		ev, _ := m.ExpectedValueNo(now)
		kelly, _ := m.KellyFractionNo(now)
		opps = append(opps, domain.Opportunity{
			Market:            m,
			Side:              domain.SideNo,
			FairProbability:   1 - fair,
			MarketProbability: m.MarketProbabilityNo(),
			Edge:              edge,
			ExpectedValue:     ev,
			KellyFraction:     kelly,
			RecommendedPrice:  m.NoPrice,
			AvailableQuantity: domain.QuantityUnlimited,
		})
	}

	return opps
}

// FindOpportunities hace un pase completo: lee todos los mercados de la
// fuente, analiza cada uno, adjunta liquidez del orderbook si hay provider,
// y aplica los criterios de filtrado. No garantiza ningún orden más allá de
// "pasa el filtro" — el ranking es cosa del caller.
func (a *Analyzer) FindOpportunities(ctx context.Context, criteria Criteria, minQuantity float64) ([]domain.Opportunity, error) {
	markets, err := a.source.GetMarkets(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyzer.FindOpportunities: get markets: %w", err)
	}

	now := a.now()
	var all []domain.Opportunity
	for _, m := range markets {
		all = append(all, a.AnalyzeMarket(now, m)...)
	}

	if a.books != nil && len(all) > 0 {
		a.attachQuantities(ctx, all)
	}

	filtered := make([]domain.Opportunity, 0, len(all))
	for _, opp := range all {
		if criteria.matches(opp, minQuantity) {
			filtered = append(filtered, opp)
		}
	}
	return filtered, nil
}

// attachQuantities rellena AvailableQuantity desde los orderbooks.
// Los mercados sin book conservan el sentinel de cantidad ilimitada.
func (a *Analyzer) attachQuantities(ctx context.Context, opps []domain.Opportunity) {
	markets := make([]domain.Market, 0, len(opps))
	seen := make(map[string]bool, len(opps))
	for _, o := range opps {
		if !seen[o.Market.ID] {
			seen[o.Market.ID] = true
			markets = append(markets, o.Market)
		}
	}

	books, err := a.books.FetchOrderBooks(ctx, markets)
	if err != nil {
		// La liquidez es señal complementaria: un fallo de books degrada a
		// cantidad desconocida, no tumba el pase de análisis.
		return
	}

	for i, o := range opps {
		mb, ok := books[o.Market.ID]
		if !ok {
			continue
		}
		opps[i].AvailableQuantity = mb.Book(o.Side).AskDepthWithin(o.RecommendedPrice)
	}
}
