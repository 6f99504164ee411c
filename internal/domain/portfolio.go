package domain

import "math"

// Position es la asignación calculada para una oportunidad.
// KellyPct es la decisión de sizing (pre-recorte por liquidez): el % del
// bankroll que el Kelly fraccional recomienda tras aplicar el cap por posición.
type Position struct {
	Side            Side    `json:"side"`
	Contracts       int     `json:"contracts"`
	CostPerContract float64 `json:"cost_per_contract"`
	TotalCost       float64 `json:"total_cost"`
	KellyPct        float64 `json:"kelly_pct"`
}

// PortfolioKelly reparte un bankroll entre oportunidades usando Kelly fraccional.
// Cada oportunidad se dimensiona de forma independiente (sin modelar correlación):
//
//	pct       = kellyFraction × opp.KellyFraction   (shrinkage global, típicamente ≤1)
//	pct       = min(pct, maxPositionPct)            (el cap por posición siempre gana)
//	contracts = floor(bankroll × pct / precio)      a precio = RecommendedPrice/100 USD
//	contracts = min(contracts, AvailableQuantity)   (la liquidez es techo duro)
//
// El resultado va indexado por market ID — se espera un único lado por mercado
// en una misma llamada. KellyFraction=0 o precio 0 producen posición vacía,
// nunca un error.
func PortfolioKelly(opps []Opportunity, bankroll, maxPositionPct, kellyFraction float64) map[string]Position {
	positions := make(map[string]Position, len(opps))

	for _, opp := range opps {
		pct := kellyFraction * opp.KellyFraction
		if pct > maxPositionPct {
			pct = maxPositionPct
		}

		price := opp.RecommendedPrice / 100
		contracts := 0
		if price > 0 && pct > 0 {
			contracts = int(math.Floor(bankroll * pct / price))
		}
		if avail := opp.AvailableQuantity; !math.IsInf(avail, 1) && float64(contracts) > avail {
			contracts = int(avail)
		}

		positions[opp.Market.ID] = Position{
			Side:            opp.Side,
			Contracts:       contracts,
			CostPerContract: price,
			TotalCost:       float64(contracts) * price,
			KellyPct:        pct * 100,
		}
	}

	return positions
}
