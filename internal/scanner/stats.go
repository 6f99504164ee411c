package scanner

import "github.com/alejandrodnm/baserate/internal/domain"

// Stats es el resumen descriptivo de un conjunto de oportunidades.
// Puramente informativo: aquí no se filtra nada.
type Stats struct {
	Count      int
	AvgEdge    float64
	AvgEV      float64
	ByPlatform map[domain.Platform]int
	BySide     map[domain.Side]int
}

// Summarize calcula las estadísticas agregadas del input.
// Con input vacío devuelve medias 0, nunca divide por cero.
func Summarize(opps []domain.Opportunity) Stats {
	stats := Stats{
		Count:      len(opps),
		ByPlatform: make(map[domain.Platform]int),
		BySide:     make(map[domain.Side]int),
	}

	var sumEdge, sumEV float64
	for _, o := range opps {
		sumEdge += o.Edge
		sumEV += o.ExpectedValue
		stats.ByPlatform[o.Market.Platform]++
		stats.BySide[o.Side]++
	}

	if stats.Count > 0 {
		stats.AvgEdge = sumEdge / float64(stats.Count)
		stats.AvgEV = sumEV / float64(stats.Count)
	}
	return stats
}
