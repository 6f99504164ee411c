package scanner

import (
	"math"

	"github.com/alejandrodnm/baserate/internal/domain"
)

// Criteria son los umbrales de filtrado de oportunidades. Valor inmutable:
// se construye una vez y se pasa por copia. Cada cota se desactiva
// independientemente con su sentinel (0 = sin cota, lista vacía = todas las
// plataformas). Valores fuera de rango no se rechazan — simplemente producen
// resultados vacíos.
type Criteria struct {
	// MinEdge descarta oportunidades con edge menor (fracción, 0.05 = 5%).
	MinEdge float64
	// MinEV descarta oportunidades con expected value menor (ratio).
	MinEV float64
	// MinQuantity es el suelo de liquidez del criterio. 0 lo desactiva.
	MinQuantity float64
	// Platforms restringe a las plataformas listadas. Vacío = sin restricción.
	Platforms []domain.Platform
	// MinKelly y MaxKelly acotan la fracción de Kelly. MaxKelly 0 = sin techo.
	MinKelly float64
	MaxKelly float64
}

// DefaultCriteria devuelve umbrales conservadores: 5% de edge mínimo,
// EV mínimo 1.10 y Kelly acotado a [0,1].
func DefaultCriteria() Criteria {
	return Criteria{
		MinEdge:  0.05,
		MinEV:    1.10,
		MinKelly: 0,
		MaxKelly: 1.0,
	}
}

// matches devuelve true si la oportunidad supera todos los criterios.
// minQuantity es el suelo de liquidez del caller: aplica el más estricto
// de los dos suelos, y 0 desactiva el que corresponda.
func (c Criteria) matches(o domain.Opportunity, minQuantity float64) bool {
	if o.Edge < c.MinEdge {
		return false
	}
	if o.ExpectedValue < c.MinEV {
		return false
	}
	if floor := math.Max(c.MinQuantity, minQuantity); floor > 0 && o.AvailableQuantity < floor {
		return false
	}
	if len(c.Platforms) > 0 && !containsPlatform(c.Platforms, o.Market.Platform) {
		return false
	}
	if o.KellyFraction < c.MinKelly {
		return false
	}
	if c.MaxKelly > 0 && o.KellyFraction > c.MaxKelly {
		return false
	}
	return true
}

func containsPlatform(ps []domain.Platform, p domain.Platform) bool {
	for _, x := range ps {
		if x == p {
			return true
		}
	}
	return false
}
