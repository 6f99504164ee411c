package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/baserate/internal/domain"
)

// Storage persiste mercados, base rates y el histórico de oportunidades.
// Incluye MarketSource: el repositorio es la fuente de mercados del analyzer.
type Storage interface {
	MarketSource

	// SaveMarket inserta o actualiza un mercado. El base rate existente se
	// conserva si el mercado entrante no trae uno.
	SaveMarket(ctx context.Context, market domain.Market) error

	// SaveBaseRate adjunta un base rate a un mercado ya persistido.
	SaveBaseRate(ctx context.Context, marketID string, rate domain.BaseRate) error

	// GetMarket devuelve un mercado por ID. ok=false si no existe —
	// IDs malformados o desconocidos nunca son un error.
	GetMarket(ctx context.Context, id string) (domain.Market, bool, error)

	// SaveScan persiste las oportunidades de un ciclo bajo un scan ID.
	SaveScan(ctx context.Context, scanID string, opportunities []domain.Opportunity) error

	// GetHistory devuelve las oportunidades registradas en el rango dado.
	GetHistory(ctx context.Context, from, to time.Time) ([]domain.Report, error)

	// Close cierra la conexión limpiamente.
	Close() error
}
