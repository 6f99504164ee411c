package ports

import (
	"context"

	"github.com/alejandrodnm/baserate/internal/domain"
)

// MarketSource es el accessor de lectura que consume el analyzer.
// Devuelve la colección actual de mercados (orden irrelevante), con los
// base rates ya adjuntos cuando existen. El core nunca escribe a través de él.
type MarketSource interface {
	GetMarkets(ctx context.Context) ([]domain.Market, error)
}

// MarketFetcher obtiene mercados frescos de una plataforma externa.
type MarketFetcher interface {
	// FetchMarkets devuelve los mercados abiertos de la plataforma.
	// Pagina automáticamente hasta agotar los resultados.
	FetchMarkets(ctx context.Context) ([]domain.Market, error)
}
