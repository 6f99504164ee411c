package ports

import (
	"context"

	"github.com/alejandrodnm/baserate/internal/domain"
)

// BookProvider obtiene los orderbooks de una lista de mercados, indexados
// por market ID. El provider ignora los mercados de plataformas que no sirve
// en vez de gastar requests en consultas que van a fallar. Los mercados sin
// book en el resultado se tratan como liquidez desconocida (cantidad
// ilimitada), no como liquidez cero.
type BookProvider interface {
	FetchOrderBooks(ctx context.Context, markets []domain.Market) (map[string]domain.MarketBook, error)
}
