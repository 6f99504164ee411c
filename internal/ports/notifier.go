package ports

import (
	"context"

	"github.com/alejandrodnm/baserate/internal/domain"
)

// Notifier presenta las oportunidades y el sizing calculado al usuario.
type Notifier interface {
	// Notify muestra las oportunidades ya ordenadas por edge, junto con la
	// asignación de portfolio indexada por market ID.
	Notify(ctx context.Context, opportunities []domain.Opportunity, positions map[string]domain.Position) error
}
