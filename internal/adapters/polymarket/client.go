package polymarket

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alejandrodnm/baserate/internal/adapters/httpclient"
	"github.com/alejandrodnm/baserate/internal/domain"
)

const (
	defaultBaseURL = "https://gamma-api.polymarket.com"
	pageLimit      = 100
	maxPages       = 20
)

// Client consulta mercados del Gamma API de Polymarket.
// Implementa ports.MarketFetcher.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

// NewClient crea un Client de Polymarket. baseURL vacío usa el API público.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    httpclient.New(5, 10),
	}
}

// FetchMarkets descarga los mercados abiertos, paginando con offset.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	var markets []domain.Market

	for page := 0; page < maxPages; page++ {
		endpoint := fmt.Sprintf("%s/markets?closed=false&limit=%d&offset=%d",
			c.baseURL, pageLimit, page*pageLimit)

		var batch []marketDTO
		if err := c.http.GetJSON(ctx, endpoint, &batch); err != nil {
			return nil, fmt.Errorf("polymarket.FetchMarkets: %w", err)
		}

		for _, dto := range batch {
			if dto.Closed {
				continue
			}
			m, err := toMarket(dto)
			if err != nil {
				slog.Warn("mercado de Polymarket descartado", "conditionId", dto.ConditionID, "error", err)
				continue
			}
			markets = append(markets, m)
		}

		if len(batch) < pageLimit {
			break
		}
	}

	slog.Debug("mercados de Polymarket descargados", "total", len(markets))
	return markets, nil
}
