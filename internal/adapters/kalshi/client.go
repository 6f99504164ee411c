package kalshi

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/alejandrodnm/baserate/internal/adapters/httpclient"
	"github.com/alejandrodnm/baserate/internal/domain"
)

const (
	defaultBaseURL = "https://api.elections.kalshi.com/trade-api/v2"
	pageLimit      = 200
	maxPages       = 20
)

// Client consulta mercados y orderbooks del trade API público de Kalshi.
// Implementa ports.MarketFetcher y ports.BookProvider.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

// NewClient crea un Client de Kalshi. baseURL vacío usa el API de producción.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    httpclient.New(5, 10),
	}
}

// FetchMarkets descarga los mercados abiertos, paginando con cursor.
func (c *Client) FetchMarkets(ctx context.Context) ([]domain.Market, error) {
	var markets []domain.Market
	cursor := ""

	for page := 0; page < maxPages; page++ {
		endpoint := fmt.Sprintf("%s/markets?status=open&limit=%d", c.baseURL, pageLimit)
		if cursor != "" {
			endpoint += "&cursor=" + url.QueryEscape(cursor)
		}

		var resp marketsResponse
		if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
			return nil, fmt.Errorf("kalshi.FetchMarkets: %w", err)
		}

		for _, dto := range resp.Markets {
			m, err := toMarket(dto)
			if err != nil {
				slog.Warn("mercado de Kalshi descartado", "ticker", dto.Ticker, "error", err)
				continue
			}
			markets = append(markets, m)
		}

		if resp.Cursor == "" || len(resp.Markets) < pageLimit {
			break
		}
		cursor = resp.Cursor
	}

	slog.Debug("mercados de Kalshi descargados", "total", len(markets))
	return markets, nil
}

// FetchOrderBooks descarga el orderbook de cada mercado de Kalshi; los
// mercados de otras plataformas se ignoran sin gastar requests. Un fallo
// individual no aborta el resto: ese mercado queda sin libro (liquidez
// desconocida).
func (c *Client) FetchOrderBooks(ctx context.Context, markets []domain.Market) (map[string]domain.MarketBook, error) {
	books := make(map[string]domain.MarketBook, len(markets))
	for _, m := range markets {
		if m.Platform != domain.PlatformKalshi {
			continue
		}
		endpoint := fmt.Sprintf("%s/markets/%s/orderbook", c.baseURL, url.PathEscape(m.ID))

		var resp orderbookResponse
		if err := c.http.GetJSON(ctx, endpoint, &resp); err != nil {
			slog.Warn("no se pudo descargar orderbook", "ticker", m.ID, "error", err)
			continue
		}
		books[m.ID] = toMarketBook(resp.Orderbook)
	}
	return books, nil
}
