package kalshi

import (
	"fmt"
	"sort"
	"time"

	"github.com/alejandrodnm/baserate/internal/domain"
)

// toMarket convierte un DTO de Kalshi al modelo de dominio.
// Los precios ya vienen en centavos (0-100), no hay que escalar.
func toMarket(dto marketDTO) (domain.Market, error) {
	if dto.Ticker == "" {
		return domain.Market{}, fmt.Errorf("kalshi.toMarket: market sin ticker")
	}

	var closeTime time.Time
	if dto.CloseTime != "" {
		t, err := time.Parse(time.RFC3339, dto.CloseTime)
		if err != nil {
			return domain.Market{}, fmt.Errorf("kalshi.toMarket: close_time inválido %q: %w", dto.CloseTime, err)
		}
		closeTime = t
	}

	noPrice := dto.NoAsk
	if noPrice == 0 && dto.YesAsk > 0 {
		noPrice = 100 - dto.YesAsk
	}

	return domain.Market{
		ID:                 dto.Ticker,
		Platform:           domain.PlatformKalshi,
		Title:              dto.Title,
		Description:        dto.Subtitle,
		ResolutionCriteria: dto.RulesPrimary,
		ResolutionDate:     closeTime,
		YesPrice:           dto.YesAsk,
		NoPrice:            noPrice,
		Volume:             dto.Volume,
		URL:                fmt.Sprintf("https://kalshi.com/markets/%s", dto.Ticker),
	}, nil
}

// toMarketBook convierte el orderbook de Kalshi al modelo de dominio.
// Kalshi solo publica bids por lado; los asks de YES son los bids de NO
// reflejados (precio 100-p, misma cantidad), y viceversa. El API no
// garantiza orden, así que se normaliza: bids mayor a menor, asks menor
// a mayor.
func toMarketBook(dto orderbookDTO) domain.MarketBook {
	return domain.MarketBook{
		Yes: domain.OrderBook{
			Bids: toLevels(dto.Yes),
			Asks: mirrorLevels(dto.No),
		},
		No: domain.OrderBook{
			Bids: toLevels(dto.No),
			Asks: mirrorLevels(dto.Yes),
		},
	}
}

func toLevels(raw [][2]float64) []domain.BookLevel {
	levels := make([]domain.BookLevel, 0, len(raw))
	for _, lv := range raw {
		levels = append(levels, domain.BookLevel{Price: lv[0], Quantity: lv[1]})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price > levels[j].Price })
	return levels
}

func mirrorLevels(raw [][2]float64) []domain.BookLevel {
	levels := make([]domain.BookLevel, 0, len(raw))
	for _, lv := range raw {
		levels = append(levels, domain.BookLevel{Price: 100 - lv[0], Quantity: lv[1]})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Price < levels[j].Price })
	return levels
}
