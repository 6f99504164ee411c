package polymarket

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/alejandrodnm/baserate/internal/domain"
)

// toMarket convierte un DTO del Gamma API al modelo de dominio.
// Gamma cotiza en probabilidades (0-1); las pasamos a centavos (0-100).
func toMarket(dto marketDTO) (domain.Market, error) {
	if dto.ConditionID == "" {
		return domain.Market{}, fmt.Errorf("polymarket.toMarket: market sin conditionId")
	}

	prices, err := parseOutcomePrices(dto.OutcomePrices)
	if err != nil {
		return domain.Market{}, fmt.Errorf("polymarket.toMarket: %w", err)
	}
	if len(prices) < 2 {
		return domain.Market{}, fmt.Errorf("polymarket.toMarket: se esperaban 2 outcomes, hay %d", len(prices))
	}

	var endDate time.Time
	if dto.EndDate != "" {
		t, err := time.Parse(time.RFC3339, dto.EndDate)
		if err != nil {
			return domain.Market{}, fmt.Errorf("polymarket.toMarket: endDate inválido %q: %w", dto.EndDate, err)
		}
		endDate = t
	}

	var volume float64
	if dto.Volume != "" {
		volume, _ = strconv.ParseFloat(dto.Volume, 64)
	}

	return domain.Market{
		ID:             dto.ConditionID,
		Platform:       domain.PlatformPolymarket,
		Title:          dto.Question,
		Description:    dto.Description,
		ResolutionDate: endDate,
		YesPrice:       prices[0] * 100,
		NoPrice:        prices[1] * 100,
		Volume:         volume,
		URL:            fmt.Sprintf("https://polymarket.com/event/%s", dto.Slug),
	}, nil
}

// parseOutcomePrices decodifica el string JSON de precios. Gamma a veces
// manda números y a veces strings dentro del array; aceptamos ambos.
func parseOutcomePrices(raw string) ([]float64, error) {
	if raw == "" {
		return nil, fmt.Errorf("outcomePrices vacío")
	}

	var values []any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("outcomePrices %q: %w", raw, err)
	}

	prices := make([]float64, 0, len(values))
	for _, v := range values {
		switch x := v.(type) {
		case float64:
			prices = append(prices, x)
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err != nil {
				return nil, fmt.Errorf("outcomePrices: precio %q no numérico", x)
			}
			prices = append(prices, f)
		default:
			return nil, fmt.Errorf("outcomePrices: tipo inesperado %T", v)
		}
	}
	return prices, nil
}
