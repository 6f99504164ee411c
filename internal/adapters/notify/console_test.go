package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/baserate/internal/domain"
)

func sampleOpp() domain.Opportunity {
	return domain.Opportunity{
		Market: domain.Market{
			ID:       "RAIN-26JAN15",
			Platform: domain.PlatformKalshi,
			Title:    "Rain in NYC on Jan 15?",
			URL:      "https://kalshi.com/markets/RAIN-26JAN15",
		},
		Side:              domain.SideYes,
		FairProbability:   0.50,
		MarketProbability: 0.35,
		Edge:              0.15,
		ExpectedValue:     1.43,
		KellyFraction:     0.23,
		RecommendedPrice:  35,
		AvailableQuantity: domain.QuantityUnlimited,
	}
}

func samplePositions() map[string]domain.Position {
	return map[string]domain.Position{
		"RAIN-26JAN15": {
			Side:            domain.SideYes,
			Contracts:       285,
			CostPerContract: 0.35,
			TotalCost:       99.75,
			KellyPct:        10,
		},
	}
}

func TestNotifyTable(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, true, false)

	err := c.Notify(context.Background(), []domain.Opportunity{sampleOpp()}, samplePositions())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Rain in NYC on Jan 15?")
	assert.Contains(t, out, "YES")
	assert.Contains(t, out, "+15.0") // edge en porcentaje
	assert.Contains(t, out, "∞")     // liquidez desconocida
	assert.Contains(t, out, "PORTFOLIO")
	assert.Contains(t, out, "×285")
}

func TestNotifyCompactIsOneLine(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false, false)

	err := c.Notify(context.Background(), []domain.Opportunity{sampleOpp()}, nil)
	require.NoError(t, err)

	out := strings.TrimRight(buf.String(), "\n")
	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, "1 opps")
	assert.Contains(t, out, "edge+15.0%")
}

func TestNotifyEmpty(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, true, false)

	err := c.Notify(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no opportunities")
}

func TestTruncateMultibyteTitles(t *testing.T) {
	// Título con multibyte justo en el punto de corte: nunca UTF-8 inválido
	title := "¿Lloverá en São Paulo el 15 de enero? ¿Sí o no? ¿Seguro?"
	for max := 2; max <= len([]rune(title)); max++ {
		got := truncate(title, max)
		assert.True(t, utf8.ValidString(got), "max=%d", max)
		assert.LessOrEqual(t, len([]rune(got)), max)
	}
	assert.Equal(t, "corto", truncate("corto", 40))
}

func TestNotifyJSON(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleWriter(&buf, false, true)

	err := c.Notify(context.Background(), []domain.Opportunity{sampleOpp()}, samplePositions())
	require.NoError(t, err)

	var payload struct {
		Opportunities []domain.Report            `json:"opportunities"`
		Positions     map[string]domain.Position `json:"positions"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))

	require.Len(t, payload.Opportunities, 1)
	r := payload.Opportunities[0]
	assert.Equal(t, "RAIN-26JAN15", r.MarketID)
	assert.Equal(t, "YES", r.Side)
	assert.InDelta(t, 15.0, r.Edge, 1e-9)
	assert.Nil(t, r.AvailableQuantity) // +Inf serializa como null

	pos := payload.Positions["RAIN-26JAN15"]
	assert.Equal(t, 285, pos.Contracts)
}
