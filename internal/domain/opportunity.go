package domain

import (
	"encoding/json"
	"math"
)

// Side es el lado de un contrato binario.
type Side int

const (
	SideYes Side = iota
	SideNo
)

// String devuelve el tag del lado tal como se persiste y se muestra.
func (s Side) String() string {
	if s == SideNo {
		return "NO"
	}
	return "YES"
}

// MarshalJSON serializa el lado con su tag, no con el valor numérico.
func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON acepta el tag serializado; todo lo que no sea "NO" es YES.
func (s *Side) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	if tag == "NO" {
		*s = SideNo
	} else {
		*s = SideYes
	}
	return nil
}

// QuantityUnlimited es el sentinel para "sin límite de liquidez conocido".
// Se usa cuando no hay orderbook disponible para el mercado.
var QuantityUnlimited = math.Inf(1)

// Opportunity es un lado de un mercado con edge positivo, detectado en un
// pase de análisis. Snapshot inmutable: se crea, se reporta y se descarta.
//
// Edge > 0 por construcción; ExpectedValue y KellyFraction pueden ser 0 si
// la derivación correspondiente es indefinida (precio 0 o 100) — el edge por
// sí solo ya establece la oportunidad.
type Opportunity struct {
	Market            Market
	Side              Side
	FairProbability   float64
	MarketProbability float64
	Edge              float64
	ExpectedValue     float64
	KellyFraction     float64
	RecommendedPrice  float64
	AvailableQuantity float64
}

// Report es la forma externa de una Opportunity, lista para serializar.
// Contrato fijo: probabilidades y edge en porcentaje (×100), EV como ratio
// y Kelly como fracción, sin convertir. AvailableQuantity es nil cuando la
// liquidez es desconocida (el sentinel +Inf no sobrevive a encoding/json).
type Report struct {
	MarketID          string   `json:"market_id"`
	Platform          string   `json:"platform"`
	Title             string   `json:"title"`
	Side              string   `json:"side"`
	FairProbability   float64  `json:"fair_probability"`
	MarketProbability float64  `json:"market_probability"`
	Edge              float64  `json:"edge"`
	ExpectedValue     float64  `json:"expected_value"`
	KellyFraction     float64  `json:"kelly_fraction"`
	RecommendedPrice  float64  `json:"recommended_price"`
	AvailableQuantity *float64 `json:"available_quantity"`
	URL               string   `json:"url"`
}

// Report construye la forma externa de la oportunidad.
func (o Opportunity) Report() Report {
	var quantity *float64
	if !math.IsInf(o.AvailableQuantity, 1) {
		q := o.AvailableQuantity
		quantity = &q
	}
	return Report{
		MarketID:          o.Market.ID,
		Platform:          o.Market.Platform.String(),
		Title:             o.Market.Title,
		Side:              o.Side.String(),
		FairProbability:   o.FairProbability * 100,
		MarketProbability: o.MarketProbability * 100,
		Edge:              o.Edge * 100,
		ExpectedValue:     o.ExpectedValue,
		KellyFraction:     o.KellyFraction,
		RecommendedPrice:  o.RecommendedPrice,
		AvailableQuantity: quantity,
		URL:               o.Market.URL,
	}
}
