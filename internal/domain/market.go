package domain

import "time"

// Platform es la plataforma donde cotiza un mercado.
type Platform int

const (
	PlatformKalshi Platform = iota
	PlatformPolymarket
)

// String devuelve el tag con el que se persiste y se muestra la plataforma.
func (p Platform) String() string {
	switch p {
	case PlatformKalshi:
		return "kalshi"
	case PlatformPolymarket:
		return "polymarket"
	}
	return "unknown"
}

// ParsePlatform convierte el tag persistido a Platform.
// Devuelve PlatformKalshi si el string no se reconoce.
func ParsePlatform(s string) Platform {
	if s == "polymarket" {
		return PlatformPolymarket
	}
	return PlatformKalshi
}

// Market representa un contrato binario YES/NO con precios en escala 0–100
// (centavos = probabilidad implícita ×100). El caller es responsable de que
// los precios lleguen ya recortados a [0,100].
//
// BaseRate es opcional: sin él no hay fair probability derivable, y todas las
// derivaciones devuelven ok=false en vez de fallar.
type Market struct {
	ID                 string
	Platform           Platform
	Title              string
	Description        string
	ResolutionCriteria string
	ResolutionDate     time.Time
	YesPrice           float64
	NoPrice            float64
	BaseRate           *BaseRate
	Volume             float64
	URL                string
}

// FairProbability devuelve la probabilidad justa del lado YES según el base rate,
// evaluada al horizonte de resolución. ok=false si no hay base rate.
func (m Market) FairProbability(now time.Time) (float64, bool) {
	if m.BaseRate == nil {
		return 0, false
	}
	return m.BaseRate.Probability(now, m.ResolutionDate), true
}

// MarketProbabilityYes devuelve la probabilidad implícita del precio YES.
func (m Market) MarketProbabilityYes() float64 {
	return m.YesPrice / 100
}

// MarketProbabilityNo devuelve la probabilidad implícita del precio NO.
func (m Market) MarketProbabilityNo() float64 {
	return m.NoPrice / 100
}

// EdgeYes devuelve fair − market para el lado YES. ok=false sin base rate.
func (m Market) EdgeYes(now time.Time) (float64, bool) {
	fair, ok := m.FairProbability(now)
	if !ok {
		return 0, false
	}
	return fair - m.MarketProbabilityYes(), true
}

// EdgeNo devuelve (1−fair) − market para el lado NO. ok=false sin base rate.
func (m Market) EdgeNo(now time.Time) (float64, bool) {
	fair, ok := m.FairProbability(now)
	if !ok {
		return 0, false
	}
	return (1 - fair) - m.MarketProbabilityNo(), true
}

// ExpectedValueYes devuelve el ratio payout/coste esperado del lado YES.
// ok=false sin base rate o con precio 0 (división por cero).
func (m Market) ExpectedValueYes(now time.Time) (float64, bool) {
	fair, ok := m.FairProbability(now)
	if !ok || m.YesPrice == 0 {
		return 0, false
	}
	return fair * 100 / m.YesPrice, true
}

// ExpectedValueNo es el espejo de ExpectedValueYes para el lado NO.
func (m Market) ExpectedValueNo(now time.Time) (float64, bool) {
	fair, ok := m.FairProbability(now)
	if !ok || m.NoPrice == 0 {
		return 0, false
	}
	return (1 - fair) * 100 / m.NoPrice, true
}

// KellyFractionYes devuelve la fracción de Kelly para el lado YES:
//
//	b = (100 - precio) / precio   (odds netos por unidad apostada)
//	kelly = (p·b - q) / b
//
// Con edge negativo devuelve 0 — nunca recomienda apostar en contra.
// ok=false sin base rate, con precio 0 (odds infinitos) o 100 (b=0, indefinido).
// No se recorta por arriba: el allocator de portfolio es quien limita exposición.
func (m Market) KellyFractionYes(now time.Time) (float64, bool) {
	fair, ok := m.FairProbability(now)
	if !ok || m.YesPrice == 0 || m.YesPrice == 100 {
		return 0, false
	}
	return kelly(fair, m.YesPrice), true
}

// KellyFractionNo es el espejo de KellyFractionYes para el lado NO.
func (m Market) KellyFractionNo(now time.Time) (float64, bool) {
	fair, ok := m.FairProbability(now)
	if !ok || m.NoPrice == 0 || m.NoPrice == 100 {
		return 0, false
	}
	return kelly(1-fair, m.NoPrice), true
}

// kelly calcula (p·b − q)/b con b = (100−price)/price, recortado a ≥0.
// El caller garantiza 0 < price < 100.
func kelly(p, price float64) float64 {
	b := (100 - price) / price
	q := 1 - p
	k := (p*b - q) / b
	if k < 0 {
		return 0
	}
	return k
}
