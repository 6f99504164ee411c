package domain

import (
	"math"
	"time"
)

// RateUnit es la unidad en la que está expresado un base rate.
type RateUnit int

const (
	// UnitAbsolute: probabilidad total del evento en el horizonte, sin decay.
	UnitAbsolute RateUnit = iota
	UnitPerYear
	UnitPerMonth
	UnitPerDay
	UnitPerEvent
)

const (
	daysPerYear  = 365.0
	daysPerMonth = daysPerYear / 12
)

// String devuelve el tag con el que se persiste y se muestra la unidad.
func (u RateUnit) String() string {
	switch u {
	case UnitPerYear:
		return "per_year"
	case UnitPerMonth:
		return "per_month"
	case UnitPerDay:
		return "per_day"
	case UnitPerEvent:
		return "per_event"
	}
	return "absolute"
}

// ParseRateUnit convierte el tag persistido a RateUnit.
// Devuelve UnitAbsolute si el string no se reconoce.
func ParseRateUnit(s string) RateUnit {
	switch s {
	case "per_year":
		return UnitPerYear
	case "per_month":
		return UnitPerMonth
	case "per_day":
		return UnitPerDay
	case "per_event":
		return UnitPerEvent
	}
	return UnitAbsolute
}

// BaseRate es la estimación histórica de la frecuencia de un evento, con la
// evidencia que la respalda. Es el modelo de probabilidad del analizador:
// la probabilidad de que el evento ocurra al menos una vez antes de la
// resolución sale de componer el rate sobre las exposiciones restantes.
type BaseRate struct {
	Rate          float64
	Unit          RateUnit
	EventsPerYear float64 // solo con UnitPerEvent: exposiciones anuales
	Reasoning     string
	Sources       []string
}

// Probability devuelve P(evento ocurre al menos una vez) entre now y target:
//
//	1 - (1-rate)^exposures
//
// donde exposures depende de la unidad (años, meses, días u ocurrencias
// esperadas del evento). Con UnitAbsolute el rate ya es la probabilidad
// total y se devuelve tal cual. Siempre en [0,1]; target en el pasado → 0
// exposiciones.
func (b BaseRate) Probability(now, target time.Time) float64 {
	if b.Unit == UnitAbsolute {
		return clampProb(b.Rate)
	}

	days := target.Sub(now).Hours() / 24
	if days < 0 {
		days = 0
	}

	var exposures float64
	switch b.Unit {
	case UnitPerYear:
		exposures = days / daysPerYear
	case UnitPerMonth:
		exposures = days / daysPerMonth
	case UnitPerDay:
		exposures = days
	case UnitPerEvent:
		exposures = days / daysPerYear * b.EventsPerYear
	}

	rate := clampProb(b.Rate)
	return clampProb(1 - math.Pow(1-rate, exposures))
}

func clampProb(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
