package polymarket

// DTOs del Gamma API de Polymarket. Solo los campos que usamos.
// outcomePrices llega como string JSON ("[0.45, 0.55]" o ["0.45","0.55"]).
type marketDTO struct {
	ConditionID   string `json:"conditionId"`
	Question      string `json:"question"`
	Description   string `json:"description"`
	OutcomePrices string `json:"outcomePrices"`
	EndDate       string `json:"endDate"`
	Volume        string `json:"volume"`
	Slug          string `json:"slug"`
	Closed        bool   `json:"closed"`
}
