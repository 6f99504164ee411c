package kalshi

// DTOs del trade API v2 de Kalshi. Solo los campos que usamos.

type marketsResponse struct {
	Markets []marketDTO `json:"markets"`
	Cursor  string      `json:"cursor"`
}

type marketDTO struct {
	Ticker       string  `json:"ticker"`
	Title        string  `json:"title"`
	Subtitle     string  `json:"subtitle"`
	RulesPrimary string  `json:"rules_primary"`
	CloseTime    string  `json:"close_time"`
	YesAsk       float64 `json:"yes_ask"`
	NoAsk        float64 `json:"no_ask"`
	Volume       float64 `json:"volume"`
	Status       string  `json:"status"`
}

type orderbookResponse struct {
	Orderbook orderbookDTO `json:"orderbook"`
}

// Kalshi publica bids por lado: niveles [precio, cantidad] en centavos.
type orderbookDTO struct {
	Yes [][2]float64 `json:"yes"`
	No  [][2]float64 `json:"no"`
}
