package domain

// OrderBook representa el libro de órdenes de un lado (YES o NO) de un mercado.
// Precios en escala 0–100, la misma que Market.YesPrice/NoPrice.
type OrderBook struct {
	Bids []BookLevel // ordenados mayor a menor precio
	Asks []BookLevel // ordenados menor a mayor precio
}

// BookLevel es un nivel de precio en el orderbook.
type BookLevel struct {
	Price    float64
	Quantity float64
}

// MarketBook agrupa los books de ambos lados de un mercado.
type MarketBook struct {
	Yes OrderBook
	No  OrderBook
}

// BestBid devuelve el mejor precio de compra (mayor bid).
// Devuelve 0 si el book está vacío.
func (ob OrderBook) BestBid() float64 {
	if len(ob.Bids) == 0 {
		return 0
	}
	return ob.Bids[0].Price
}

// BestAsk devuelve el mejor precio de venta (menor ask).
// Devuelve 0 si el book está vacío.
func (ob OrderBook) BestAsk() float64 {
	if len(ob.Asks) == 0 {
		return 0
	}
	return ob.Asks[0].Price
}

// Midpoint devuelve el punto medio entre best bid y best ask.
func (ob OrderBook) Midpoint() float64 {
	bid := ob.BestBid()
	ask := ob.BestAsk()
	if bid == 0 || ask == 0 {
		return 0
	}
	return (bid + ask) / 2
}

// AskDepthWithin devuelve los contratos disponibles en el lado ask hasta
// maxPrice inclusive. Es el tamaño máximo comprable sin cruzar ese precio —
// la fuente de AvailableQuantity de una Opportunity.
// Devuelve QuantityUnlimited si el book está vacío (liquidez desconocida,
// no liquidez cero).
func (ob OrderBook) AskDepthWithin(maxPrice float64) float64 {
	if len(ob.Asks) == 0 {
		return QuantityUnlimited
	}
	var total float64
	for _, a := range ob.Asks {
		if a.Price > maxPrice {
			break
		}
		total += a.Quantity
	}
	return total
}

// Book devuelve el orderbook del lado pedido.
func (mb MarketBook) Book(side Side) OrderBook {
	if side == SideNo {
		return mb.No
	}
	return mb.Yes
}
