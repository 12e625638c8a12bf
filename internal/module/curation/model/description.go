package model

// Description is one entry of description/info.json.
type Description struct {
	Description string `json:"description"`
	Symbol      string `json:"symbol"`
	Website     string `json:"websiteurl,omitempty"`
	Whitepaper  string `json:"whitepaper,omitempty"`
}

// PriceList is the extensions/prices.json snapshot. Coins are keyed by symbol, tokens by PriceKey.
// Fields are declared in key order.
type PriceList struct {
	Prices    map[string]float64 `json:"prices"`
	Timestamp string             `json:"timestamp"`
}

func (p PriceList) Has(key string) bool {
	_, ok := p.Prices[key]
	return ok
}

func (p PriceList) Get(key string) (float64, bool) {
	price, ok := p.Prices[key]
	return price, ok
}
