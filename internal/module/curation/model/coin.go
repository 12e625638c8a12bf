package model

// Coin is a published native currency. Field order is the coins.json layout.
type Coin struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Key      string `json:"key"`
	Decimals int    `json:"decimals"`
	Logo     string `json:"logo"`
	Website  string `json:"website"`
}

func CoinFromChain(chain Blockchain, logos LogoResolver) Coin {
	coin := Coin{
		Symbol:  chain.Symbol,
		Name:    chain.Name,
		Key:     chain.Key,
		Logo:    logos.CoinLogo(chain.Key),
		Website: chain.Website,
	}
	if chain.Decimals != nil {
		coin.Decimals = *chain.Decimals
	}
	return coin
}

// HasLogo is false for an empty or missing logo.
func (c Coin) HasLogo() bool {
	return c.Logo != ""
}
