package model

// BlockchainInfo is the on-disk schema of <dir>/<key>/info/info.json. Missing fields stay nil.
type BlockchainInfo struct {
	Name     string  `json:"name"`
	Symbol   *string `json:"symbol"`
	Decimals *int    `json:"decimals"`
	Status   *string `json:"status"`
	Website  string  `json:"website"`
}

type Blockchain struct {
	Key      string
	Name     string
	Symbol   string
	Decimals *int
	Status   string
	Website  string
}

// BlockchainFromInfo builds a chain record; the key is the directory name.
func BlockchainFromInfo(key string, info BlockchainInfo) Blockchain {
	chain := Blockchain{
		Key:      key,
		Name:     info.Name,
		Decimals: info.Decimals,
		Website:  info.Website,
	}
	if info.Symbol != nil {
		chain.Symbol = *info.Symbol
	}
	if info.Status != nil {
		chain.Status = *info.Status
	}
	return chain
}

func (b Blockchain) IsValid() bool {
	return b.Symbol != "" && b.Decimals != nil && b.Status != ""
}

func (b Blockchain) IsActive() bool {
	return b.Status == StatusActive
}

// DeniedChain is one entry of the chain deny-list.
type DeniedChain struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
