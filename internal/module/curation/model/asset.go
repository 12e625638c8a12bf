package model

import "strings"

const StatusActive = "active"

// AssetInfo is the on-disk schema of assets/blockchains/<key>/assets/<address>/info.json,
// declared in key order so written extensions come out with sorted keys.
type AssetInfo struct {
	Decimals      int    `json:"decimals"`
	Description   string `json:"description,omitempty"`
	DisplaySymbol string `json:"displaySymbol,omitempty"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Status        string `json:"status"`
	Symbol        string `json:"symbol"`
	Type          string `json:"type,omitempty"`
	Website       string `json:"website"`
}

type Asset struct {
	ID            string
	Decimals      int
	Name          string
	Symbol        string
	Website       string
	Status        string
	DisplaySymbol string
}

func AssetFromInfo(info AssetInfo) Asset {
	return Asset{
		ID:            info.ID,
		Decimals:      info.Decimals,
		Name:          info.Name,
		Symbol:        info.Symbol,
		Website:       info.Website,
		Status:        info.Status,
		DisplaySymbol: info.DisplaySymbol,
	}
}

func (a Asset) IsActive() bool {
	return a.Status == StatusActive
}

// Key is the case-insensitive identity of the asset.
func (a Asset) Key() string {
	return strings.ToLower(a.ID)
}
