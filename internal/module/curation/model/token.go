package model

import (
	"regexp"
	"strings"

	"github.com/blockchain/coin-definitions/utils/config"
)

type Network = config.Network

// MaxSymbolLength bounds published symbols, network suffix excluded.
const MaxSymbolLength = 8

var validSymbol = regexp.MustCompile(`^[a-zA-Z0-9]{1,8}$`)

// Token is a published on-chain token. Fields are declared in key order so lists come out with sorted keys.
type Token struct {
	Address       string `json:"address"`
	Decimals      int    `json:"decimals"`
	DisplaySymbol string `json:"displaySymbol"`
	Logo          string `json:"logo"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Website       string `json:"website"`
}

func TokenFromAsset(asset Asset, network Network, logos LogoResolver) Token {
	displaySymbol := asset.DisplaySymbol
	if displaySymbol == "" {
		displaySymbol = asset.Symbol
	}
	return Token{
		Address:       asset.ID,
		Decimals:      asset.Decimals,
		DisplaySymbol: displaySymbol,
		Logo:          logos.TokenLogo(asset.ID, network),
		Name:          asset.Name,
		Symbol:        asset.Symbol,
		Website:       asset.Website,
	}
}

// Key is the token identity: its address, compared case-insensitively.
func (t Token) Key() string {
	return strings.ToLower(t.Address)
}

// IsValid reports whether the symbol is one to eight letters or digits.
func (t Token) IsValid() bool {
	return IsValidSymbol(t.Symbol)
}

func IsValidSymbol(symbol string) bool {
	return validSymbol.MatchString(symbol)
}

func (t Token) HasLogo() bool {
	return t.Logo != ""
}

// ShouldAppendNetworkSuffix is false on Ethereum and for the cEUR/cUSD stablecoins on Celo.
func (t Token) ShouldAppendNetworkSuffix(network Network) bool {
	if network.Symbol == "ETH" {
		return false
	}
	if network.Symbol == "CELO" && (t.Symbol == "CEUR" || t.Symbol == "CUSD") {
		return false
	}
	return true
}

func (t Token) WithSuffix(network Network) Token {
	if t.ShouldAppendNetworkSuffix(network) {
		t.Symbol = t.Symbol + "." + network.Symbol
	}
	return t
}

func (t Token) WithoutSuffix(network Network) Token {
	t.Symbol = strings.TrimSuffix(t.Symbol, "."+network.Symbol)
	return t
}

// PriceKey is the key of the token in the price snapshot.
func PriceKey(address string, network Network) string {
	return strings.ToLower(address) + "." + network.Symbol
}

func (t Token) PriceKey(network Network) string {
	return PriceKey(t.Address, network)
}

// LegacyToken is the record layout of the legacy erc20 list.
type LegacyToken struct {
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Website  string `json:"website"`
}

func LegacyTokenFromAsset(asset Asset) LegacyToken {
	return LegacyToken{
		Address:  asset.ID,
		Decimals: asset.Decimals,
		Name:     asset.Name,
		Symbol:   asset.Symbol,
		Website:  asset.Website,
	}
}
