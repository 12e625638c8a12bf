package model

import "fmt"

const (
	TypeCoin  = "COIN"
	TypeERC20 = "ERC20"
)

type HWSSettings struct {
	MinConfirmations int     `json:"minConfirmations"`
	MinWithdrawal    float64 `json:"minWithdrawal"`
}

type NabuSettings struct {
	CustodialPrecision int `json:"custodialPrecision"`
}

// Currency is one entry of custody.json.
type Currency struct {
	Symbol        string       `json:"symbol" validate:"required"`
	DisplaySymbol string       `json:"displaySymbol"`
	Type          string       `json:"type" validate:"required"`
	Chain         string       `json:"chain"`
	NabuSettings  NabuSettings `json:"nabuSettings"`
	HWSSettings   *HWSSettings `json:"hwsSettings"`
	Removed       bool         `json:"removed"`
}

func (c Currency) String() string {
	if c.Chain != "" {
		return fmt.Sprintf("[%s, %s:%s]", c.Symbol, c.Type, c.Chain)
	}
	return fmt.Sprintf("[%s, %s]", c.Symbol, c.Type)
}

// Reference is the published record a currency is checked against.
type Reference struct {
	Type     string
	Symbol   string
	Name     string
	Decimals int
	Logo     string
	PriceKey string
	// MinConfirmations expected by the hosting network, zero when unchecked
	MinConfirmations int
}

func (r Reference) String() string {
	return fmt.Sprintf("[%s, %s]", r.Symbol, r.Type)
}
