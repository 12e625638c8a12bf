package model

// TokenOverride patches fields of a token by address. Nil fields are left alone.
type TokenOverride struct {
	Decimals      *int    `json:"decimals,omitempty"`
	DisplaySymbol *string `json:"displaySymbol,omitempty"`
	Logo          *string `json:"logo,omitempty"`
	Name          *string `json:"name,omitempty"`
	Symbol        *string `json:"symbol,omitempty"`
	Website       *string `json:"website,omitempty"`
}

func (o TokenOverride) Apply(t Token) Token {
	if o.Decimals != nil {
		t.Decimals = *o.Decimals
	}
	if o.DisplaySymbol != nil {
		t.DisplaySymbol = *o.DisplaySymbol
	}
	if o.Logo != nil {
		t.Logo = *o.Logo
	}
	if o.Name != nil {
		t.Name = *o.Name
	}
	if o.Symbol != nil {
		t.Symbol = *o.Symbol
	}
	if o.Website != nil {
		t.Website = *o.Website
	}
	return t
}
