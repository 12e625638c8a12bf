package service_test

import (
	"testing"

	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeTokensKeepsPublishedSymbol(t *testing.T) {
	published := []model.Token{{Address: addrA, Symbol: "OLD", Name: "Old name", Decimals: 6}}
	fresh := []model.Token{
		{Address: "0x1111111111111111111111111111111111111111", Symbol: "NEW", Name: "New name", Decimals: 18},
		{Address: addrB, Symbol: "BBB"},
	}

	merged := service.MergeTokens(published, fresh, service.MergeOptions{})
	require.Len(t, merged, 2)
	assert.Equal(t, "OLD", merged[0].Symbol)
	assert.Equal(t, "New name", merged[0].Name)
	assert.Equal(t, 18, merged[0].Decimals)
	assert.Equal(t, addrB, merged[1].Address)
}

func TestMergeTokensKeepsUnpricedPublished(t *testing.T) {
	published := []model.Token{{Address: addrA, Symbol: "AAA"}}

	merged := service.MergeTokens(published, nil, service.MergeOptions{})
	assert.Equal(t, published, merged)
}

func TestMergeTokensBumpSymbols(t *testing.T) {
	published := []model.Token{{Address: addrA, Symbol: "USDC"}, {Address: addrB, Symbol: "USDC2"}}
	fresh := []model.Token{{Address: addrC, Symbol: "USDC"}}

	merged := service.MergeTokens(published, fresh, service.MergeOptions{BumpSymbols: true})
	require.Len(t, merged, 3)
	assert.Equal(t, "USDC3", merged[2].Symbol)

	merged = service.MergeTokens(published, fresh, service.MergeOptions{})
	assert.Equal(t, "USDC", merged[2].Symbol)
}

func TestMergeTokensBumpKeepsSymbolLength(t *testing.T) {
	published := []model.Token{{Address: addrA, Symbol: "ABCDEFGH"}, {Address: addrB, Symbol: "ABCDEFG2"}}
	fresh := []model.Token{{Address: addrC, Symbol: "ABCDEFGH"}, {Address: addrD, Symbol: "abcdefgh"}}

	merged := service.MergeTokens(published, fresh, service.MergeOptions{BumpSymbols: true})
	require.Len(t, merged, 4)
	assert.Equal(t, "ABCDEFG3", merged[2].Symbol)
	assert.Equal(t, "abcdefg4", merged[3].Symbol)
	for _, token := range merged {
		assert.True(t, token.IsValid(), token.Symbol)
	}
}

func TestApplyExtensions(t *testing.T) {
	tokens := []model.Token{{Address: addrA, Symbol: "AAA", Name: "upstream"}, {Address: addrB, Symbol: "BBB"}}
	extensions := []model.Token{{Address: "0x1111111111111111111111111111111111111111", Symbol: "AAA", Name: "extension"}, {Address: addrC, Symbol: "CCC"}}

	merged := service.ApplyExtensions(tokens, extensions)
	service.SortByAddress(merged)

	require.Len(t, merged, 3)
	assert.Equal(t, "extension", merged[0].Name)
	assert.Equal(t, "BBB", merged[1].Symbol)
	assert.Equal(t, "CCC", merged[2].Symbol)
}

func TestApplyOverrides(t *testing.T) {
	name := "Renamed"
	decimals := 6
	tokens := []model.Token{{Address: "0xAbC0000000000000000000000000000000000000", Name: "Before", Decimals: 18}}

	patched := service.ApplyOverrides(tokens, map[string]model.TokenOverride{
		"0xabc0000000000000000000000000000000000000": {Name: &name, Decimals: &decimals},
	})
	assert.Equal(t, "Renamed", patched[0].Name)
	assert.Equal(t, 6, patched[0].Decimals)
	assert.Equal(t, "Before", tokens[0].Name)
}
