package service_test

import (
	"testing"

	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCoinListService(f *fixture) service.CoinListService {
	return service.NewCoinListService(f.curation, f.assetRepo, f.listRepo, zerolog.New(nil))
}

func TestCoinListBuild(t *testing.T) {
	f := newFixture(t)
	f.chain("assets/blockchains", "bitcoin", "BTC", "Bitcoin")
	f.chain("assets/blockchains", "arbitrum", "ARETH", "Arbitrum")
	f.chain("assets/blockchains", "fakecoin", "FAKE", "Fake")
	f.writeFile("assets/blockchains/bitcoin/info/logo.png", "png")
	f.writeJSON("extensions/blockchains/denylist.txt", []model.DeniedChain{{Symbol: "FAKE", Name: "Fake"}})
	f.chain("extensions/blockchains", "stacks", "STX", "Stacks")
	f.writeFile("extensions/blockchains/stacks/info/logo.png", "png")

	// chains without a status are dropped
	symbol := "BAD"
	f.writeJSON("assets/blockchains/broken/info/info.json", model.BlockchainInfo{Name: "Broken", Symbol: &symbol})

	require.NoError(t, setupCoinListService(f).Build())

	var coins []model.Coin
	f.readJSON("coins.json", &coins)
	require.Len(t, coins, 3)
	assert.Equal(t, []string{"ARBETH", "BTC", "STX"}, []string{coins[0].Symbol, coins[1].Symbol, coins[2].Symbol})

	assert.Equal(t, "https://raw.githubusercontent.com/trustwallet/assets/37dd998/blockchains/bitcoin/info/logo.png", coins[1].Logo)
	assert.Equal(t, "https://raw.githubusercontent.com/blockchain/coin-definitions/master/extensions/blockchains/stacks/info/logo.png", coins[2].Logo)
	assert.Empty(t, coins[0].Logo)
	assert.Equal(t, 8, coins[1].Decimals)
	assert.Equal(t, "bitcoin", coins[1].Key)
}

func TestCoinListDuplicatesAbort(t *testing.T) {
	f := newFixture(t)
	f.chain("assets/blockchains", "bitcoin", "BTC", "Bitcoin")
	f.chain("extensions/blockchains", "bitcoin2", "btc", "Bitcoin Again")

	err := setupCoinListService(f).Build()
	require.ErrorIs(t, err, service.ErrDuplicates)
	assert.False(t, f.exists("coins.json"))
}
