package service_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	addrA = "0x1111111111111111111111111111111111111111"
	addrB = "0x2222222222222222222222222222222222222222"
	addrC = "0x3333333333333333333333333333333333333333"
	addrD = "0x4444444444444444444444444444444444444444"
)

// fixture is a throwaway repository checkout with its config.
type fixture struct {
	t         *testing.T
	root      string
	app       *application.Application
	curation  *config.Curation
	assetRepo repository.AssetRepository
	listRepo  repository.ListRepository
	priceRepo repository.PriceRepository
}

// newFixture keeps only the named networks of the default config.
func newFixture(t *testing.T, chains ...string) *fixture {
	root := t.TempDir()
	curation := shared.SetupCuration()

	var networks []config.Network
	for _, chain := range chains {
		network, ok := curation.NetworkByChain(chain)
		require.True(t, ok, chain)
		networks = append(networks, network)
	}
	curation.Networks = networks

	app := &application.Application{AppName: "coin-definitions", Root: root, Options: &application.Options{RunID: "test"}}
	logger := zerolog.New(nil)
	return &fixture{
		t:         t,
		root:      root,
		app:       app,
		curation:  curation,
		assetRepo: repository.NewAssetRepository(app, curation, logger),
		listRepo:  repository.NewListRepository(app, curation, logger),
		priceRepo: repository.NewPriceRepository(app, curation, logger),
	}
}

func (f *fixture) network(chain string) config.Network {
	network, ok := f.curation.NetworkByChain(chain)
	require.True(f.t, ok, chain)
	return network
}

func (f *fixture) writeFile(rel string, content string) {
	path := filepath.Join(f.root, rel)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(f.t, os.WriteFile(path, []byte(content), 0o644))
}

func (f *fixture) writeJSON(rel string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(f.t, err)
	f.writeFile(rel, string(data))
}

func (f *fixture) readJSON(rel string, v interface{}) {
	require.NoError(f.t, shared.ReadJSON(filepath.Join(f.root, rel), v))
}

func (f *fixture) exists(rel string) bool {
	return shared.Exists(filepath.Join(f.root, rel))
}

func (f *fixture) asset(dir string, info model.AssetInfo) {
	f.writeJSON(filepath.Join(dir, info.ID, "info.json"), info)
}

func (f *fixture) chain(dir string, key string, symbol string, name string) {
	decimals := 8
	status := model.StatusActive
	f.writeJSON(filepath.Join(dir, key, "info", "info.json"), model.BlockchainInfo{
		Name:     name,
		Symbol:   &symbol,
		Decimals: &decimals,
		Status:   &status,
		Website:  "https://" + key + ".org",
	})
}

func (f *fixture) prices(prices map[string]float64) {
	require.NoError(f.t, f.priceRepo.Write(model.PriceList{Timestamp: "2024-01-01T00:00:00.000000", Prices: prices}))
}

func activeAsset(address string, symbol string) model.AssetInfo {
	return model.AssetInfo{
		ID:       address,
		Decimals: 18,
		Name:     symbol + " Token",
		Symbol:   symbol,
		Website:  "https://" + symbol + ".io",
		Status:   model.StatusActive,
	}
}
