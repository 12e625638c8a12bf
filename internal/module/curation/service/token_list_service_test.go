package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/service"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newCoinGeckoServer serves an empty coins list unless routes says otherwise.
func newCoinGeckoServer(t *testing.T, routes map[string]string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		if body, ok := routes[path]; ok {
			w.Write([]byte(body))
			return
		}
		if path == "coins/list" {
			w.Write([]byte("[]"))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func setupTokenListService(f *fixture, coinGeckoURL string, slack *shared.Slack) service.TokenListService {
	f.curation.CoinGecko.BaseURL = coinGeckoURL
	cg := service.NewCoinGeckoService(shared.SetupCfg(), f.curation, nil, zerolog.New(nil))
	if slack == nil {
		slack = shared.NewSlack(shared.SetupCfg(), zerolog.New(nil))
	}
	return service.NewTokenListService(f.curation, f.assetRepo, f.listRepo, f.priceRepo, cg, slack, zerolog.New(nil))
}

func TestBuildNetworkWritesSuffixedList(t *testing.T) {
	f := newFixture(t, "polygon")
	polygon := f.network("polygon")
	server := newCoinGeckoServer(t, nil)

	f.asset(polygon.AssetsDir, activeAsset(addrB, "BBB"))
	f.asset(polygon.AssetsDir, activeAsset(addrA, "AAA"))
	f.asset(polygon.AssetsDir, activeAsset(addrC, "NOPRICE"))
	inactive := activeAsset(addrD, "OFF")
	inactive.Status = "abandoned"
	f.asset(polygon.AssetsDir, inactive)
	f.prices(map[string]float64{
		addrA + ".MATIC": 1,
		addrB + ".MATIC": 2,
		addrD + ".MATIC": 3,
	})

	require.NoError(t, setupTokenListService(f, server.URL, nil).BuildNetwork(context.Background(), polygon, false))

	var tokens []model.Token
	f.readJSON(polygon.OutputFile, &tokens)
	require.Len(t, tokens, 2)
	assert.Equal(t, "AAA.MATIC", tokens[0].Symbol)
	assert.Equal(t, "BBB.MATIC", tokens[1].Symbol)
	assert.Equal(t, "AAA", tokens[0].DisplaySymbol)
	assert.Equal(t, "https://raw.githubusercontent.com/trustwallet/assets/37dd998/blockchains/polygon/assets/"+addrA+"/logo.png", tokens[0].Logo)
}

func TestBuildNetworkKeepsPublishedWithoutPrice(t *testing.T) {
	f := newFixture(t, "polygon")
	polygon := f.network("polygon")
	server := newCoinGeckoServer(t, nil)

	f.asset(polygon.AssetsDir, activeAsset(addrA, "RENAMED"))
	f.writeJSON(polygon.OutputFile, []model.Token{{Address: addrA, Symbol: "AAA.MATIC", Name: "Old"}})
	f.prices(map[string]float64{})

	require.NoError(t, setupTokenListService(f, server.URL, nil).BuildNetwork(context.Background(), polygon, false))

	var tokens []model.Token
	f.readJSON(polygon.OutputFile, &tokens)
	require.Len(t, tokens, 1)
	assert.Equal(t, "AAA.MATIC", tokens[0].Symbol)
	assert.Equal(t, "Old", tokens[0].Name)
}

func TestBuildNetworkExtensionsDenylistOverrides(t *testing.T) {
	f := newFixture(t, "ethereum")
	ethereum := f.network("ethereum")
	server := newCoinGeckoServer(t, nil)

	f.asset(ethereum.AssetsDir, activeAsset(addrA, "AAA"))
	f.asset(ethereum.AssetsDir, activeAsset(addrB, "BBB"))
	f.asset(ethereum.ExtAssetsDir, activeAsset(addrC, "CCC"))
	f.writeFile(filepath.Join(ethereum.ExtAssetsDir, addrC, "logo.png"), "png")
	f.writeFile(ethereum.Denylist, addrB+" # spam\n")
	f.writeFile(ethereum.Overrides, "{\n  /// rebrand\n  \""+addrA+"\": {\"name\": \"Overridden\"}\n}\n")
	f.prices(map[string]float64{addrA + ".ETH": 1, addrB + ".ETH": 1})

	require.NoError(t, setupTokenListService(f, server.URL, nil).BuildNetwork(context.Background(), ethereum, false))

	var tokens []model.Token
	f.readJSON(ethereum.OutputFile, &tokens)
	require.Len(t, tokens, 2)
	assert.Equal(t, "AAA", tokens[0].Symbol)
	assert.Equal(t, "Overridden", tokens[0].Name)
	assert.Equal(t, "CCC", tokens[1].Symbol)
	assert.Equal(t, "https://raw.githubusercontent.com/blockchain/coin-definitions/master/"+ethereum.ExtAssetsDir+addrC+"/logo.png", tokens[1].Logo)
}

func TestBuildNetworkChecksSymbolsAfterExtensionsAndOverrides(t *testing.T) {
	f := newFixture(t, "polygon")
	polygon := f.network("polygon")
	server := newCoinGeckoServer(t, nil)

	f.asset(polygon.AssetsDir, activeAsset(addrA, "AAA"))
	f.asset(polygon.AssetsDir, activeAsset(addrB, "BBB"))
	f.asset(polygon.ExtAssetsDir, activeAsset(addrC, "ABCDEFGH2"))
	f.writeFile(polygon.Overrides, "{\""+addrB+"\": {\"symbol\": \"BAD-SYM\"}}\n")
	f.prices(map[string]float64{addrA + ".MATIC": 1, addrB + ".MATIC": 1})

	require.NoError(t, setupTokenListService(f, server.URL, nil).BuildNetwork(context.Background(), polygon, false))

	var tokens []model.Token
	f.readJSON(polygon.OutputFile, &tokens)
	require.Len(t, tokens, 1)
	assert.Equal(t, "AAA.MATIC", tokens[0].Symbol)
}

func TestBuildNetworkDuplicatesAbort(t *testing.T) {
	f := newFixture(t, "polygon")
	polygon := f.network("polygon")
	server := newCoinGeckoServer(t, nil)

	f.asset(polygon.AssetsDir, activeAsset(addrA, "USDT"))
	f.asset(polygon.AssetsDir, activeAsset(addrB, "USDT"))
	f.prices(map[string]float64{addrA + ".MATIC": 1, addrB + ".MATIC": 1})

	err := setupTokenListService(f, server.URL, nil).BuildNetwork(context.Background(), polygon, false)
	require.ErrorIs(t, err, service.ErrDuplicates)
	assert.False(t, f.exists(polygon.OutputFile))
	assert.False(t, f.exists(polygon.Denylist))
}

func TestBuildNetworkCIDenylistsLosers(t *testing.T) {
	f := newFixture(t, "polygon")
	polygon := f.network("polygon")
	server := newCoinGeckoServer(t, nil)

	var alerts []string
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload shared.SlackPayload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		alerts = append(alerts, payload.Text)
	}))
	defer webhook.Close()
	slack := shared.NewSlack(shared.SetupCfgWith(map[string]interface{}{"slack.webhook-url": webhook.URL}), zerolog.New(nil))

	f.asset(polygon.AssetsDir, activeAsset(addrA, "USDT"))
	f.asset(polygon.AssetsDir, activeAsset(addrB, "USDT"))
	f.writeJSON(polygon.OutputFile, []model.Token{{Address: addrA, Symbol: "USDT.MATIC"}})
	f.prices(map[string]float64{addrA + ".MATIC": 1, addrB + ".MATIC": 1})

	require.NoError(t, setupTokenListService(f, server.URL, slack).BuildNetwork(context.Background(), polygon, true))

	var tokens []model.Token
	f.readJSON(polygon.OutputFile, &tokens)
	require.Len(t, tokens, 1)
	assert.Equal(t, addrA, tokens[0].Address)

	denylist, err := os.ReadFile(filepath.Join(f.root, polygon.Denylist))
	require.NoError(t, err)
	assert.Equal(t, addrB+" # USDT duplicate\n", string(denylist))

	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0], addrB)
}

func TestBuildAllJoinsErrors(t *testing.T) {
	f := newFixture(t, "polygon", "celo")
	polygon := f.network("polygon")
	server := newCoinGeckoServer(t, nil)

	f.asset(polygon.AssetsDir, activeAsset(addrA, "USDT"))
	f.asset(polygon.AssetsDir, activeAsset(addrB, "USDT"))
	f.prices(map[string]float64{addrA + ".MATIC": 1, addrB + ".MATIC": 1})

	err := setupTokenListService(f, server.URL, nil).BuildAll(context.Background(), false)
	require.ErrorIs(t, err, service.ErrDuplicates)
	assert.Contains(t, err.Error(), "polygon")

	// celo still got its (empty) list
	assert.True(t, f.exists(f.network("celo").OutputFile))
}
