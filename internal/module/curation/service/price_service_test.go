package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blockchain/coin-definitions/internal/database"
	"github.com/blockchain/coin-definitions/internal/module/cardano"
	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	"github.com/blockchain/coin-definitions/internal/module/curation/service"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	usdcPolicy      = "986f0548a2fd9758bc2a38d698041debe89568749e20ab9b75a7f4b7"
	usdcAssetName   = "55534443"
	usdcFingerprint = "asset1fc7e54kds62yggplh0vs65vcgrmn5n577per23"
)

func price(v float64) *float64 {
	return &v
}

// coinGeckoAPI is a fake CoinGecko answering coins/list, coins/markets (filtered by ids), coins/{id}
// and simple/token_price/{platform}.
type coinGeckoAPI struct {
	coins       []service.CoinGeckoCoin
	markets     []service.Market
	details     map[string]service.CoinDetail
	tokenPrices map[string]map[string]map[string]float64
	requests    []string
}

func (api *coinGeckoAPI) start(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		api.requests = append(api.requests, path)

		var body interface{}
		switch {
		case path == "coins/list":
			body = api.coins
		case path == "coins/markets":
			ids := make(map[string]struct{})
			for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
				ids[id] = struct{}{}
			}
			markets := []service.Market{}
			for _, market := range api.markets {
				if _, ok := ids[market.ID]; ok {
					markets = append(markets, market)
				}
			}
			body = markets
		case strings.HasPrefix(path, "simple/token_price/"):
			body = api.tokenPrices[strings.TrimPrefix(path, "simple/token_price/")]
		case strings.HasPrefix(path, "coins/"):
			detail, ok := api.details[strings.TrimPrefix(path, "coins/")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			body = detail
		default:
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newCryptoCompareServer(t *testing.T, prices map[string]map[string]float64) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/pricemulti" {
			http.NotFound(w, r)
			return
		}
		result := make(map[string]map[string]float64)
		for _, symbol := range strings.Split(r.URL.Query().Get("fsyms"), ",") {
			if quote, ok := prices[symbol]; ok {
				result[symbol] = quote
			}
		}
		json.NewEncoder(w).Encode(result)
	}))
	t.Cleanup(server.Close)
	return server
}

func setupPriceService(f *fixture, coinGeckoURL string, cryptoCompareURL string) service.PriceService {
	cfg := shared.SetupCfg()
	logger := zerolog.New(nil)
	f.curation.CoinGecko.BaseURL = coinGeckoURL
	f.curation.CryptoCompare.BaseURL = cryptoCompareURL

	cg := service.NewCoinGeckoService(cfg, f.curation, nil, logger)
	cc := service.NewCryptoCompareService(cfg, f.curation, nil, logger)
	coinList := service.NewCoinListService(f.curation, f.assetRepo, f.listRepo, logger)
	snapshots := repository.NewSnapshotRepository(database.NewDatabase(cfg, logger), f.app.Options, logger)
	registry, _ := cardano.NewRegistry(nil)

	return service.NewPriceService(f.curation, coinList, f.assetRepo, f.listRepo, f.priceRepo, snapshots, cg, cc, registry, logger)
}

func TestFetchPrices(t *testing.T) {
	f := newFixture(t, "ethereum", "cardano")
	ethereum := f.network("ethereum")
	cardanoNet := f.network("cardano")

	f.chain("assets/blockchains", "bitcoin", "BTC", "Bitcoin")
	f.chain("assets/blockchains", "ethereum", "ETH", "Ethereum")
	f.chain("assets/blockchains", "foochain", "FOO", "Foo")
	f.asset(ethereum.AssetsDir, activeAsset(addrA, "USDC"))
	f.asset(ethereum.AssetsDir, activeAsset(addrB, "BBB"))
	f.asset(cardanoNet.AssetsDir, activeAsset(usdcFingerprint, "USDC"))

	api := &coinGeckoAPI{
		coins: []service.CoinGeckoCoin{
			{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
			{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
			{ID: "usd-coin", Symbol: "usdc", Name: "USDC", Platforms: map[string]string{
				"ethereum": "0x" + strings.ToUpper(addrA[2:]),
				"cardano":  usdcPolicy + usdcAssetName,
			}},
		},
		markets: []service.Market{
			{ID: "bitcoin", CurrentPrice: price(50000)},
			{ID: "ethereum", CurrentPrice: price(3000)},
			{ID: "usd-coin", CurrentPrice: price(1)},
		},
		tokenPrices: map[string]map[string]map[string]float64{
			"ethereum": {addrB: {"usd": 0.5}},
		},
	}
	cg := api.start(t)
	cc := newCryptoCompareServer(t, map[string]map[string]float64{"FOO": {"USD": 2}})

	prices, err := setupPriceService(f, cg.URL, cc.URL).FetchPrices(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"BTC":                    50000,
		"ETH":                    3000,
		"FOO":                    2,
		addrA + ".ETH":           1,
		addrB + ".ETH":           0.5,
		usdcFingerprint + ".ADA": 1,
	}, prices.Prices)
	assert.NotEmpty(t, prices.Timestamp)

	var written model.PriceList
	f.readJSON(f.curation.Paths.ExtPrices, &written)
	assert.Equal(t, prices, written)
}

func TestFetchTokenPricesWithoutPlatform(t *testing.T) {
	f := newFixture(t, "ethereum")
	network := f.network("ethereum")
	network.CoinGeckoPlatform = ""

	prices := setupPriceService(f, "http://127.0.0.1:0/", "http://127.0.0.1:0/").
		FetchTokenPrices(context.Background(), network, []model.Token{{Address: addrA}})
	assert.Empty(t, prices)
}
