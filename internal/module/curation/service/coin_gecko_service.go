package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/blockchain/coin-definitions/internal/module/cardano"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const (
	coinsListCacheKey  = "coingecko:coins-list"
	coinIndexMemoKey   = "index"
	coinGeckoAPIHeader = "x-cg-pro-api-key"
	coinGeckoCoinsURL  = "https://www.coingecko.com/en/coins/"
	cardanoPlatform    = "cardano"
)

type CoinGeckoCoin struct {
	ID        string            `json:"id"`
	Symbol    string            `json:"symbol"`
	Name      string            `json:"name"`
	Platforms map[string]string `json:"platforms"`
}

type Market struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	MarketCap    *float64 `json:"market_cap"`
}

type DetailPlatform struct {
	DecimalPlace    *int   `json:"decimal_place"`
	ContractAddress string `json:"contract_address"`
}

type CoinDetail struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description struct {
		En string `json:"en"`
	} `json:"description"`
	Links struct {
		Homepage []string `json:"homepage"`
	} `json:"links"`
	DetailPlatforms map[string]DetailPlatform `json:"detail_platforms"`
}

// Homepage is the first non-empty homepage link.
func (d CoinDetail) Homepage() string {
	for _, link := range d.Links.Homepage {
		if link != "" {
			return link
		}
	}
	return ""
}

// CoinIndex looks coins up by id and by (platform, address).
type CoinIndex struct {
	ByID              map[string]CoinGeckoCoin
	ByPlatformAddress map[string]CoinGeckoCoin
}

func platformAddressKey(platform string, address string) string {
	return platform + ":" + strings.ToLower(address)
}

// NewCoinIndex indexes coins. Cardano platform addresses (policy id + asset name) are also indexed by fingerprint.
func NewCoinIndex(coins []CoinGeckoCoin) *CoinIndex {
	index := &CoinIndex{
		ByID:              make(map[string]CoinGeckoCoin, len(coins)),
		ByPlatformAddress: make(map[string]CoinGeckoCoin),
	}
	for _, coin := range coins {
		index.ByID[coin.ID] = coin
		for platform, address := range coin.Platforms {
			if address == "" {
				continue
			}
			index.ByPlatformAddress[platformAddressKey(platform, address)] = coin
			if platform == cardanoPlatform && len(address) >= 2*cardano.PolicyIDSize {
				if fp, err := cardano.Fingerprint(address[:2*cardano.PolicyIDSize], address[2*cardano.PolicyIDSize:]); err == nil {
					index.ByPlatformAddress[platformAddressKey(platform, fp)] = coin
				}
			}
		}
	}
	return index
}

func (i *CoinIndex) ByAddress(platform string, address string) (CoinGeckoCoin, bool) {
	if platform == "" {
		return CoinGeckoCoin{}, false
	}
	coin, ok := i.ByPlatformAddress[platformAddressKey(platform, address)]
	return coin, ok
}

type CoinGeckoService interface {
	CoinsList(ctx context.Context) ([]CoinGeckoCoin, error)
	Index(ctx context.Context) (*CoinIndex, error)
	FetchUSDMarkets(ctx context.Context, ids []string) []Market
	FetchAllUSDMarkets(ctx context.Context, ids []string) map[string]Market
	CoinDetail(ctx context.Context, id string) (*CoinDetail, error)
	FetchTokenPrices(ctx context.Context, platform string, addresses []string) map[string]float64
	CoinURL(id string) string
}

type coinGeckoService struct {
	config       *config.CoinGecko
	client       shared.HTTPClient
	baseURL      string
	headers      map[string]string
	redisClient  *shared.RedisClient
	coinsListTTL time.Duration
	indexMemo    *cache.Cache[string, *CoinIndex]
	detailMemo   *cache.Cache[string, *CoinDetail]
	logger       zerolog.Logger
}

func NewCoinGeckoService(cfg *koanf.Koanf, curation *config.Curation, redisClient *shared.RedisClient, logger zerolog.Logger) CoinGeckoService {
	return NewCoinGeckoServiceWithClient(cfg, curation, redisClient, http.DefaultClient, logger)
}

func NewCoinGeckoServiceWithClient(cfg *koanf.Koanf, curation *config.Curation, redisClient *shared.RedisClient, client shared.HTTPClient, logger zerolog.Logger) CoinGeckoService {
	baseURL := curation.CoinGecko.BaseURL
	headers := map[string]string{"accept": "application/json"}
	if curation.CoinGecko.APIKey != "" {
		baseURL = curation.CoinGecko.ProBaseURL
		headers[coinGeckoAPIHeader] = curation.CoinGecko.APIKey
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &coinGeckoService{
		config:       &curation.CoinGecko,
		client:       client,
		baseURL:      baseURL,
		headers:      headers,
		redisClient:  redisClient,
		coinsListTTL: cfg.Duration("redis.coins-list-ttl"),
		indexMemo:    cache.New[string, *CoinIndex](),
		detailMemo:   cache.New[string, *CoinDetail](),
		logger:       logger,
	}
}

func (s *coinGeckoService) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	target := s.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	body, statusCode, err := shared.DoRequest(ctx, s.client, target, s.headers, s.config.Timeout)
	if err != nil {
		return fmt.Errorf("coingecko %s (status %d): %v", path, statusCode, err)
	}
	return shared.ParseJSONResponse(body, result)
}

// CoinsList returns coins/list with platforms, cached in redis across runs.
func (s *coinGeckoService) CoinsList(ctx context.Context) ([]CoinGeckoCoin, error) {
	var coins []CoinGeckoCoin
	if s.redisClient.GetJSON(ctx, coinsListCacheKey, &coins) {
		s.logger.Debug().Msgf("Loaded %d CoinGecko coins from cache", len(coins))
		return coins, nil
	}

	if err := s.get(ctx, "coins/list", url.Values{"include_platform": {"true"}}, &coins); err != nil {
		return nil, err
	}
	s.redisClient.SetJSON(ctx, coinsListCacheKey, coins, s.coinsListTTL)
	return coins, nil
}

// Index builds the coin index once per run. A failed coins/list call yields an empty index.
func (s *coinGeckoService) Index(ctx context.Context) (*CoinIndex, error) {
	if index, ok := s.indexMemo.Get(coinIndexMemoKey); ok {
		return index, nil
	}

	coins, err := s.CoinsList(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Error fetching CoinGecko coin list")
		return NewCoinIndex(nil), err
	}

	index := NewCoinIndex(coins)
	s.indexMemo.Set(coinIndexMemoKey, index)
	return index, nil
}

// FetchUSDMarkets fetches one batch of coins/markets. Errors are logged and yield no markets.
func (s *coinGeckoService) FetchUSDMarkets(ctx context.Context, ids []string) []Market {
	if len(ids) == 0 {
		return nil
	}

	var markets []Market
	query := url.Values{
		"vs_currency": {"usd"},
		"ids":         {strings.Join(ids, ",")},
		"per_page":    {fmt.Sprint(s.config.MarketsBatchSize)},
	}
	if err := s.get(ctx, "coins/markets", query, &markets); err != nil {
		s.logger.Error().Err(err).Msg("Error fetching CoinGecko prices")
		return nil
	}
	return markets
}

// FetchAllUSDMarkets fetches markets for ids in batches, keyed by coin id.
func (s *coinGeckoService) FetchAllUSDMarkets(ctx context.Context, ids []string) map[string]Market {
	markets := make(map[string]Market, len(ids))
	for _, batch := range shared.MapChunked(ids, s.config.MarketsBatchSize, progressWriter, func(chunk []string) []Market {
		return s.FetchUSDMarkets(ctx, chunk)
	}) {
		for _, market := range batch {
			markets[market.ID] = market
		}
	}
	return markets
}

// CoinDetail fetches coins/{id} once per run.
func (s *coinGeckoService) CoinDetail(ctx context.Context, id string) (*CoinDetail, error) {
	if detail, ok := s.detailMemo.Get(id); ok {
		return detail, nil
	}

	query := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"false"},
		"community_data": {"false"},
		"developer_data": {"false"},
		"sparkline":      {"false"},
	}
	var detail CoinDetail
	if err := s.get(ctx, "coins/"+url.PathEscape(id), query, &detail); err != nil {
		return nil, err
	}

	s.detailMemo.Set(id, &detail)
	return &detail, nil
}

// FetchTokenPrices queries simple/token_price in batches; the result is keyed by lower-cased address.
func (s *coinGeckoService) FetchTokenPrices(ctx context.Context, platform string, addresses []string) map[string]float64 {
	prices := make(map[string]float64)
	if platform == "" || len(addresses) == 0 {
		return prices
	}

	for _, batch := range shared.MapChunked(addresses, s.config.TokenPriceBatchSize, progressWriter, func(chunk []string) map[string]map[string]float64 {
		var result map[string]map[string]float64
		query := url.Values{
			"contract_addresses": {strings.Join(chunk, ",")},
			"vs_currencies":      {"usd"},
		}
		if err := s.get(ctx, "simple/token_price/"+url.PathEscape(platform), query, &result); err != nil {
			s.logger.Error().Err(err).Msgf("Error fetching CoinGecko token prices on %s", platform)
			return nil
		}
		return result
	}) {
		for address, quote := range batch {
			if usd, ok := quote["usd"]; ok {
				prices[strings.ToLower(address)] = usd
			}
		}
	}
	return prices
}

func (s *coinGeckoService) CoinURL(id string) string {
	return coinGeckoCoinsURL + id
}
