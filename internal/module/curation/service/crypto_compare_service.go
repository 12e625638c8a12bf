package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

const coinListCacheKey = "cryptocompare:coin-list"

type CryptoCompareCoin struct {
	Symbol             string `json:"Symbol"`
	CoinName           string `json:"CoinName"`
	Description        string `json:"Description"`
	AssetWebsiteURL    string `json:"AssetWebsiteUrl"`
	AssetWhitepaperURL string `json:"AssetWhitepaperUrl"`
}

type cryptoCompareResponse struct {
	Response string          `json:"Response"`
	Message  string          `json:"Message"`
	Data     json.RawMessage `json:"Data"`
}

type CryptoCompareService interface {
	FetchPrices(ctx context.Context, symbols []string) map[string]float64
	CoinList(ctx context.Context) (map[string]CryptoCompareCoin, error)
}

type cryptoCompareService struct {
	config      *config.CryptoCompare
	client      shared.HTTPClient
	baseURL     string
	redisClient *shared.RedisClient
	coinListTTL time.Duration
	logger      zerolog.Logger
}

func NewCryptoCompareService(cfg *koanf.Koanf, curation *config.Curation, redisClient *shared.RedisClient, logger zerolog.Logger) CryptoCompareService {
	return NewCryptoCompareServiceWithClient(cfg, curation, redisClient, http.DefaultClient, logger)
}

func NewCryptoCompareServiceWithClient(cfg *koanf.Koanf, curation *config.Curation, redisClient *shared.RedisClient, client shared.HTTPClient, logger zerolog.Logger) CryptoCompareService {
	baseURL := curation.CryptoCompare.BaseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &cryptoCompareService{
		config:      &curation.CryptoCompare,
		client:      client,
		baseURL:     baseURL,
		redisClient: redisClient,
		coinListTTL: cfg.Duration("redis.coin-list-ttl"),
		logger:      logger,
	}
}

// get returns the raw body. CryptoCompare reports errors in a 200 body with Response "Error".
func (s *cryptoCompareService) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if s.config.APIKey != "" {
		query.Set("api_key", s.config.APIKey)
	}
	target := s.baseURL + path + "?" + query.Encode()

	body, statusCode, err := shared.DoRequest(ctx, s.client, target, map[string]string{"accept": "application/json"}, s.config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("cryptocompare %s (status %d): %v", path, statusCode, err)
	}

	var status cryptoCompareResponse
	if err := json.Unmarshal(body, &status); err == nil && status.Response == "Error" {
		return nil, fmt.Errorf("cryptocompare %s: %s", path, status.Message)
	}
	return body, nil
}

// FetchPrices queries pricemulti in batches and returns USD prices keyed by symbol.
func (s *cryptoCompareService) FetchPrices(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64)
	for _, batch := range shared.MapChunked(symbols, s.config.PriceBatchSize, progressWriter, func(chunk []string) map[string]map[string]float64 {
		body, err := s.get(ctx, "data/pricemulti", url.Values{
			"fsyms": {strings.Join(chunk, ",")},
			"tsyms": {"USD"},
		})
		if err != nil {
			s.logger.Error().Err(err).Msg("Error fetching CryptoCompare prices")
			return nil
		}

		var result map[string]map[string]float64
		if err := shared.ParseJSONResponse(body, &result); err != nil {
			s.logger.Error().Err(err).Msg("Error decoding CryptoCompare prices")
			return nil
		}
		return result
	}) {
		for symbol, quote := range batch {
			if usd, ok := quote["USD"]; ok {
				prices[symbol] = usd
			}
		}
	}
	return prices
}

// CoinList returns all/coinlist keyed by symbol, cached in redis across runs.
func (s *cryptoCompareService) CoinList(ctx context.Context) (map[string]CryptoCompareCoin, error) {
	var coins map[string]CryptoCompareCoin
	if s.redisClient.GetJSON(ctx, coinListCacheKey, &coins) {
		return coins, nil
	}

	body, err := s.get(ctx, "data/all/coinlist", url.Values{})
	if err != nil {
		return nil, err
	}

	var response cryptoCompareResponse
	if err := shared.ParseJSONResponse(body, &response); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(response.Data, &coins); err != nil {
		return nil, fmt.Errorf("failed to decode coin list: %v", err)
	}

	s.redisClient.SetJSON(ctx, coinListCacheKey, coins, s.coinListTTL)
	return coins, nil
}
