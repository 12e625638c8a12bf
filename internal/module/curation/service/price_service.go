package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/blockchain/coin-definitions/internal/module/cardano"
	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/rs/zerolog"
)

// microsecond layout without zone, matching the timestamps already committed in prices.json
const priceTimestampLayout = "2006-01-02T15:04:05.000000"

type PriceService interface {
	FetchCoinPrices(ctx context.Context, coins []model.Coin) map[string]float64
	FetchTokenPrices(ctx context.Context, network model.Network, tokens []model.Token) map[string]float64
	FetchPrices(ctx context.Context) (model.PriceList, error)
}

type priceService struct {
	curation             *config.Curation
	coinListService      CoinListService
	assetRepo            repository.AssetRepository
	listRepo             repository.ListRepository
	priceRepo            repository.PriceRepository
	snapshotRepo         repository.SnapshotRepository
	coinGeckoService     CoinGeckoService
	cryptoCompareService CryptoCompareService
	registry             *cardano.Registry
	now                  func() time.Time
	logger               zerolog.Logger
}

func NewPriceService(
	curation *config.Curation,
	coinListService CoinListService,
	assetRepo repository.AssetRepository,
	listRepo repository.ListRepository,
	priceRepo repository.PriceRepository,
	snapshotRepo repository.SnapshotRepository,
	coinGeckoService CoinGeckoService,
	cryptoCompareService CryptoCompareService,
	registry *cardano.Registry,
	logger zerolog.Logger,
) PriceService {
	return &priceService{
		curation:             curation,
		coinListService:      coinListService,
		assetRepo:            assetRepo,
		listRepo:             listRepo,
		priceRepo:            priceRepo,
		snapshotRepo:         snapshotRepo,
		coinGeckoService:     coinGeckoService,
		cryptoCompareService: cryptoCompareService,
		registry:             registry,
		now:                  time.Now,
		logger:               logger,
	}
}

// FetchCoinPrices prices coins from CoinGecko markets and asks CryptoCompare for whatever is left.
func (s *priceService) FetchCoinPrices(ctx context.Context, coins []model.Coin) map[string]float64 {
	mapping := s.curation.CoinGeckoIDs()
	coinsByID := make(map[string]model.Coin)
	for _, coin := range coins {
		if id, ok := mapping[coin.Symbol]; ok {
			coinsByID[id] = coin
		}
	}

	prices := make(map[string]float64, len(coins))
	for id, market := range s.coinGeckoService.FetchAllUSDMarkets(ctx, sortedKeys(coinsByID)) {
		coin, ok := coinsByID[id]
		if !ok || market.CurrentPrice == nil {
			continue
		}
		prices[coin.Symbol] = *market.CurrentPrice
	}

	var missing []string
	for _, coin := range coins {
		if _, ok := prices[coin.Symbol]; !ok {
			missing = append(missing, coin.Symbol)
		}
	}
	if len(missing) > 0 {
		s.logger.Info().Msgf("Asking CryptoCompare for %d coins without a CoinGecko price", len(missing))
		for symbol, price := range s.cryptoCompareService.FetchPrices(ctx, missing) {
			prices[symbol] = price
		}
	}
	return prices
}

// FetchTokenPrices prices tokens through their CoinGecko coin and falls back to simple/token_price.
func (s *priceService) FetchTokenPrices(ctx context.Context, network model.Network, tokens []model.Token) map[string]float64 {
	prices := make(map[string]float64, len(tokens))
	if network.CoinGeckoPlatform == "" {
		s.logger.Warn().Msgf("No CoinGecko platform configured for %s", network.Chain)
		return prices
	}

	index, _ := s.coinGeckoService.Index(ctx)
	tokensByID := make(map[string][]model.Token)
	var unlisted []model.Token
	for _, token := range tokens {
		if coin, ok := index.ByAddress(network.CoinGeckoPlatform, token.Address); ok {
			tokensByID[coin.ID] = append(tokensByID[coin.ID], token)
			continue
		}
		unlisted = append(unlisted, token)
	}

	for id, market := range s.coinGeckoService.FetchAllUSDMarkets(ctx, sortedKeys(tokensByID)) {
		if market.CurrentPrice == nil {
			continue
		}
		for _, token := range tokensByID[id] {
			prices[token.PriceKey(network)] = *market.CurrentPrice
		}
	}

	var addresses []string
	tokensByAddress := make(map[string]model.Token)
	for _, list := range tokensByID {
		for _, token := range list {
			if _, ok := prices[token.PriceKey(network)]; !ok {
				unlisted = append(unlisted, token)
			}
		}
	}
	for _, token := range unlisted {
		address := s.platformAddress(network, token.Address)
		if address == "" {
			continue
		}
		if _, ok := tokensByAddress[address]; !ok {
			addresses = append(addresses, address)
		}
		tokensByAddress[address] = token
	}
	sort.Strings(addresses)

	if len(addresses) > 0 {
		s.logger.Info().Msgf("Asking simple/token_price for %d %s tokens", len(addresses), network.Symbol)
		for address, price := range s.coinGeckoService.FetchTokenPrices(ctx, network.CoinGeckoPlatform, addresses) {
			if token, ok := tokensByAddress[address]; ok {
				prices[token.PriceKey(network)] = price
			}
		}
	}
	return prices
}

// platformAddress is the address CoinGecko knows the token by, lower-cased. Cardano fingerprints go through the registry.
func (s *priceService) platformAddress(network model.Network, address string) string {
	if network.AddressFormat != config.AddressFormatCardano {
		return strings.ToLower(address)
	}
	if s.registry == nil {
		return ""
	}
	entry, ok := s.registry.Lookup(address)
	if !ok {
		s.logger.Debug().Msgf("No policy id known for %s", address)
		return ""
	}
	return strings.ToLower(entry.Unit())
}

// FetchPrices snapshots coin and token prices into extensions/prices.json.
func (s *priceService) FetchPrices(ctx context.Context) (model.PriceList, error) {
	coins, err := s.coinListService.Collect()
	if err != nil {
		return model.PriceList{}, err
	}

	prices := model.PriceList{
		Timestamp: s.now().Format(priceTimestampLayout),
		Prices:    s.FetchCoinPrices(ctx, coins),
	}

	for _, network := range s.curation.Networks {
		if err := ctx.Err(); err != nil {
			return prices, err
		}

		tokens, err := readTokens(s.assetRepo, network.AssetsDir, network)
		if err != nil {
			return prices, err
		}
		extensions, err := readExtensions(s.assetRepo, network)
		if err != nil {
			return prices, err
		}
		published, err := readPublished(s.listRepo, network)
		if err != nil {
			return prices, err
		}
		tokens = ApplyExtensions(MergeTokens(published, tokens, MergeOptions{}), extensions)

		s.logger.Info().Msgf("Fetching prices for %d %s tokens", len(tokens), network.Symbol)
		for key, price := range s.FetchTokenPrices(ctx, network, tokens) {
			prices.Prices[key] = price
		}
	}

	if previous, err := s.snapshotRepo.Latest(ctx); err == nil {
		s.logger.Info().Msgf("Fetched %d prices, previous snapshot %s had %d", len(prices.Prices), previous.Timestamp, previous.Count)
	}
	if err := s.priceRepo.Write(prices); err != nil {
		return prices, err
	}
	if err := s.snapshotRepo.Save(ctx, prices); err != nil {
		s.logger.Error().Err(err).Msg("Failed to archive price snapshot")
	}
	return prices, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
