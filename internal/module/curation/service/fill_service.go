package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/module/cardano"
	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

type FillService interface {
	// FillFromCoinGecko writes an extension for every liquid CoinGecko token of the network we do not list yet.
	FillFromCoinGecko(ctx context.Context, networkName string) ([]model.AssetInfo, error)
}

type fillService struct {
	curation         *config.Curation
	app              *application.Application
	assetRepo        repository.AssetRepository
	listRepo         repository.ListRepository
	coinGeckoService CoinGeckoService
	registry         *cardano.Registry
	logger           zerolog.Logger
}

func NewFillService(
	curation *config.Curation,
	app *application.Application,
	assetRepo repository.AssetRepository,
	listRepo repository.ListRepository,
	coinGeckoService CoinGeckoService,
	registry *cardano.Registry,
	logger zerolog.Logger,
) FillService {
	return &fillService{
		curation:         curation,
		app:              app,
		assetRepo:        assetRepo,
		listRepo:         listRepo,
		coinGeckoService: coinGeckoService,
		registry:         registry,
		logger:           logger,
	}
}

// ResolveNetwork accepts a chain name or a network symbol.
func ResolveNetwork(curation *config.Curation, name string) (model.Network, error) {
	if network, ok := curation.NetworkByChain(strings.ToLower(name)); ok {
		return network, nil
	}
	if network, ok := curation.NetworkBySymbol(strings.ToUpper(name)); ok {
		return network, nil
	}
	return model.Network{}, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
}

type fillCandidate struct {
	coin   CoinGeckoCoin
	market Market
}

func (s *fillService) FillFromCoinGecko(ctx context.Context, networkName string) ([]model.AssetInfo, error) {
	network, err := ResolveNetwork(s.curation, networkName)
	if err != nil {
		return nil, err
	}
	if network.CoinGeckoPlatform == "" {
		return nil, fmt.Errorf("network %s has no CoinGecko platform", network.Chain)
	}

	known, existing, err := s.knownTokens(network)
	if err != nil {
		return nil, err
	}

	index, err := s.coinGeckoService.Index(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]CoinGeckoCoin)
	for _, coin := range index.ByID {
		address := coin.Platforms[network.CoinGeckoPlatform]
		if address == "" {
			continue
		}
		if _, ok := known[strings.ToLower(address)]; ok {
			continue
		}
		byID[coin.ID] = coin
	}
	s.logger.Info().Msgf("%d CoinGecko %s tokens are not listed yet", len(byID), network.CoinGeckoPlatform)

	var candidates []fillCandidate
	for id, market := range s.coinGeckoService.FetchAllUSDMarkets(ctx, sortedKeys(byID)) {
		coin, ok := byID[id]
		if !ok || market.MarketCap == nil || *market.MarketCap < s.curation.Fill.MinMarketCap {
			continue
		}
		candidates = append(candidates, fillCandidate{coin: coin, market: market})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if *candidates[i].market.MarketCap != *candidates[j].market.MarketCap {
			return *candidates[i].market.MarketCap > *candidates[j].market.MarketCap
		}
		return candidates[i].coin.ID < candidates[j].coin.ID
	})
	s.logger.Info().Msgf("%d of them have a market cap of at least %g", len(candidates), s.curation.Fill.MinMarketCap)

	var infos []model.AssetInfo
	for _, candidate := range candidates {
		info, ok := s.buildExtension(ctx, network, candidate, known)
		if !ok {
			continue
		}
		known[strings.ToLower(info.ID)] = struct{}{}
		infos = append(infos, info)
	}
	if len(infos) == 0 {
		return nil, nil
	}

	// larger market caps come first and keep the plain symbol
	fresh := make([]model.Token, 0, len(infos))
	for _, info := range infos {
		fresh = append(fresh, model.Token{Address: info.ID, Symbol: info.Symbol})
	}
	symbols := make(map[string]string, len(infos))
	for _, token := range MergeTokens(existing, fresh, MergeOptions{BumpSymbols: true}) {
		symbols[token.Key()] = token.Symbol
	}

	added := make([]model.AssetInfo, 0, len(infos))
	for _, info := range infos {
		info.Symbol = symbols[strings.ToLower(info.ID)]
		rel, err := s.assetRepo.WriteExtension(network, info)
		if err != nil {
			return added, err
		}
		s.logger.Info().Msgf("Added %s (%s) as %s", info.Symbol, info.Name, rel)
		added = append(added, info)
	}

	if network.AddressFormat == config.AddressFormatCardano && s.curation.Paths.Fingerprints != "" {
		if err := shared.WriteJSON(s.app.Path(s.curation.Paths.Fingerprints), s.registry.Entries(), 4); err != nil {
			return added, err
		}
	}
	return added, nil
}

// knownTokens returns the addresses to skip and the tokens whose symbols are taken.
func (s *fillService) knownTokens(network model.Network) (map[string]struct{}, []model.Token, error) {
	known := make(map[string]struct{})

	assets, err := s.assetRepo.ReadAssets(network.AssetsDir)
	if err != nil {
		return nil, nil, err
	}
	for _, asset := range assets {
		known[asset.Key()] = struct{}{}
	}

	published, err := readPublished(s.listRepo, network)
	if err != nil {
		return nil, nil, err
	}
	extensions, err := readExtensions(s.assetRepo, network)
	if err != nil {
		return nil, nil, err
	}
	existing := ApplyExtensions(published, extensions)
	for _, token := range existing {
		known[token.Key()] = struct{}{}
	}

	denylist, err := s.assetRepo.ReadDenylist(network.Denylist)
	if err != nil {
		return nil, nil, err
	}
	for address := range denylist {
		known[address] = struct{}{}
	}

	if network.AddressFormat == config.AddressFormatCardano {
		// CoinGecko lists cardano tokens by unit, we list them by fingerprint
		for _, entry := range s.registry.Entries() {
			if _, ok := known[entry.Fingerprint]; ok {
				known[strings.ToLower(entry.Unit())] = struct{}{}
			}
		}
	}
	return known, existing, nil
}

func (s *fillService) buildExtension(ctx context.Context, network model.Network, candidate fillCandidate, known map[string]struct{}) (model.AssetInfo, bool) {
	detail, err := s.coinGeckoService.CoinDetail(ctx, candidate.coin.ID)
	if err != nil {
		s.logger.Error().Err(err).Msgf("Error fetching CoinGecko details of %s", candidate.coin.ID)
		return model.AssetInfo{}, false
	}
	platform, ok := detail.DetailPlatforms[network.CoinGeckoPlatform]
	if !ok || platform.DecimalPlace == nil {
		s.logger.Warn().Msgf("Skipping %s: no decimals on %s", candidate.coin.ID, network.CoinGeckoPlatform)
		return model.AssetInfo{}, false
	}

	address, err := s.normalizeAddress(network, candidate.coin.Platforms[network.CoinGeckoPlatform])
	if err != nil {
		s.logger.Warn().Err(err).Msgf("Skipping %s", candidate.coin.ID)
		return model.AssetInfo{}, false
	}
	if _, ok := known[strings.ToLower(address)]; ok {
		return model.AssetInfo{}, false
	}

	symbol := strings.ToUpper(candidate.market.Symbol)
	if !model.IsValidSymbol(symbol) {
		s.logger.Warn().Msgf("Skipping %s: invalid symbol %q", candidate.coin.ID, symbol)
		return model.AssetInfo{}, false
	}

	return model.AssetInfo{
		ID:       address,
		Decimals: *platform.DecimalPlace,
		Name:     candidate.market.Name,
		Symbol:   symbol,
		Website:  detail.Homepage(),
		Status:   model.StatusActive,
	}, true
}

// normalizeAddress checksums EVM addresses and turns Cardano units into registered fingerprints.
func (s *fillService) normalizeAddress(network model.Network, address string) (string, error) {
	switch network.AddressFormat {
	case config.AddressFormatEVM:
		if !common.IsHexAddress(address) {
			return "", fmt.Errorf("invalid address %s", address)
		}
		return common.HexToAddress(address).Hex(), nil
	case config.AddressFormatCardano:
		unit := strings.ToLower(address)
		if len(unit) < 2*cardano.PolicyIDSize {
			return "", fmt.Errorf("invalid cardano unit %s", address)
		}
		entry := cardano.Entry{PolicyID: unit[:2*cardano.PolicyIDSize], AssetName: unit[2*cardano.PolicyIDSize:]}
		fp, err := cardano.Fingerprint(entry.PolicyID, entry.AssetName)
		if err != nil {
			return "", err
		}
		entry.Fingerprint = fp
		if err := s.registry.Add(entry); err != nil {
			return "", err
		}
		return fp, nil
	default:
		return address, nil
	}
}
