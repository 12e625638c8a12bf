package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/rs/zerolog"
)

type TokenListService interface {
	Assemble(ctx context.Context, network model.Network, prices model.PriceList) ([]model.Token, []DuplicateGroup[model.Token], error)
	BuildNetwork(ctx context.Context, network model.Network, ci bool) error
	BuildAll(ctx context.Context, ci bool) error
}

type tokenListService struct {
	curation         *config.Curation
	assetRepo        repository.AssetRepository
	listRepo         repository.ListRepository
	priceRepo        repository.PriceRepository
	coinGeckoService CoinGeckoService
	slack            *shared.Slack
	logger           zerolog.Logger
}

func NewTokenListService(
	curation *config.Curation,
	assetRepo repository.AssetRepository,
	listRepo repository.ListRepository,
	priceRepo repository.PriceRepository,
	coinGeckoService CoinGeckoService,
	slack *shared.Slack,
	logger zerolog.Logger,
) TokenListService {
	return &tokenListService{
		curation:         curation,
		assetRepo:        assetRepo,
		listRepo:         listRepo,
		priceRepo:        priceRepo,
		coinGeckoService: coinGeckoService,
		slack:            slack,
		logger:           logger,
	}
}

// readTokens converts the active assets of dir into tokens of the network.
func readTokens(assetRepo repository.AssetRepository, dir string, network model.Network) ([]model.Token, error) {
	assets, err := assetRepo.ReadAssets(dir)
	if err != nil {
		return nil, err
	}

	logos := assetRepo.Logos()
	tokens := make([]model.Token, 0, len(assets))
	for _, asset := range Filter(assets, IsActive) {
		tokens = append(tokens, model.TokenFromAsset(asset, network, logos))
	}
	return tokens, nil
}

// readPublished returns the published list of the network with suffixes removed.
func readPublished(listRepo repository.ListRepository, network model.Network) ([]model.Token, error) {
	published, err := listRepo.ReadTokens(network)
	if err != nil {
		return nil, err
	}
	for i, token := range published {
		published[i] = token.WithoutSuffix(network)
	}
	return published, nil
}

// Assemble runs the whole pipeline for one network and returns the list to publish, unsuffixed, with any
// symbol collisions left in it.
func (s *tokenListService) Assemble(ctx context.Context, network model.Network, prices model.PriceList) ([]model.Token, []DuplicateGroup[model.Token], error) {
	s.logger.Info().Msgf("Generating token files for network \"%s\"", network.Chain)
	tokens, err := readTokens(s.assetRepo, network.AssetsDir, network)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info().Msgf("Tokens before price filter %d", len(tokens))
	tokens = Filter(tokens, HasPrice(prices, network))
	s.logger.Info().Msgf("Tokens after price filter %d", len(tokens))

	published, err := readPublished(s.listRepo, network)
	if err != nil {
		return nil, nil, err
	}
	tokens = MergeTokens(published, tokens, MergeOptions{})

	denylist, err := s.assetRepo.ReadDenylist(network.Denylist)
	if err != nil {
		return nil, nil, err
	}
	tokens = Filter(tokens,
		NotInDenylist[model.Token](denylist),
		HasValidAddress(network),
	)

	s.logger.Info().Msgf("Reading %s asset extensions from %s", network.Symbol, network.ExtAssetsDir)
	extensions, err := readExtensions(s.assetRepo, network)
	if err != nil {
		return nil, nil, err
	}
	tokens = ApplyExtensions(tokens, extensions)

	overrides, err := s.assetRepo.ReadOverrides(network.Overrides)
	if err != nil {
		return nil, nil, err
	}
	tokens = ApplyOverrides(tokens, overrides)

	// extensions and overrides are hand-written, so symbols are checked once everything is applied
	valid := Filter(tokens, HasValidSymbol)
	if dropped := len(tokens) - len(valid); dropped > 0 {
		s.logger.Warn().Msgf("Dropped %d %s tokens with an invalid symbol", dropped, network.Symbol)
	}
	tokens = valid
	SortByAddress(tokens)

	return tokens, FindDuplicates(tokens, TokenSymbolKey), nil
}

// readExtensions reads extension assets whatever their status; they are curated by hand.
func readExtensions(assetRepo repository.AssetRepository, network model.Network) ([]model.Token, error) {
	assets, err := assetRepo.ReadAssets(network.ExtAssetsDir)
	if err != nil {
		return nil, err
	}
	logos := assetRepo.Logos()
	extensions := make([]model.Token, 0, len(assets))
	for _, asset := range assets {
		extensions = append(extensions, model.TokenFromAsset(asset, network, logos))
	}
	return extensions, nil
}

func (s *tokenListService) BuildNetwork(ctx context.Context, network model.Network, ci bool) error {
	prices, err := s.priceRepo.Read()
	if err != nil {
		return err
	}

	tokens, duplicates, err := s.Assemble(ctx, network, prices)
	if err != nil {
		return err
	}

	if len(duplicates) > 0 {
		DumpDuplicates(os.Stdout, duplicates, network, s.remediationInfo(ctx, network, prices))
		if !ci {
			return fmt.Errorf("%s: %d symbols: %w", network.Chain, len(duplicates), ErrDuplicates)
		}

		published, err := readPublished(s.listRepo, network)
		if err != nil {
			return err
		}
		losers := DuplicateLosers(duplicates, published)
		if err := s.assetRepo.AppendDenylist(network.Denylist, DenylistLines(losers)); err != nil {
			return err
		}
		s.alert(ctx, network, losers)

		tokens, duplicates, err = s.Assemble(ctx, network, prices)
		if err != nil {
			return err
		}
		if len(duplicates) > 0 {
			DumpDuplicates(os.Stdout, duplicates, network, s.remediationInfo(ctx, network, prices))
			return fmt.Errorf("%s: %d symbols after deny-listing: %w", network.Chain, len(duplicates), ErrDuplicates)
		}
	}

	suffixed := make([]model.Token, len(tokens))
	for i, token := range tokens {
		suffixed[i] = token.WithSuffix(network)
	}
	return s.listRepo.WriteTokens(network, suffixed)
}

// BuildAll builds every network and reports all failures together.
func (s *tokenListService) BuildAll(ctx context.Context, ci bool) error {
	var errs []error
	for _, network := range s.curation.Networks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.BuildNetwork(ctx, network, ci); err != nil {
			s.logger.Error().Err(err).Msgf("Failed to build %s token list", network.Chain)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *tokenListService) remediationInfo(ctx context.Context, network model.Network, prices model.PriceList) RemediationInfo {
	index, _ := s.coinGeckoService.Index(ctx)
	return func(token model.Token) (*float64, string) {
		var price *float64
		if p, ok := prices.Get(token.PriceKey(network)); ok {
			price = &p
		}
		if coin, ok := index.ByAddress(network.CoinGeckoPlatform, token.Address); ok {
			return price, s.coinGeckoService.CoinURL(coin.ID)
		}
		return price, ""
	}
}

func (s *tokenListService) alert(ctx context.Context, network model.Network, losers []model.Token) {
	symbols := make([]string, 0, len(losers))
	for _, token := range losers {
		symbols = append(symbols, token.Symbol+" "+token.Address)
	}
	message := fmt.Sprintf("coin-definitions: deny-listed %d duplicate %s tokens in %s:\n%s",
		len(losers), network.Symbol, network.Denylist, strings.Join(symbols, "\n"))
	if err := s.slack.SendSlackAlert(ctx, message); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to send duplicate alert")
	}
}
