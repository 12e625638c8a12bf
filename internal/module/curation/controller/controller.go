package controller

import (
	"context"
	"fmt"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/module/curation/service"
	"github.com/rs/zerolog"
)

type Controller struct {
	opts               *application.Options
	coinListService    service.CoinListService
	tokenListService   service.TokenListService
	priceService       service.PriceService
	descriptionService service.DescriptionService
	fillService        service.FillService
	legacyERC20Service service.LegacyERC20Service
	logger             zerolog.Logger
}

func NewController(
	opts *application.Options,
	coinListService service.CoinListService,
	tokenListService service.TokenListService,
	priceService service.PriceService,
	descriptionService service.DescriptionService,
	fillService service.FillService,
	legacyERC20Service service.LegacyERC20Service,
	logger zerolog.Logger,
) *Controller {
	return &Controller{
		opts:               opts,
		coinListService:    coinListService,
		tokenListService:   tokenListService,
		priceService:       priceService,
		descriptionService: descriptionService,
		fillService:        fillService,
		legacyERC20Service: legacyERC20Service,
		logger:             logger,
	}
}

// Build regenerates coins.json and every network token list.
func (c *Controller) Build(ctx context.Context) error {
	c.logger.Info().Msg("Building coins list")
	if err := c.coinListService.Build(); err != nil {
		return fmt.Errorf("coins list: %w", err)
	}

	c.logger.Info().Bool("ci", c.opts.CI).Msg("Building token lists")
	return c.tokenListService.BuildAll(ctx, c.opts.CI)
}

func (c *Controller) FetchPrices(ctx context.Context) error {
	prices, err := c.priceService.FetchPrices(ctx)
	if err != nil {
		return err
	}
	c.logger.Info().Int("count", len(prices.Prices)).Str("timestamp", prices.Timestamp).Msg("Prices updated")
	return nil
}

func (c *Controller) FetchDescriptions(ctx context.Context) error {
	return c.descriptionService.FetchFromCoinGecko(ctx)
}

func (c *Controller) FetchDescriptionsCryptoCompare(ctx context.Context) error {
	return c.descriptionService.FetchFromCryptoCompare(ctx)
}

func (c *Controller) FillFromCoinGecko(ctx context.Context) error {
	added, err := c.fillService.FillFromCoinGecko(ctx, c.opts.FillNetwork)
	if err != nil {
		return err
	}
	for _, info := range added {
		c.logger.Info().Str("address", info.ID).Str("symbol", info.Symbol).Msg("Added extension")
	}
	c.logger.Info().Int("count", len(added)).Str("network", c.opts.FillNetwork).Msg("Fill finished")
	return nil
}

func (c *Controller) LegacyERC20(ctx context.Context) error {
	tokens, err := c.legacyERC20Service.Build(c.opts.LegacyAssetsDir, c.opts.LegacyAllowlist, c.opts.LegacyDenylist, c.opts.LegacyOutputFile)
	if err != nil {
		return err
	}
	c.logger.Info().Int("count", len(tokens)).Str("output", c.opts.LegacyOutputFile).Msg("Legacy erc20 list written")
	return nil
}
