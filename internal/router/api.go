package router

import (
	"context"
	"fmt"

	"github.com/blockchain/coin-definitions/internal/application"
	checkerservice "github.com/blockchain/coin-definitions/internal/module/checker/service"
	"github.com/blockchain/coin-definitions/internal/module/curation/controller"
	"github.com/rs/zerolog"
)

// Router dispatches the selected run mode to its handler.
type Router struct {
	Options    *application.Options
	Controller *controller.Controller
	Checker    checkerservice.CheckerService
	Logger     zerolog.Logger
}

func NewRouter(
	opts *application.Options,
	controller *controller.Controller,
	checker checkerservice.CheckerService,
	logger zerolog.Logger,
) *Router {
	return &Router{
		Options:    opts,
		Controller: controller,
		Checker:    checker,
		Logger:     logger,
	}
}

// Handlers maps every mode to its handler
func (r *Router) Handlers() map[string]func(ctx context.Context) error {
	return map[string]func(ctx context.Context) error{
		application.ModeBuild:                      r.Controller.Build,
		application.ModeFetchPrices:                r.Controller.FetchPrices,
		application.ModeFetchDescriptions:          r.Controller.FetchDescriptions,
		application.ModeFetchDescriptionsCryptoCmp: r.Controller.FetchDescriptionsCryptoCompare,
		application.ModeFillFromCoinGecko:          r.Controller.FillFromCoinGecko,
		application.ModeLegacyERC20:                r.Controller.LegacyERC20,
		application.ModeCheck: func(ctx context.Context) error {
			_, err := r.Checker.Check(ctx)
			return err
		},
	}
}

// Run executes the handler of the selected mode.
func (r *Router) Run(ctx context.Context) error {
	handler, ok := r.Handlers()[r.Options.Mode]
	if !ok {
		return fmt.Errorf("unknown mode %q", r.Options.Mode)
	}

	r.Logger.Info().Str("mode", r.Options.Mode).Msg("Running")
	return handler(ctx)
}
