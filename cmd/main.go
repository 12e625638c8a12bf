package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/bootstrap"
	"github.com/blockchain/coin-definitions/internal/database"
	"github.com/blockchain/coin-definitions/internal/module/checker"
	"github.com/blockchain/coin-definitions/internal/module/curation"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/internal/router"
	fxzerolog "github.com/efectn/fx-zerolog"
	"github.com/rs/zerolog"
	_ "go.uber.org/automaxprocs"
)

func main() {
	opts, err := application.ParseOptions(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	var (
		r      *router.Router
		logger zerolog.Logger
	)
	app := fx.New(
		/* provide patterns */
		// basic
		fx.Supply(opts),
		shared.NewSharedModule,
		// application
		fx.Provide(application.NewApplication),
		// database
		fx.Provide(database.NewDatabase),
		/* provide modules */
		curation.NewCurationModule,
		checker.NewCheckerModule,
		// router
		fx.Provide(router.NewRouter),
		// connect backends
		fx.Invoke(bootstrap.Start),
		// define logger
		fx.WithLogger(fxzerolog.Init()),
		fx.StartTimeout(time.Minute),
		fx.Populate(&r, &logger),
	)
	if err := app.Err(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Startup failed")
		os.Exit(1)
	}

	runErr := r.Run(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		logger.Warn().Err(err).Msg("Shutdown failed")
	}

	if runErr != nil {
		logger.Error().Err(runErr).Msg("Run failed")
		stop()
		os.Exit(1)
	}
}
