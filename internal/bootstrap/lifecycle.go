package bootstrap

import (
	"context"
	"os"
	"runtime"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/database"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// function to connect the optional backends before a run and release them after
func Start(
	lifecycle fx.Lifecycle,
	cfg *koanf.Koanf,
	log zerolog.Logger,
	app *application.Application,
	database *database.Database,
	redis *shared.RedisClient,
) {
	lifecycle.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				log.Info().Msgf("%s started in %s", app.AppName, app.Root)

				// Debug informations
				if !cfg.Bool("app.production") {
					log.Debug().Msgf("Mode: %s", app.Options.Mode)
					log.Debug().Msgf("Run ID: %s", app.Options.RunID)
					log.Debug().Msgf("Processes: %d", runtime.GOMAXPROCS(0))
					log.Debug().Msgf("PID: %d", os.Getpid())
				}

				if err := database.ConnectDatabase(); err != nil {
					return err
				}
				return redis.Connect(ctx)
			},
			OnStop: func(ctx context.Context) error {
				log.Debug().Msg("Running cleanup tasks...")
				database.ShutdownDatabase()
				if err := redis.Close(); err != nil {
					log.Warn().Err(err).Msg("Failed to close Redis")
				}

				log.Info().Msgf("%s finished.", app.AppName)
				return nil
			},
		},
	)
}
