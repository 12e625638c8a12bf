package shared

import (
	"os"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// initialize logger
func NewLogger(cfg *koanf.Koanf, opts *application.Options) zerolog.Logger {
	zerolog.TimeFieldFormat = cfg.String("logger.time-format")

	if cfg.Bool("logger.prettier") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		log.Logger = log.Output(os.Stderr)
	}

	zerolog.SetGlobalLevel(zerolog.Level(int8(cfg.Int("logger.level"))))

	return log.With().Str("run_id", opts.RunID).Logger()
}
