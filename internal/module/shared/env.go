package shared

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/v2"
)

// well-known variables set by CI
var wellKnownEnv = []struct {
	name string
	key  string
}{
	{"COINGECKO_API_KEY", "curation.coingecko.api-key"},
	{"CRYPTOCOMPARE_API_KEY", "curation.cryptocompare.api-key"},
	{"SLACK_WEBHOOK_URL", "slack.webhook-url"},
	{"REDIS_URL", "redis.url"},
	{"DATABASE_DSN", "db.postgres.dsn"},
}

// LoadEnv copies the well-known environment variables into the config when they are set.
func LoadEnv(k *koanf.Koanf) error {
	for _, e := range wellKnownEnv {
		value, ok := os.LookupEnv(e.name)
		if !ok || value == "" {
			continue
		}
		if err := k.Set(e.key, value); err != nil {
			return fmt.Errorf("failed to apply %s: %w", e.name, err)
		}
	}
	return nil
}
