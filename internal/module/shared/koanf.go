package shared

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "COIN_DEFINITIONS_"

// LoadKoanf layers defaults, the embedded default.yaml, an optional external file and the environment.
func LoadKoanf(configFile string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	defaultValues := map[string]interface{}{
		"app.name":             "coin-definitions",
		"app.production":       false,
		"logger.level":         1,
		"redis.coins-list-ttl": 72 * time.Hour,
		"redis.coin-list-ttl":  24 * time.Hour,
	}
	if err := k.Load(confmap.Provider(defaultValues, "."), nil); err != nil {
		return nil, fmt.Errorf("error loading default values: %w", err)
	}

	embedded, err := config.ParseDefaults()
	if err != nil {
		return nil, err
	}
	if err := k.Load(confmap.Provider(embedded, ""), nil); err != nil {
		return nil, fmt.Errorf("error loading embedded config: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", configFile, err)
		}
	}

	// COIN_DEFINITIONS_SLACK_WEBHOOK__URL -> slack.webhook-url
	if err := k.Load(env.ProviderWithValue(envPrefix, ".", func(s string, v string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		key = strings.ReplaceAll(key, "__", "-")
		key = strings.ReplaceAll(key, "_", ".")

		if strings.Contains(v, " ") {
			return key, strings.Split(v, " ")
		}
		return key, v
	}), nil); err != nil {
		return nil, fmt.Errorf("error loading env: %w", err)
	}

	if err := LoadEnv(k); err != nil {
		return nil, err
	}

	return k, nil
}

func NewKoanfInstance(opts *application.Options) *koanf.Koanf {
	k, err := LoadKoanf(opts.ConfigFile)
	if err != nil {
		log.Panicf("Error loading config: %v", err)
	}
	if opts.NoCache {
		k.Set("redis.disabled", true)
	}
	return k
}

// NewCurationConfig types and validates the curation section.
func NewCurationConfig(k *koanf.Koanf) (*config.Curation, error) {
	var curation config.Curation
	if err := k.Unmarshal("curation", &curation); err != nil {
		return nil, fmt.Errorf("unmarshal curation config: %w", err)
	}
	if err := curation.Validate(); err != nil {
		return nil, err
	}
	return &curation, nil
}
