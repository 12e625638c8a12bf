package shared

import (
	"log"

	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

// SetupCfg builds a config from the embedded defaults only, ignoring the environment.
func SetupCfg() *koanf.Koanf {
	return SetupCfgWith(nil)
}

// SetupCfgWith layers overrides (flat dotted keys) on top of the embedded defaults.
func SetupCfgWith(overrides map[string]interface{}) *koanf.Koanf {
	k := koanf.New(".")

	defaults, err := config.ParseDefaults()
	if err != nil {
		log.Panicf("Error loading default config: %v", err)
	}
	if err := k.Load(confmap.Provider(defaults, ""), nil); err != nil {
		log.Panicf("Error loading default config: %v", err)
	}
	if overrides != nil {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			log.Panicf("Error loading overrides: %v", err)
		}
	}
	return k
}

// SetupCuration returns the typed curation section of SetupCfg.
func SetupCuration() *config.Curation {
	curation, err := NewCurationConfig(SetupCfg())
	if err != nil {
		log.Panicf("Error loading curation config: %v", err)
	}
	return curation
}
