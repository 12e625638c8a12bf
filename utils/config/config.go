package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// address formats understood by the address validity filter
const (
	AddressFormatEVM     = "evm"
	AddressFormatCardano = "cardano"
	AddressFormatTron    = "tron"
)

// paths struct config, relative to the repository root
type Paths struct {
	Blockchains            string `koanf:"blockchains" validate:"required"`
	ExtBlockchains         string `koanf:"ext-blockchains" validate:"required"`
	ExtBlockchainsDenylist string `koanf:"ext-blockchains-denylist"`
	ExtPrices              string `koanf:"ext-prices" validate:"required"`
	CoinsList              string `koanf:"coins-list" validate:"required"`
	ERC20List              string `koanf:"erc20-list" validate:"required"`
	ChainLists             string `koanf:"chain-lists" validate:"required"`
	DescriptionText        string `koanf:"description-text" validate:"required"`
	DescriptionInfo        string `koanf:"description-info" validate:"required"`
	Custody                string `koanf:"custody"`
	Fingerprints           string `koanf:"fingerprints"`
}

type Repos struct {
	TW string `koanf:"tw" validate:"required,url"`
	BC string `koanf:"bc" validate:"required,url"`
}

type CoinMapping struct {
	Symbol string `koanf:"symbol" validate:"required"`
	ID     string `koanf:"id" validate:"required"`
}

type CoinGecko struct {
	BaseURL             string        `koanf:"base-url" validate:"required,url"`
	ProBaseURL          string        `koanf:"pro-base-url" validate:"required,url"`
	APIKey              string        `koanf:"api-key"`
	Timeout             int           `koanf:"timeout"`
	MarketsBatchSize    int           `koanf:"markets-batch-size" validate:"gt=0"`
	TokenPriceBatchSize int           `koanf:"token-price-batch-size" validate:"gt=0"`
	Coins               []CoinMapping `koanf:"coins" validate:"dive"`
}

type CryptoCompare struct {
	BaseURL        string `koanf:"base-url" validate:"required,url"`
	APIKey         string `koanf:"api-key"`
	Timeout        int    `koanf:"timeout"`
	PriceBatchSize int    `koanf:"price-batch-size" validate:"gt=0"`
}

type Fill struct {
	MinMarketCap float64 `koanf:"min-market-cap"`
}

type Checker struct {
	MinWithdrawalUSDMin float64 `koanf:"min-withdrawal-usd-min"`
	MinWithdrawalUSDMax float64 `koanf:"min-withdrawal-usd-max" validate:"gtfield=MinWithdrawalUSDMin"`
	MaxPrecision        int     `koanf:"max-precision" validate:"gt=0"`
	ETHPrecision        int     `koanf:"eth-precision" validate:"gt=0"`
}

// Network is the static ingestion setup of one token-hosting chain.
type Network struct {
	Chain                string `koanf:"chain" validate:"required"`
	Key                  string `koanf:"key" validate:"required"`
	Symbol               string `koanf:"symbol" validate:"required"`
	AssetsDir            string `koanf:"assets-dir" validate:"required"`
	ExtAssetsDir         string `koanf:"ext-assets-dir"`
	Denylist             string `koanf:"denylist"`
	Overrides            string `koanf:"overrides"`
	OutputFile           string `koanf:"output-file" validate:"required"`
	ExplorerURL          string `koanf:"explorer-url" validate:"required,url"`
	CoinGeckoPlatform    string `koanf:"coingecko-platform"`
	AddressFormat        string `koanf:"address-format" validate:"omitempty,oneof=evm cardano tron"`
	MinConfirmations     int    `koanf:"min-confirmations" validate:"gt=0"` // expected for tokens hosted on the network
	CoinMinConfirmations int    `koanf:"coin-min-confirmations"`            // expected for the native coin, zero when unchecked
}

type Curation struct {
	Paths         Paths             `koanf:"paths"`
	Repos         Repos             `koanf:"repos"`
	SymbolAliases map[string]string `koanf:"symbol-aliases"`
	CoinGecko     CoinGecko         `koanf:"coingecko"`
	CryptoCompare CryptoCompare     `koanf:"cryptocompare"`
	Fill          Fill              `koanf:"fill"`
	Checker       Checker           `koanf:"checker"`
	Networks      []Network         `koanf:"networks" validate:"required,dive"`
}

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return defaultConfig
}

// ParseDefaults decodes the embedded default configuration into a nested map suitable for confmap.
func ParseDefaults() (map[string]interface{}, error) {
	var contents map[string]interface{}
	if err := yaml.Unmarshal(defaultConfig, &contents); err != nil {
		return nil, fmt.Errorf("failed to parse default config: %w", err)
	}
	return contents, nil
}

// Validate checks required fields and cross-network uniqueness.
func (c *Curation) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid curation config: %w", err)
	}

	symbols := make(map[string]struct{}, len(c.Networks))
	for _, network := range c.Networks {
		key := strings.ToUpper(network.Symbol)
		if _, exists := symbols[key]; exists {
			return fmt.Errorf("invalid curation config: network symbol %s declared twice", network.Symbol)
		}
		symbols[key] = struct{}{}
	}
	return nil
}

// NetworkByChain returns the network with the given chain name.
func (c *Curation) NetworkByChain(chain string) (Network, bool) {
	for _, network := range c.Networks {
		if network.Chain == chain {
			return network, true
		}
	}
	return Network{}, false
}

// NetworkBySymbol returns the network with the given symbol.
func (c *Curation) NetworkBySymbol(symbol string) (Network, bool) {
	for _, network := range c.Networks {
		if network.Symbol == symbol {
			return network, true
		}
	}
	return Network{}, false
}

// CoinGeckoIDs maps coin symbols to CoinGecko coin ids.
func (c *Curation) CoinGeckoIDs() map[string]string {
	ids := make(map[string]string, len(c.CoinGecko.Coins))
	for _, mapping := range c.CoinGecko.Coins {
		ids[mapping.Symbol] = mapping.ID
	}
	return ids
}
