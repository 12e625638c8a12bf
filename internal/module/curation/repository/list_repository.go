package repository

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/rs/zerolog"
)

const (
	coinsIndent  = 2
	tokensIndent = 4
)

// ListRepository reads and writes the published lists.
type ListRepository interface {
	ReadCoins() ([]model.Coin, error)
	WriteCoins(coins []model.Coin) error
	ReadTokens(network model.Network) ([]model.Token, error)
	WriteTokens(network model.Network, tokens []model.Token) error
	ReadERC20Tokens() ([]model.Token, error)
	ReadChainLists() (map[string][]model.Token, error)
	WriteDescriptions(texts map[string]string, infos []model.Description) error
	WriteLegacyTokens(file string, tokens []model.LegacyToken) error
}

type listRepository struct {
	app      *application.Application
	curation *config.Curation
	logger   zerolog.Logger
}

func NewListRepository(app *application.Application, curation *config.Curation, logger zerolog.Logger) ListRepository {
	return &listRepository{
		app:      app,
		curation: curation,
		logger:   logger,
	}
}

func (r *listRepository) ReadCoins() ([]model.Coin, error) {
	var coins []model.Coin
	if err := shared.ReadJSON(r.app.Path(r.curation.Paths.CoinsList), &coins); err != nil {
		return nil, fmt.Errorf("read coins list: %w", err)
	}
	return coins, nil
}

func (r *listRepository) WriteCoins(coins []model.Coin) error {
	r.logger.Info().Msgf("Writing %d coins to %s", len(coins), r.curation.Paths.CoinsList)
	return shared.WriteJSON(r.app.Path(r.curation.Paths.CoinsList), coins, coinsIndent)
}

// ReadTokens returns the published list of the network as written, suffixes included. A missing file is an empty list.
func (r *listRepository) ReadTokens(network model.Network) ([]model.Token, error) {
	file := r.app.Path(network.OutputFile)
	if !shared.Exists(file) {
		r.logger.Warn().Msgf("No published list at %s", network.OutputFile)
		return nil, nil
	}

	var tokens []model.Token
	if err := shared.ReadJSON(file, &tokens); err != nil {
		return nil, fmt.Errorf("read %s tokens: %w", network.Chain, err)
	}
	return tokens, nil
}

func (r *listRepository) WriteTokens(network model.Network, tokens []model.Token) error {
	r.logger.Info().Msgf("Writing %d tokens to %s", len(tokens), network.OutputFile)
	return shared.WriteJSON(r.app.Path(network.OutputFile), tokens, tokensIndent)
}

func (r *listRepository) ReadERC20Tokens() ([]model.Token, error) {
	var tokens []model.Token
	if err := shared.ReadJSON(r.app.Path(r.curation.Paths.ERC20List), &tokens); err != nil {
		return nil, fmt.Errorf("read erc20 list: %w", err)
	}
	return tokens, nil
}

// ReadChainLists returns chain/<name>/tokens.json keyed by <name>.
func (r *listRepository) ReadChainLists() (map[string][]model.Token, error) {
	lists, err := shared.MultiReadJSON[[]model.Token](r.app.Path(r.curation.Paths.ChainLists), "*/tokens.json", "")
	if err != nil {
		return nil, fmt.Errorf("read chain lists: %w", err)
	}

	chains := make(map[string][]model.Token, len(lists))
	for _, list := range lists {
		chains[list.Key] = list.Value
	}
	return chains, nil
}

// WriteDescriptions writes the symbol -> text map and the info list sorted by symbol.
func (r *listRepository) WriteDescriptions(texts map[string]string, infos []model.Description) error {
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Symbol < infos[j].Symbol
	})
	if infos == nil {
		infos = []model.Description{}
	}

	r.logger.Info().Msgf("Writing %d descriptions to %s", len(texts), r.curation.Paths.DescriptionText)
	if err := shared.WriteJSON(r.app.Path(r.curation.Paths.DescriptionText), texts, tokensIndent); err != nil {
		return err
	}
	return shared.WriteJSON(r.app.Path(r.curation.Paths.DescriptionInfo), infos, tokensIndent)
}

func (r *listRepository) WriteLegacyTokens(file string, tokens []model.LegacyToken) error {
	if tokens == nil {
		tokens = []model.LegacyToken{}
	}
	r.logger.Info().Msgf("Writing %d assets to %s", len(tokens), file)
	return shared.WriteJSON(r.app.Path(file), tokens, tokensIndent)
}

// ChainListName is the chain/<name>/ directory a network publishes to, empty for top-level lists.
func ChainListName(network model.Network) string {
	dir := filepath.Dir(filepath.ToSlash(network.OutputFile))
	if dir == "." {
		return ""
	}
	return filepath.Base(dir)
}
