package service

import (
	"fmt"
	"sort"

	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/rs/zerolog"
)

type CoinListService interface {
	Collect() ([]model.Coin, error)
	Build() error
}

type coinListService struct {
	curation  *config.Curation
	assetRepo repository.AssetRepository
	listRepo  repository.ListRepository
	logger    zerolog.Logger
}

func NewCoinListService(curation *config.Curation, assetRepo repository.AssetRepository, listRepo repository.ListRepository, logger zerolog.Logger) CoinListService {
	return &coinListService{
		curation:  curation,
		assetRepo: assetRepo,
		listRepo:  listRepo,
		logger:    logger,
	}
}

// Collect assembles the coin list from the chain tree and its extensions.
func (s *coinListService) Collect() ([]model.Coin, error) {
	s.logger.Info().Msgf("Reading blockchains from %s", s.curation.Paths.Blockchains)
	chains, err := s.assetRepo.ReadBlockchains()
	if err != nil {
		return nil, err
	}

	for i, chain := range chains {
		if alias, ok := s.curation.SymbolAliases[chain.Symbol]; ok {
			chains[i].Symbol = alias
		}
	}

	denylist, err := s.assetRepo.ReadChainDenylist()
	if err != nil {
		return nil, err
	}
	chains = Filter(chains,
		func(c model.Blockchain) bool { return c.IsValid() && c.IsActive() },
		func(c model.Blockchain) bool {
			_, denied := denylist[model.DeniedChain{Symbol: c.Symbol, Name: c.Name}]
			return !denied
		},
	)

	s.logger.Info().Msgf("Reading blockchain extensions from %s", s.curation.Paths.ExtBlockchains)
	extensions, err := s.assetRepo.ReadBlockchainExtensions()
	if err != nil {
		return nil, err
	}
	chains = append(chains, extensions...)
	sort.SliceStable(chains, func(i, j int) bool {
		return chains[i].Symbol < chains[j].Symbol
	})

	logos := s.assetRepo.Logos()
	coins := make([]model.Coin, 0, len(chains))
	for _, chain := range chains {
		coins = append(coins, model.CoinFromChain(chain, logos))
	}

	if duplicates := FindDuplicates(coins, CoinSymbolKey); len(duplicates) > 0 {
		for _, group := range duplicates {
			names := make([]string, 0, len(group.Items))
			for _, coin := range group.Items {
				names = append(names, coin.Name+" ("+coin.Key+")")
			}
			s.logger.Error().Strs("coins", names).Msgf("Coin symbol '%s' is shared", group.Key)
		}
		return nil, fmt.Errorf("coins list: %d symbols: %w", len(duplicates), ErrDuplicates)
	}
	return coins, nil
}

func (s *coinListService) Build() error {
	coins, err := s.Collect()
	if err != nil {
		return err
	}
	return s.listRepo.WriteCoins(coins)
}
