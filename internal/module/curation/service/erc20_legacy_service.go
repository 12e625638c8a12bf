package service

import (
	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	"github.com/rs/zerolog"
)

type LegacyERC20Service interface {
	Build(assetsDir string, allowlistFile string, denylistFile string, outputFile string) ([]model.LegacyToken, error)
}

type legacyERC20Service struct {
	assetRepo repository.AssetRepository
	listRepo  repository.ListRepository
	logger    zerolog.Logger
}

func NewLegacyERC20Service(assetRepo repository.AssetRepository, listRepo repository.ListRepository, logger zerolog.Logger) LegacyERC20Service {
	return &legacyERC20Service{
		assetRepo: assetRepo,
		listRepo:  listRepo,
		logger:    logger,
	}
}

// Build writes the active assets that are allow-listed and not deny-listed. Both lists are JSON arrays.
func (s *legacyERC20Service) Build(assetsDir string, allowlistFile string, denylistFile string, outputFile string) ([]model.LegacyToken, error) {
	allowlist, err := s.assetRepo.ReadAddressList(allowlistFile)
	if err != nil {
		return nil, err
	}
	denylist, err := s.assetRepo.ReadAddressList(denylistFile)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Msgf("Reading assets from %s", assetsDir)
	assets, err := s.assetRepo.ReadAssets(assetsDir)
	if err != nil {
		return nil, err
	}

	assets = Filter(assets,
		IsActive,
		InAllowlist[model.Asset](allowlist),
		NotInDenylist[model.Asset](denylist),
	)

	tokens := make([]model.LegacyToken, 0, len(assets))
	for _, asset := range assets {
		tokens = append(tokens, model.LegacyTokenFromAsset(asset))
	}
	return tokens, s.listRepo.WriteLegacyTokens(outputFile, tokens)
}
