package curation

import (
	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/module/cardano"
	"github.com/blockchain/coin-definitions/internal/module/curation/controller"
	"github.com/blockchain/coin-definitions/internal/module/curation/repository"
	"github.com/blockchain/coin-definitions/internal/module/curation/service"
	"github.com/blockchain/coin-definitions/utils/config"
	"go.uber.org/fx"
)

// register bulky of curation module
var NewCurationModule = fx.Options(
	// register repository of curation module
	fx.Provide(repository.NewAssetRepository),
	fx.Provide(repository.NewListRepository),
	fx.Provide(repository.NewPriceRepository),
	fx.Provide(repository.NewSnapshotRepository),
	fx.Provide(NewFingerprintRegistry),

	fx.Provide(service.NewCoinGeckoService),
	fx.Provide(service.NewCryptoCompareService),
	fx.Provide(service.NewCoinListService),
	fx.Provide(service.NewTokenListService),
	fx.Provide(service.NewPriceService),
	fx.Provide(service.NewDescriptionService),
	fx.Provide(service.NewFillService),
	fx.Provide(service.NewLegacyERC20Service),

	// register controller of curation module
	fx.Provide(controller.NewController),
)

// NewFingerprintRegistry loads the cardano fingerprint registry shipped with the extensions.
func NewFingerprintRegistry(app *application.Application, curation *config.Curation) (*cardano.Registry, error) {
	return cardano.LoadRegistry(app.Path(curation.Paths.Fingerprints))
}
