package repository

import (
	"fmt"
	"path"
	"strings"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/rs/zerolog"
)

// extension info.json files may carry /// comments
const extensionCommentMarker = "///"

type AssetRepository interface {
	ReadAssets(dir string) ([]model.Asset, error)
	ReadBlockchains() ([]model.Blockchain, error)
	ReadBlockchainExtensions() ([]model.Blockchain, error)
	ReadChainDenylist() (map[model.DeniedChain]struct{}, error)
	ReadDenylist(file string) (map[string]struct{}, error)
	AppendDenylist(file string, lines []string) error
	ReadAddressList(file string) (map[string]struct{}, error)
	ReadOverrides(file string) (map[string]model.TokenOverride, error)
	WriteExtension(network model.Network, info model.AssetInfo) (string, error)
	Logos() model.LogoResolver
}

type assetRepository struct {
	app      *application.Application
	curation *config.Curation
	logger   zerolog.Logger
}

func NewAssetRepository(app *application.Application, curation *config.Curation, logger zerolog.Logger) AssetRepository {
	return &assetRepository{
		app:      app,
		curation: curation,
		logger:   logger,
	}
}

// ReadAssets parses every <dir>/<address>/info.json. A missing directory yields no assets.
func (r *assetRepository) ReadAssets(dir string) ([]model.Asset, error) {
	if dir == "" {
		return nil, nil
	}
	infos, err := shared.MultiReadJSON[model.AssetInfo](r.app.Path(dir), "*/info.json", "")
	if err != nil {
		return nil, fmt.Errorf("read assets in %s: %w", dir, err)
	}

	assets := make([]model.Asset, 0, len(infos))
	for _, info := range infos {
		asset := model.AssetFromInfo(info.Value)
		if asset.ID == "" {
			asset.ID = info.Key
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func (r *assetRepository) ReadBlockchains() ([]model.Blockchain, error) {
	return r.readBlockchains(r.curation.Paths.Blockchains, "")
}

func (r *assetRepository) ReadBlockchainExtensions() ([]model.Blockchain, error) {
	return r.readBlockchains(r.curation.Paths.ExtBlockchains, extensionCommentMarker)
}

func (r *assetRepository) readBlockchains(dir string, commentMarker string) ([]model.Blockchain, error) {
	infos, err := shared.MultiReadJSON[model.BlockchainInfo](r.app.Path(dir), "*/info/info.json", commentMarker)
	if err != nil {
		return nil, fmt.Errorf("read blockchains in %s: %w", dir, err)
	}

	chains := make([]model.Blockchain, 0, len(infos))
	for _, info := range infos {
		chains = append(chains, model.BlockchainFromInfo(info.Key, info.Value))
	}
	return chains, nil
}

// ReadChainDenylist reads the JSON array of {symbol, name} pairs.
func (r *assetRepository) ReadChainDenylist() (map[model.DeniedChain]struct{}, error) {
	denylist := make(map[model.DeniedChain]struct{})
	file := r.curation.Paths.ExtBlockchainsDenylist
	if file == "" || !shared.Exists(r.app.Path(file)) {
		return denylist, nil
	}

	var entries []model.DeniedChain
	if err := shared.ReadJSON(r.app.Path(file), &entries); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		denylist[entry] = struct{}{}
	}
	return denylist, nil
}

// ReadDenylist reads a '#' commented address list, lower-cased.
func (r *assetRepository) ReadDenylist(file string) (map[string]struct{}, error) {
	denylist := make(map[string]struct{})
	if file == "" || !shared.Exists(r.app.Path(file)) {
		return denylist, nil
	}

	lines, err := shared.ReadTxt(r.app.Path(file))
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		denylist[strings.ToLower(line)] = struct{}{}
	}
	return denylist, nil
}

func (r *assetRepository) AppendDenylist(file string, lines []string) error {
	if file == "" {
		return fmt.Errorf("no deny-list configured")
	}
	r.logger.Info().Msgf("Appending %d entries to %s", len(lines), file)
	return shared.AppendTxt(r.app.Path(file), lines)
}

// ReadAddressList reads a JSON array of addresses, lower-cased. Used by the legacy list.
func (r *assetRepository) ReadAddressList(file string) (map[string]struct{}, error) {
	var addresses []string
	if err := shared.ReadJSON(r.app.Path(file), &addresses); err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(addresses))
	for _, address := range addresses {
		set[strings.ToLower(address)] = struct{}{}
	}
	return set, nil
}

// ReadOverrides reads {address: patch}; keys are lower-cased.
func (r *assetRepository) ReadOverrides(file string) (map[string]model.TokenOverride, error) {
	overrides := make(map[string]model.TokenOverride)
	if file == "" || !shared.Exists(r.app.Path(file)) {
		return overrides, nil
	}

	var raw map[string]model.TokenOverride
	if err := shared.ReadJSONWithComments(r.app.Path(file), extensionCommentMarker, &raw); err != nil {
		return nil, err
	}
	for address, override := range raw {
		overrides[strings.ToLower(address)] = override
	}
	return overrides, nil
}

// WriteExtension stores info as <ext-assets-dir>/<id>/info.json and returns the relative path.
func (r *assetRepository) WriteExtension(network model.Network, info model.AssetInfo) (string, error) {
	if network.ExtAssetsDir == "" {
		return "", fmt.Errorf("network %s has no extension directory", network.Chain)
	}
	rel := path.Join(network.ExtAssetsDir, info.ID, "info.json")
	if err := shared.WriteJSON(r.app.Path(rel), info, 4); err != nil {
		return "", err
	}
	return rel, nil
}

func (r *assetRepository) Logos() model.LogoResolver {
	return model.LogoResolver{
		Root:           r.app.Root,
		ExtBlockchains: r.curation.Paths.ExtBlockchains,
		Blockchains:    r.curation.Paths.Blockchains,
		TWRoot:         r.curation.Repos.TW,
		BCRoot:         r.curation.Repos.BC,
	}
}
