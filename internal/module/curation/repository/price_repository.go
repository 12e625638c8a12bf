package repository

import (
	"context"
	"fmt"

	"github.com/blockchain/coin-definitions/internal/application"
	"github.com/blockchain/coin-definitions/internal/database"
	"github.com/blockchain/coin-definitions/internal/database/schema"
	"github.com/blockchain/coin-definitions/internal/module/curation/model"
	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/blockchain/coin-definitions/utils/config"
	"github.com/rs/zerolog"
)

type PriceRepository interface {
	Read() (model.PriceList, error)
	Write(prices model.PriceList) error
}

type priceRepository struct {
	app      *application.Application
	curation *config.Curation
	logger   zerolog.Logger
}

func NewPriceRepository(app *application.Application, curation *config.Curation, logger zerolog.Logger) PriceRepository {
	return &priceRepository{
		app:      app,
		curation: curation,
		logger:   logger,
	}
}

func (r *priceRepository) Read() (model.PriceList, error) {
	var prices model.PriceList
	if err := shared.ReadJSON(r.app.Path(r.curation.Paths.ExtPrices), &prices); err != nil {
		return prices, fmt.Errorf("read prices: %w", err)
	}
	if prices.Prices == nil {
		prices.Prices = map[string]float64{}
	}
	return prices, nil
}

func (r *priceRepository) Write(prices model.PriceList) error {
	r.logger.Info().Msgf("Writing %d prices to %s", len(prices.Prices), r.curation.Paths.ExtPrices)
	return shared.WriteJSON(r.app.Path(r.curation.Paths.ExtPrices), prices, 4)
}

// SnapshotRepository archives fetched price lists when a database is configured.
type SnapshotRepository interface {
	Save(ctx context.Context, prices model.PriceList) error
	Latest(ctx context.Context) (*schema.PriceSnapshot, error)
}

type snapshotRepository struct {
	db     *database.Database
	runID  string
	logger zerolog.Logger
}

func NewSnapshotRepository(db *database.Database, opts *application.Options, logger zerolog.Logger) SnapshotRepository {
	return &snapshotRepository{
		db:     db,
		runID:  opts.RunID,
		logger: logger,
	}
}

func (r *snapshotRepository) Save(ctx context.Context, prices model.PriceList) error {
	if !r.db.Enabled() {
		return nil
	}

	snapshot := schema.PriceSnapshot{
		RunID:     r.runID,
		Timestamp: prices.Timestamp,
		Count:     len(prices.Prices),
		Prices:    schema.JSONPrices(prices.Prices),
	}
	if err := r.db.DB.WithContext(ctx).Create(&snapshot).Error; err != nil {
		return fmt.Errorf("archive price snapshot: %w", err)
	}
	r.logger.Info().Msgf("Archived price snapshot #%d with %d prices", snapshot.ID, snapshot.Count)
	return nil
}

func (r *snapshotRepository) Latest(ctx context.Context) (*schema.PriceSnapshot, error) {
	if !r.db.Enabled() {
		return nil, database.ErrNotConnected
	}

	var snapshot schema.PriceSnapshot
	if err := r.db.DB.WithContext(ctx).Order("id desc").First(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}
