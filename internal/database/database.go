package database

import (
	"errors"

	"github.com/blockchain/coin-definitions/internal/database/schema"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrNotConnected = errors.New("database is not configured")

// setup database with gorm. The archive is optional: without db.postgres.dsn DB stays nil.
type Database struct {
	DB  *gorm.DB
	Log zerolog.Logger
	Cfg *koanf.Koanf
}

func NewDatabase(cfg *koanf.Koanf, log zerolog.Logger) *Database {
	db := &Database{
		Cfg: cfg,
		Log: log,
	}

	return db
}

func (_db *Database) Enabled() bool {
	return _db != nil && _db.DB != nil
}

// connect database
func (_db *Database) ConnectDatabase() error {
	dsn := _db.Cfg.String("db.postgres.dsn")
	if dsn == "" {
		_db.Log.Debug().Msg("db.postgres.dsn not set, price snapshots are not archived")
		return nil
	}
	if _db.DB != nil {
		_db.Log.Info().Msg("The database is already connected!")
		return nil
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction:                   true,
		PrepareStmt:                              true,
		DisableForeignKeyConstraintWhenMigrating: _db.Cfg.Bool("db.gorm.disable-foreign-key-constraint-when-migrating"),
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_db.Log.Error().Err(err).Msg("An unknown error occurred when to connect the database!")
		return err
	}

	_db.Log.Info().Msg("Connected the database succesfully!")
	_db.DB = conn
	return _db.MigrateModels()
}

// shutdown database
func (_db *Database) ShutdownDatabase() {
	if _db.DB == nil {
		return
	}
	sqlDB, err := _db.DB.DB()
	if err != nil {
		_db.Log.Error().Err(err).Msg("An unknown error occurred when to shutdown the database!")
		return
	}
	sqlDB.Close()
	_db.Log.Info().Msg("Shutdown the database succesfully!")
}

// list of models for migration
func Models() []interface{} {
	return []interface{}{
		schema.PriceSnapshot{},
	}
}

// migrate models
func (_db *Database) MigrateModels() error {
	if err := _db.DB.AutoMigrate(
		Models()...,
	); err != nil {
		_db.Log.Error().Err(err).Msg("An unknown error occurred when to migrate the database!")
		return err
	}
	return nil
}
