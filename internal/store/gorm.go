package store

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Gorm is the Postgres-backed store.
type Gorm struct {
	db *gorm.DB
}

// OpenPostgres connects to Postgres with the given DSN.
func OpenPostgres(dsn string) (*Gorm, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: connecting to postgres: %w", err)
	}
	return &Gorm{db: db}, nil
}

// Init migrates the schema.
func (g *Gorm) Init(ctx context.Context) error {
	if err := g.db.WithContext(ctx).AutoMigrate(
		&RoomRecord{},
		&PlayerRecord{},
		&HandRecord{},
		&ActionRecord{},
	); err != nil {
		return fmt.Errorf("store: migrating schema: %w", err)
	}
	return nil
}

func (g *Gorm) CreateRoom(ctx context.Context, rec RoomRecord) error {
	return g.db.WithContext(ctx).Create(&rec).Error
}

func (g *Gorm) UpdateRoomLock(ctx context.Context, code string, locked bool) error {
	return g.db.WithContext(ctx).
		Model(&RoomRecord{}).
		Where("code = ?", code).
		Update("locked", locked).Error
}

func (g *Gorm) UpsertPlayer(ctx context.Context, rec PlayerRecord) error {
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rec).Error
}

func (g *Gorm) UpdatePlayerConnection(ctx context.Context, playerID string, connected bool) error {
	return g.db.WithContext(ctx).
		Model(&PlayerRecord{}).
		Where("id = ?", playerID).
		Update("connected", connected).Error
}

func (g *Gorm) RecordHand(ctx context.Context, rec HandRecord) error {
	return g.db.WithContext(ctx).Create(&rec).Error
}

func (g *Gorm) RecordAction(ctx context.Context, rec ActionRecord) error {
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rec).Error
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
