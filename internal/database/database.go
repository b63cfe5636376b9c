package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/shop"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the SQLite database, migrates the schema and seeds the
// store catalog. The verse catalog is seeded by scripture.LoadLibrary.
func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Language{},
		&entities.Verse{},
		&entities.ReadEvent{},
		&entities.UserState{},
		&entities.LedgerEntry{},
		&entities.StoreItem{},
		&entities.Purchase{},
		&entities.Notification{},
		&entities.Setting{},
		&entities.ReaderPreference{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedStoreItems(); err != nil {
		return nil, fmt.Errorf("failed to seed store items: %w", err)
	}

	zap.L().Info("database initialized", zap.String("path", dbPath))

	return database, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) seedStoreItems() error {
	var count int64
	if err := d.DB.Model(&entities.StoreItem{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, item := range shop.DefaultItems() {
		row := entities.StoreItem{
			Name:        item.Name,
			Description: item.Description,
			Category:    string(item.Category),
			Price:       item.Price,
			CoinCost:    item.CoinCost,
			Stock:       item.Stock,
			Active:      item.Active,
		}
		if err := d.DB.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create store item %s: %w", item.Name, err)
		}
	}
	zap.L().Info("seeded store catalog", zap.Int("items", len(shop.DefaultItems())))
	return nil
}
