package store

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/shop"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_store_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.StoreItem{}))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return NewRepository(db), cleanup
}

func TestItemCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	kurta, err := repo.CreateItem(ctx, shop.Item{
		Name: "Men's Cotton Kurta", Category: shop.CategoryClothing,
		Price: decimal.RequireFromString("24.99"), CoinCost: 120, Stock: 20, Active: true,
	})
	require.NoError(t, err)
	assert.NotZero(t, kurta.ID)

	hidden, err := repo.CreateItem(ctx, shop.Item{
		Name: "Prototype Statue", Category: shop.CategoryStatues,
		Price: decimal.RequireFromString("99.00"), CoinCost: 500, Stock: 1, Active: false,
	})
	require.NoError(t, err)
	assert.False(t, hidden.Active)

	t.Run("list filters inactive items", func(t *testing.T) {
		all, err := repo.ListItems(ctx, false)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		active, err := repo.ListItems(ctx, true)
		require.NoError(t, err)
		require.Len(t, active, 1)
		assert.Equal(t, kurta.ID, active[0].ID)
	})

	t.Run("get keeps decimal price", func(t *testing.T) {
		item, err := repo.GetItem(ctx, kurta.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("24.99").Equal(item.Price))

		_, err = repo.GetItem(ctx, 9999)
		assert.ErrorIs(t, err, shop.ErrItemNotFound)
	})

	t.Run("update applies patch", func(t *testing.T) {
		stock := 0
		price := decimal.RequireFromString("19.50")
		updated, err := repo.UpdateItem(ctx, kurta.ID, shop.ItemPatch{Stock: &stock, Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 0, updated.Stock)

		item, err := repo.GetItem(ctx, kurta.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, item.Stock)
		assert.Equal(t, "19.5", item.Price.String())
		assert.Equal(t, "Men's Cotton Kurta", item.Name)

		_, err = repo.UpdateItem(ctx, 9999, shop.ItemPatch{})
		assert.ErrorIs(t, err, shop.ErrItemNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteItem(ctx, hidden.ID))
		assert.ErrorIs(t, repo.DeleteItem(ctx, hidden.ID), shop.ErrItemNotFound)
	})
}
