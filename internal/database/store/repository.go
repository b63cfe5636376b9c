// Package store provides database operations for coin store items.
//
// # Usage
//
//	repo := store.NewRepository(db)
//	items, err := repo.ListItems(ctx, true)
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/shop"
)

// Repository handles all store item database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new store repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListItems returns store items ordered by category and id. When activeOnly
// is set, deactivated items are left out.
func (r *Repository) ListItems(ctx context.Context, activeOnly bool) ([]shop.Item, error) {
	query := r.db.WithContext(ctx).Order("category, id")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var rows []entities.StoreItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]shop.Item, len(rows))
	for i, row := range rows {
		out[i] = toItem(row)
	}
	return out, nil
}

func (r *Repository) GetItem(ctx context.Context, id uint) (shop.Item, error) {
	var row entities.StoreItem
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shop.Item{}, fmt.Errorf("item %d: %w", id, shop.ErrItemNotFound)
		}
		return shop.Item{}, err
	}
	return toItem(row), nil
}

func (r *Repository) CreateItem(ctx context.Context, item shop.Item) (shop.Item, error) {
	row := fromItem(item)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		// active has a database default, so an explicit false must be written separately
		if !item.Active {
			return tx.Model(&row).UpdateColumn("active", false).Error
		}
		return nil
	})
	if err != nil {
		return shop.Item{}, err
	}
	row.Active = item.Active
	return toItem(row), nil
}

// UpdateItem applies patch to the stored item and returns the result.
func (r *Repository) UpdateItem(ctx context.Context, id uint, patch shop.ItemPatch) (shop.Item, error) {
	var updated shop.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row entities.StoreItem
		if err := tx.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("item %d: %w", id, shop.ErrItemNotFound)
			}
			return err
		}

		updated = patch.Apply(toItem(row))
		next := fromItem(updated)
		next.ID = row.ID
		next.CreatedAt = row.CreatedAt
		return tx.Save(&next).Error
	})
	if err != nil {
		return shop.Item{}, err
	}
	return updated, nil
}

func (r *Repository) DeleteItem(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.StoreItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("item %d: %w", id, shop.ErrItemNotFound)
	}
	return nil
}

func toItem(row entities.StoreItem) shop.Item {
	return shop.Item{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Category:    shop.Category(row.Category),
		Price:       row.Price,
		CoinCost:    row.CoinCost,
		Stock:       row.Stock,
		Active:      row.Active,
	}
}

func fromItem(item shop.Item) entities.StoreItem {
	return entities.StoreItem{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    string(item.Category),
		Price:       item.Price,
		CoinCost:    item.CoinCost,
		Stock:       item.Stock,
		Active:      item.Active,
	}
}
