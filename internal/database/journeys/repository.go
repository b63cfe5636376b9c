// Package journeys persists each reader's read events, coin ledger and
// bookmarks.
//
// This package implements the session.StateStore interface.
//
// # Usage
//
//	repo := journeys.NewRepository(db)
//	manager := session.NewManager(repo, library, loc, rewardsConfig)
package journeys

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/rewards"
	"github.com/mrlokans/shloka/internal/scripture"
	"github.com/mrlokans/shloka/internal/session"
	"github.com/mrlokans/shloka/internal/shop"
)

// Repository handles per-user state database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new journeys repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Load returns the stored state for userID. Unknown users get empty state.
func (r *Repository) Load(ctx context.Context, userID string) (session.Stored, error) {
	db := r.db.WithContext(ctx)
	var out session.Stored

	var reads []entities.ReadEvent
	if err := db.Where("user_id = ?", userID).Order("id").Find(&reads).Error; err != nil {
		return out, fmt.Errorf("failed to load read events: %w", err)
	}
	for _, row := range reads {
		out.Reads = append(out.Reads, scripture.ReadEvent{
			Ref:    scripture.Ref{Chapter: row.Chapter, Verse: row.Verse},
			ReadAt: row.ReadAt,
		})
	}

	var entries []entities.LedgerEntry
	if err := db.Where("user_id = ?", userID).Order("seq").Find(&entries).Error; err != nil {
		return out, fmt.Errorf("failed to load ledger entries: %w", err)
	}
	for _, row := range entries {
		out.Entries = append(out.Entries, toEntry(row))
	}

	var state entities.UserState
	err := db.Where("user_id = ?", userID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return out, nil
	}
	if err != nil {
		return out, fmt.Errorf("failed to load user state: %w", err)
	}
	if len(state.Ledger) > 0 {
		if err := json.Unmarshal(state.Ledger, &out.Ledger); err != nil {
			return out, fmt.Errorf("invalid ledger state for %s: %w", userID, err)
		}
	}
	if len(state.Bookmarks) > 0 {
		if err := json.Unmarshal(state.Bookmarks, &out.Bookmarks); err != nil {
			return out, fmt.Errorf("invalid bookmark state for %s: %w", userID, err)
		}
	}
	return out, nil
}

// Commit writes a session delta in one transaction. A purchase also takes one
// unit of stock; if the item sold out or was deactivated meanwhile, nothing is
// written.
func (r *Repository) Commit(ctx context.Context, delta session.Delta) error {
	ledgerJSON, err := json.Marshal(delta.Ledger)
	if err != nil {
		return err
	}
	bookmarksJSON, err := json.Marshal(delta.Bookmarks)
	if err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ev := range delta.Reads {
			row := entities.ReadEvent{
				UserID:  delta.UserID,
				Chapter: ev.Ref.Chapter,
				Verse:   ev.Ref.Verse,
				ReadAt:  ev.ReadAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to save read event: %w", err)
			}
		}

		if len(delta.Entries) > 0 {
			var maxSeq sql.NullInt64
			if err := tx.Model(&entities.LedgerEntry{}).Where("user_id = ?", delta.UserID).
				Select("MAX(seq)").Row().Scan(&maxSeq); err != nil {
				return err
			}
			seq := int(maxSeq.Int64)
			for _, e := range delta.Entries {
				seq++
				row := fromEntry(delta.UserID, e, seq)
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to save ledger entry: %w", err)
				}
			}
		}

		if delta.Purchase != nil {
			if err := takeStock(tx, delta.Purchase.ItemID); err != nil {
				return err
			}
			row := entities.Purchase{
				UserID:        delta.UserID,
				StoreItemID:   delta.Purchase.ItemID,
				ItemName:      delta.Purchase.ItemName,
				Coins:         delta.Purchase.Coins,
				LedgerEntryID: delta.Purchase.LedgerEntryID,
				CreatedAt:     delta.Purchase.CreatedAt,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to save purchase: %w", err)
			}
			delta.Purchase.ID = row.ID
			delta.Purchase.CreatedAt = row.CreatedAt
		}

		state := entities.UserState{
			UserID:    delta.UserID,
			Ledger:    datatypes.JSON(ledgerJSON),
			Bookmarks: datatypes.JSON(bookmarksJSON),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"ledger", "bookmarks", "updated_at"}),
		}).Create(&state).Error
	})
}

func takeStock(tx *gorm.DB, itemID uint) error {
	result := tx.Model(&entities.StoreItem{}).
		Where("id = ? AND active = ? AND stock > 0", itemID, true).
		UpdateColumn("stock", gorm.Expr("stock - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var item entities.StoreItem
	if err := tx.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shop.ErrItemNotFound
		}
		return err
	}
	if !item.Active {
		return shop.ErrItemInactive
	}
	return shop.ErrOutOfStock
}

// Purchases returns a user's purchases, newest first.
func (r *Repository) Purchases(ctx context.Context, userID string) ([]shop.Purchase, error) {
	var rows []entities.Purchase
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]shop.Purchase, len(rows))
	for i, row := range rows {
		out[i] = shop.Purchase{
			ID:            row.ID,
			UserID:        row.UserID,
			ItemID:        row.StoreItemID,
			ItemName:      row.ItemName,
			Coins:         row.Coins,
			LedgerEntryID: row.LedgerEntryID,
			CreatedAt:     row.CreatedAt,
		}
	}
	return out, nil
}

// Stats summarises reader activity for the admin overview.
type Stats struct {
	Readers   int64 `json:"readers"`
	Reads     int64 `json:"reads"`
	Purchases int64 `json:"purchases"`
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	db := r.db.WithContext(ctx)
	if err := db.Model(&entities.ReadEvent{}).Distinct("user_id").Count(&stats.Readers).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&entities.ReadEvent{}).Count(&stats.Reads).Error; err != nil {
		return stats, err
	}
	if err := db.Model(&entities.Purchase{}).Count(&stats.Purchases).Error; err != nil {
		return stats, err
	}
	return stats, nil
}

func fromEntry(userID string, e rewards.Entry, seq int) entities.LedgerEntry {
	row := entities.LedgerEntry{
		ID:        e.ID,
		UserID:    userID,
		Kind:      string(e.Kind),
		Amount:    e.Amount,
		Balance:   e.Balance,
		Milestone: e.Milestone,
		Note:      e.Note,
		Seq:       seq,
		CreatedAt: e.CreatedAt,
	}
	if e.Ref != nil {
		chapter, verse := e.Ref.Chapter, e.Ref.Verse
		row.Chapter = &chapter
		row.Verse = &verse
	}
	return row
}

func toEntry(row entities.LedgerEntry) rewards.Entry {
	e := rewards.Entry{
		ID:        row.ID,
		Kind:      rewards.Kind(row.Kind),
		Amount:    row.Amount,
		Balance:   row.Balance,
		Milestone: row.Milestone,
		Note:      row.Note,
		CreatedAt: row.CreatedAt,
	}
	if row.Chapter != nil && row.Verse != nil {
		e.Ref = &scripture.Ref{Chapter: *row.Chapter, Verse: *row.Verse}
	}
	return e
}

var _ session.StateStore = (*Repository)(nil)
