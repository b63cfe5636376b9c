package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type StoreItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Category    string          `gorm:"index;size:20;not null" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CoinCost    int             `gorm:"not null" json:"coin_cost"`
	Stock       int             `gorm:"not null" json:"stock"`
	Active      bool            `gorm:"index;not null;default:true" json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (StoreItem) TableName() string {
	return "store_items"
}

type Purchase struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"index;size:100;not null" json:"user_id"`
	StoreItemID   uint      `gorm:"index;not null" json:"store_item_id"`
	ItemName      string    `gorm:"size:200" json:"item_name"`
	Coins         int       `gorm:"not null" json:"coins"`
	LedgerEntryID string    `gorm:"size:36" json:"ledger_entry_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Purchase) TableName() string {
	return "purchases"
}
