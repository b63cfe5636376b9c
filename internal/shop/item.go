// Package shop defines the coin store catalog and purchases.
package shop

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrlokans/shloka/internal/scripture"
)

var (
	ErrItemNotFound = errors.New("store item not found")
	ErrOutOfStock   = errors.New("store item is out of stock")
	ErrItemInactive = errors.New("store item is not available")
)

type Category string

const (
	CategoryBooks    Category = "books"
	CategoryStatues  Category = "statues"
	CategoryClothing Category = "clothing"
)

type Item struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Price       decimal.Decimal `json:"price"`
	CoinCost    int             `json:"coin_cost"`
	Stock       int             `json:"stock"`
	Active      bool            `json:"active"`
}

// Available reports whether the item can be bought right now.
func (i Item) Available() error {
	if !i.Active {
		return ErrItemInactive
	}
	if i.Stock <= 0 {
		return ErrOutOfStock
	}
	return nil
}

type Purchase struct {
	ID            uint      `json:"id"`
	UserID        string    `json:"user_id"`
	ItemID        uint      `json:"item_id"`
	ItemName      string    `json:"item_name"`
	Coins         int       `json:"coins"`
	LedgerEntryID string    `json:"ledger_entry_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// ItemCommand is the admin input for creating a store item.
type ItemCommand struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Category    Category        `json:"category" validate:"required,oneof=books statues clothing"`
	Price       decimal.Decimal `json:"price"`
	CoinCost    int             `json:"coin_cost" validate:"gt=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Active      *bool           `json:"active"`
}

func (c ItemCommand) Validate() error {
	if err := scripture.ValidateStruct(c); err != nil {
		return err
	}
	if c.Price.IsNegative() {
		return scripture.NewValidationError("price", "must not be negative")
	}
	return nil
}

func (c ItemCommand) ToItem() Item {
	return Item{
		Name:        scripture.SanitizeText(c.Name),
		Description: scripture.SanitizeText(c.Description),
		Category:    c.Category,
		Price:       c.Price.Round(2),
		CoinCost:    c.CoinCost,
		Stock:       c.Stock,
		Active:      c.Active == nil || *c.Active,
	}
}

// ItemPatch is the admin input for editing a store item. Nil fields are kept.
type ItemPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Category    *Category        `json:"category" validate:"omitempty,oneof=books statues clothing"`
	Price       *decimal.Decimal `json:"price"`
	CoinCost    *int             `json:"coin_cost" validate:"omitempty,gt=0"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Active      *bool            `json:"active"`
}

func (p ItemPatch) Validate() error {
	if err := scripture.ValidateStruct(p); err != nil {
		return err
	}
	if p.Price != nil && p.Price.IsNegative() {
		return scripture.NewValidationError("price", "must not be negative")
	}
	return nil
}

// Apply returns item with the patch applied.
func (p ItemPatch) Apply(item Item) Item {
	if p.Name != nil {
		item.Name = scripture.SanitizeText(*p.Name)
	}
	if p.Description != nil {
		item.Description = scripture.SanitizeText(*p.Description)
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Price != nil {
		item.Price = p.Price.Round(2)
	}
	if p.CoinCost != nil {
		item.CoinCost = *p.CoinCost
	}
	if p.Stock != nil {
		item.Stock = *p.Stock
	}
	if p.Active != nil {
		item.Active = *p.Active
	}
	return item
}

// DefaultItems is the starter store catalog written to an empty database.
func DefaultItems() []Item {
	price := decimal.RequireFromString
	return []Item{
		{Name: "Bhagavad Gita As It Is", Description: "Complete commentary by A.C. Bhaktivedanta Swami", Category: CategoryBooks, Price: price("15.99"), CoinCost: 80, Stock: 25, Active: true},
		{Name: "Sanskrit Learning Guide", Description: "Learn to read Devanagari script", Category: CategoryBooks, Price: price("12.99"), CoinCost: 60, Stock: 30, Active: true},
		{Name: "Spiritual Diary", Description: "Daily reflection journal with Gita quotes", Category: CategoryBooks, Price: price("8.99"), CoinCost: 40, Stock: 50, Active: true},
		{Name: "Krishna with Flute", Description: "Beautiful brass statue, 6 inches", Category: CategoryStatues, Price: price("29.99"), CoinCost: 150, Stock: 15, Active: true},
		{Name: "Arjuna and Krishna", Description: "Chariot scene from battlefield", Category: CategoryStatues, Price: price("39.99"), CoinCost: 200, Stock: 0, Active: true},
		{Name: "Om Symbol", Description: "Sacred Om symbol in marble", Category: CategoryStatues, Price: price("19.99"), CoinCost: 100, Stock: 10, Active: true},
		{Name: "Men's Cotton Kurta", Description: "Traditional white kurta with Gita verses", Category: CategoryClothing, Price: price("24.99"), CoinCost: 120, Stock: 20, Active: true},
		{Name: "Silk Saree", Description: "Beautiful orange saree with lotus border", Category: CategoryClothing, Price: price("49.99"), CoinCost: 180, Stock: 8, Active: true},
		{Name: "Prayer Shawl", Description: "Soft cotton shawl for meditation", Category: CategoryClothing, Price: price("16.99"), CoinCost: 70, Stock: 40, Active: true},
	}
}
