package http

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/shloka/internal/session"
	"github.com/mrlokans/shloka/internal/shop"
)

func testDay(n int) time.Time {
	return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// fundReader records one read per day until the reader can afford item.
func fundReader(t *testing.T, f *apiFixture, userID string, item shop.Item) {
	t.Helper()
	ctx := context.Background()
	s, err := f.sessions.Get(ctx, userID)
	require.NoError(t, err)

	for day := 0; s.Balance() < item.CoinCost; day++ {
		at := testDay(day)
		_, err := s.RecordRead(ctx, f.library.Verses()[day%f.library.TotalVerses()].Ref, at)
		require.NoError(t, err)
	}
}

func TestStoreController_List(t *testing.T) {
	f, cleanup := setupAPITest(t)
	defer cleanup()

	_, err := f.store.CreateItem(context.Background(), shop.Item{
		Name: "Retired Poster", Category: shop.CategoryBooks, Price: decimal.NewFromInt(5), CoinCost: 10, Stock: 3, Active: false,
	})
	require.NoError(t, err)

	w := do(f.router, "GET", "/api/store", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	items := decode[[]shop.Item](t, w)
	assert.Len(t, items, len(shop.DefaultItems()))
	for _, item := range items {
		assert.True(t, item.Active)
	}
}

func TestStoreController_Purchase(t *testing.T) {
	f, cleanup := setupAPITest(t)
	defer cleanup()
	ctx := context.Background()

	items, err := f.store.ListItems(ctx, true)
	require.NoError(t, err)

	var cheapest, soldOut shop.Item
	for _, item := range items {
		if item.Stock == 0 {
			soldOut = item
		} else if cheapest.ID == 0 || item.CoinCost < cheapest.CoinCost {
			cheapest = item
		}
	}
	require.NotZero(t, cheapest.ID)
	require.NotZero(t, soldOut.ID)

	t.Run("insufficient balance is 422", func(t *testing.T) {
		w := do(f.router, "POST", fmt.Sprintf("/api/store/%d/purchase", cheapest.ID), "broke-reader", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "INSUFFICIENT_BALANCE")
	})

	t.Run("out of stock is 422", func(t *testing.T) {
		w := do(f.router, "POST", fmt.Sprintf("/api/store/%d/purchase", soldOut.ID), "broke-reader", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "OUT_OF_STOCK")
	})

	t.Run("unknown item is 404", func(t *testing.T) {
		w := do(f.router, "POST", "/api/store/9999/purchase", "broke-reader", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("funded reader buys and stock drops", func(t *testing.T) {
		fundReader(t, f, "rich-reader", cheapest)

		w := do(f.router, "POST", fmt.Sprintf("/api/store/%d/purchase", cheapest.ID), "rich-reader", nil)
		require.Equal(t, http.StatusCreated, w.Code)

		result := decode[session.PurchaseResult](t, w)
		assert.Equal(t, cheapest.ID, result.Purchase.ItemID)
		assert.Equal(t, -cheapest.CoinCost, result.Entry.Amount)

		after, err := f.store.GetItem(ctx, cheapest.ID)
		require.NoError(t, err)
		assert.Equal(t, cheapest.Stock-1, after.Stock)

		w = do(f.router, "GET", "/api/me/coins", "rich-reader", nil)
		coins := decode[CoinsResponse](t, w)
		require.Len(t, coins.Purchases, 1)
		assert.Equal(t, cheapest.Name, coins.Purchases[0].ItemName)
	})
}
