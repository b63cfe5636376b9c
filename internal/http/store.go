package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shloka/internal/shop"
)

// StoreController serves the coin store to readers.
type StoreController struct {
	items    StoreCatalog
	sessions SessionProvider
	now      func() time.Time
}

func NewStoreController(items StoreCatalog, sessions SessionProvider) *StoreController {
	return &StoreController{
		items:    items,
		sessions: sessions,
		now:      time.Now,
	}
}

// List returns the active items.
// GET /api/store
func (sc *StoreController) List(c *gin.Context) {
	items, err := sc.items.ListItems(c.Request.Context(), true)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []shop.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// Purchase spends the reader's coins on an item.
// POST /api/store/:id/purchase
func (sc *StoreController) Purchase(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := sc.items.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	s, err := sc.sessions.Get(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := s.Purchase(c.Request.Context(), item, sc.now())
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}
