package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shloka/internal/entities"
	"github.com/mrlokans/shloka/internal/shop"
)

type AdminStoreController struct {
	items   StoreCatalog
	auditor Auditor
}

func NewAdminStoreController(items StoreCatalog, auditor Auditor) *AdminStoreController {
	return &AdminStoreController{items: items, auditor: auditor}
}

// List returns every item, including inactive ones.
// GET /api/admin/store
func (sc *AdminStoreController) List(c *gin.Context) {
	items, err := sc.items.ListItems(c.Request.Context(), false)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []shop.Item{}
	}
	c.JSON(http.StatusOK, items)
}

// Get returns one item.
// GET /api/admin/store/:id
func (sc *AdminStoreController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := sc.items.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create adds an item.
// POST /api/admin/store
func (sc *AdminStoreController) Create(c *gin.Context) {
	var cmd shop.ItemCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := cmd.Validate(); err != nil {
		respondError(c, err)
		return
	}

	item, err := sc.items.CreateItem(c.Request.Context(), cmd.ToItem())
	sc.auditor.LogAction(newAction(c, entities.AuditEventStore, "store_item_add", "store_item", strconv.FormatUint(uint64(item.ID), 10), "Added "+cmd.Name), err)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, item)
}

// Update edits an item.
// PATCH /api/admin/store/:id
func (sc *AdminStoreController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var patch shop.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if err := patch.Validate(); err != nil {
		respondError(c, err)
		return
	}

	item, err := sc.items.UpdateItem(c.Request.Context(), id, patch)
	sc.auditor.LogAction(newAction(c, entities.AuditEventStore, "store_item_update", "store_item", c.Param("id"), ""), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an item. Past purchases keep their item name.
// DELETE /api/admin/store/:id
func (sc *AdminStoreController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := sc.items.DeleteItem(c.Request.Context(), id)
	sc.auditor.LogAction(newAction(c, entities.AuditEventStore, "store_item_remove", "store_item", c.Param("id"), ""), err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
