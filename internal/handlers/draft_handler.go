package handlers

import (
	"net/http"

	"foodtruck-pos/internal/middleware"
	"foodtruck-pos/internal/order"

	"github.com/gin-gonic/gin"
)

type AddItemRequest struct {
	MenuID uint `json:"menu_id" binding:"required"`
}

type ChangeQuantityRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// --- GET: /api/draft ---
func (h *Handler) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, h.Sessions.For(middleware.TruckID(c)).Snapshot())
}

// --- POST: /api/draft/items ---
// Adds one of the menu item, merging with an existing line.
func (h *Handler) AddDraftItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badInput(c, "menu_id is required")
		return
	}

	// 1. The menu must belong to this truck
	truckID := middleware.TruckID(c)
	menu, err := h.Catalog.GetMenu(c.Request.Context(), truckID, req.MenuID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. Price and name are captured now; later menu edits do not change the draft
	var draft order.Draft
	_ = h.Sessions.For(truckID).Do(func(d *order.Draft) error {
		d.AddItem(*menu)
		draft = d.Snapshot()
		return nil
	})
	c.JSON(http.StatusOK, draft)
}

// --- PATCH: /api/draft/items/:menuId ---
// A line whose quantity drops to zero is removed.
func (h *Handler) ChangeDraftItem(c *gin.Context) {
	menuID, err := paramID(c, "menuId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badInput(c, "delta must be a non-zero number")
		return
	}

	var draft order.Draft
	_ = h.Sessions.For(middleware.TruckID(c)).Do(func(d *order.Draft) error {
		d.ChangeQuantity(menuID, req.Delta)
		draft = d.Snapshot()
		return nil
	})
	c.JSON(http.StatusOK, draft)
}

// --- DELETE: /api/draft ---
func (h *Handler) ClearDraft(c *gin.Context) {
	_ = h.Sessions.For(middleware.TruckID(c)).Do(func(d *order.Draft) error {
		d.Reset()
		return nil
	})
	c.JSON(http.StatusOK, order.Draft{Items: []order.DraftItem{}})
}

// --- POST: /api/logout ---
// Tokens are stateless; logging out only discards the truck's draft.
func (h *Handler) Logout(c *gin.Context) {
	h.Sessions.Drop(middleware.TruckID(c))
	c.Status(http.StatusNoContent)
}
