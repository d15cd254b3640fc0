package handlers

import (
	"net/http"

	"foodtruck-pos/internal/catalog"
	"foodtruck-pos/internal/middleware"

	"github.com/gin-gonic/gin"
)

// --- GET: List the truck's menu ---
func (h *Handler) GetMenus(c *gin.Context) {
	menus, err := h.Catalog.ListMenus(c.Request.Context(), middleware.TruckID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menus)
}

func (h *Handler) GetMenu(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	menu, err := h.Catalog.GetMenu(c.Request.Context(), middleware.TruckID(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, menu)
}

// --- POST: Add a menu item ---
func (h *Handler) AddMenu(c *gin.Context) {
	var input catalog.MenuInput

	// 1. Parse JSON Input
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badInput(c, "Invalid input")
		return
	}

	// 2. Validate and save
	menu, err := h.Catalog.CreateMenu(c.Request.Context(), middleware.TruckID(c), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menu)
}

// --- PUT: Update name, price or description ---
// Orders already placed keep the price they were sold at.
func (h *Handler) UpdateMenu(c *gin.Context) {
	// 1. Get ID from URL (e.g., /menus/5)
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. Parse JSON Input
	var input catalog.MenuInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.badInput(c, "Invalid input")
		return
	}

	// 3. Save updates
	menu, err := h.Catalog.UpdateMenu(c.Request.Context(), middleware.TruckID(c), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu updated successfully", "menu": menu})
}

// --- DELETE: Remove a menu item ---
// Past order lines keep the menu name they were sold under.
func (h *Handler) DeleteMenu(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Catalog.DeleteMenu(c.Request.Context(), middleware.TruckID(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu deleted successfully"})
}
