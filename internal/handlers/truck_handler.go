package handlers

import (
	"net/http"

	"foodtruck-pos/internal/middleware"

	"github.com/gin-gonic/gin"
)

type TruckRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// --- POST: /api/trucks ---
func (h *Handler) RegisterTruck(c *gin.Context) {
	var req TruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badInput(c, "Truck name is required")
		return
	}

	truck, err := h.Catalog.RegisterTruck(c.Request.Context(), middleware.UserID(c), req.Name, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, truck)
}

// --- GET: /api/truck ---
func (h *Handler) GetTruck(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.Truck(c))
}

// --- PUT: /api/truck ---
func (h *Handler) UpdateTruck(c *gin.Context) {
	var req TruckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badInput(c, "Truck name is required")
		return
	}

	truck, err := h.Catalog.UpdateTruck(c.Request.Context(), middleware.Truck(c), req.Name, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, truck)
}

// --- DELETE: /api/truck/data?confirm=true ---
// Wipes orders and menus. The client must confirm explicitly.
func (h *Handler) PurgeTruckData(c *gin.Context) {
	if c.Query("confirm") != "true" {
		h.badInput(c, "Deleting all data cannot be undone; pass confirm=true")
		return
	}

	truckID := middleware.TruckID(c)
	if err := h.Catalog.PurgeTruckData(c.Request.Context(), truckID); err != nil {
		h.respondError(c, err)
		return
	}

	// The draft may reference menus that no longer exist
	h.Sessions.Drop(truckID)
	h.Log.WithField("truck_id", truckID).Warn("truck data purged")
	c.JSON(http.StatusOK, gin.H{"message": "All orders and menus were deleted"})
}
