package handlers

import (
	"context"
	"net/http"

	"foodtruck-pos/internal/dispatch"
	"foodtruck-pos/internal/middleware"
	"foodtruck-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type StartBusinessRequest struct {
	// Date defaults to today in the truck's time zone.
	Date string `json:"date"`
}

// --- GET: /api/business ---
func (h *Handler) GetBusiness(c *gin.Context) {
	status, err := h.Business.Status(c.Request.Context(), middleware.TruckID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// --- POST: /api/business/start ---
func (h *Handler) StartBusiness(c *gin.Context) {
	var req StartBusinessRequest
	// An empty body means "today"
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.badInput(c, "Invalid input")
			return
		}
	}
	if req.Date == "" {
		req.Date = h.Business.Today()
	}

	truckID := middleware.TruckID(c)
	guarded, key := businessAction(c, "start", truckID)
	day, err := dispatch.Run(c.Request.Context(), h.Guard, guarded, key,
		func(ctx context.Context) (*models.BusinessDay, error) {
			return h.Business.Start(ctx, truckID, req.Date)
		})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Log.WithFields(logrus.Fields{"truck_id": truckID, "business_date": day.BusinessDate}).Info("business day opened")
	c.JSON(http.StatusOK, day)
}

// --- POST: /api/business/:id/close ---
func (h *Handler) CloseBusiness(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	truckID := middleware.TruckID(c)
	guarded, key := businessAction(c, "close:"+c.Param("id"), truckID)
	day, err := dispatch.Run(c.Request.Context(), h.Guard, guarded, key,
		func(ctx context.Context) (*models.BusinessDay, error) {
			return h.Business.Close(ctx, truckID, id)
		})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Log.WithFields(logrus.Fields{
		"truck_id":      truckID,
		"business_date": day.BusinessDate,
		"total_sales":   day.TotalSales,
	}).Info("business day closed")
	c.JSON(http.StatusOK, day)
}

// businessAction returns the guarded action and key for a business day
// change. Keyed calls are scoped per operation so a key reused for a close
// never replays a start. Keyless calls share one action per truck so a start
// and a close never run at the same time.
func businessAction(c *gin.Context, op string, truckID uint) (string, string) {
	key := idempotencyKey(c)
	if key == "" {
		return action("business", truckID), ""
	}
	return action("business:"+op, truckID), key
}
