package handlers

import (
	"context"
	"net/http"

	"foodtruck-pos/internal/dispatch"
	"foodtruck-pos/internal/middleware"
	"foodtruck-pos/internal/models"
	"foodtruck-pos/internal/order"
	"foodtruck-pos/internal/queue"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// --- POST: /api/orders ---
// Submits the truck's draft as a pending order. Resending the same
// Idempotency-Key returns the first order instead of placing another.
func (h *Handler) SubmitOrder(c *gin.Context) {
	truckID := middleware.TruckID(c)

	placed, err := dispatch.Run(c.Request.Context(), h.Guard, action("submit", truckID), idempotencyKey(c),
		func(ctx context.Context) (*models.Order, error) {
			// 1. Orders go to the active business day
			active, err := h.Business.ActiveSession(ctx, truckID)
			if err != nil {
				return nil, err
			}

			// 2. Persist the draft; it is reset only if every line was stored
			var placed *models.Order
			err = h.Sessions.For(truckID).Do(func(d *order.Draft) error {
				var err error
				placed, err = h.Orders.Submit(ctx, truckID, d, active)
				return err
			})
			return placed, err
		})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Log.WithFields(logrus.Fields{"truck_id": truckID, "order_id": placed.ID, "total": placed.TotalAmount}).Info("order placed")
	c.JSON(http.StatusCreated, placed)
}

// --- GET: /api/orders/pending ---
func (h *Handler) GetPendingOrders(c *gin.Context) {
	pending, err := h.Queue.List(c.Request.Context(), middleware.TruckID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// --- POST: /api/orders/:id/complete ---
func (h *Handler) CompleteOrder(c *gin.Context) {
	h.transitionOrder(c, "complete", func(ctx context.Context, truckID, id uint) ([]queue.PendingOrder, error) {
		return h.Queue.Complete(ctx, truckID, id)
	})
}

// --- POST: /api/orders/:id/cancel?confirm=true ---
func (h *Handler) CancelOrder(c *gin.Context) {
	confirmed := c.Query("confirm") == "true"
	h.transitionOrder(c, "cancel", func(ctx context.Context, truckID, id uint) ([]queue.PendingOrder, error) {
		return h.Queue.Cancel(ctx, truckID, id, confirmed)
	})
}

// transitionOrder runs a queue transition under the guard and answers with
// the refreshed queue.
func (h *Handler) transitionOrder(c *gin.Context, name string, fn func(ctx context.Context, truckID, id uint) ([]queue.PendingOrder, error)) {
	id, err := paramID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	truckID := middleware.TruckID(c)
	// Scoped per order so serving one order never blocks another
	guarded := action(name, truckID) + ":" + c.Param("id")
	pending, err := dispatch.Run(c.Request.Context(), h.Guard, guarded, idempotencyKey(c),
		func(ctx context.Context) ([]queue.PendingOrder, error) {
			return fn(ctx, truckID, id)
		})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Log.WithFields(logrus.Fields{"truck_id": truckID, "order_id": id, "action": name}).Info("order updated")
	c.JSON(http.StatusOK, pending)
}
