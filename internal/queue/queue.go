package queue

import (
	"context"
	"time"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/database"
	"foodtruck-pos/internal/models"

	"github.com/pkg/errors"
)

type Store interface {
	ListOrders(ctx context.Context, filter database.OrderFilter) ([]models.Order, error)
	TransitionOrder(ctx context.Context, truckID, id uint, from, to models.OrderStatus) error
}

// Line is a pending order line as the queue view shows it.
type Line struct {
	MenuID   uint   `json:"menu_id"`
	MenuName string `json:"menu_name"`
	Quantity int    `json:"quantity"`
}

// PendingOrder is an order awaiting completion or cancellation.
type PendingOrder struct {
	ID          uint      `json:"id"`
	TotalAmount int64     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
	Lines       []Line    `json:"lines"`
}

type Queue struct {
	store Store
}

func New(store Store) *Queue {
	return &Queue{store: store}
}

// List returns the truck's pending orders, oldest first.
func (q *Queue) List(ctx context.Context, truckID uint) ([]PendingOrder, error) {
	orders, err := q.store.ListOrders(ctx, database.OrderFilter{TruckID: truckID, Status: models.OrderPending})
	if err != nil {
		return nil, apperr.Backend(err, "failed to load pending orders")
	}

	pending := make([]PendingOrder, 0, len(orders))
	for _, o := range orders {
		p := PendingOrder{ID: o.ID, TotalAmount: o.TotalAmount, CreatedAt: o.CreatedAt, Lines: make([]Line, 0, len(o.Lines))}
		for _, l := range o.Lines {
			p.Lines = append(p.Lines, Line{MenuID: l.MenuID, MenuName: l.DisplayName(), Quantity: l.Quantity})
		}
		pending = append(pending, p)
	}
	return pending, nil
}

// Complete marks a pending order as served.
func (q *Queue) Complete(ctx context.Context, truckID, orderID uint) ([]PendingOrder, error) {
	if err := q.transition(ctx, truckID, orderID, models.OrderComplete); err != nil {
		return nil, err
	}
	return q.List(ctx, truckID)
}

// Cancel drops a pending order. It cannot be undone, so the caller must pass
// confirmed=true after asking the operator.
func (q *Queue) Cancel(ctx context.Context, truckID, orderID uint, confirmed bool) ([]PendingOrder, error) {
	if !confirmed {
		return nil, apperr.Validation("cancelling an order cannot be undone; confirm to proceed")
	}
	if err := q.transition(ctx, truckID, orderID, models.OrderCancelled); err != nil {
		return nil, err
	}
	return q.List(ctx, truckID)
}

func (q *Queue) transition(ctx context.Context, truckID, orderID uint, to models.OrderStatus) error {
	err := q.store.TransitionOrder(ctx, truckID, orderID, models.OrderPending, to)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrNotFound):
		return apperr.NotFound("order %d not found", orderID)
	case errors.Is(err, models.ErrStale):
		return apperr.InvalidState("order %d is no longer pending", orderID)
	default:
		return apperr.Backend(err, "failed to update the order")
	}
}
