package order

import (
	"context"
	"time"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/models"
)

type Store interface {
	CreateOrder(ctx context.Context, order *models.Order) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Submit persists the draft as a pending order of the active business day.
// The draft is reset only after the order and all its lines are stored; on
// any failure it is left as it was so the operator can retry.
func (s *Service) Submit(ctx context.Context, truckID uint, draft *Draft, active *models.BusinessDay) (*models.Order, error) {
	if draft.IsEmpty() {
		return nil, apperr.Validation("the order has no items")
	}
	if !active.IsOpen() {
		return nil, apperr.InvalidState("no business day is open")
	}

	lines := make([]models.OrderLine, 0, len(draft.Items))
	for _, item := range draft.Items {
		lines = append(lines, models.OrderLine{
			MenuID:    item.MenuID,
			MenuName:  item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order := &models.Order{
		TruckID:       truckID,
		BusinessDayID: active.ID,
		TotalAmount:   draft.Total,
		Status:        models.OrderPending,
		CreatedAt:     s.now(),
		Lines:         lines,
	}
	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, apperr.Backend(err, "failed to save the order")
	}

	draft.Reset()
	return order, nil
}
