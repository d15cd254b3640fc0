package database

import (
	"context"
	"time"

	"foodtruck-pos/internal/models"

	"gorm.io/gorm"
)

// OrderFilter selects a truck's orders by status and a half-open
// [From, To) creation window. Zero times leave that side unbounded.
type OrderFilter struct {
	TruckID    uint
	Status     models.OrderStatus
	From       time.Time
	To         time.Time
	Descending bool
}

func (f OrderFilter) apply(db *gorm.DB) *gorm.DB {
	db = db.Where("truck_id = ? AND status = ?", f.TruckID, f.Status)
	if !f.From.IsZero() {
		db = db.Where("created_at >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		db = db.Where("created_at < ?", f.To.UTC())
	}
	if f.Descending {
		return db.Order("created_at desc").Order("id desc")
	}
	return db.Order("created_at asc").Order("id asc")
}

// CreateOrder writes the header and its lines in one transaction.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	order.CreatedAt = order.CreatedAt.UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// GORM inserts the Lines association along with the header
		return tx.Create(order).Error
	})
	return translate(err, "create order")
}

// ListOrders returns orders with lines and their menus preloaded
// (orders -> orderdetail -> menu).
func (s *Store) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	var orders []models.Order
	err := filter.apply(s.db.WithContext(ctx)).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Lines.Menu").
		Find(&orders).Error
	return orders, translate(err, "list orders")
}

// ListOrderTotals returns the orders-only shape used for time series.
func (s *Store) ListOrderTotals(ctx context.Context, filter OrderFilter) ([]models.OrderTotal, error) {
	var totals []models.OrderTotal
	err := filter.apply(s.db.WithContext(ctx).Model(&models.Order{})).
		Select("id", "total_amount", "created_at").
		Scan(&totals).Error
	return totals, translate(err, "list order totals")
}

func (s *Store) FindOrder(ctx context.Context, truckID, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Where("id = ? AND truck_id = ?", id, truckID).
		Preload("Lines").Preload("Lines.Menu").
		First(&order).Error
	if err != nil {
		return nil, translate(err, "find order")
	}
	return &order, nil
}

// TransitionOrder moves an order from one status to another only if it is
// still in the expected status, so each transition happens at most once.
func (s *Store) TransitionOrder(ctx context.Context, truckID, id uint, from, to models.OrderStatus) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND truck_id = ? AND status = ?", id, truckID, from).
		Update("status", to)
	if res.Error != nil {
		return translate(res.Error, "update order status")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	if _, err := s.FindOrder(ctx, truckID, id); err != nil {
		return err
	}
	return models.ErrStale
}
