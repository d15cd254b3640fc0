package models

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by the store when a scoped lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrStale is returned when a conditional status update finds the row
	// in a different state than expected.
	ErrStale = errors.New("row is not in the expected state")
)

// DateLayout is how business dates are stored and how day buckets are keyed.
const DateLayout = "2006-01-02"

// User - The truck operator logging into the app
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	CreatedAt    time.Time `json:"created_at"`
}

// FoodTruck - One truck per operator
type FoodTruck struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex" json:"user_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (FoodTruck) TableName() string { return "foodtruck" }

// Menu - A sellable item. Price is in minor currency units.
type Menu struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TruckID     uint   `gorm:"index;not null" json:"truck_id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Price       int64  `gorm:"not null" json:"price"`
	Description string `json:"description,omitempty"`
}

func (Menu) TableName() string { return "menu" }

type BusinessStatus string

const (
	BusinessOpen   BusinessStatus = "open"
	BusinessClosed BusinessStatus = "closed"
)

// BusinessDay - One operating session of a truck for a calendar date
type BusinessDay struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	TruckID      uint           `gorm:"uniqueIndex:idx_truck_date;not null" json:"truck_id"`
	BusinessDate string         `gorm:"uniqueIndex:idx_truck_date;size:10;not null" json:"business_date"` // yyyy-MM-dd
	Status       BusinessStatus `gorm:"size:10;not null" json:"status"`
	StartTime    *time.Time     `json:"start_time"`
	EndTime      *time.Time     `json:"end_time"`
	TotalSales   int64          `gorm:"not null;default:0" json:"total_sales"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (BusinessDay) TableName() string { return "businessday" }

func (b *BusinessDay) IsOpen() bool {
	return b != nil && b.Status == BusinessOpen
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderComplete  OrderStatus = "complete"
	OrderCancelled OrderStatus = "cancelled"
)

// Order - The transaction header. TotalAmount is the sum of its lines.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	TruckID       uint        `gorm:"index:idx_orders_truck_status;not null" json:"truck_id"`
	BusinessDayID uint        `gorm:"index;not null" json:"business_day_id"`
	TotalAmount   int64       `gorm:"not null" json:"total_amount"`
	Status        OrderStatus `gorm:"index:idx_orders_truck_status;size:10;not null;default:pending" json:"status"`
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`
	Lines         []OrderLine `gorm:"foreignKey:OrderID" json:"lines,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderLine - One menu item in an order, immutable once written
type OrderLine struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   uint   `gorm:"index;not null" json:"order_id"`
	MenuID    uint   `gorm:"index" json:"menu_id"`
	Menu      *Menu  `json:"menu,omitempty"`
	MenuName  string `gorm:"size:100" json:"menu_name"` // Snapshot of the name at order time
	Quantity  int    `gorm:"not null" json:"quantity"`
	UnitPrice int64  `gorm:"not null" json:"unit_price"` // Snapshot of price at order time
}

func (OrderLine) TableName() string { return "orderdetail" }

// DisplayName prefers the live menu name and falls back to the snapshot.
func (l OrderLine) DisplayName() string {
	if l.Menu != nil && l.Menu.Name != "" {
		return l.Menu.Name
	}
	if l.MenuName != "" {
		return l.MenuName
	}
	return "Unknown"
}

// OrderTotal is the orders-only query shape used by the sales time series.
type OrderTotal struct {
	ID          uint      `json:"id"`
	TotalAmount int64     `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
}
