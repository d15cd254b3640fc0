package sales

import (
	"context"
	"time"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/database"
	"foodtruck-pos/internal/models"
)

type Store interface {
	ListOrders(ctx context.Context, filter database.OrderFilter) ([]models.Order, error)
	ListOrderTotals(ctx context.Context, filter database.OrderFilter) ([]models.OrderTotal, error)
}

// Report is the sales screen: a trend series plus a per-menu breakdown.
type Report struct {
	Granularity    Granularity   `json:"granularity"`
	Anchor         string        `json:"anchor"`
	SeriesRange    Range         `json:"series_range"`
	BreakdownRange Range         `json:"breakdown_range"`
	Series         []PeriodTotal `json:"series"`
	SeriesTotal    int64         `json:"series_total"`
	Menus          []MenuSales   `json:"menus"`
	TopMenus       []MenuSales   `json:"top_menus"`
}

// Details is the drill-down of one period: its complete orders, newest first.
type Details struct {
	Period string         `json:"period"`
	Range  Range          `json:"range"`
	Orders []models.Order `json:"orders"`
	Total  int64          `json:"total"`
}

type Service struct {
	store Store
	loc   *time.Location
}

func NewService(store Store, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Report aggregates the truck's complete orders around anchor (yyyy-MM-dd).
func (s *Service) Report(ctx context.Context, truckID uint, g Granularity, anchor string) (*Report, error) {
	at, err := ParseDate(anchor, s.loc)
	if err != nil {
		return nil, err
	}
	seriesRange, breakdownRange := Ranges(g, at)

	totals, err := s.store.ListOrderTotals(ctx, completeIn(truckID, seriesRange, false))
	if err != nil {
		return nil, apperr.Backend(err, "failed to load sales")
	}
	orders, err := s.store.ListOrders(ctx, completeIn(truckID, breakdownRange, false))
	if err != nil {
		return nil, apperr.Backend(err, "failed to load menu sales")
	}

	series := Series(totals, g, seriesRange)
	menus := Breakdown(orders)
	return &Report{
		Granularity:    g,
		Anchor:         at.Format(models.DateLayout),
		SeriesRange:    seriesRange,
		BreakdownRange: breakdownRange,
		Series:         series,
		SeriesTotal:    sumSeries(series),
		Menus:          menus,
		TopMenus:       Top(menus, TopMenuCount),
	}, nil
}

// Details lists the complete orders of a period key (yyyy-MM-dd, yyyy-MM or yyyy).
func (s *Service) Details(ctx context.Context, truckID uint, period string) (*Details, error) {
	rng, _, err := RangeForPeriod(period, s.loc)
	if err != nil {
		return nil, err
	}
	return s.ListDetails(ctx, truckID, rng, period)
}

// ListDetails lists the complete orders of rng, most recent first.
func (s *Service) ListDetails(ctx context.Context, truckID uint, rng Range, label string) (*Details, error) {
	orders, err := s.store.ListOrders(ctx, completeIn(truckID, rng, true))
	if err != nil {
		return nil, apperr.Backend(err, "failed to load sales details")
	}
	return &Details{Period: label, Range: rng, Orders: orders, Total: sumOrders(orders)}, nil
}

func completeIn(truckID uint, rng Range, descending bool) database.OrderFilter {
	from, to := rng.window()
	return database.OrderFilter{
		TruckID:    truckID,
		Status:     models.OrderComplete,
		From:       from,
		To:         to,
		Descending: descending,
	}
}
