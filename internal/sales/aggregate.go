package sales

import (
	"sort"
	"time"

	"foodtruck-pos/internal/models"
)

// TopMenuCount is how many menus the pie chart shows.
const TopMenuCount = 5

type PeriodTotal struct {
	Period      string `json:"period"`
	TotalAmount int64  `json:"total_amount"`
}

type MenuSales struct {
	MenuName      string `json:"menu_name"`
	TotalAmount   int64  `json:"total_amount"`
	TotalQuantity int    `json:"total_quantity"`
}

// Bucket sums order totals per period key of g, keyed in loc.
func Bucket(orders []models.OrderTotal, g Granularity, loc *time.Location) map[string]int64 {
	buckets := make(map[string]int64)
	for _, o := range orders {
		buckets[o.CreatedAt.In(loc).Format(g.Layout())] += o.TotalAmount
	}
	return buckets
}

// Series turns orders into an ascending time series over rng. Day series are
// zero-filled so that every date of rng has a point; month and year series
// only contain periods that had sales.
func Series(orders []models.OrderTotal, g Granularity, rng Range) []PeriodTotal {
	loc := rng.Start.Location()
	buckets := Bucket(orders, g, loc)

	if g == Day {
		for _, d := range rng.Dates() {
			key := d.Format(g.Layout())
			if _, ok := buckets[key]; !ok {
				buckets[key] = 0
			}
		}
	}

	series := make([]PeriodTotal, 0, len(buckets))
	for period, total := range buckets {
		series = append(series, PeriodTotal{Period: period, TotalAmount: total})
	}
	// Keys share a fixed-width layout, so string order is chronological
	sort.Slice(series, func(i, j int) bool { return series[i].Period < series[j].Period })
	return series
}

// Breakdown totals order lines per menu name, largest seller first.
func Breakdown(orders []models.Order) []MenuSales {
	byName := make(map[string]*MenuSales)
	for _, o := range orders {
		for _, l := range o.Lines {
			name := l.DisplayName()
			stat, ok := byName[name]
			if !ok {
				stat = &MenuSales{MenuName: name}
				byName[name] = stat
			}
			stat.TotalAmount += int64(l.Quantity) * l.UnitPrice
			stat.TotalQuantity += l.Quantity
		}
	}

	menus := make([]MenuSales, 0, len(byName))
	for _, stat := range byName {
		menus = append(menus, *stat)
	}
	sort.Slice(menus, func(i, j int) bool {
		if menus[i].TotalAmount != menus[j].TotalAmount {
			return menus[i].TotalAmount > menus[j].TotalAmount
		}
		return menus[i].MenuName < menus[j].MenuName
	})
	return menus
}

// Top returns at most n leading entries of an already sorted breakdown.
func Top(menus []MenuSales, n int) []MenuSales {
	if len(menus) <= n {
		return menus
	}
	return menus[:n]
}

func sumSeries(series []PeriodTotal) int64 {
	var total int64
	for _, p := range series {
		total += p.TotalAmount
	}
	return total
}

func sumOrders(orders []models.Order) int64 {
	var total int64
	for _, o := range orders {
		total += o.TotalAmount
	}
	return total
}
