package sales_test

import (
	"bytes"
	"context"
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"foodtruck-pos/internal/apperr"
	"foodtruck-pos/internal/database"
	"foodtruck-pos/internal/database/dbtest"
	"foodtruck-pos/internal/models"
	"foodtruck-pos/internal/sales"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const truckID = 1

var kst = time.FixedZone("KST", 9*60*60)

func at(y int, m time.Month, d, hour, min int) time.Time {
	return time.Date(y, m, d, hour, min, 0, 0, kst)
}

func setup(t *testing.T) (*sales.Service, *database.Store, models.Menu, models.Menu) {
	store := dbtest.New(t)
	ctx := context.Background()
	a := models.Menu{TruckID: truckID, Name: "A", Price: 5000}
	b := models.Menu{TruckID: truckID, Name: "B", Price: 5000}
	require.NoError(t, store.CreateMenu(ctx, &a))
	require.NoError(t, store.CreateMenu(ctx, &b))
	return sales.NewService(store, kst), store, a, b
}

func place(t *testing.T, store *database.Store, status models.OrderStatus, when time.Time, lines ...models.OrderLine) {
	t.Helper()
	var total int64
	for _, l := range lines {
		total += l.UnitPrice * int64(l.Quantity)
	}
	require.NoError(t, store.CreateOrder(context.Background(), &models.Order{
		TruckID:       truckID,
		BusinessDayID: 1,
		TotalAmount:   total,
		Status:        status,
		CreatedAt:     when,
		Lines:         lines,
	}))
}

func line(menu models.Menu, qty int) models.OrderLine {
	return models.OrderLine{MenuID: menu.ID, MenuName: menu.Name, Quantity: qty, UnitPrice: menu.Price}
}

func TestDayReport(t *testing.T) {
	svc, store, a, b := setup(t)
	place(t, store, models.OrderComplete, at(2024, 5, 1, 10, 0), line(a, 2))
	place(t, store, models.OrderComplete, at(2024, 5, 1, 12, 0), line(a, 2))
	// 23:30 local is still May 1st even though it is 14:30 UTC
	place(t, store, models.OrderComplete, at(2024, 5, 1, 23, 30), line(b, 2))
	// Ignored: pending, cancelled and outside the week
	place(t, store, models.OrderPending, at(2024, 5, 1, 13, 0), line(a, 9))
	place(t, store, models.OrderCancelled, at(2024, 5, 1, 13, 0), line(b, 9))
	place(t, store, models.OrderComplete, at(2024, 4, 24, 12, 0), line(a, 1))

	report, err := svc.Report(context.Background(), truckID, sales.Day, "2024-05-01")
	require.NoError(t, err)

	assert.Equal(t, []sales.PeriodTotal{
		{Period: "2024-04-25"},
		{Period: "2024-04-26"},
		{Period: "2024-04-27"},
		{Period: "2024-04-28"},
		{Period: "2024-04-29"},
		{Period: "2024-04-30"},
		{Period: "2024-05-01", TotalAmount: 30000},
	}, report.Series)
	assert.Equal(t, int64(30000), report.SeriesTotal)
	assert.Equal(t, []sales.MenuSales{
		{MenuName: "A", TotalAmount: 20000, TotalQuantity: 4},
		{MenuName: "B", TotalAmount: 10000, TotalQuantity: 2},
	}, report.Menus)
	assert.Equal(t, report.Menus, report.TopMenus)
}

func TestDayBreakdownCoversOnlyTheAnchor(t *testing.T) {
	svc, store, a, _ := setup(t)
	place(t, store, models.OrderComplete, at(2024, 4, 30, 12, 0), line(a, 1))

	report, err := svc.Report(context.Background(), truckID, sales.Day, "2024-05-01")
	require.NoError(t, err)

	assert.Equal(t, int64(5000), report.SeriesTotal)
	assert.Empty(t, report.Menus)
}

func TestMonthAndYearReportsAreSparse(t *testing.T) {
	svc, store, a, b := setup(t)
	place(t, store, models.OrderComplete, at(2024, 5, 3, 12, 0), line(a, 1))
	place(t, store, models.OrderComplete, at(2024, 5, 20, 12, 0), line(b, 3))
	place(t, store, models.OrderComplete, at(2024, 2, 1, 12, 0), line(a, 2))
	place(t, store, models.OrderComplete, at(2023, 12, 31, 12, 0), line(a, 2))

	month, err := svc.Report(context.Background(), truckID, sales.Month, "2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, []sales.PeriodTotal{{Period: "2024-05", TotalAmount: 20000}}, month.Series)
	assert.Equal(t, "B", month.Menus[0].MenuName)

	year, err := svc.Report(context.Background(), truckID, sales.Year, "2024-05-17")
	require.NoError(t, err)
	assert.Equal(t, []sales.PeriodTotal{{Period: "2024", TotalAmount: 30000}}, year.Series)
}

func TestReportRejectsBadDate(t *testing.T) {
	svc, _, _, _ := setup(t)
	_, err := svc.Report(context.Background(), truckID, sales.Day, "05/01/2024")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestDeletedMenuKeepsItsName(t *testing.T) {
	svc, store, a, _ := setup(t)
	place(t, store, models.OrderComplete, at(2024, 5, 1, 12, 0), line(a, 1))
	require.NoError(t, store.DeleteMenu(context.Background(), truckID, a.ID))

	report, err := svc.Report(context.Background(), truckID, sales.Day, "2024-05-01")
	require.NoError(t, err)
	require.Len(t, report.Menus, 1)
	assert.Equal(t, "A", report.Menus[0].MenuName)
}

func TestDetails(t *testing.T) {
	svc, store, a, b := setup(t)
	place(t, store, models.OrderComplete, at(2024, 5, 1, 9, 0), line(a, 1))
	place(t, store, models.OrderComplete, at(2024, 5, 2, 9, 0), line(b, 2))
	place(t, store, models.OrderComplete, at(2024, 6, 1, 9, 0), line(a, 3))

	tests := []struct {
		period string
		count  int
		total  int64
	}{
		{"2024-05-01", 1, 5000},
		{"2024-05", 2, 15000},
		{"2024", 3, 30000},
		{"2023", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			details, err := svc.Details(context.Background(), truckID, tt.period)
			require.NoError(t, err)
			assert.Len(t, details.Orders, tt.count)
			assert.Equal(t, tt.total, details.Total)
			for i := 1; i < len(details.Orders); i++ {
				assert.False(t, details.Orders[i].CreatedAt.After(details.Orders[i-1].CreatedAt), "newest first")
			}
		})
	}

	_, err := svc.Details(context.Background(), truckID, "2024-5")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestParseGranularity(t *testing.T) {
	for in, want := range map[string]sales.Granularity{
		"day": sales.Day, "Daily": sales.Day,
		"month": sales.Month, "monthly": sales.Month,
		"year": sales.Year, " yearly ": sales.Year,
	} {
		g, err := sales.ParseGranularity(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, g)
	}
	_, err := sales.ParseGranularity("week")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRanges(t *testing.T) {
	anchor := at(2024, 3, 3, 15, 0)

	series, breakdown := sales.Ranges(sales.Day, anchor)
	assert.Equal(t, at(2024, 2, 26, 0, 0), series.Start, "crosses the leap day")
	assert.Equal(t, at(2024, 3, 3, 0, 0), series.End)
	assert.Equal(t, series.End, breakdown.Start)
	assert.Equal(t, series.End, breakdown.End)

	series, breakdown = sales.Ranges(sales.Month, at(2024, 2, 10, 0, 0))
	assert.Equal(t, at(2024, 2, 1, 0, 0), series.Start)
	assert.Equal(t, at(2024, 2, 29, 0, 0), series.End)
	assert.Equal(t, series, breakdown)

	series, _ = sales.Ranges(sales.Year, anchor)
	assert.Equal(t, at(2024, 1, 1, 0, 0), series.Start)
	assert.Equal(t, at(2024, 12, 31, 0, 0), series.End)
}

func TestRangeJSON(t *testing.T) {
	body := []byte(`{"period":"2024-05","range":{"start":"2024-05-01","end":"2024-05-31"},"orders":[],"total":10000}`)

	var details sales.Details
	require.NoError(t, json.Unmarshal(body, &details))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), details.Range.Start)
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), details.Range.End)

	out, err := json.Marshal(details.Range)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"2024-05-01","end":"2024-05-31"}`, string(out))

	var bad sales.Range
	assert.Error(t, json.Unmarshal([]byte(`{"start":"05/01/2024","end":"2024-05-31"}`), &bad))
}

func TestDaySeriesIsAlwaysAWeek(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		anchor := at(2024, time.January, 1, 0, 0).AddDate(0, 0, rng.Intn(730))
		series, _ := sales.Ranges(sales.Day, anchor)

		var orders []models.OrderTotal
		var want int64
		n := rng.Intn(20)
		for j := 0; j < n; j++ {
			when := series.Start.Add(time.Duration(rng.Int63n(int64(7 * 24 * time.Hour))))
			amount := int64(rng.Intn(100)+1) * 100
			orders = append(orders, models.OrderTotal{ID: uint(j + 1), TotalAmount: amount, CreatedAt: when.UTC()})
			want += amount
		}

		points := sales.Series(orders, sales.Day, series)
		require.Len(t, points, 7)
		var got int64
		for j, p := range points {
			assert.Equal(t, series.Start.AddDate(0, 0, j).Format(models.DateLayout), p.Period)
			got += p.TotalAmount
		}
		assert.Equal(t, want, got, "bucketing neither drops nor duplicates orders")
	}
}

func TestBreakdownOrdering(t *testing.T) {
	orders := []models.Order{{Lines: []models.OrderLine{
		{MenuName: "Churro", Quantity: 1, UnitPrice: 3000},
		{MenuName: "Bulgogi", Quantity: 1, UnitPrice: 3000},
		{MenuName: "Taco", Quantity: 3, UnitPrice: 1000},
		{Quantity: 1, UnitPrice: 500},
		{MenuName: "Soda", Quantity: 4, UnitPrice: 1000},
		{MenuName: "Fries", Quantity: 1, UnitPrice: 100},
		{MenuName: "Taco", Quantity: 1, UnitPrice: 1000},
	}}}

	menus := sales.Breakdown(orders)

	names := make([]string, 0, len(menus))
	for _, m := range menus {
		names = append(names, m.MenuName)
	}
	assert.Equal(t, []string{"Soda", "Taco", "Bulgogi", "Churro", "Unknown", "Fries"}, names)
	assert.Equal(t, sales.MenuSales{MenuName: "Taco", TotalAmount: 4000, TotalQuantity: 4}, menus[1])
	assert.Len(t, sales.Top(menus, sales.TopMenuCount), 5)
}

func TestWriteXLSX(t *testing.T) {
	report := &sales.Report{
		Granularity: sales.Day,
		Series:      []sales.PeriodTotal{{Period: "2024-04-30"}, {Period: "2024-05-01", TotalAmount: 30000}},
		SeriesTotal: 30000,
		Menus:       []sales.MenuSales{{MenuName: "A", TotalAmount: 20000, TotalQuantity: 4}},
	}

	var buf bytes.Buffer
	require.NoError(t, sales.WriteXLSX(&buf, report))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	trend, err := f.GetRows(sales.TrendSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Period", "Total"},
		{"2024-04-30", "0"},
		{"2024-05-01", "30000"},
		{"Total", "30000"},
	}, trend)

	menus, err := f.GetRows(sales.MenuSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Menu", "Quantity", "Total"}, {"A", "4", "20000"}}, menus)
}

func TestMenuTotalsMatchSeriesTotals(t *testing.T) {
	svc, store, a, b := setup(t)
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 40; i++ {
		when := at(2024, 5, 1+rng.Intn(31), rng.Intn(24), rng.Intn(60))
		place(t, store, models.OrderComplete, when, line(a, 1+rng.Intn(3)), line(b, 1+rng.Intn(2)))
	}

	for _, g := range []sales.Granularity{sales.Month, sales.Year} {
		report, err := svc.Report(context.Background(), truckID, g, "2024-05-15")
		require.NoError(t, err)

		var menuTotal int64
		for _, m := range report.Menus {
			menuTotal += m.TotalAmount
		}
		assert.Equal(t, report.SeriesTotal, menuTotal, g)
		assert.NotZero(t, menuTotal)
	}
}
