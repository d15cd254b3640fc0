package database_test

import (
	"context"
	"testing"
	"time"

	"foodtruck-pos/internal/database"
	"foodtruck-pos/internal/database/dbtest"
	"foodtruck-pos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTruck(t *testing.T, store *database.Store) (*models.FoodTruck, []models.Menu) {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Username: "owner", PasswordHash: "x"}
	require.NoError(t, store.CreateUser(ctx, user))
	truck := &models.FoodTruck{UserID: user.ID, Name: "Taco Wagon"}
	require.NoError(t, store.CreateTruck(ctx, truck))

	menus := []models.Menu{
		{TruckID: truck.ID, Name: "Taco", Price: 5000},
		{TruckID: truck.ID, Name: "Churro", Price: 2500},
	}
	for i := range menus {
		require.NoError(t, store.CreateMenu(ctx, &menus[i]))
	}
	return truck, menus
}

func createOrder(t *testing.T, store *database.Store, truckID, dayID uint, at time.Time, lines ...models.OrderLine) *models.Order {
	t.Helper()
	var total int64
	for _, l := range lines {
		total += l.UnitPrice * int64(l.Quantity)
	}
	order := &models.Order{
		TruckID:       truckID,
		BusinessDayID: dayID,
		TotalAmount:   total,
		Status:        models.OrderPending,
		CreatedAt:     at,
		Lines:         lines,
	}
	require.NoError(t, store.CreateOrder(context.Background(), order))
	return order
}

func TestMenusAreScopedByTruck(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	truck, menus := seedTruck(t, store)

	list, err := store.ListMenus(ctx, truck.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = store.FindMenu(ctx, truck.ID+1, menus[0].ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	menus[0].Price = 5500
	require.NoError(t, store.UpdateMenu(ctx, &menus[0]))
	got, err := store.FindMenu(ctx, truck.ID, menus[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5500), got.Price)

	assert.ErrorIs(t, store.DeleteMenu(ctx, truck.ID+1, menus[0].ID), models.ErrNotFound)
	require.NoError(t, store.DeleteMenu(ctx, truck.ID, menus[0].ID))
	assert.ErrorIs(t, store.UpdateMenu(ctx, &menus[0]), models.ErrNotFound)
}

func TestBusinessDayTransitions(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	truck, _ := seedTruck(t, store)
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	day := &models.BusinessDay{TruckID: truck.ID, BusinessDate: "2024-05-01", Status: models.BusinessOpen, StartTime: &start}
	require.NoError(t, store.CreateBusinessDay(ctx, day))

	dup := &models.BusinessDay{TruckID: truck.ID, BusinessDate: "2024-05-01", Status: models.BusinessOpen}
	assert.Error(t, store.CreateBusinessDay(ctx, dup), "unique per truck and date")

	assert.ErrorIs(t, store.ReopenBusinessDay(ctx, truck.ID, day.ID, start), models.ErrStale)

	end := start.Add(8 * time.Hour)
	require.NoError(t, store.CloseBusinessDay(ctx, truck.ID, day.ID, end, 12000))
	assert.ErrorIs(t, store.CloseBusinessDay(ctx, truck.ID, day.ID, end, 0), models.ErrStale)
	assert.ErrorIs(t, store.CloseBusinessDay(ctx, truck.ID, 999, end, 0), models.ErrNotFound)

	got, err := store.FindBusinessDay(ctx, truck.ID, "2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, models.BusinessClosed, got.Status)
	assert.Equal(t, int64(12000), got.TotalSales)
	require.NotNil(t, got.EndTime)
	assert.True(t, end.Equal(*got.EndTime))

	reopen := end.Add(time.Hour)
	require.NoError(t, store.ReopenBusinessDay(ctx, truck.ID, day.ID, reopen))
	got, err = store.FindBusinessDayByID(ctx, truck.ID, day.ID)
	require.NoError(t, err)
	assert.True(t, got.IsOpen())
	assert.Nil(t, got.EndTime)
	assert.True(t, reopen.Equal(*got.StartTime))

	later := &models.BusinessDay{TruckID: truck.ID, BusinessDate: "2024-05-03", Status: models.BusinessClosed}
	require.NoError(t, store.CreateBusinessDay(ctx, later))
	latest, err := store.LatestBusinessDay(ctx, truck.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-03", latest.BusinessDate)

	open, err := store.ListOpenBusinessDays(ctx, truck.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, day.ID, open[0].ID)
}

func TestOrdersRoundTripWithLines(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	truck, menus := seedTruck(t, store)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	order := createOrder(t, store, truck.ID, 1, at,
		models.OrderLine{MenuID: menus[0].ID, MenuName: "Taco", Quantity: 2, UnitPrice: 5000},
		models.OrderLine{MenuID: menus[1].ID, MenuName: "Churro", Quantity: 1, UnitPrice: 2500},
	)
	assert.NotZero(t, order.ID)

	got, err := store.FindOrder(ctx, truck.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12500), got.TotalAmount)
	assert.Equal(t, models.OrderPending, got.Status)
	require.Len(t, got.Lines, 2)
	require.NotNil(t, got.Lines[0].Menu)
	assert.Equal(t, "Taco", got.Lines[0].Menu.Name)
}

func TestTransitionOrderHappensOnce(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	truck, menus := seedTruck(t, store)
	order := createOrder(t, store, truck.ID, 1, time.Now(),
		models.OrderLine{MenuID: menus[0].ID, MenuName: "Taco", Quantity: 1, UnitPrice: 5000})

	require.NoError(t, store.TransitionOrder(ctx, truck.ID, order.ID, models.OrderPending, models.OrderComplete))
	assert.ErrorIs(t, store.TransitionOrder(ctx, truck.ID, order.ID, models.OrderPending, models.OrderComplete), models.ErrStale)
	assert.ErrorIs(t, store.TransitionOrder(ctx, truck.ID, order.ID, models.OrderPending, models.OrderCancelled), models.ErrStale)
	assert.ErrorIs(t, store.TransitionOrder(ctx, truck.ID+1, order.ID, models.OrderPending, models.OrderComplete), models.ErrNotFound)

	got, err := store.FindOrder(ctx, truck.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderComplete, got.Status)
}

func TestListOrdersFiltersAndOrders(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	truck, menus := seedTruck(t, store)
	line := func() models.OrderLine {
		return models.OrderLine{MenuID: menus[0].ID, MenuName: "Taco", Quantity: 1, UnitPrice: 5000}
	}

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := createOrder(t, store, truck.ID, 1, base, line())
	second := createOrder(t, store, truck.ID, 1, base.Add(time.Hour), line())
	outside := createOrder(t, store, truck.ID, 1, base.Add(48*time.Hour), line())
	done := createOrder(t, store, truck.ID, 1, base.Add(2*time.Hour), line())
	require.NoError(t, store.TransitionOrder(ctx, truck.ID, done.ID, models.OrderPending, models.OrderComplete))

	pending, err := store.ListOrders(ctx, database.OrderFilter{TruckID: truck.ID, Status: models.OrderPending})
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, []uint{first.ID, second.ID, outside.ID}, []uint{pending[0].ID, pending[1].ID, pending[2].ID})

	windowed, err := store.ListOrders(ctx, database.OrderFilter{
		TruckID:    truck.ID,
		Status:     models.OrderPending,
		From:       base,
		To:         base.Add(24 * time.Hour),
		Descending: true,
	})
	require.NoError(t, err)
	require.Len(t, windowed, 2)
	assert.Equal(t, second.ID, windowed[0].ID)

	totals, err := store.ListOrderTotals(ctx, database.OrderFilter{TruckID: truck.ID, Status: models.OrderComplete})
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, int64(5000), totals[0].TotalAmount)
	assert.True(t, done.CreatedAt.Equal(totals[0].CreatedAt))

	sum, err := store.SumCompleteSales(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), sum)
}

func TestDeletedMenuKeepsSnapshotName(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	truck, menus := seedTruck(t, store)
	order := createOrder(t, store, truck.ID, 1, time.Now(),
		models.OrderLine{MenuID: menus[1].ID, MenuName: "Churro", Quantity: 3, UnitPrice: 2500})

	require.NoError(t, store.DeleteMenu(ctx, truck.ID, menus[1].ID))

	got, err := store.FindOrder(ctx, truck.ID, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 1)
	assert.Nil(t, got.Lines[0].Menu)
	assert.Equal(t, "Churro", got.Lines[0].DisplayName())
}

func TestPurgeTruckData(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()
	truck, menus := seedTruck(t, store)
	createOrder(t, store, truck.ID, 1, time.Now(),
		models.OrderLine{MenuID: menus[0].ID, MenuName: "Taco", Quantity: 1, UnitPrice: 5000})

	require.NoError(t, store.PurgeTruckData(ctx, truck.ID))

	list, err := store.ListMenus(ctx, truck.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	orders, err := store.ListOrders(ctx, database.OrderFilter{TruckID: truck.ID, Status: models.OrderPending})
	require.NoError(t, err)
	assert.Empty(t, orders)

	var lines int64
	require.NoError(t, store.DB().Model(&models.OrderLine{}).Count(&lines).Error)
	assert.Zero(t, lines)

	_, err = store.FindTruckByOwner(ctx, truck.UserID)
	assert.NoError(t, err, "the truck itself is kept")
}
