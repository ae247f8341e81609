package services

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/souqly/internal/models"
)

var statsNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func statsOrder(number string, created time.Time, status models.OrderStatus, payment models.PaymentStatus, total string, items ...models.OrderItem) models.Order {
	o := models.Order{
		OrderNumber:   number,
		Status:        status,
		PaymentStatus: payment,
		Total:         decimal.RequireFromString(total),
		Items:         items,
	}
	o.CreatedAt = created
	return o
}

func item(category string, qty int) models.OrderItem {
	return models.OrderItem{Category: category, Quantity: qty, Price: decimal.NewFromInt(10)}
}

func TestComputeOrderStats_Empty(t *testing.T) {
	stats := ComputeOrderStats(nil, statsNow)

	assert.Equal(t, 0, stats.TotalOrders)
	assert.Equal(t, 0, stats.CompletedOrders)
	assert.Equal(t, int64(0), stats.TotalSpent)
	assert.Equal(t, int64(0), stats.AverageOrderValue)
	assert.Equal(t, int64(0), stats.LoyaltyPoints)
	assert.Equal(t, "", stats.FavoriteCategory)
	assert.NotNil(t, stats.RecentOrders)
	assert.Empty(t, stats.RecentOrders)

	want := []MonthlyAmount{
		{Month: "Jul", Key: "2026-07"},
		{Month: "Aug", Key: "2026-08"},
		{Month: "Sep", Key: "2026-09"},
		{Month: "Oct", Key: "2026-10"},
	}
	if diff := cmp.Diff(want, stats.MonthlySpending); diff != "" {
		t.Errorf("monthly spending mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeOrderStats_Aggregates(t *testing.T) {
	orders := []models.Order{
		statsOrder("ORD-5", statsNow.AddDate(0, 0, -1), models.OrderStatusPending, models.PaymentStatusPending, "50", item("Phones", 1)),
		statsOrder("ORD-4", time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC), models.OrderStatusShipped, models.PaymentStatusPaid, "115.40", item("Audio", 2)),
		statsOrder("ORD-3", time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), models.OrderStatusDelivered, models.PaymentStatusPending, "200.20", item("Phones", 1), item("Audio", 1)),
		statsOrder("ORD-2", time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC), models.OrderStatusCancelled, models.PaymentStatusPending, "999"),
		statsOrder("ORD-1", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), models.OrderStatusDelivered, models.PaymentStatusPaid, "30"),
	}

	stats := ComputeOrderStats(orders, statsNow)

	assert.Equal(t, 5, stats.TotalOrders)
	assert.Equal(t, 3, stats.CompletedOrders)
	assert.Equal(t, 1, stats.PendingOrders)
	// 115.40 + 200.20 + 30 = 345.60
	assert.Equal(t, int64(346), stats.TotalSpent)
	assert.Equal(t, int64(115), stats.AverageOrderValue)
	assert.Equal(t, int64(34), stats.LoyaltyPoints)
	// Audio 3 vs Phones 2, cancelled and pending orders still count.
	assert.Equal(t, "Audio", stats.FavoriteCategory)

	want := []MonthlyAmount{
		{Month: "Jul", Key: "2026-07", Amount: 0},
		{Month: "Aug", Key: "2026-08", Amount: 0},
		{Month: "Sep", Key: "2026-09", Amount: 200},
		{Month: "Oct", Key: "2026-10", Amount: 115},
	}
	if diff := cmp.Diff(want, stats.MonthlySpending); diff != "" {
		t.Errorf("monthly spending mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, stats.RecentOrders, 3)
	assert.Equal(t, "ORD-5", stats.RecentOrders[0].OrderNumber)
	assert.Equal(t, "ORD-3", stats.RecentOrders[2].OrderNumber)
}

func TestComputeOrderStats_RecentOrdersKeepInputOrder(t *testing.T) {
	orders := []models.Order{
		statsOrder("OLD", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), models.OrderStatusPending, models.PaymentStatusPending, "1"),
		statsOrder("NEW", statsNow, models.OrderStatusPending, models.PaymentStatusPending, "1"),
	}

	stats := ComputeOrderStats(orders, statsNow)

	require.Len(t, stats.RecentOrders, 2)
	assert.Equal(t, "OLD", stats.RecentOrders[0].OrderNumber)
	assert.Equal(t, "NEW", stats.RecentOrders[1].OrderNumber)
}

func TestComputeOrderStats_FavoriteCategoryTieKeepsFirstSeen(t *testing.T) {
	orders := []models.Order{
		statsOrder("A", statsNow, models.OrderStatusPending, models.PaymentStatusPending, "1", item("Tablets", 2), item("", 9)),
		statsOrder("B", statsNow, models.OrderStatusPending, models.PaymentStatusPending, "1", item("Laptops", 2)),
	}

	stats := ComputeOrderStats(orders, statsNow)

	assert.Equal(t, "Tablets", stats.FavoriteCategory)
}

func TestComputeOrderStats_AlwaysFourBuckets(t *testing.T) {
	for _, n := range []int{0, 1, 7, 40} {
		orders := make([]models.Order, n)
		for i := range orders {
			orders[i] = statsOrder("X", statsNow.AddDate(0, -i, 0), models.OrderStatusDelivered, models.PaymentStatusPaid, "10")
		}
		stats := ComputeOrderStats(orders, statsNow)
		assert.Len(t, stats.MonthlySpending, 4)
		assert.Equal(t, "2026-10", stats.MonthlySpending[3].Key)
	}
}

func TestComputeOrderStats_YearBoundary(t *testing.T) {
	now := time.Date(2027, 2, 10, 0, 0, 0, 0, time.UTC)
	orders := []models.Order{
		statsOrder("DEC", time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC), models.OrderStatusDelivered, models.PaymentStatusPaid, "80"),
	}

	stats := ComputeOrderStats(orders, now)

	keys := make([]string, 0, 4)
	for _, m := range stats.MonthlySpending {
		keys = append(keys, m.Key)
	}
	assert.Equal(t, []string{"2026-11", "2026-12", "2027-01", "2027-02"}, keys)
	assert.Equal(t, int64(80), stats.MonthlySpending[1].Amount)
}

func TestComputeAdminStats(t *testing.T) {
	orders := []models.Order{
		statsOrder("1", statsNow, models.OrderStatusPending, models.PaymentStatusPending, "10"),
		statsOrder("2", statsNow, models.OrderStatusDelivered, models.PaymentStatusPaid, "20"),
		statsOrder("3", statsNow, models.OrderStatusDelivered, models.PaymentStatusPending, "30"),
	}

	stats := ComputeAdminStats(orders, statsNow)

	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, int64(50), stats.TotalSpent)
	assert.Equal(t, 1, stats.OrdersByStatus[models.OrderStatusPending])
	assert.Equal(t, 2, stats.OrdersByStatus[models.OrderStatusDelivered])
	assert.Equal(t, 0, stats.OrdersByStatus[models.OrderStatusShipped])
	assert.Len(t, stats.OrdersByStatus, len(models.OrderStatuses))
	assert.Equal(t, 2, stats.OrdersByPaymentStatus[models.PaymentStatusPending])
	assert.Equal(t, 1, stats.OrdersByPaymentStatus[models.PaymentStatusPaid])
}
