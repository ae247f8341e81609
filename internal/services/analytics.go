package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/example/souqly/internal/models"
)

const (
	spendingWindowMonths = 4
	recentOrdersLimit    = 3
	pointsPerCurrency    = 10
)

// MonthlyAmount is the completed spend of one calendar month.
type MonthlyAmount struct {
	Month  string `json:"month"`
	Key    string `json:"key"`
	Amount int64  `json:"amount"`
}

// OrderStats is the dashboard summary of a set of orders.
type OrderStats struct {
	TotalOrders       int             `json:"total_orders"`
	CompletedOrders   int             `json:"completed_orders"`
	PendingOrders     int             `json:"pending_orders"`
	TotalSpent        int64           `json:"total_spent"`
	AverageOrderValue int64           `json:"average_order_value"`
	MonthlySpending   []MonthlyAmount `json:"monthly_spending"`
	FavoriteCategory  string          `json:"favorite_category"`
	LoyaltyPoints     int64           `json:"loyalty_points"`
	RecentOrders      []models.Order  `json:"recent_orders"`
}

// AdminStats extends OrderStats with status breakdowns for the back-office.
type AdminStats struct {
	OrderStats
	OrdersByStatus        map[models.OrderStatus]int   `json:"orders_by_status"`
	OrdersByPaymentStatus map[models.PaymentStatus]int `json:"orders_by_payment_status"`
}

// IsCompleted reports whether an order counts towards spend: delivered or paid.
func IsCompleted(order *models.Order) bool {
	return order.Status == models.OrderStatusDelivered || order.PaymentStatus == models.PaymentStatusPaid
}

// ComputeOrderStats summarises orders in a single pass.
// RecentOrders are the first three orders as given; callers pass orders newest first.
func ComputeOrderStats(orders []models.Order, now time.Time) OrderStats {
	loc := now.Location()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)

	buckets := make([]MonthlyAmount, spendingWindowMonths)
	bucketSums := make([]decimal.Decimal, spendingWindowMonths)
	bucketIndex := make(map[string]int, spendingWindowMonths)
	for i := 0; i < spendingWindowMonths; i++ {
		month := monthStart.AddDate(0, i-(spendingWindowMonths-1), 0)
		key := month.Format("2006-01")
		buckets[i] = MonthlyAmount{Month: month.Format("Jan"), Key: key}
		bucketSums[i] = decimal.Zero
		bucketIndex[key] = i
	}

	var (
		stats         = OrderStats{TotalOrders: len(orders)}
		spent         = decimal.Zero
		categoryOrder []string
		categoryQty   = make(map[string]int)
	)

	for i := range orders {
		order := &orders[i]

		if order.Status == models.OrderStatusPending {
			stats.PendingOrders++
		}

		for _, item := range order.Items {
			if item.Category == "" {
				continue
			}
			if _, seen := categoryQty[item.Category]; !seen {
				categoryOrder = append(categoryOrder, item.Category)
			}
			categoryQty[item.Category] += item.Quantity
		}

		if !IsCompleted(order) {
			continue
		}
		stats.CompletedOrders++
		spent = spent.Add(order.Total)

		key := order.CreatedAt.In(loc).Format("2006-01")
		if idx, ok := bucketIndex[key]; ok {
			bucketSums[idx] = bucketSums[idx].Add(order.Total)
		}
	}

	for i := range buckets {
		buckets[i].Amount = bucketSums[i].Round(0).IntPart()
	}
	stats.MonthlySpending = buckets

	stats.TotalSpent = spent.Round(0).IntPart()
	if stats.CompletedOrders > 0 {
		stats.AverageOrderValue = decimal.NewFromInt(stats.TotalSpent).
			Div(decimal.NewFromInt(int64(stats.CompletedOrders))).
			Round(0).IntPart()
	}
	stats.LoyaltyPoints = stats.TotalSpent / pointsPerCurrency

	best := 0
	for _, category := range categoryOrder {
		if qty := categoryQty[category]; qty > best {
			best = qty
			stats.FavoriteCategory = category
		}
	}

	n := min(recentOrdersLimit, len(orders))
	stats.RecentOrders = append([]models.Order{}, orders[:n]...)

	return stats
}

// ComputeAdminStats adds per-status counts to ComputeOrderStats.
func ComputeAdminStats(orders []models.Order, now time.Time) AdminStats {
	stats := AdminStats{
		OrderStats:            ComputeOrderStats(orders, now),
		OrdersByStatus:        make(map[models.OrderStatus]int, len(models.OrderStatuses)),
		OrdersByPaymentStatus: map[models.PaymentStatus]int{models.PaymentStatusPending: 0, models.PaymentStatusPaid: 0},
	}
	for _, s := range models.OrderStatuses {
		stats.OrdersByStatus[s] = 0
	}
	for i := range orders {
		stats.OrdersByStatus[orders[i].Status]++
		stats.OrdersByPaymentStatus[orders[i].PaymentStatus]++
	}
	return stats
}
