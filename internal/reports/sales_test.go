package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2024, 5, 10, 18, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	lastMonth := now.AddDate(0, 0, -20)

	list := []orders.Order{
		{Status: orders.StatusConfirmed, Total: 3000, CreatedAt: now.Add(-time.Hour), LineItems: []orders.LineItem{
			{Name: "Arepa", Quantity: 2}, {Name: "Jugo", Quantity: 1},
		}},
		{Status: orders.StatusConfirmed, Total: 1001, CreatedAt: yesterday, LineItems: []orders.LineItem{
			{Name: "Jugo", Quantity: 1},
		}},
		{Status: orders.StatusConfirmed, Total: 500, CreatedAt: lastMonth, LineItems: []orders.LineItem{
			{Name: "Cafe", Quantity: 2},
		}},
		{Status: orders.StatusPending, Total: 9999, CreatedAt: now},
		{Status: orders.StatusCancelled, Total: 7777, CreatedAt: now},
	}

	s := Summarize(list, now)
	require.Equal(t, 3000, s.SalesToday)
	require.Equal(t, 4501, s.SalesPeriod)
	require.Equal(t, 1, s.PendingCount)
	require.Equal(t, 3, s.ConfirmedCount)
	require.Equal(t, 1500, s.AverageTicket)

	require.Len(t, s.LastDays, 7)
	require.Equal(t, DayTotal{Date: "2024-05-04", Total: 0}, s.LastDays[0])
	require.Equal(t, DayTotal{Date: "2024-05-09", Total: 1001}, s.LastDays[5])
	require.Equal(t, DayTotal{Date: "2024-05-10", Total: 3000}, s.LastDays[6])

	require.Equal(t, []ProductQty{
		{Name: "Arepa", Quantity: 2},
		{Name: "Cafe", Quantity: 2},
		{Name: "Jugo", Quantity: 2},
	}, s.TopProducts)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Now())
	require.Zero(t, s.AverageTicket)
	require.Len(t, s.LastDays, 7)
	require.Empty(t, s.TopProducts)
}
