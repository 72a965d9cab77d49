package reports

import (
	"sort"
	"time"

	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
)

const (
	trendDays   = 7
	topProducts = 10
	dayLayout   = "2006-01-02"
)

type DayTotal struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

type ProductQty struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type Summary struct {
	SalesToday     int          `json:"sales_today"`
	SalesPeriod    int          `json:"sales_period"`
	PendingCount   int          `json:"pending_count"`
	ConfirmedCount int          `json:"confirmed_count"`
	AverageTicket  int          `json:"average_ticket"`
	LastDays       []DayTotal   `json:"last_days"`
	TopProducts    []ProductQty `json:"top_products"`
}

// Summarize computes the sales dashboard figures over list. Only confirmed
// orders count as sales; days are taken in now's location.
func Summarize(list []orders.Order, now time.Time) Summary {
	loc := now.Location()
	today := now.Format(dayLayout)

	days := make(map[string]int, trendDays)
	var trend []DayTotal
	for i := trendDays - 1; i >= 0; i-- {
		d := now.AddDate(0, 0, -i).Format(dayLayout)
		days[d] = 0
		trend = append(trend, DayTotal{Date: d})
	}

	var s Summary
	qty := map[string]int{}
	for _, o := range list {
		switch o.Status {
		case orders.StatusPending:
			s.PendingCount++
			continue
		case orders.StatusConfirmed:
		default:
			continue
		}
		s.ConfirmedCount++
		s.SalesPeriod += o.Total

		day := o.CreatedAt.In(loc).Format(dayLayout)
		if day == today {
			s.SalesToday += o.Total
		}
		if _, ok := days[day]; ok {
			days[day] += o.Total
		}
		for _, li := range o.LineItems {
			qty[li.Name] += li.Quantity
		}
	}

	if s.ConfirmedCount > 0 {
		s.AverageTicket = (s.SalesPeriod + s.ConfirmedCount/2) / s.ConfirmedCount
	}
	for i := range trend {
		trend[i].Total = days[trend[i].Date]
	}
	s.LastDays = trend

	s.TopProducts = make([]ProductQty, 0, len(qty))
	for name, q := range qty {
		s.TopProducts = append(s.TopProducts, ProductQty{Name: name, Quantity: q})
	}
	sort.Slice(s.TopProducts, func(i, j int) bool {
		if s.TopProducts[i].Quantity == s.TopProducts[j].Quantity {
			return s.TopProducts[i].Name < s.TopProducts[j].Name
		}
		return s.TopProducts[i].Quantity > s.TopProducts[j].Quantity
	})
	if len(s.TopProducts) > topProducts {
		s.TopProducts = s.TopProducts[:topProducts]
	}
	return s
}
