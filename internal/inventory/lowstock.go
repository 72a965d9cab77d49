package inventory

import (
	"context"

	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
)

const DefaultLowStockThreshold = 10

const (
	LevelOut      = "out"
	LevelCritical = "critical"
	LevelLow      = "low"
)

// StockLevel classifies a stock count for the low-stock feed.
func StockLevel(stock int) string {
	switch {
	case stock <= 0:
		return LevelOut
	case stock <= 5:
		return LevelCritical
	default:
		return LevelLow
	}
}

type LowStockItem struct {
	orders.Product
	Level string `json:"level"`
}

// LowStock lists products at or below threshold, emptiest first.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]LowStockItem, error) {
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}
	ps, err := s.Store.ListProductsBelowThreshold(ctx, threshold)
	if err != nil {
		return nil, err
	}
	out := make([]LowStockItem, 0, len(ps))
	for _, p := range ps {
		out = append(out, LowStockItem{Product: p, Level: StockLevel(p.Stock)})
	}
	return out, nil
}
