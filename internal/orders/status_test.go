package orders

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPlanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     StockEffect
	}{
		{StatusPending, StatusConfirmed, EffectDebit},
		{StatusCancelled, StatusConfirmed, EffectDebit},
		{"on_the_way", StatusConfirmed, EffectDebit},
		{StatusConfirmed, StatusConfirmed, EffectNone},
		{StatusConfirmed, StatusCancelled, EffectRestock},
		{StatusPending, StatusCancelled, EffectNone},
		{StatusCancelled, StatusCancelled, EffectNone},
		{StatusConfirmed, StatusPending, EffectNone},
		{StatusConfirmed, "delivered", EffectNone},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			require.Equal(t, tt.want, PlanTransition(tt.from, tt.to))
		})
	}
}

func TestStatusKnown(t *testing.T) {
	require.True(t, StatusPending.Known())
	require.True(t, StatusCancelled.Known())
	require.False(t, Status("delivered").Known())
	require.Equal(t, "restock", EffectRestock.String())
}

func TestLineItemLabel(t *testing.T) {
	require.Equal(t, "Arepa", LineItem{ProductID: "7", Name: "Arepa"}.Label())
	require.Equal(t, "ID: 7", LineItem{ProductID: "7"}.Label())
}

func TestFilterMatch(t *testing.T) {
	day := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	o := Order{Status: StatusPending, CustomerName: "María López", CreatedAt: day}

	require.True(t, Filter{}.Match(o))
	require.True(t, Filter{Customer: "lópez"}.Match(o))
	require.False(t, Filter{Customer: "perez"}.Match(o))
	require.False(t, Filter{Status: StatusConfirmed}.Match(o))
	require.True(t, Filter{From: day, To: day.Add(time.Hour)}.Match(o))
	require.False(t, Filter{To: day}.Match(o), "upper bound is exclusive")
	require.False(t, Filter{From: day.Add(time.Second)}.Match(o))
}

func TestErrorMessages(t *testing.T) {
	err := error(&InsufficientStockError{ProductID: "1", Product: "Arepa", Available: 3, Requested: 10})
	require.Equal(t, `insufficient stock for "Arepa" (available: 3, requested: 10)`, err.Error())

	cause := errors.New("timeout")
	wrapped := fmt.Errorf("tx: %w", &StatusUpdateError{OrderID: "o1", Err: cause})
	require.ErrorIs(t, wrapped, cause)
	var su *StatusUpdateError
	require.ErrorAs(t, wrapped, &su)
	require.Equal(t, "o1", su.OrderID)
}
