package kafka

import (
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestEventHeaders(t *testing.T) {
	m := kafka.Message{Headers: EventHeaders("StockAdjusted", 2)}
	require.Equal(t, "StockAdjusted", HeaderValue(m, "x-event-type"))
	require.Equal(t, "2", HeaderValue(m, "x-event-version"))
	require.Empty(t, HeaderValue(m, "x-missing"))
}

func TestUnwrapPayload(t *testing.T) {
	type payload struct {
		OrderID string `json:"order_id"`
	}
	p, err := UnwrapPayload[payload](MustMarshal(payload{OrderID: "o1"}))
	require.NoError(t, err)
	require.Equal(t, "o1", p.OrderID)

	_, err = UnwrapPayload[payload]([]byte("{"))
	require.Error(t, err)
}
