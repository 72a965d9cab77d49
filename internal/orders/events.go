package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderStatusChanged = "OrderStatusChanged"
	EventSaleRegistered     = "SaleRegistered"
	EventStockAdjusted      = "StockAdjusted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"` // e.g. "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // usually order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads ----

type OrderStatusChangedPayload struct {
	OrderID string `json:"order_id"`
	From    Status `json:"from"`
	To      Status `json:"to"`
	Effect  string `json:"stock_effect"`
}

type SaleRegisteredPayload struct {
	OrderID       string `json:"order_id"`
	Total         int    `json:"total"`
	PaymentMethod string `json:"payment_method"`
}

type StockChange struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Delta     int    `json:"delta"`
	Stock     int    `json:"stock"` // value after the change
}

type StockAdjustedPayload struct {
	OrderID string        `json:"order_id"`
	Reason  string        `json:"reason"` // confirm | cancel | pos_sale
	Changes []StockChange `json:"changes"`
}
