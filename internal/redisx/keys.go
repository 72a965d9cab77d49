package redisx

import "time"

const (
	// Cached order status: order_status:{order_id} -> status
	KeyOrderStatus = "order_status:%s"

	// Per-order transition lock: lock:order:{order_id} -> owner token
	KeyOrderLock = "lock:order:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Low stock alert feed: sorted set, member = product_id, score = stock
	KeyLowStock = "alerts:lowstock"
	// Product name lookup for the alert feed: hash product_id -> name
	KeyLowStockNames = "alerts:lowstock:names"

	// Store open/closed flag value and its change channel
	KeyStoreClosed     = "store:closed"
	ChannelStoreStatus = "store:status"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLOrderLock   = 15 * time.Second
	TTLDedup       = 48 * time.Hour
)
