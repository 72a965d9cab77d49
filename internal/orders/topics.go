package orders

const (
	TopicOrderStatus   = "storefront.order.status"
	TopicStockAdjusted = "storefront.stock.adjusted"
)

// Partition key = order_id so every event of one order keeps its ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
