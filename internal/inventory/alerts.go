package inventory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
)

// AlertWatcher keeps the redis low-stock feed in sync with StockAdjusted
// events. It is installed as a consumer handler by cmd/stockwatch.
type AlertWatcher struct {
	Redis       *redis.Client
	Threshold   int
	ServiceName string
	Log         *zap.Logger
}

type Alert struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Level     string `json:"level"`
}

func (w *AlertWatcher) HandleStockAdjusted(ctx context.Context, m kafkago.Message) error {
	if t := kafkax.HeaderValue(m, "x-event-type"); t != "" && t != orders.EventStockAdjusted {
		return nil
	}
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		w.Log.Error("invalid envelope", zap.Error(err), zap.ByteString("raw_value", m.Value))
		return nil // poison message: commit and move on
	}
	if env.EventType != orders.EventStockAdjusted {
		return nil
	}

	// dedup by event_id
	dkey := fmt.Sprintf(redisx.KeyDedup, w.ServiceName, env.EventID)
	fresh, err := w.Redis.SetNX(ctx, dkey, "1", redisx.TTLDedup).Result()
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	p, err := kafkax.UnwrapPayload[orders.StockAdjustedPayload](env.Payload)
	if err != nil {
		w.Log.Error("invalid StockAdjusted payload", zap.Error(err), zap.String("event_id", env.EventID))
		return nil
	}

	threshold := w.Threshold
	if threshold < 0 {
		threshold = DefaultLowStockThreshold
	}
	pipe := w.Redis.TxPipeline()
	for _, c := range p.Changes {
		if c.Stock <= threshold {
			pipe.ZAdd(ctx, redisx.KeyLowStock, redis.Z{Score: float64(c.Stock), Member: c.ProductID})
			pipe.HSet(ctx, redisx.KeyLowStockNames, c.ProductID, c.Name)
			w.Log.Warn("low stock",
				zap.String("product_id", c.ProductID),
				zap.String("name", c.Name),
				zap.Int("stock", c.Stock),
				zap.String("level", StockLevel(c.Stock)),
			)
		} else {
			pipe.ZRem(ctx, redisx.KeyLowStock, c.ProductID)
			pipe.HDel(ctx, redisx.KeyLowStockNames, c.ProductID)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		// let the redelivery through
		_ = w.Redis.Del(ctx, dkey).Err()
		return err
	}
	return nil
}

// LowStockAlerts reads the feed maintained by AlertWatcher, emptiest first.
func LowStockAlerts(ctx context.Context, rdb *redis.Client, limit int) ([]Alert, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	zs, err := rdb.ZRangeWithScores(ctx, redisx.KeyLowStock, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(zs) == 0 {
		return []Alert{}, nil
	}
	ids := make([]string, 0, len(zs))
	for _, z := range zs {
		ids = append(ids, fmt.Sprint(z.Member))
	}
	names, err := rdb.HMGet(ctx, redisx.KeyLowStockNames, ids...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Alert, 0, len(zs))
	for i, z := range zs {
		a := Alert{ProductID: ids[i], Stock: int(z.Score), Level: StockLevel(int(z.Score))}
		if n, ok := names[i].(string); ok {
			a.Name = n
		}
		out = append(out, a)
	}
	return out, nil
}
