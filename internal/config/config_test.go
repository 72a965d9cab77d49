package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	t.Setenv("KAFKA_BROKERS", "")
	cfg := Load()
	require.Equal(t, 10, cfg.LowStockThreshold)
	require.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.Equal(t, "storefront-api", cfg.ServiceName)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,,")
	t.Setenv("LOW_STOCK_THRESHOLD", "3")
	t.Setenv("STOCKWATCH_WORKERS", "nope")
	t.Setenv("STORE_BACKEND", "memory")
	cfg := Load()
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.Equal(t, 3, cfg.LowStockThreshold)
	require.Equal(t, 4, cfg.StockwatchWorkers)
	require.Equal(t, "memory", cfg.StoreBackend)
}
