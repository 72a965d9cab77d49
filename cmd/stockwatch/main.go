package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-storefront/internal/config"
	"github.com/ariefcatur/go-realtime-storefront/internal/inventory"
	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/ariefcatur/go-realtime-storefront/internal/logger"
	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log, err := logger.New(cfg.LogMode, cfg.ServiceName+"-stockwatch")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	watcher := &inventory.AlertWatcher{
		Redis:       rdb,
		Threshold:   cfg.LowStockThreshold,
		ServiceName: "stockwatch",
		Log:         log.Named("alerts"),
	}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.StockwatchGroup, orders.TopicStockAdjusted, cfg.StockwatchWorkers, log)

	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info("stockwatch consumer started",
			zap.String("group", cfg.StockwatchGroup),
			zap.String("topic", orders.TopicStockAdjusted),
			zap.Int("workers", cfg.StockwatchWorkers),
			zap.Int("threshold", cfg.LowStockThreshold),
		)
		if err := cons.Start(ctx, watcher.HandleStockAdjusted); err != nil {
			log.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumer...")
	case <-ctx.Done():
	}
	cancel()
	<-done
}
