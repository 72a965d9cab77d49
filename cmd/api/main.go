package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-realtime-storefront/internal/config"
	"github.com/ariefcatur/go-realtime-storefront/internal/httpx"
	"github.com/ariefcatur/go-realtime-storefront/internal/inventory"
	kafkax "github.com/ariefcatur/go-realtime-storefront/internal/kafka"
	"github.com/ariefcatur/go-realtime-storefront/internal/logger"
	"github.com/ariefcatur/go-realtime-storefront/internal/memstore"
	"github.com/ariefcatur/go-realtime-storefront/internal/orders"
	"github.com/ariefcatur/go-realtime-storefront/internal/postgres"
	"github.com/ariefcatur/go-realtime-storefront/internal/redisx"
	"github.com/ariefcatur/go-realtime-storefront/internal/storeflag"
	"github.com/ariefcatur/go-realtime-storefront/internal/suppliers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.LogMode, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	var (
		store     orders.Store
		purchases suppliers.Store
	)
	switch cfg.StoreBackend {
	case "memory":
		log.Warn("using in-memory store, data is lost on restart")
		store = memstore.New()
		purchases = memstore.NewSuppliers()
	default:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN, log)
		if err != nil {
			log.Fatal("db connect", zap.Error(err))
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal("db migrate", zap.Error(err))
		}
		store = &orders.Repo{DB: db}
		purchases = &suppliers.Repo{DB: db}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, cache and locks will fail open", zap.Error(err))
	}

	// Kafka producers
	statusProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatus, 1024, log)
	statusProd.Start(ctx)
	stockProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicStockAdjusted, 1024, log)
	stockProd.Start(ctx)

	svc := &inventory.Service{
		Store:        store,
		Redis:        rdb,
		Locker:       &redisx.Locker{RDB: rdb},
		StatusEvents: statusProd,
		StockEvents:  stockProd,
		ServiceName:  cfg.ServiceName,
		Log:          log.Named("inventory"),
	}

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Service:   svc,
		Redis:     rdb,
		Threshold: cfg.LowStockThreshold,
		Log:       log.Named("http"),
	}
	oh.Register(router)
	sh := &httpx.StoreHandler{
		Flag: &storeflag.Flag{RDB: rdb, Log: log.Named("storeflag")},
		Log:  log.Named("http"),
	}
	sh.Register(router)
	(&httpx.SuppliersHandler{Store: purchases, Log: log.Named("http")}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	statusProd.Close()
	stockProd.Close()
	statusProd.WaitClosed()
	stockProd.WaitClosed()
}
