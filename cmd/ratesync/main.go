package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/travelhub/order-composer/internal/config"
	kafkax "github.com/travelhub/order-composer/internal/kafka"
	"github.com/travelhub/order-composer/internal/logger"
	"github.com/travelhub/order-composer/internal/orders"
	"github.com/travelhub/order-composer/internal/postgres"
	"github.com/travelhub/order-composer/internal/rates"
	"github.com/travelhub/order-composer/internal/ratesync"
	"github.com/travelhub/order-composer/internal/redisx"
)

// ratesync keeps the Redis rate cache in step with the business-rules
// service: every CurrencyRatesUpdated event drops and reloads a branch.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	l := logger.New(log.New(os.Stdout, "", log.LstdFlags)).Named(cfg.ServiceName + "-ratesync")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &ratesync.Service{
		Rates:       rates.NewService(l, &rates.Repo{DB: db}, rdb, cfg.RateCacheTTL, cfg.DefaultRates),
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-ratesync",
		L:           l,
	}

	// Consumer
	cons := kafkax.NewConsumer(l, cfg.KafkaBrokers, cfg.RateSyncGroup, orders.TopicRatesUpdated, cfg.RateSyncWorkers)
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Infof("consumer started: group=%s topic=%s workers=%d", cfg.RateSyncGroup, orders.TopicRatesUpdated, cfg.RateSyncWorkers)
		if err := cons.Start(ctx, svc.HandleRatesUpdated); err != nil {
			l.Errorf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	l.Infof("shutting down consumer...")
	cancel()
	<-done
}
