package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/travelhub/order-composer/internal/catalog"
	"github.com/travelhub/order-composer/internal/config"
	"github.com/travelhub/order-composer/internal/httpx"
	"github.com/travelhub/order-composer/internal/invoice"
	kafkax "github.com/travelhub/order-composer/internal/kafka"
	"github.com/travelhub/order-composer/internal/logger"
	"github.com/travelhub/order-composer/internal/orders"
	"github.com/travelhub/order-composer/internal/postgres"
	"github.com/travelhub/order-composer/internal/rates"
	"github.com/travelhub/order-composer/internal/redisx"
	"github.com/travelhub/order-composer/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	l := logger.New(log.New(os.Stdout, "", log.LstdFlags)).Named(cfg.ServiceName)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderSubmitted)
	defer prod.Close()

	rateSvc := rates.NewService(l, &rates.Repo{DB: db}, rdb, cfg.RateCacheTTL, cfg.DefaultRates)
	products := &catalog.Repo{DB: db}

	router := httpx.NewRouter()
	(&httpx.ComposeHandler{
		Sessions: session.NewStore(rdb, cfg.SessionTTL),
		Products: products,
		Rates:    rateSvc,
		Producer: prod,
		Redis:    rdb,
		Service:  cfg.ServiceName,
		L:        l.Named("compose"),
	}).Register(router)
	(&httpx.CatalogHandler{Products: products, Rates: rateSvc, L: l.Named("catalog")}).Register(router)
	(&httpx.InvoiceHandler{Invoices: &invoice.Repo{DB: db}}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		l.Infof("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	l.Infof("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
}
