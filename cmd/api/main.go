package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-store-api/internal/auth"
	"github.com/ariefcatur/go-store-api/internal/catalog"
	"github.com/ariefcatur/go-store-api/internal/config"
	"github.com/ariefcatur/go-store-api/internal/httpx"
	kafkax "github.com/ariefcatur/go-store-api/internal/kafka"
	"github.com/ariefcatur/go-store-api/internal/logx"
	"github.com/ariefcatur/go-store-api/internal/orders"
	"github.com/ariefcatur/go-store-api/internal/postgres"
	"github.com/ariefcatur/go-store-api/internal/redisx"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logx.New(cfg.LogLevel).With("service", cfg.ServiceName)
	if err := cfg.ValidateAPI(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("db connect", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if cfg.Migrate {
		if err := postgres.Migrate(ctx, db, log); err != nil {
			log.Error("migrate", "error", err)
			os.Exit(1)
		}
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		log.Warn("redis unreachable, product cache degraded", "error", err)
	}

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderPlaced, 1024, log)
	prod.Start()

	// Services & handlers
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiry)
	authn := httpx.Authn(tokens)
	orderRepo := &orders.Repo{DB: db}
	products := catalog.NewService(catalog.NewCachedRepository(&catalog.Repo{DB: db}, rdb, log))

	router := httpx.NewRouter(log)
	(&httpx.AuthHandler{
		Auth: auth.NewService(&auth.Repo{DB: db}, tokens, log),
		Log:  log,
	}).Register(router)
	(&httpx.ProductsHandler{Catalog: products, Authn: authn, Log: log}).Register(router)
	(&httpx.OrdersHandler{
		Engine:    orders.NewEngine(orderRepo, cfg.OrderTxTimeout, log),
		Orders:    orderRepo,
		Publisher: prod,
		Service:   cfg.ServiceName,
		Authn:     authn,
		Log:       log,
	}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	// in-flight handlers are done; flush queued events
	prod.Close()
	prod.WaitClosed()
	if err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
