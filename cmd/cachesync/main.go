package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-store-api/internal/cachesync"
	"github.com/ariefcatur/go-store-api/internal/config"
	kafkax "github.com/ariefcatur/go-store-api/internal/kafka"
	"github.com/ariefcatur/go-store-api/internal/logx"
	"github.com/ariefcatur/go-store-api/internal/orders"
	"github.com/ariefcatur/go-store-api/internal/redisx"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logx.New(cfg.LogLevel).With("service", cfg.ServiceName+"-cachesync")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &cachesync.Service{Redis: rdb, Log: log}

	// Consumer
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.CacheSyncGroup, orders.TopicOrderPlaced, cfg.CacheSyncWorkers, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("cachesync consumer started",
			"group", cfg.CacheSyncGroup, "topic", orders.TopicOrderPlaced, "workers", cfg.CacheSyncWorkers)
		return cons.Start(gctx, svc.HandleOrderPlaced)
	})

	if err := g.Wait(); err != nil {
		log.Error("consumer exit", "error", err)
		os.Exit(1)
	}
	log.Info("consumer stopped")
}
