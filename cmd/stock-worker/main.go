package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/cache"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/config"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/events"
	repository "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/repositories"
	service "github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/services"
	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/tracing"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("component", "stock-worker"))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", slog.String("error", err.Error()))
	}

	cfg := config.MustLoad()

	if len(cfg.Kafka.Brokers) == 0 {
		slog.Error("❌ KAFKA_BROKERS is required for the stock worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.Otel.ServiceName += "-stock-worker"

	shutdownTracing, err := tracing.Init(ctx, &cfg.Otel, cfg.Env)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, err := repository.New(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer repos.Close()

	redisClient, err := repository.NewRedisClient(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dedup := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer dedup.Close()

	listener := service.NewStockListener(repos.Book, dedup)
	consumer := events.NewConsumer(&cfg.Kafka, logger)

	slog.Info("🚀 Stock worker started",
		slog.String("topic", cfg.Kafka.Topic),
		slog.String("group", cfg.Kafka.GroupID),
		slog.Int("workers", cfg.Kafka.Workers))

	if err := consumer.Start(ctx, listener.HandleOrderFinalized); err != nil {
		slog.Error("❌ Consumer exited", slog.String("error", err.Error()))
	}

	slog.Warn("🛑 Stock worker stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
