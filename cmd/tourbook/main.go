package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tourbook/internal/app/coordinator"
	"tourbook/internal/app/state"
	"tourbook/internal/domain/booking"
	"tourbook/internal/domain/reviews"
	"tourbook/internal/infra/api"
	"tourbook/internal/infra/broker/kafka"
	"tourbook/internal/infra/config"
	ginserver "tourbook/internal/infra/http/gin"
	"tourbook/internal/infra/obs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	env := getenv("APP_ENV", "dev")
	logger := obs.NewLogger(env)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.APIToken, &http.Client{Timeout: cfg.APITimeout}, logger)
	var bookingRepo booking.Repository = api.NewBookingRepository(client)
	var reviewRepo reviews.Repository = api.NewReviewRepository(client)

	opts := coordinator.Options{
		Logger:      logger,
		SyncTimeout: cfg.SyncTimeout,
		TopicPrefix: cfg.KafkaPrefix,
	}
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			logger.Warn("kafka producer unavailable, events disabled", "error", err)
		} else {
			opts.Events = producer
			defer producer.Close()
		}
	}

	coord := coordinator.New(bookingRepo, reviewRepo, state.NewBookingsCache(), state.NewReviewsCache(), opts)

	warmUp(ctx, coord, logger)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: coord.Ready,
	}, ginserver.Handlers{
		Reviews:  ginserver.ReviewsHandler{Coordinator: coord, Logger: logger},
		Bookings: ginserver.BookingsHandler{Coordinator: coord, Logger: logger},
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}

	coord.Wait()
	logger.Info("HTTP server stopped")
}

// warmUp primes the caches so the UI has bookings and reviews before the
// first refresh. Failures are non-fatal: the caches rebuild on demand.
func warmUp(ctx context.Context, coord *coordinator.Coordinator, logger *slog.Logger) {
	if result := coord.RefreshBookings(ctx); !result.Success {
		logger.Warn("initial bookings load failed", "error", result.Error)
	} else {
		logger.Info("bookings loaded", "count", len(result.Bookings))
	}
	if result := coord.RefreshMyReviews(ctx); !result.Success {
		logger.Warn("initial reviews load failed", "error", result.Error)
	} else {
		logger.Info("reviews loaded", "count", len(result.Reviews))
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
