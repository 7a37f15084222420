package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hznasser/falconair/config"
	"github.com/hznasser/falconair/internal/bootstrap"
	"github.com/hznasser/falconair/internal/cache"
	"github.com/hznasser/falconair/internal/kafka"
	"github.com/hznasser/falconair/internal/repository"
	"github.com/hznasser/falconair/internal/service/auth"
	"github.com/hznasser/falconair/internal/service/booking"
	"github.com/hznasser/falconair/internal/service/flights"
	"github.com/hznasser/falconair/internal/service/loyalty"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Flights.CacheTTL())
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	loyaltyRepo := repository.NewLoyaltyRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	svc := bootstrap.Services{
		Auth:    auth.NewAuthService(userRepo, redisCache, cfg.Auth, logger),
		Flights: flights.NewFlightService(flightRepo, redisCache, logger),
		Bookings: booking.NewBookingService(
			bookingRepo,
			flightRepo,
			producer,
			cfg.Kafka.BookingEventsTopic,
			logger,
			booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		),
		Loyalty: loyalty.NewLoyaltyService(
			bookingRepo,
			flightRepo,
			loyaltyRepo,
			cfg.Rewards,
			producer,
			logger,
			loyalty.WithEventsTopic(cfg.Kafka.NotificationsTopic),
		),
	}

	if err := bootstrap.Run(ctx, cfg, svc, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
