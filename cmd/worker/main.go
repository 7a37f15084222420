package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hznasser/falconair/config"
	"github.com/hznasser/falconair/internal/email"
	"github.com/hznasser/falconair/internal/kafka"
	kafkaGo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// The worker drains the notifications topic and turns booking lifecycle
// events into passenger emails.
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

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := email.NewSender(logger)

	if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
		var event kafka.BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Warn("skipping undecodable event", zap.Error(err))
			return nil
		}
		return sender.Send(ctx, event)
	}); err != nil && ctx.Err() == nil {
		logger.Error("consumer stopped", zap.Error(err))
	}
}
