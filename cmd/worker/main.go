// Command worker consumes notification events from Kafka and delivers them to
// the configured outbound webhook. Messages are committed only after a
// successful delivery, so a crashed worker redelivers instead of dropping.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"squad-portal/backend/internal/config"
	"squad-portal/backend/internal/notification/webhook"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 || cfg.KafkaTopic == "" {
		log.Fatal("worker: KAFKA_BROKERS and NOTIFICATION_KAFKA_TOPIC must be set")
	}
	if cfg.WebhookURL == "" {
		log.Fatal("worker: NOTIFICATION_WEBHOOK_URL must be set")
	}
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "squad-portal-worker").Logger()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    cfg.KafkaTopic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	defer reader.Close()

	client := webhook.NewClient(cfg.WebhookURL, cfg.WebhookToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("topic", cfg.KafkaTopic).Str("group", cfg.KafkaGroupID).Msg("worker consuming")
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info().Msg("worker stopping")
				return
			}
			logger.Error().Err(err).Msg("fetch message")
			continue
		}
		deliverCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err = client.Deliver(deliverCtx, msg.Value)
		cancel()
		if err != nil {
			// Leave the message uncommitted; the group redelivers it.
			logger.Error().Err(err).Int64("offset", msg.Offset).Msg("webhook delivery failed")
			continue
		}
		if err := reader.CommitMessages(ctx, msg); err != nil {
			logger.Error().Err(err).Int64("offset", msg.Offset).Msg("commit failed")
		}
	}
}
