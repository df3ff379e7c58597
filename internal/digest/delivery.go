package digest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/ishankhire/gt-meal-planning/internal/models"
	"github.com/rs/zerolog/log"
)

// Delivery hands a built digest to whatever actually reaches the user. A
// failed delivery never reverts the user's subscription.
type Delivery interface {
	Send(ctx context.Context, payload *models.DigestPayload) error
	Close() error
}

// KafkaDelivery publishes digest payloads to a topic for the downstream
// mailer to pick up, keyed by recipient so one user's digests stay ordered.
type KafkaDelivery struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaDelivery(cfg models.KafkaConfig) (*KafkaDelivery, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // required for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokers := strings.Split(cfg.BrokerList, ",")
	producer, err := sarama.NewSyncProducer(brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Info().Strs("brokers", brokers).Str("topic", cfg.DigestTopic).Msg("Kafka digest delivery ready")
	return &KafkaDelivery{producer: producer, topic: cfg.DigestTopic}, nil
}

func (d *KafkaDelivery) Send(_ context.Context, payload *models.DigestPayload) error {
	msg, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode digest: %w", err)
	}

	_, _, err = d.producer.SendMessage(&sarama.ProducerMessage{
		Topic: d.topic,
		Key:   sarama.StringEncoder(payload.Recipient),
		Value: sarama.ByteEncoder(msg),
	})
	if err != nil {
		return fmt.Errorf("failed to publish digest to %s: %w", d.topic, err)
	}
	return nil
}

func (d *KafkaDelivery) Close() error {
	if d.producer != nil {
		return d.producer.Close()
	}
	return nil
}

// ConsoleDelivery logs the digest instead of sending it. Used when Kafka is
// disabled, typically in local development.
type ConsoleDelivery struct{}

func (ConsoleDelivery) Send(_ context.Context, payload *models.DigestPayload) error {
	log.Info().
		Str("id", payload.ID).
		Str("recipient", payload.Recipient).
		Str("subject", payload.Subject).
		Bool("fallback", payload.Fallback()).
		Int("html_bytes", len(payload.HTMLBody)).
		Msg("digest built (console delivery)")
	return nil
}

func (ConsoleDelivery) Close() error { return nil }
