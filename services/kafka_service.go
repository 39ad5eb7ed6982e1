package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger event types published after a committed mutation.
const (
	EventItemAdded       = "ledger.item_added"
	EventItemRemoved     = "ledger.item_removed"
	EventCustomerDeleted = "customer.deleted"
)

// LedgerEvent is the JSON payload written to the ledger topic.
type LedgerEvent struct {
	Type       string    `json:"type"`
	CustomerID uint      `json:"customerId"`
	ItemID     string    `json:"itemId,omitempty"`
	Debt       string    `json:"debt"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newLedgerEvent(kind string, customerID uint, itemID string, debt decimal.Decimal) LedgerEvent {
	return LedgerEvent{
		Type:       kind,
		CustomerID: customerID,
		ItemID:     itemID,
		Debt:       debt.StringFixed(2),
		OccurredAt: time.Now().UTC(),
	}
}

// IEventPublisher defines the interface for publishing ledger events.
type IEventPublisher interface {
	Publish(event LedgerEvent) error
	Close() error
}

// KafkaService implements IEventPublisher using Sarama.
type KafkaService struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

// NewSaramaConfig returns the producer settings used for ledger events.
func NewSaramaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second
	return config
}

// NewKafkaService connects a synchronous producer to the brokers.
func NewKafkaService(brokers []string, topic string, log zerolog.Logger) (*KafkaService, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewSaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to start Sarama producer: %w", err)
	}

	log.Info().Strs("brokers", brokers).Str("topic", topic).Msg("kafka producer connected")
	return NewKafkaServiceWithProducer(producer, topic, log), nil
}

// NewKafkaServiceWithProducer wraps an existing producer.
func NewKafkaServiceWithProducer(producer sarama.SyncProducer, topic string, log zerolog.Logger) *KafkaService {
	return &KafkaService{producer: producer, topic: topic, log: log}
}

// Publish sends the event keyed by customer id, so one customer's events stay
// ordered within a partition.
func (s *KafkaService) Publish(event LedgerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(uint64(event.CustomerID), 10)),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := s.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to push %s to topic %s: %w", event.Type, s.topic, err)
	}
	s.log.Debug().
		Str("topic", s.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("type", event.Type).
		Msg("ledger event sent")
	return nil
}

// Close shuts the producer down.
func (s *KafkaService) Close() error {
	return s.producer.Close()
}

// NoopPublisher drops events; used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(LedgerEvent) error { return nil }
func (NoopPublisher) Close() error              { return nil }
