package tracking

import (
	"context"
	"fmt"
	"time"

	"activitiesui/pkg/logger"

	"github.com/IBM/sarama"
)

// Tracker publishes analytics events
type Tracker interface {
	Track(ctx context.Context, event *Event) error
	Close() error
}

// KafkaConfig configures the Kafka tracker
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	ClientID     string
	RetryMax     int
	Timeout      time.Duration
	RequiredAcks sarama.RequiredAcks
}

// DefaultKafkaConfig returns the producer defaults for brokers
func DefaultKafkaConfig(brokers []string, topic, clientID string) KafkaConfig {
	return KafkaConfig{
		Brokers:      brokers,
		Topic:        topic,
		ClientID:     clientID,
		RetryMax:     3,
		Timeout:      5 * time.Second,
		RequiredAcks: sarama.WaitForLocal,
	}
}

// SaramaConfig builds the sync producer configuration
func (c KafkaConfig) SaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = c.ClientID
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = c.RequiredAcks
	cfg.Producer.Retry.Max = c.RetryMax
	cfg.Producer.Timeout = c.Timeout
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

// KafkaTracker publishes events to a Kafka topic
type KafkaTracker struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaTracker connects a sync producer to the brokers
func NewKafkaTracker(cfg KafkaConfig) (*KafkaTracker, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, cfg.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return NewKafkaTrackerWithProducer(producer, cfg.Topic), nil
}

// NewKafkaTrackerWithProducer wraps an existing producer
func NewKafkaTrackerWithProducer(producer sarama.SyncProducer, topic string) *KafkaTracker {
	return &KafkaTracker{producer: producer, topic: topic}
}

func (k *KafkaTracker) Track(ctx context.Context, event *Event) error {
	payload, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal tracking event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: k.topic,
		Key:   sarama.StringEncoder(event.PartitionKey()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_id"), Value: []byte(event.ID.String())},
			{Key: []byte("event_name"), Value: []byte(event.Name)},
			{Key: []byte("producer"), Value: []byte("activities-ui")},
		},
		Timestamp: event.Timestamp,
	}

	partition, offset, err := k.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send tracking event %s: %w", event.Name, err)
	}

	logger.GetDefault().Debug("Tracking event published",
		"event", event.Name, "topic", k.topic, "partition", partition, "offset", offset)
	return nil
}

func (k *KafkaTracker) Close() error {
	if k.producer == nil {
		return nil
	}
	if err := k.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// LogTracker writes events to the application log, used when no brokers
// are configured
type LogTracker struct {
	log *logger.Logger
}

func NewLogTracker(l *logger.Logger) *LogTracker {
	return &LogTracker{log: l}
}

func (t *LogTracker) Track(ctx context.Context, event *Event) error {
	t.log.InfoContext(ctx, "Tracking event",
		"event", event.Name,
		"username", event.Username,
		"prison_code", event.PrisonCode,
		"properties", event.Properties,
		"measures", event.Measures,
	)
	return nil
}

func (t *LogTracker) Close() error { return nil }
