package notifications

import (
	"context"
	"fmt"
	"time"

	"campuspark/pkg/logger"

	"github.com/IBM/sarama"
)

// ReminderProducer publishes reminder records for the delivery service
type ReminderProducer interface {
	PublishScheduled(ctx context.Context, reminders []Reminder) error
	PublishImmediate(ctx context.Context, reminder Reminder) error
	PublishCancellation(ctx context.Context, userID, bookingID string) error
	Close() error
}

// KafkaProducerConfig contains configuration for the Kafka reminder producer
type KafkaProducerConfig struct {
	Brokers          []string
	ReminderTopic    string
	PenaltyTopic     string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

// DefaultKafkaProducerConfig returns a default producer configuration
func DefaultKafkaProducerConfig() *KafkaProducerConfig {
	return &KafkaProducerConfig{
		Brokers:          []string{"localhost:9092"},
		ReminderTopic:    "parking-reminders",
		PenaltyTopic:     "parking-penalties",
		RetryMax:         3,
		TimeoutMs:        10000,             // 10 seconds
		RequiredAcks:     sarama.WaitForAll, // Wait for all in-sync replicas
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000, // 1MB
	}
}

type KafkaReminderProducer struct {
	producer sarama.SyncProducer
	config   *KafkaProducerConfig
}

func NewKafkaReminderProducer(config *KafkaProducerConfig) (*KafkaReminderProducer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	saramaConfig.Producer.MaxMessageBytes = config.MaxMessageBytes

	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// same user always lands on the same partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return NewKafkaReminderProducerWith(producer, config), nil
}

// NewKafkaReminderProducerWith wraps an existing sync producer
func NewKafkaReminderProducerWith(producer sarama.SyncProducer, config *KafkaProducerConfig) *KafkaReminderProducer {
	return &KafkaReminderProducer{producer: producer, config: config}
}

func (p *KafkaReminderProducer) PublishScheduled(ctx context.Context, reminders []Reminder) error {
	if len(reminders) == 0 {
		return nil
	}

	messages := make([]*sarama.ProducerMessage, 0, len(reminders))
	for i := range reminders {
		msg, err := p.message(p.config.ReminderTopic, &reminders[i])
		if err != nil {
			return err
		}
		msg.Headers = append(msg.Headers, sarama.RecordHeader{
			Key:   []byte("scheduled_for"),
			Value: []byte(reminders[i].ScheduleAt.Format(time.RFC3339)),
		})
		messages = append(messages, msg)
	}

	if err := p.producer.SendMessages(messages); err != nil {
		return fmt.Errorf("failed to send reminders to Kafka: %w", err)
	}

	logger.GetDefault().WithFields(map[string]interface{}{
		"topic":      p.config.ReminderTopic,
		"count":      len(messages),
		"booking_id": reminders[0].BookingID,
	}).Info("📤 Parking reminders published")
	return nil
}

func (p *KafkaReminderProducer) PublishImmediate(ctx context.Context, reminder Reminder) error {
	msg, err := p.message(p.config.PenaltyTopic, &reminder)
	if err != nil {
		return err
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send notice to Kafka: %w", err)
	}

	logger.GetDefault().WithFields(map[string]interface{}{
		"topic":     p.config.PenaltyTopic,
		"partition": partition,
		"offset":    offset,
		"id":        reminder.ID,
	}).Info("📤 Penalty notice published")
	return nil
}

// PublishCancellation tells the delivery service to drop a booking's pending reminders
func (p *KafkaReminderProducer) PublishCancellation(ctx context.Context, userID, bookingID string) error {
	r := Reminder{
		ID:        "cancel_" + bookingID,
		Type:      NotificationTypeRemindersCancelled,
		UserID:    userID,
		BookingID: bookingID,
		CreatedAt: time.Now(),
	}
	msg, err := p.message(p.config.ReminderTopic, &r)
	if err != nil {
		return err
	}
	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send reminder cancellation to Kafka: %w", err)
	}
	return nil
}

func (p *KafkaReminderProducer) message(topic string, r *Reminder) (*sarama.ProducerMessage, error) {
	body, err := r.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reminder: %w", err)
	}
	return &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(r.GetPartitionKey()),
		Value: sarama.ByteEncoder(body),
		Headers: []sarama.RecordHeader{
			{Key: []byte("notification_id"), Value: []byte(r.ID)},
			{Key: []byte("notification_type"), Value: []byte(r.Type)},
			{Key: []byte("booking_id"), Value: []byte(r.BookingID)},
			{Key: []byte("recipient_id"), Value: []byte(r.UserID)},
			{Key: []byte("producer"), Value: []byte("campuspark-notifications")},
		},
		Timestamp: r.CreatedAt,
	}, nil
}

func (p *KafkaReminderProducer) Close() error {
	if p.producer != nil {
		if err := p.producer.Close(); err != nil {
			return fmt.Errorf("failed to close Kafka producer: %w", err)
		}
	}
	return nil
}
