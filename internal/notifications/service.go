package notifications

import (
	"context"
	"time"

	"campuspark/internal/shared/config"
	"campuspark/pkg/logger"
)

// Service turns booking windows and penalty changes into reminder records.
// Publishing failures are logged and returned but never roll back a booking.
type Service interface {
	ScheduleBookingReminders(ctx context.Context, w BookingWindow) error
	CancelBookingReminders(ctx context.Context, userID, bookingID string) error
	NotifyPenalty(ctx context.Context, n PenaltyNotice) error
	Close() error
}

type service struct {
	producer ReminderProducer
	clock    func() time.Time
}

func NewService(producer ReminderProducer) Service {
	return &service{producer: producer, clock: time.Now}
}

// NewServiceFromConfig connects to Kafka when enabled and falls back to a
// no-op service otherwise.
func NewServiceFromConfig(cfg config.KafkaConfig) Service {
	if !cfg.Enabled {
		logger.GetDefault().Info("Kafka disabled, parking reminders will not be published")
		return NewNoopService()
	}

	pc := DefaultKafkaProducerConfig()
	pc.Brokers = cfg.Brokers
	pc.ReminderTopic = cfg.ReminderTopic
	pc.PenaltyTopic = cfg.PenaltyTopic

	producer, err := NewKafkaReminderProducer(pc)
	if err != nil {
		logger.GetDefault().WithError(err).Warn("⚠️ Kafka unavailable, parking reminders disabled")
		return NewNoopService()
	}
	return NewService(producer)
}

func (s *service) ScheduleBookingReminders(ctx context.Context, w BookingWindow) error {
	reminders := BuildReminders(w, s.clock())
	if err := s.producer.PublishScheduled(ctx, reminders); err != nil {
		logger.GetDefault().WithUserID(w.UserID).WithError(err).Warn("failed to publish parking reminders")
		return err
	}
	return nil
}

func (s *service) CancelBookingReminders(ctx context.Context, userID, bookingID string) error {
	if err := s.producer.PublishCancellation(ctx, userID, bookingID); err != nil {
		logger.GetDefault().WithUserID(userID).WithError(err).Warn("failed to publish reminder cancellation")
		return err
	}
	return nil
}

func (s *service) NotifyPenalty(ctx context.Context, n PenaltyNotice) error {
	if err := s.producer.PublishImmediate(ctx, BuildPenaltyNotice(n, s.clock())); err != nil {
		logger.GetDefault().WithUserID(n.UserID).WithError(err).Warn("failed to publish penalty notice")
		return err
	}
	return nil
}

func (s *service) Close() error {
	return s.producer.Close()
}

type noopService struct{}

func NewNoopService() Service {
	return noopService{}
}

func (noopService) ScheduleBookingReminders(context.Context, BookingWindow) error { return nil }
func (noopService) CancelBookingReminders(context.Context, string, string) error  { return nil }
func (noopService) NotifyPenalty(context.Context, PenaltyNotice) error            { return nil }
func (noopService) Close() error                                                  { return nil }
