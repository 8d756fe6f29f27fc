package penalty

import (
	"context"

	"campuspark/internal/notifications"
	"campuspark/pkg/logger"
)

// EventSink receives every engine event forwarded by a Relay
type EventSink interface {
	Handle(ctx context.Context, e Event) error
}

// Relay forwards broker events to out-of-process sinks. Sink failures are
// logged and never reach the session.
type Relay struct {
	broker *Broker
	sinks  []EventSink
}

func NewRelay(broker *Broker, sinks ...EventSink) *Relay {
	return &Relay{broker: broker, sinks: sinks}
}

// Run blocks until ctx is done
func (r *Relay) Run(ctx context.Context) {
	events, cancel := r.broker.Subscribe("")
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			for _, sink := range r.sinks {
				if err := sink.Handle(ctx, e); err != nil {
					logger.GetDefault().WithUserID(e.UserID).WithError(err).Warn("event relay sink failed")
				}
			}
		}
	}
}

// EventPublisher is satisfied by pkg/rabbitmq.Publisher
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// AMQPSink publishes events under "parking.<event type>"
type AMQPSink struct {
	publisher EventPublisher
}

func NewAMQPSink(publisher EventPublisher) *AMQPSink {
	return &AMQPSink{publisher: publisher}
}

func (s *AMQPSink) Handle(ctx context.Context, e Event) error {
	return s.publisher.Publish(ctx, "parking."+string(e.Type), e)
}

// AccountReader looks up the zone and slot for a notice
type AccountReader interface {
	GetAccount(ctx context.Context, userID string) (*Account, error)
}

// PenaltyNoticeSink turns penalty_accrued events into penalty notices
type PenaltyNoticeSink struct {
	notifier notifications.Service
	accounts AccountReader
}

func NewPenaltyNoticeSink(notifier notifications.Service, accounts AccountReader) *PenaltyNoticeSink {
	return &PenaltyNoticeSink{notifier: notifier, accounts: accounts}
}

func (s *PenaltyNoticeSink) Handle(ctx context.Context, e Event) error {
	if e.Type != EventPenaltyAccrued {
		return nil
	}

	notice := notifications.PenaltyNotice{
		UserID:      e.UserID,
		BookingID:   e.BookingID,
		MinutesLate: e.OvertimeMinutes,
		Amount:      e.PenaltyAmount,
	}
	if acc, err := s.accounts.GetAccount(ctx, e.UserID); err == nil {
		notice.Zone = acc.Zone
		notice.Lot = acc.SlotLabel
	}
	return s.notifier.NotifyPenalty(ctx, notice)
}
