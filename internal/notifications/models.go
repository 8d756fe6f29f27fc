package notifications

import (
	"encoding/json"
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypeReminder           NotificationType = "PARKING_REMINDER"
	NotificationTypePenalty            NotificationType = "PARKING_PENALTY"
	NotificationTypeRemindersCancelled NotificationType = "PARKING_REMINDERS_CANCELLED"
)

// reminderOffsets are minutes before the start and before the end
var reminderOffsets = []int{15, 10, 5, 0}

// BookingWindow is the slice of a booking the reminders are built from
type BookingWindow struct {
	UserID    string
	BookingID string
	Zone      string
	Lot       string
	Start     time.Time
	End       time.Time
}

// Reminder is one scheduled message; ID is stable per booking and offset
type Reminder struct {
	ID         string           `json:"id"`
	Type       NotificationType `json:"type"`
	UserID     string           `json:"user_id"`
	BookingID  string           `json:"booking_id"`
	Title      string           `json:"title"`
	Body       string           `json:"body"`
	ScheduleAt time.Time        `json:"schedule_at"`
	Zone       string           `json:"zone"`
	Lot        string           `json:"lot"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    time.Time        `json:"end_time"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (r *Reminder) GetPartitionKey() string {
	return r.UserID
}

func (r *Reminder) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// BuildReminders produces the start and end reminders for w, skipping any
// whose time is not after now.
func BuildReminders(w BookingWindow, now time.Time) []Reminder {
	reminders := make([]Reminder, 0, len(reminderOffsets)*2)

	for _, m := range reminderOffsets {
		r := newReminder(w, fmt.Sprintf("before_%s_%d", w.BookingID, m), w.Start.Add(-time.Duration(m)*time.Minute), now)
		if m == 0 {
			r.Title = "🅿️ Parking Started"
			r.Body = fmt.Sprintf("Your parking at %s, %s has started. Please park your car.", w.Zone, w.Lot)
		} else {
			r.Title = "🅿️ Parking Reminder"
			r.Body = fmt.Sprintf("Reminder: Your parking at %s, %s starts in %d minutes.", w.Zone, w.Lot, m)
		}
		if r.ScheduleAt.After(now) {
			reminders = append(reminders, r)
		}
	}

	for _, m := range reminderOffsets {
		r := newReminder(w, fmt.Sprintf("after_%s_%d", w.BookingID, m), w.End.Add(-time.Duration(m)*time.Minute), now)
		if m == 0 {
			r.Title = "🅿️ Parking Ended"
			r.Body = fmt.Sprintf("Your parking at %s, %s has ended. Please remove your car.", w.Zone, w.Lot)
		} else {
			r.Title = "🅿️ Parking Ending Soon"
			r.Body = fmt.Sprintf("Reminder: Your parking at %s, %s ends in %d minutes.", w.Zone, w.Lot, m)
		}
		if r.ScheduleAt.After(now) {
			reminders = append(reminders, r)
		}
	}

	return reminders
}

func newReminder(w BookingWindow, id string, at, now time.Time) Reminder {
	return Reminder{
		ID:         id,
		Type:       NotificationTypeReminder,
		UserID:     w.UserID,
		BookingID:  w.BookingID,
		ScheduleAt: at,
		Zone:       w.Zone,
		Lot:        w.Lot,
		StartTime:  w.Start,
		EndTime:    w.End,
		CreatedAt:  now,
	}
}

// PenaltyNotice is sent immediately when an overtime penalty grows
type PenaltyNotice struct {
	UserID      string
	BookingID   string
	Zone        string
	Lot         string
	MinutesLate int
	Amount      int
}

func BuildPenaltyNotice(n PenaltyNotice, now time.Time) Reminder {
	return Reminder{
		ID:         fmt.Sprintf("penalty_%s_%d", n.BookingID, n.MinutesLate),
		Type:       NotificationTypePenalty,
		UserID:     n.UserID,
		BookingID:  n.BookingID,
		Title:      "⚠️ Parking Penalty",
		Body:       fmt.Sprintf("You are %d minutes late at %s, %s. RM%d penalty applied.", n.MinutesLate, n.Zone, n.Lot, n.Amount),
		ScheduleAt: now,
		Zone:       n.Zone,
		Lot:        n.Lot,
		CreatedAt:  now,
	}
}
