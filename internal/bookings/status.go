package bookings

type Status string

const (
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// activeStatuses must match the partial unique indexes on parking_bookings
var activeStatuses = []Status{StatusBooked, StatusConfirmed, StatusActive}

// IsActive reports whether the booking still holds its slot
func (s Status) IsActive() bool {
	for _, a := range activeStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// CanReschedule is true until the booking has started
func (s Status) CanReschedule() bool {
	return s == StatusBooked || s == StatusConfirmed
}

func (s Status) IsValid() bool {
	return s.IsActive() || s == StatusCompleted || s == StatusCancelled
}
