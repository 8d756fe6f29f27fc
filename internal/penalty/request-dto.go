package penalty

type MarkCarRemovedRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
}
