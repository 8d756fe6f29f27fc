package bookings

// CreateBookingRequest reserves a slot. Name, student ID and plate fall back
// to the caller's profile when omitted.
type CreateBookingRequest struct {
	SlotID    string `json:"slot_id" validate:"required"`
	Date      string `json:"date" validate:"required,isodate"`
	TimeIn    string `json:"time_in" validate:"required,clock"`
	TimeOut   string `json:"time_out" validate:"required,clock"`
	FullName  string `json:"full_name" validate:"omitempty,personname"`
	StudentID string `json:"student_id" validate:"omitempty,studentid"`
	CarPlate  string `json:"car_plate" validate:"omitempty,carplate"`
}

type RescheduleBookingRequest struct {
	Date     string `json:"date" validate:"required,isodate"`
	TimeIn   string `json:"time_in" validate:"required,clock"`
	TimeOut  string `json:"time_out" validate:"required,clock"`
	CarPlate string `json:"car_plate" validate:"omitempty,carplate"`
}

// bookingDetails is the merged request and profile data a booking stores
type bookingDetails struct {
	FullName  string `validate:"required,personname"`
	StudentID string `validate:"required,studentid"`
	CarPlate  string `validate:"required,carplate"`
}
