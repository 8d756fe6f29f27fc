package bookings

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

type BookingResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	FullName        string    `json:"full_name"`
	StudentID       string    `json:"student_id"`
	CarPlate        string    `json:"car_plate"`
	ZoneID          string    `json:"zone_id"`
	ZoneName        string    `json:"zone_name"`
	SlotID          string    `json:"slot_id"`
	SlotLabel       string    `json:"slot_label"`
	Date            string    `json:"date"`
	TimeIn          string    `json:"time_in"`
	TimeOut         string    `json:"time_out"`
	DurationMinutes int       `json:"duration_minutes"`
	Duration        string    `json:"duration"`
	BayType         string    `json:"bay_type"`
	Status          Status    `json:"status"`
	HasRemovedCar   bool      `json:"has_removed_car"`
	CarRemovedAt    null.Time `json:"car_removed_at"`
	FinalPenalty    int       `json:"final_penalty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SessionsResponse splits a user's bookings for the sessions screen
type SessionsResponse struct {
	Active  []BookingResponse `json:"active"`
	History []BookingResponse `json:"history"`
}

type ReceiptResponse struct {
	BookingID        string   `json:"booking_id"`
	FullName         string   `json:"full_name"`
	StudentID        string   `json:"student_id"`
	CarPlate         string   `json:"car_plate"`
	Date             string   `json:"date"`
	TimeIn           string   `json:"time_in"`
	TimeOut          string   `json:"time_out"`
	Duration         string   `json:"duration"`
	Zone             string   `json:"zone"`
	SlotLabel        string   `json:"slot_label"`
	BayType          string   `json:"bay_type"`
	Status           Status   `json:"status"`
	FinalPenalty     int      `json:"final_penalty"`
	CreatedAtDisplay string   `json:"created_at_display"`
	Notes            []string `json:"notes"`
}

func toBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		UserID:          b.UserID,
		FullName:        b.FullName,
		StudentID:       b.StudentID,
		CarPlate:        b.CarPlate,
		ZoneID:          b.ZoneID,
		ZoneName:        b.ZoneName,
		SlotID:          b.SlotID,
		SlotLabel:       b.SlotLabel,
		Date:            b.Date,
		TimeIn:          b.TimeIn,
		TimeOut:         b.TimeOut,
		DurationMinutes: b.DurationMinutes,
		Duration:        DurationLabel(b.DurationMinutes),
		BayType:         b.BayType,
		Status:          b.Status,
		HasRemovedCar:   b.HasRemovedCar,
		CarRemovedAt:    b.CarRemovedAt,
		FinalPenalty:    b.FinalPenalty,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
