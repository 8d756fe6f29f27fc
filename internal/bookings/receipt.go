package bookings

import "time"

const receiptTimeLayout = "02/01/2006, 3:04:05 pm"

var receiptNotes = []string{
	"Please arrive on time for your booking",
	"Late returns may incur penalties (RM10 every 5 minutes)",
	"Maximum penalty: RM30 after 15 minutes",
	"Keep this receipt for your records",
	"Contact campus security for assistance",
}

func buildReceipt(b *Booking, loc *time.Location) *ReceiptResponse {
	notes := make([]string, len(receiptNotes))
	copy(notes, receiptNotes)

	return &ReceiptResponse{
		BookingID:        b.ID.String(),
		FullName:         b.FullName,
		StudentID:        b.StudentID,
		CarPlate:         b.CarPlate,
		Date:             b.Date,
		TimeIn:           b.TimeIn,
		TimeOut:          b.TimeOut,
		Duration:         DurationLabel(b.DurationMinutes),
		Zone:             b.ZoneName,
		SlotLabel:        b.SlotLabel,
		BayType:          b.BayType,
		Status:           b.Status,
		FinalPenalty:     b.FinalPenalty,
		CreatedAtDisplay: b.CreatedAt.In(loc).Format(receiptTimeLayout),
		Notes:            notes,
	}
}
