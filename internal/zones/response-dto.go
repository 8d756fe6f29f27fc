package zones

type ZoneSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	TotalSlots     int    `json:"total_slots"`
	AvailableSlots int    `json:"available_slots"`
	OKUSlots       int    `json:"oku_slots"`
}

type SlotResponse struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

type ZoneSlotsResponse struct {
	ZoneID    string         `json:"zone_id"`
	ZoneName  string         `json:"zone_name"`
	Slots     []SlotResponse `json:"slots"`
	Available int            `json:"available"`
	Total     int            `json:"total"`
}

func toSlotResponse(s Slot) SlotResponse {
	return SlotResponse{
		ID:     s.ID,
		Label:  s.Label,
		Type:   string(s.Type),
		Status: string(s.Status),
	}
}
