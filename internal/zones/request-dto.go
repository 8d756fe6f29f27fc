package zones

type CreateZoneRequest struct {
	ID          string `json:"id" validate:"required,max=64"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Description string `json:"description,omitempty" validate:"max=500"`
	SortOrder   int    `json:"sort_order"`
}

type CreateSlotRequest struct {
	Label string `json:"label" validate:"required,max=16"`
	Type  string `json:"type" validate:"required,oneof=regular disabled oku"`
}

type CreateSlotsRequest struct {
	Slots []CreateSlotRequest `json:"slots" validate:"required,min=1,max=500,dive"`
}

type UpdateSlotStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available booked"`
}
