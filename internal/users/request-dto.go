package users

// UpdateProfileRequest carries the editable profile fields; nil means unchanged
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name,omitempty" validate:"omitempty,personname,max=100"`
	StudentID    *string `json:"student_id,omitempty" validate:"omitempty,studentid"`
	CarPlate     *string `json:"car_plate,omitempty" validate:"omitempty,carplate"`
	Phone        *string `json:"phone,omitempty" validate:"omitempty,max=20"`
	IsOKU        *bool   `json:"is_oku,omitempty"`
	OKUID        *string `json:"oku_id,omitempty" validate:"omitempty,max=50"`
	ProfileImage *string `json:"profile_image,omitempty" validate:"omitempty,url"`
}
