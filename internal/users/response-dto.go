package users

import "time"

type ProfileResponse struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	StudentID    string    `json:"student_id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CarPlate     string    `json:"car_plate"`
	IsOKU        bool      `json:"is_oku"`
	OKUID        string    `json:"oku_id,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToProfileResponse(u *User) *ProfileResponse {
	return &ProfileResponse{
		ID:           u.ID.String(),
		FullName:     u.FullName,
		StudentID:    u.StudentID,
		Email:        u.Email,
		Role:         string(u.Role),
		CarPlate:     u.CarPlate,
		IsOKU:        u.IsOKU,
		OKUID:        u.OKUID,
		Phone:        u.Phone,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
