package auth

import (
	"time"

	"campuspark/internal/users"
)

// represents the authentication response
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

// represents user data in responses (without sensitive info)
type UserResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	StudentID string    `json:"student_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CarPlate  string    `json:"car_plate"`
	IsOKU     bool      `json:"is_oku"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *users.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		FullName:  u.FullName,
		StudentID: u.StudentID,
		Email:     u.Email,
		Role:      string(u.Role),
		CarPlate:  u.CarPlate,
		IsOKU:     u.IsOKU,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
