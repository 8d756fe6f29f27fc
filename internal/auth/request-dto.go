package auth

// login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// registration request payload; oku_id is required when is_oku is set
type RegisterRequest struct {
	FullName  string `json:"full_name" validate:"required,personname,max=100"`
	StudentID string `json:"student_id" validate:"required,studentid"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
	CarPlate  string `json:"car_plate" validate:"required,carplate"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=20"`
	IsOKU     bool   `json:"is_oku"`
	OKUID     string `json:"oku_id,omitempty" validate:"max=50"`
}

// represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// represents change password request
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// represents logout request
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}
