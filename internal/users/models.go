package users

import (
	"time"

	"campuspark/internal/shared/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = constants.ROLE_USER
	RoleAdmin Role = constants.ROLE_ADMIN
)

type User struct {
	ID           uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	FullName     string    `json:"full_name" gorm:"not null"`
	StudentID    string    `json:"student_id" gorm:"index;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Password     string    `json:"-" gorm:"not null"` // hide in json
	Role         Role      `json:"role" gorm:"not null;default:'USER'"`
	CarPlate     string    `json:"car_plate"`
	IsOKU        bool      `json:"is_oku" gorm:"not null;default:false"`
	OKUID        string    `json:"oku_id,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleUser), string(RoleAdmin):
		return true
	default:
		return false
	}
}
