package auth

import (
	"context"
	"errors"
	"fmt"

	"campuspark/internal/users"
)

// UserDirectoryAdapter exposes user lookups to the bookings service without
// bookings depending on auth.
type UserDirectoryAdapter struct {
	repo Repository
}

func NewUserDirectoryAdapter(repo Repository) *UserDirectoryAdapter {
	return &UserDirectoryAdapter{
		repo: repo,
	}
}

// GetUserByID fetches the booking holder's profile
func (a *UserDirectoryAdapter) GetUserByID(ctx context.Context, userID string) (*users.User, error) {
	user, err := a.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, users.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return user, nil
}
