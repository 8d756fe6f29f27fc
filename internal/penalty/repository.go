package penalty

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetAccount(ctx context.Context, userID string) (*Account, error)
	// SaveLifecycle merge-upserts the lifecycle columns only, and only while
	// the stored row still belongs to acc.CurrentBookingID
	SaveLifecycle(ctx context.Context, acc *Account) error
	// ResetSession overwrites every session column for a new booking
	ResetSession(ctx context.Context, acc *Account) error
	CloseSession(ctx context.Context, userID, bookingID string) error
	ListActiveAccounts(ctx context.Context) ([]Account, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds to db, which may be a transaction handle
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAccount(ctx context.Context, userID string) (*Account, error) {
	var acc Account
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

func (r *repository) SaveLifecycle(ctx context.Context, acc *Account) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "penalty_accounts.current_booking_id = excluded.current_booking_id"},
		}},
		DoUpdates: clause.AssignmentColumns(lifecycleColumns),
	}).Create(acc).Error
}

func (r *repository) ResetSession(ctx context.Context, acc *Account) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(sessionColumns),
	}).Create(acc).Error
}

// CloseSession deactivates the session only while it still belongs to bookingID
func (r *repository) CloseSession(ctx context.Context, userID, bookingID string) error {
	return r.db.WithContext(ctx).Model(&Account{}).
		Where("user_id = ? AND current_booking_id = ?", userID, bookingID).
		Updates(map[string]interface{}{
			"is_session_active": false,
			"is_in_overtime":    false,
			"last_updated":      gorm.Expr("NOW()"),
		}).Error
}

// ListActiveAccounts returns sessions a runner should be resumed for
func (r *repository) ListActiveAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	err := r.db.WithContext(ctx).
		Where("is_session_active = ? AND is_paid = ?", true, false).
		Find(&accounts).Error
	return accounts, err
}
