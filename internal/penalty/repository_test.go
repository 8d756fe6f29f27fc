package penalty

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newDryRunDB(t *testing.T) (*gorm.DB, *string) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=campuspark dbname=campuspark sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var captured string
	err = db.Callback().Create().After("gorm:create").Register("test:capture_sql", func(tx *gorm.DB) {
		captured = tx.Statement.SQL.String()
	})
	require.NoError(t, err)
	return db, &captured
}

func TestRepository_SaveLifecycle_GuardsBooking(t *testing.T) {
	db, sql := newDryRunDB(t)
	acc := newTestAccount()

	require.NoError(t, NewRepository(db).SaveLifecycle(context.Background(), &acc))

	assert.Contains(t, *sql, `ON CONFLICT ("user_id") DO UPDATE SET`)
	assert.Contains(t, *sql, "WHERE penalty_accounts.current_booking_id = excluded.current_booking_id")
	assert.NotContains(t, *sql, `"current_booking_id"="excluded"."current_booking_id"`)
}

func TestRepository_ResetSession_Unconditional(t *testing.T) {
	db, sql := newDryRunDB(t)
	acc := newTestAccount()

	require.NoError(t, NewRepository(db).ResetSession(context.Background(), &acc))

	assert.Contains(t, *sql, `"current_booking_id"="excluded"."current_booking_id"`)
	assert.NotContains(t, *sql, "WHERE penalty_accounts")
}
