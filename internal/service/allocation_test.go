package service

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/repository"
	"github.com/GTDGit/inventory_api/internal/utils"
)

var accountColumns = []string{
	"id", "account_password", "subscription_expiry", "status", "email_id", "product_id", "ewallet_id",
	"product_variant_id", "batch_start_date", "batch_end_date", "created_at", "updated_at", "user_count",
}

func newTestAllocator(t *testing.T, now time.Time) (*Allocator, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	db := sqlx.NewDb(raw, "postgres")
	a := NewAllocator(db,
		repository.NewProductVariantRepository(db),
		repository.NewProductAccountRepository(db),
		repository.NewProductAccountUserRepository(db),
		repository.NewTransactionRepository(db),
	)
	a.now = func() time.Time { return now }
	return a, mock
}

func expectVariant(mock sqlmock.Sqlmock, now time.Time) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM product_variants WHERE id = $1`)).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "duration_hour", "interval_hour", "cooldown", "max_user", "template", "product_id",
			"created_at", "updated_at",
		}).AddRow(2, "1 Month", 720, 6, 12, 3, "", 1, now, now))
}

var userColumns = []string{
	"id", "name", "account_profile", "status", "product_account_id", "product_variant_id", "created_at", "updated_at",
}

func TestAllocateJoinsOpenBatch(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)
	start, end := now.Add(-time.Hour), now.Add(719*time.Hour)

	mock.ExpectBegin()
	expectVariant(mock, now)
	mock.ExpectQuery(`FOR UPDATE OF pa SKIP LOCKED`).
		WithArgs(1, 2, now, 6, 3, 720).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(7, "secret", now.AddDate(0, 3, 0), "KOSONG", 3, 1, 4, 2, start, end, now, now, 1))
	mock.ExpectQuery(`INSERT INTO product_account_users`).
		WithArgs("Budi", "Profile 2", "AKTIF", 7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs("SUCCESS", 2, 7, 11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(21, now, now))
	mock.ExpectCommit()

	alloc, err := a.Allocate(context.Background(), &TransactionRequest{Name: "Budi", ProductVariantID: 2})
	require.NoError(t, err)
	require.False(t, alloc.OpenedBatch)
	require.Equal(t, 21, alloc.Transaction.ID)
	require.Equal(t, models.TransactionStatusSuccess, alloc.Transaction.Status)
	require.Equal(t, "Profile 2", *alloc.User.AccountProfile)
	require.Equal(t, 2, alloc.Account.UserCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateOpensBatchOnIdleAccount(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)
	end := now.Add(720 * time.Hour)

	mock.ExpectBegin()
	expectVariant(mock, now)
	mock.ExpectQuery(`FOR UPDATE OF pa SKIP LOCKED`).
		WithArgs(1, 2, now, 6, 3, 720).
		WillReturnRows(sqlmock.NewRows(accountColumns))
	mock.ExpectQuery(`ORDER BY pa.subscription_expiry ASC`).
		WithArgs(1, now, 720, 12).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(7, "secret", now.AddDate(0, 3, 0), "KOSONG", 3, 1, 4, nil, nil, nil, now, now, 0))
	mock.ExpectQuery(`UPDATE product_accounts`).
		WithArgs(2, now, end, 7).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectQuery(`INSERT INTO product_account_users`).
		WithArgs("Budi", "Profile 1", "AKTIF", 7, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(11, now, now))
	mock.ExpectQuery(`INSERT INTO transactions`).
		WithArgs("PENDING", 2, 7, 11).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(21, now, now))
	mock.ExpectCommit()

	alloc, err := a.Allocate(context.Background(), &TransactionRequest{
		Name: "Budi", ProductVariantID: 2, Status: models.TransactionStatusPending,
	})
	require.NoError(t, err)
	require.True(t, alloc.OpenedBatch)
	require.True(t, alloc.Account.HasOpenBatch(now, 6))
	require.True(t, alloc.Account.BatchEndDate.Equal(end))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateWithoutCandidateRollsBack(t *testing.T) {
	now := time.Now()
	a, mock := newTestAllocator(t, now)

	mock.ExpectBegin()
	expectVariant(mock, now)
	mock.ExpectQuery(`FOR UPDATE OF pa SKIP LOCKED`).WillReturnRows(sqlmock.NewRows(accountColumns))
	mock.ExpectQuery(`ORDER BY pa.subscription_expiry ASC`).WillReturnRows(sqlmock.NewRows(accountColumns))
	mock.ExpectRollback()

	_, err := a.Allocate(context.Background(), &TransactionRequest{Name: "Budi", ProductVariantID: 2})
	require.ErrorIs(t, err, utils.ErrNoAccountAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllocateValidatesBeforeTouchingDatabase(t *testing.T) {
	a, mock := newTestAllocator(t, time.Now())

	_, err := a.Allocate(context.Background(), &TransactionRequest{Name: "Budi", ProductVariantID: 2, Status: "LOST"})
	require.Error(t, err)
	_, err = a.Allocate(context.Background(), &TransactionRequest{ProductVariantID: 2})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserRejectsFullBatch(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE pa.id = $1 FOR UPDATE OF pa`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(7, "secret", now.AddDate(0, 3, 0), "KOSONG", 3, 1, 4, 2, now, now.Add(time.Hour), now, now, 3))
	expectVariant(mock, now)
	mock.ExpectRollback()

	_, err := a.AddUser(context.Background(), &ProductAccountUserRequest{Name: "Budi", ProductAccountID: 7})
	require.ErrorIs(t, err, utils.ErrBatchFull)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserRequiresOpenBatch(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE pa.id = $1 FOR UPDATE OF pa`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(7, "secret", now.AddDate(0, 3, 0), "KOSONG", 3, 1, 4, nil, nil, nil, now, now, 0))
	mock.ExpectRollback()

	_, err := a.AddUser(context.Background(), &ProductAccountUserRequest{Name: "Budi", ProductAccountID: 7})
	require.ErrorIs(t, err, utils.ErrNoOpenBatch)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUserRejectsClosedJoiningWindow(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)
	start, end := now.Add(-7*time.Hour), now.Add(713*time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE pa.id = $1 FOR UPDATE OF pa`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(accountColumns).
			AddRow(7, "secret", now.AddDate(0, 3, 0), "KOSONG", 3, 1, 4, 2, start, end, now, now, 1))
	expectVariant(mock, now)
	mock.ExpectRollback()

	_, err := a.AddUser(context.Background(), &ProductAccountUserRequest{Name: "Budi", ProductAccountID: 7})
	require.ErrorIs(t, err, utils.ErrNoOpenBatch)
	require.NoError(t, mock.ExpectationsWereMet())
}

func expectLockedAccount(mock sqlmock.Sqlmock, now time.Time, variantID interface{}, userCount int) {
	start, end := now.Add(-time.Hour), now.Add(719*time.Hour)
	row := []driver.Value{7, "secret", now.AddDate(0, 3, 0), "KOSONG", 3, 1, 4, variantID, start, end, now, now, userCount}
	if variantID == nil {
		row[8], row[9] = nil, nil
	}
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE pa.id = $1 FOR UPDATE OF pa`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(accountColumns).AddRow(row...))
}

func expectStoredUser(mock sqlmock.Sqlmock, now time.Time, status string) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM product_account_users WHERE id = $1`)).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(11, "Budi", "Profile 2", status, 7, 2, now, now))
}

func expiredUser() *models.ProductAccountUser {
	profile := "Profile 2"
	return &models.ProductAccountUser{
		ID: 11, Name: "Budi", AccountProfile: &profile,
		Status: models.ProductAccountUserStatusExpired, ProductAccountID: 7, ProductVariantID: 2,
	}
}

func TestSaveUserReactivatesIntoOpenBatch(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)

	mock.ExpectBegin()
	expectLockedAccount(mock, now, 2, 2)
	expectStoredUser(mock, now, "EXPIRED")
	expectVariant(mock, now)
	mock.ExpectQuery(`UPDATE product_account_users`).
		WithArgs("Budi", sqlmock.AnyArg(), "AKTIF", 7, 2, 11).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	u := expiredUser()
	u.Status = models.ProductAccountUserStatusActive
	require.NoError(t, a.SaveUser(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUserReactivationRejectsFullBatch(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)

	mock.ExpectBegin()
	expectLockedAccount(mock, now, 2, 3)
	expectStoredUser(mock, now, "EXPIRED")
	expectVariant(mock, now)
	mock.ExpectRollback()

	u := expiredUser()
	u.Status = models.ProductAccountUserStatusActive
	require.ErrorIs(t, a.SaveUser(context.Background(), u), utils.ErrBatchFull)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUserReactivationRequiresOpenBatch(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)

	mock.ExpectBegin()
	expectLockedAccount(mock, now, nil, 0)
	expectStoredUser(mock, now, "EXPIRED")
	mock.ExpectRollback()

	u := expiredUser()
	u.Status = models.ProductAccountUserStatusActive
	require.ErrorIs(t, a.SaveUser(context.Background(), u), utils.ErrNoOpenBatch)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUserKeepsActiveUserWithoutSeatCheck(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)

	mock.ExpectBegin()
	expectLockedAccount(mock, now, 2, 3)
	expectStoredUser(mock, now, "AKTIF")
	mock.ExpectQuery(`UPDATE product_account_users`).
		WithArgs("Budi Santoso", sqlmock.AnyArg(), "AKTIF", 7, 2, 11).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	u := expiredUser()
	u.Name = "Budi Santoso"
	u.Status = models.ProductAccountUserStatusActive
	require.NoError(t, a.SaveUser(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveUserExpiringSkipsLock(t *testing.T) {
	now := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	a, mock := newTestAllocator(t, now)

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE product_account_users`).
		WithArgs("Budi", sqlmock.AnyArg(), "EXPIRED", 7, 2, 11).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))
	mock.ExpectCommit()

	require.NoError(t, a.SaveUser(context.Background(), expiredUser()))
	require.NoError(t, mock.ExpectationsWereMet())
}
