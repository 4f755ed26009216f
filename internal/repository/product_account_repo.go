package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

// activeUserCount counts the AKTIF users of the account aliased pa.
const activeUserCount = `(SELECT COUNT(1) FROM product_account_users u
              WHERE u.product_account_id = pa.id AND u.status = 'AKTIF')`

const productAccountColumns = `pa.*, ` + activeUserCount + ` AS user_count`

var productAccountList = &listSpec{
	from:     `product_accounts pa`,
	columns:  productAccountColumns,
	idColumn: `pa.id`,
	filters: map[string]filterSpec{
		"email_id":   {column: "pa.email_id", kind: filterEqualsID},
		"product_id": {column: "pa.product_id", kind: filterEqualsID},
	},
	sortable: map[string]string{
		"id":                  "pa.id",
		"subscription_expiry": "pa.subscription_expiry",
		"status":              "pa.status",
		"batch_end_date":      "pa.batch_end_date",
		"user_count":          "user_count",
	},
	defaultOrder: `pa.id ASC`,
}

// ProductAccountRepository handles data access for product accounts,
// including the row locking used by seat allocation.
type ProductAccountRepository struct {
	db sqlx.ExtContext
}

// NewProductAccountRepository creates a new ProductAccountRepository.
func NewProductAccountRepository(db sqlx.ExtContext) *ProductAccountRepository {
	return &ProductAccountRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ProductAccountRepository) WithTx(tx *sqlx.Tx) *ProductAccountRepository {
	return &ProductAccountRepository{db: tx}
}

func (r *ProductAccountRepository) FilterKeys() []string {
	return productAccountList.FilterKeys()
}

// List returns one page of product accounts with their active user count.
func (r *ProductAccountRepository) List(ctx context.Context, params listquery.Params) ([]models.ProductAccount, int, error) {
	return selectPage[models.ProductAccount](ctx, r.db, productAccountList, params)
}

// GetByID returns a product account by ID.
func (r *ProductAccountRepository) GetByID(ctx context.Context, id int) (*models.ProductAccount, error) {
	var a models.ProductAccount
	q := `SELECT ` + productAccountColumns + ` FROM product_accounts pa WHERE pa.id = $1`
	if err := getByID(ctx, r.db, "product account", &a, q, id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ProductAccountRepository) GetByIDs(ctx context.Context, ids []int) ([]models.ProductAccount, error) {
	q := `SELECT ` + productAccountColumns + ` FROM product_accounts pa WHERE pa.id IN (?)`
	return selectByIDs[models.ProductAccount](ctx, r.db, q, ids)
}

// LockByID loads an account and locks its row until the surrounding
// transaction ends.
func (r *ProductAccountRepository) LockByID(ctx context.Context, id int) (*models.ProductAccount, error) {
	var a models.ProductAccount
	q := `SELECT ` + productAccountColumns + ` FROM product_accounts pa WHERE pa.id = $1 FOR UPDATE OF pa`
	if err := getByID(ctx, r.db, "product account", &a, q, id); err != nil {
		return nil, err
	}
	return &a, nil
}

// LockOpenBatch locks the account with the oldest open batch of variant
// that still accepts users and whose subscription outlives a full batch.
// It returns nil when there is none. The batch conditions mirror
// models.ProductAccount.HasOpenBatch.
func (r *ProductAccountRepository) LockOpenBatch(ctx context.Context, v *models.ProductVariant, now time.Time) (*models.ProductAccount, error) {
	q := `SELECT ` + productAccountColumns + `
              FROM product_accounts pa
              WHERE pa.product_id = $1
                AND pa.status <> 'NONAKTIF'
                AND pa.product_variant_id = $2
                AND pa.batch_end_date > $3::timestamptz
                AND pa.batch_start_date + make_interval(hours => $4::int) > $3::timestamptz
                AND pa.subscription_expiry > $3::timestamptz + make_interval(hours => $6::int)
                AND ` + activeUserCount + ` < $5
              ORDER BY pa.batch_start_date ASC, pa.id ASC
              LIMIT 1
              FOR UPDATE OF pa SKIP LOCKED`
	return r.lockOne(ctx, q, v.ProductID, v.ID, now, v.IntervalHour, v.MaxUser, v.DurationHour)
}

// LockIdle locks an account with no active users whose cooldown has passed
// and whose subscription outlives a new batch of variant, soonest expiry
// first. It returns nil when there is none.
func (r *ProductAccountRepository) LockIdle(ctx context.Context, v *models.ProductVariant, now time.Time) (*models.ProductAccount, error) {
	q := `SELECT ` + productAccountColumns + `
              FROM product_accounts pa
              WHERE pa.product_id = $1
                AND pa.status <> 'NONAKTIF'
                AND pa.subscription_expiry > $2::timestamptz + make_interval(hours => $3::int)
                AND (pa.batch_end_date IS NULL
                     OR pa.batch_end_date + make_interval(hours => $4::int) <= $2::timestamptz)
                AND ` + activeUserCount + ` = 0
              ORDER BY pa.subscription_expiry ASC, pa.id ASC
              LIMIT 1
              FOR UPDATE OF pa SKIP LOCKED`
	return r.lockOne(ctx, q, v.ProductID, now, v.DurationHour, v.Cooldown)
}

func (r *ProductAccountRepository) lockOne(ctx context.Context, q string, args ...interface{}) (*models.ProductAccount, error) {
	var a models.ProductAccount
	if err := sqlx.GetContext(ctx, r.db, &a, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// OpenBatch stores the batch fields of a.
func (r *ProductAccountRepository) OpenBatch(ctx context.Context, a *models.ProductAccount) error {
	const q = `UPDATE product_accounts
              SET product_variant_id = $1, batch_start_date = $2, batch_end_date = $3, updated_at = NOW()
              WHERE id = $4
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, a.ProductVariantID, a.BatchStartDate, a.BatchEndDate, a.ID).Scan(&a.UpdatedAt)
	return wrapError("product account", err)
}

// DeactivateExpired marks accounts whose subscription ended by now as
// NONAKTIF and returns their ids.
func (r *ProductAccountRepository) DeactivateExpired(ctx context.Context, now time.Time) ([]int, error) {
	const q = `UPDATE product_accounts
              SET status = 'NONAKTIF', updated_at = NOW()
              WHERE status <> 'NONAKTIF' AND subscription_expiry <= $1
              RETURNING id`
	ids := []int{}
	if err := sqlx.SelectContext(ctx, r.db, &ids, q, now); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ProductAccountRepository) Create(ctx context.Context, a *models.ProductAccount) error {
	const q = `INSERT INTO product_accounts (account_password, subscription_expiry, status, email_id, product_id,
                  ewallet_id, product_variant_id, batch_start_date, batch_end_date)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, a.AccountPassword, a.SubscriptionExpiry, a.Status, a.EmailID, a.ProductID,
		a.EwalletID, a.ProductVariantID, a.BatchStartDate, a.BatchEndDate).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return wrapError("product account", err)
}

func (r *ProductAccountRepository) Update(ctx context.Context, a *models.ProductAccount) error {
	const q = `UPDATE product_accounts
              SET account_password = $1, subscription_expiry = $2, status = $3, email_id = $4, product_id = $5,
                  ewallet_id = $6, product_variant_id = $7, batch_start_date = $8, batch_end_date = $9,
                  updated_at = NOW()
              WHERE id = $10
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, a.AccountPassword, a.SubscriptionExpiry, a.Status, a.EmailID, a.ProductID,
		a.EwalletID, a.ProductVariantID, a.BatchStartDate, a.BatchEndDate, a.ID).
		Scan(&a.UpdatedAt)
	return wrapError("product account", err)
}

func (r *ProductAccountRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "product account", "product_accounts", id)
}
