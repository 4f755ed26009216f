package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

var productAccountUserList = &listSpec{
	from:     `product_account_users pau JOIN product_accounts pa ON pa.id = pau.product_account_id`,
	columns:  `pau.*`,
	idColumn: `pau.id`,
	filters: map[string]filterSpec{
		"name":       {column: "pau.name", kind: filterContains},
		"email_id":   {column: "pa.email_id", kind: filterEqualsID},
		"product_id": {column: "pa.product_id", kind: filterEqualsID},
	},
	sortable: map[string]string{
		"id":     "pau.id",
		"name":   "pau.name",
		"status": "pau.status",
	},
	defaultOrder: `pau.id ASC`,
}

// ProductAccountUserRepository handles data access for account seats.
type ProductAccountUserRepository struct {
	db sqlx.ExtContext
}

// NewProductAccountUserRepository creates a new ProductAccountUserRepository.
func NewProductAccountUserRepository(db sqlx.ExtContext) *ProductAccountUserRepository {
	return &ProductAccountUserRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *ProductAccountUserRepository) WithTx(tx *sqlx.Tx) *ProductAccountUserRepository {
	return &ProductAccountUserRepository{db: tx}
}

func (r *ProductAccountUserRepository) FilterKeys() []string {
	return productAccountUserList.FilterKeys()
}

func (r *ProductAccountUserRepository) List(ctx context.Context, params listquery.Params) ([]models.ProductAccountUser, int, error) {
	return selectPage[models.ProductAccountUser](ctx, r.db, productAccountUserList, params)
}

func (r *ProductAccountUserRepository) GetByID(ctx context.Context, id int) (*models.ProductAccountUser, error) {
	var u models.ProductAccountUser
	if err := getByID(ctx, r.db, "product account user", &u, `SELECT * FROM product_account_users WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *ProductAccountUserRepository) GetByIDs(ctx context.Context, ids []int) ([]models.ProductAccountUser, error) {
	return selectByIDs[models.ProductAccountUser](ctx, r.db, `SELECT * FROM product_account_users WHERE id IN (?)`, ids)
}

// CountActive returns the number of AKTIF users on an account.
func (r *ProductAccountUserRepository) CountActive(ctx context.Context, accountID int) (int, error) {
	var n int
	err := sqlx.GetContext(ctx, r.db, &n,
		`SELECT COUNT(1) FROM product_account_users WHERE product_account_id = $1 AND status = 'AKTIF'`, accountID)
	return n, err
}

// ExpireEnded moves AKTIF users of accounts whose batch ended by now to
// EXPIRED and returns their ids.
func (r *ProductAccountUserRepository) ExpireEnded(ctx context.Context, now time.Time) ([]int, error) {
	const q = `UPDATE product_account_users u
              SET status = 'EXPIRED', updated_at = NOW()
              FROM product_accounts pa
              WHERE pa.id = u.product_account_id
                AND u.status = 'AKTIF'
                AND pa.batch_end_date IS NOT NULL
                AND pa.batch_end_date <= $1
              RETURNING u.id`
	ids := []int{}
	if err := sqlx.SelectContext(ctx, r.db, &ids, q, now); err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ProductAccountUserRepository) Create(ctx context.Context, u *models.ProductAccountUser) error {
	const q = `INSERT INTO product_account_users (name, account_profile, status, product_account_id, product_variant_id)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, u.Name, u.AccountProfile, u.Status, u.ProductAccountID, u.ProductVariantID).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	return wrapError("product account user", err)
}

func (r *ProductAccountUserRepository) Update(ctx context.Context, u *models.ProductAccountUser) error {
	const q = `UPDATE product_account_users
              SET name = $1, account_profile = $2, status = $3, product_account_id = $4, product_variant_id = $5,
                  updated_at = NOW()
              WHERE id = $6
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, u.Name, u.AccountProfile, u.Status, u.ProductAccountID, u.ProductVariantID, u.ID).
		Scan(&u.UpdatedAt)
	return wrapError("product account user", err)
}

func (r *ProductAccountUserRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "product account user", "product_account_users", id)
}
