package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

var transactionList = &listSpec{
	from:     `transactions tr`,
	columns:  `tr.*`,
	idColumn: `tr.id`,
	filters: map[string]filterSpec{
		"product_variant_id": {column: "tr.product_variant_id", kind: filterEqualsID},
	},
	sortable: map[string]string{
		"id":         "tr.id",
		"created_at": "tr.created_at",
		"status":     "tr.status",
	},
	defaultOrder: `tr.created_at DESC, tr.id DESC`,
}

// TransactionRepository handles data access for transactions.
type TransactionRepository struct {
	db sqlx.ExtContext
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db sqlx.ExtContext) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *TransactionRepository) WithTx(tx *sqlx.Tx) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) FilterKeys() []string {
	return transactionList.FilterKeys()
}

// List returns one page of transactions, newest first unless sorted.
func (r *TransactionRepository) List(ctx context.Context, params listquery.Params) ([]models.Transaction, int, error) {
	return selectPage[models.Transaction](ctx, r.db, transactionList, params)
}

// GetByID returns a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id int) (*models.Transaction, error) {
	var trx models.Transaction
	if err := getByID(ctx, r.db, "transaction", &trx, `SELECT * FROM transactions WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &trx, nil
}

// Create inserts a new transaction row.
func (r *TransactionRepository) Create(ctx context.Context, trx *models.Transaction) error {
	const q = `INSERT INTO transactions (status, product_variant_id, product_account_id, product_account_user_id)
              VALUES ($1, $2, $3, $4)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, trx.Status, trx.ProductVariantID, trx.ProductAccountID, trx.ProductAccountUserID).
		Scan(&trx.ID, &trx.CreatedAt, &trx.UpdatedAt)
	return wrapError("transaction", err)
}

// Update writes the status and references of an existing transaction.
func (r *TransactionRepository) Update(ctx context.Context, trx *models.Transaction) error {
	const q = `UPDATE transactions
              SET status = $1, product_variant_id = $2, product_account_id = $3, product_account_user_id = $4,
                  updated_at = NOW()
              WHERE id = $5
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, trx.Status, trx.ProductVariantID, trx.ProductAccountID, trx.ProductAccountUserID, trx.ID).
		Scan(&trx.UpdatedAt)
	return wrapError("transaction", err)
}

// Delete deletes a transaction by ID.
func (r *TransactionRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "transaction", "transactions", id)
}
