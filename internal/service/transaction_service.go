package service

import (
	"context"

	"github.com/GTDGit/inventory_api/internal/cache"
	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/sse"
)

// TransactionRequest sells a seat of a product variant to a customer.
type TransactionRequest struct {
	Name             string                   `json:"name" binding:"required"`
	ProductVariantID int                      `json:"product_variant_id" binding:"required"`
	Status           models.TransactionStatus `json:"status"`
}

type TransactionPatch struct {
	Status               *models.TransactionStatus `json:"status"`
	ProductVariantID     *int                      `json:"product_variant_id"`
	ProductAccountID     *int                      `json:"product_account_id"`
	ProductAccountUserID *int                      `json:"product_account_user_id"`
}

type TransactionService = ResourceService[models.Transaction, TransactionRequest, TransactionPatch]

// NewTransactionService constructs the transaction service. Creating a
// transaction allocates a seat; the user and account changes it causes are
// announced alongside the transaction itself.
func NewTransactionService(repo Store[models.Transaction], allocator *Allocator, populator *Populator, listCache cache.ListCache, events *Events) *TransactionService {
	return &TransactionService{
		resource: models.ResourceTransaction,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       func(t *models.Transaction) int { return t.ID },
		create: func(ctx context.Context, req *TransactionRequest) (*models.Transaction, error) {
			alloc, err := allocator.Allocate(ctx, req)
			if err != nil {
				return nil, err
			}
			events.Changed(ctx, sse.EventResourceCreated, models.ResourceProductAccountUser, alloc.User.ID)
			if alloc.OpenedBatch {
				events.Changed(ctx, sse.EventResourceUpdated, models.ResourceProductAccount, alloc.Account.ID)
			}
			return alloc.Transaction, nil
		},
		apply: func(_ context.Context, t *models.Transaction, req *TransactionPatch) error {
			patch(&t.Status, req.Status)
			patch(&t.ProductVariantID, req.ProductVariantID)
			patch(&t.ProductAccountID, req.ProductAccountID)
			patch(&t.ProductAccountUserID, req.ProductAccountUserID)
			if !t.Status.Valid() {
				return invalidStatus(string(t.Status))
			}
			return firstError(
				requireID("product_variant_id", t.ProductVariantID),
				requireID("product_account_id", t.ProductAccountID),
				requireID("product_account_user_id", t.ProductAccountUserID),
			)
		},
		populate: populator.PopulateTransactions,
	}
}
