package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/repository"
	"github.com/GTDGit/inventory_api/internal/utils"
)

// Allocator assigns customers to seats on shared product accounts.
type Allocator struct {
	db       *sqlx.DB
	variants *repository.ProductVariantRepository
	accounts *repository.ProductAccountRepository
	users    *repository.ProductAccountUserRepository
	trxs     *repository.TransactionRepository
	now      func() time.Time
}

// NewAllocator constructs an Allocator. The repositories are rebound to each
// allocation's database transaction.
func NewAllocator(
	db *sqlx.DB,
	variants *repository.ProductVariantRepository,
	accounts *repository.ProductAccountRepository,
	users *repository.ProductAccountUserRepository,
	trxs *repository.TransactionRepository,
) *Allocator {
	return &Allocator{
		db:       db,
		variants: variants,
		accounts: accounts,
		users:    users,
		trxs:     trxs,
		now:      time.Now,
	}
}

// Allocation is the outcome of a successful seat allocation.
type Allocation struct {
	Transaction *models.Transaction
	User        *models.ProductAccountUser
	Account     *models.ProductAccount
	// OpenedBatch is set when the account was idle and a new batch started.
	OpenedBatch bool
}

// Allocate sells a seat of the requested variant: it joins the oldest open
// batch with room left, or else opens a batch on an idle account, then
// records the user and the transaction. Everything runs in one database
// transaction and candidate accounts are row-locked, so concurrent sales
// never overfill a batch.
func (a *Allocator) Allocate(ctx context.Context, req *TransactionRequest) (*Allocation, error) {
	status := req.Status
	if status == "" {
		status = models.TransactionStatusSuccess
	}
	if !status.Valid() {
		return nil, invalidStatus(string(status))
	}
	if err := firstError(requireText("name", req.Name), requireID("product_variant_id", req.ProductVariantID)); err != nil {
		return nil, err
	}

	var out Allocation
	err := repository.RunInTx(ctx, a.db, func(tx *sqlx.Tx) error {
		now := a.now()
		variant, err := a.variants.WithTx(tx).GetByID(ctx, req.ProductVariantID)
		if err != nil {
			return err
		}

		accounts := a.accounts.WithTx(tx)
		account, err := accounts.LockOpenBatch(ctx, variant, now)
		if err != nil {
			return err
		}
		if account == nil {
			account, err = accounts.LockIdle(ctx, variant, now)
			if err != nil {
				return err
			}
			if account == nil {
				return utils.ErrNoAccountAvailable
			}
			end := now.Add(variant.Duration())
			account.ProductVariantID = &variant.ID
			account.BatchStartDate = &now
			account.BatchEndDate = &end
			if err := accounts.OpenBatch(ctx, account); err != nil {
				return err
			}
			account.UserCount = 0
			out.OpenedBatch = true
		}

		user := &models.ProductAccountUser{
			Name:             req.Name,
			AccountProfile:   profileName(account.UserCount + 1),
			Status:           models.ProductAccountUserStatusActive,
			ProductAccountID: account.ID,
			ProductVariantID: variant.ID,
		}
		if err := a.users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}

		trx := &models.Transaction{
			Status:               status,
			ProductVariantID:     variant.ID,
			ProductAccountID:     account.ID,
			ProductAccountUserID: user.ID,
		}
		if err := a.trxs.WithTx(tx).Create(ctx, trx); err != nil {
			return err
		}

		account.UserCount++
		out.Transaction, out.User, out.Account = trx, user, account
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("transaction_id", out.Transaction.ID).
		Int("product_account_id", out.Account.ID).
		Int("product_variant_id", req.ProductVariantID).
		Bool("opened_batch", out.OpenedBatch).
		Msg("Seat allocated")
	return &out, nil
}

// AddUser seats a customer on a specific account's open batch. The user
// inherits the batch's variant.
func (a *Allocator) AddUser(ctx context.Context, req *ProductAccountUserRequest) (*models.ProductAccountUser, error) {
	status := req.Status
	if status == "" {
		status = models.ProductAccountUserStatusActive
	}
	if !status.Valid() {
		return nil, invalidStatus(string(status))
	}
	if err := firstError(requireText("name", req.Name), requireID("product_account_id", req.ProductAccountID)); err != nil {
		return nil, err
	}

	var user *models.ProductAccountUser
	err := repository.RunInTx(ctx, a.db, func(tx *sqlx.Tx) error {
		account, err := a.accounts.WithTx(tx).LockByID(ctx, req.ProductAccountID)
		if err != nil {
			return err
		}
		variant, err := a.openBatchVariant(ctx, tx, account)
		if err != nil {
			return err
		}
		if status == models.ProductAccountUserStatusActive && account.UserCount >= variant.MaxUser {
			return utils.ErrBatchFull
		}

		user = &models.ProductAccountUser{
			Name:             req.Name,
			AccountProfile:   profileName(account.UserCount + 1),
			Status:           status,
			ProductAccountID: account.ID,
			ProductVariantID: variant.ID,
		}
		return a.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SaveUser stores an edited user. A user moving back to AKTIF takes a seat
// again, so the account's batch must be open and have room, as in AddUser.
func (a *Allocator) SaveUser(ctx context.Context, u *models.ProductAccountUser) error {
	reactivated := false
	err := repository.RunInTx(ctx, a.db, func(tx *sqlx.Tx) error {
		users := a.users.WithTx(tx)
		if u.Status != models.ProductAccountUserStatusActive {
			return users.Update(ctx, u)
		}

		account, err := a.accounts.WithTx(tx).LockByID(ctx, u.ProductAccountID)
		if err != nil {
			return err
		}
		stored, err := users.GetByID(ctx, u.ID)
		if err != nil {
			return err
		}
		if stored.Status != models.ProductAccountUserStatusActive {
			variant, err := a.openBatchVariant(ctx, tx, account)
			if err != nil {
				return err
			}
			if account.UserCount >= variant.MaxUser {
				return utils.ErrBatchFull
			}
			u.ProductVariantID = variant.ID
			reactivated = true
		}
		return users.Update(ctx, u)
	})
	if err != nil {
		return err
	}
	if reactivated {
		log.Info().
			Int("product_account_user_id", u.ID).
			Int("product_account_id", u.ProductAccountID).
			Msg("Account user reactivated")
	}
	return nil
}

// openBatchVariant loads the variant of a locked account's batch. It fails
// with ErrNoOpenBatch unless the batch takes new users now.
func (a *Allocator) openBatchVariant(ctx context.Context, tx *sqlx.Tx, account *models.ProductAccount) (*models.ProductVariant, error) {
	if account.ProductVariantID == nil {
		return nil, utils.ErrNoOpenBatch
	}
	variant, err := a.variants.WithTx(tx).GetByID(ctx, *account.ProductVariantID)
	if err != nil {
		return nil, err
	}
	if !account.HasOpenBatch(a.now(), variant.IntervalHour) {
		return nil, utils.ErrNoOpenBatch
	}
	return variant, nil
}

func profileName(n int) *string {
	p := fmt.Sprintf("Profile %d", n)
	return &p
}
