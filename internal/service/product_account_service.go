package service

import (
	"context"
	"time"

	"github.com/GTDGit/inventory_api/internal/cache"
	"github.com/GTDGit/inventory_api/internal/models"
)

type ProductAccountRequest struct {
	AccountPassword    string                      `json:"account_password" binding:"required"`
	SubscriptionExpiry time.Time                   `json:"subscription_expiry" binding:"required"`
	Status             models.ProductAccountStatus `json:"status"`
	EmailID            int                         `json:"email_id" binding:"required"`
	ProductID          int                         `json:"product_id" binding:"required"`
	EwalletID          int                         `json:"ewallet_id" binding:"required"`
}

type ProductAccountPatch struct {
	AccountPassword    *string                      `json:"account_password"`
	SubscriptionExpiry *time.Time                   `json:"subscription_expiry"`
	Status             *models.ProductAccountStatus `json:"status"`
	EmailID            *int                         `json:"email_id"`
	ProductID          *int                         `json:"product_id"`
	EwalletID          *int                         `json:"ewallet_id"`
}

type ProductAccountService = ResourceService[models.ProductAccount, ProductAccountRequest, ProductAccountPatch]

// NewProductAccountService constructs the product account service. Batch
// fields are managed by allocation and are not writable here.
func NewProductAccountService(repo Store[models.ProductAccount], populator *Populator, listCache cache.ListCache, events *Events) *ProductAccountService {
	return &ProductAccountService{
		resource: models.ResourceProductAccount,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       accountID,
		build: func(_ context.Context, req *ProductAccountRequest) (*models.ProductAccount, error) {
			a := &models.ProductAccount{
				AccountPassword:    req.AccountPassword,
				SubscriptionExpiry: req.SubscriptionExpiry,
				Status:             req.Status,
				EmailID:            req.EmailID,
				ProductID:          req.ProductID,
				EwalletID:          req.EwalletID,
			}
			if a.Status == "" {
				a.Status = models.ProductAccountStatusEmpty
			}
			return a, validateAccount(a)
		},
		apply: func(_ context.Context, a *models.ProductAccount, req *ProductAccountPatch) error {
			patch(&a.AccountPassword, req.AccountPassword)
			patch(&a.SubscriptionExpiry, req.SubscriptionExpiry)
			patch(&a.Status, req.Status)
			patch(&a.EmailID, req.EmailID)
			patch(&a.ProductID, req.ProductID)
			patch(&a.EwalletID, req.EwalletID)
			return validateAccount(a)
		},
		populate: populator.PopulateProductAccounts,
	}
}

func validateAccount(a *models.ProductAccount) error {
	if !a.Status.Valid() {
		return invalidStatus(string(a.Status))
	}
	return firstError(
		requireText("account_password", a.AccountPassword),
		requireID("email_id", a.EmailID),
		requireID("product_id", a.ProductID),
		requireID("ewallet_id", a.EwalletID),
	)
}

type ProductAccountUserRequest struct {
	Name             string                          `json:"name" binding:"required"`
	Status           models.ProductAccountUserStatus `json:"status"`
	ProductAccountID int                             `json:"product_account_id" binding:"required"`
}

type ProductAccountUserPatch struct {
	Name           *string                          `json:"name"`
	Status         *models.ProductAccountUserStatus `json:"status"`
	AccountProfile *string                          `json:"account_profile"`
}

type ProductAccountUserService = ResourceService[models.ProductAccountUser, ProductAccountUserRequest, ProductAccountUserPatch]

// NewProductAccountUserService constructs the account user service. Users
// are created and reactivated through the allocator so batch capacity is
// enforced.
func NewProductAccountUserService(repo Store[models.ProductAccountUser], allocator *Allocator, populator *Populator, listCache cache.ListCache, events *Events) *ProductAccountUserService {
	return &ProductAccountUserService{
		resource: models.ResourceProductAccountUser,
		store:    repo,
		cache:    listCache,
		events:   events,
		id:       accountUserID,
		create:   allocator.AddUser,
		save:     allocator.SaveUser,
		apply: func(_ context.Context, u *models.ProductAccountUser, req *ProductAccountUserPatch) error {
			patch(&u.Name, req.Name)
			patch(&u.Status, req.Status)
			if req.AccountProfile != nil {
				u.AccountProfile = req.AccountProfile
			}
			if !u.Status.Valid() {
				return invalidStatus(string(u.Status))
			}
			return requireText("name", u.Name)
		},
		populate: populator.PopulateProductAccountUsers,
	}
}
