package models

import "time"

// ProductAccountStatus enumerates product account states.
type ProductAccountStatus string

const (
	ProductAccountStatusEmpty    ProductAccountStatus = "KOSONG"
	ProductAccountStatusInactive ProductAccountStatus = "NONAKTIF"
)

// Valid reports whether s is a known status.
func (s ProductAccountStatus) Valid() bool {
	return s == ProductAccountStatusEmpty || s == ProductAccountStatusInactive
}

// ProductAccountUserStatus enumerates account user states.
type ProductAccountUserStatus string

const (
	ProductAccountUserStatusActive  ProductAccountUserStatus = "AKTIF"
	ProductAccountUserStatusExpired ProductAccountUserStatus = "EXPIRED"
)

// Valid reports whether s is a known status.
func (s ProductAccountUserStatus) Valid() bool {
	return s == ProductAccountUserStatusActive || s == ProductAccountUserStatusExpired
}

// ProductAccount is a paid subscription login shared by a batch of users.
// ProductVariantID and the batch dates describe the current (or last) batch.
type ProductAccount struct {
	ID                 int                  `db:"id" json:"id"`
	AccountPassword    string               `db:"account_password" json:"account_password"`
	SubscriptionExpiry time.Time            `db:"subscription_expiry" json:"subscription_expiry"`
	Status             ProductAccountStatus `db:"status" json:"status"`
	EmailID            int                  `db:"email_id" json:"email_id"`
	ProductID          int                  `db:"product_id" json:"product_id"`
	EwalletID          int                  `db:"ewallet_id" json:"ewallet_id"`
	ProductVariantID   *int                 `db:"product_variant_id" json:"product_variant_id"`
	BatchStartDate     *time.Time           `db:"batch_start_date" json:"batch_start_date"`
	BatchEndDate       *time.Time           `db:"batch_end_date" json:"batch_end_date"`
	UserCount          int                  `db:"user_count" json:"user_count"`
	CreatedAt          time.Time            `db:"created_at" json:"-"`
	UpdatedAt          time.Time            `db:"updated_at" json:"-"`

	Email          *Email          `db:"-" json:"email,omitempty"`
	Ewallet        *Ewallet        `db:"-" json:"ewallet,omitempty"`
	Product        *Product        `db:"-" json:"product,omitempty"`
	ProductVariant *ProductVariant `db:"-" json:"product_variant,omitempty"`
}

// HasOpenBatch reports whether the account's batch still takes new users at
// now: the batch has not ended and its joining window of intervalHour hours
// from batch_start_date is still running.
func (a *ProductAccount) HasOpenBatch(now time.Time, intervalHour int) bool {
	if a.Status == ProductAccountStatusInactive || a.ProductVariantID == nil ||
		a.BatchStartDate == nil || a.BatchEndDate == nil {
		return false
	}
	joinBy := a.BatchStartDate.Add(time.Duration(intervalHour) * time.Hour)
	return a.BatchEndDate.After(now) && joinBy.After(now)
}

// ProductAccountUser is a customer seat on a product account.
type ProductAccountUser struct {
	ID               int                      `db:"id" json:"id"`
	Name             string                   `db:"name" json:"name"`
	AccountProfile   *string                  `db:"account_profile" json:"account_profile,omitempty"`
	Status           ProductAccountUserStatus `db:"status" json:"status"`
	ProductAccountID int                      `db:"product_account_id" json:"product_account_id"`
	ProductVariantID int                      `db:"product_variant_id" json:"product_variant_id"`
	CreatedAt        time.Time                `db:"created_at" json:"-"`
	UpdatedAt        time.Time                `db:"updated_at" json:"-"`

	ProductAccount *ProductAccount `db:"-" json:"product_account,omitempty"`
	ProductVariant *ProductVariant `db:"-" json:"product_variant,omitempty"`
}
