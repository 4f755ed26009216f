package models

import "time"

// TransactionStatus enumerates transaction states.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Valid reports whether s is a known status.
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSuccess, TransactionStatusFailed:
		return true
	}
	return false
}

// Transaction records the sale of a product variant seat to a customer.
type Transaction struct {
	ID                   int               `db:"id" json:"id"`
	Status               TransactionStatus `db:"status" json:"status"`
	ProductVariantID     int               `db:"product_variant_id" json:"product_variant_id"`
	ProductAccountID     int               `db:"product_account_id" json:"product_account_id"`
	ProductAccountUserID int               `db:"product_account_user_id" json:"product_account_user_id"`
	CreatedAt            time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time         `db:"updated_at" json:"-"`

	ProductVariant     *ProductVariant     `db:"-" json:"product_variant,omitempty"`
	ProductAccount     *ProductAccount     `db:"-" json:"product_account,omitempty"`
	ProductAccountUser *ProductAccountUser `db:"-" json:"product_account_user,omitempty"`
}
