package models

import "time"

// Platform is a marketplace where products are listed.
type Platform struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Product is a subscription service sold through shared accounts.
type Product struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// ProductVariant is a sellable package of a product. DurationHour is how long
// a batch of users keeps access, IntervalHour how long a batch stays open for
// new users, Cooldown the hours an account rests between batches and MaxUser
// the batch capacity. Template is the message delivered to the customer.
type ProductVariant struct {
	ID           int       `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	DurationHour int       `db:"duration_hour" json:"duration_hour"`
	IntervalHour int       `db:"interval_hour" json:"interval_hour"`
	Cooldown     int       `db:"cooldown" json:"cooldown"`
	MaxUser      int       `db:"max_user" json:"max_user"`
	Template     string    `db:"template" json:"template"`
	ProductID    int       `db:"product_id" json:"product_id"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`

	Product *Product `db:"-" json:"product,omitempty"`
}

// Duration returns the batch length.
func (v *ProductVariant) Duration() time.Duration {
	return time.Duration(v.DurationHour) * time.Hour
}

// PlatformProduct maps a marketplace listing to a product variant.
type PlatformProduct struct {
	ID                int       `db:"id" json:"id"`
	PlatformProductID string    `db:"platform_product_id" json:"platform_product_id"`
	ProductName       string    `db:"product_name" json:"product_name"`
	PlatformID        int       `db:"platform_id" json:"platform_id"`
	ProductVariantID  int       `db:"product_variant_id" json:"product_variant_id"`
	CreatedAt         time.Time `db:"created_at" json:"-"`
	UpdatedAt         time.Time `db:"updated_at" json:"-"`

	Platform       *Platform       `db:"-" json:"platform,omitempty"`
	ProductVariant *ProductVariant `db:"-" json:"product_variant,omitempty"`
}
