package models

import "time"

// Email is a mailbox used as the login of product accounts.
type Email struct {
	ID               int       `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	Password         string    `db:"password" json:"password"`
	RegisterDeviceID *int      `db:"register_device_id" json:"register_device_id,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"-"`
	UpdatedAt        time.Time `db:"updated_at" json:"-"`

	Device *Device `db:"-" json:"device,omitempty"`
}
