package models

import "time"

// Simcard is a physical SIM card backing an e-wallet registration.
type Simcard struct {
	ID            int       `db:"id" json:"id"`
	SimcardNumber string    `db:"simcard_number" json:"simcard_number"`
	Location      string    `db:"location" json:"location"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
	UpdatedAt     time.Time `db:"updated_at" json:"-"`
}
