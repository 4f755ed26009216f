package models

import "time"

// EwalletStatus enumerates e-wallet states.
type EwalletStatus string

const (
	EwalletStatusActive  EwalletStatus = "AKTIF"
	EwalletStatusExpired EwalletStatus = "HANGUS"
)

// Valid reports whether s is a known status.
func (s EwalletStatus) Valid() bool {
	return s == EwalletStatusActive || s == EwalletStatusExpired
}

// EwalletType is an e-wallet brand (e.g. a payment app).
type EwalletType struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Ewallet is an e-wallet registered on a SIM card and device, used to pay
// product subscriptions.
type Ewallet struct {
	ID               int           `db:"id" json:"id"`
	Status           EwalletStatus `db:"status" json:"status"`
	RegistrationDate time.Time     `db:"registration_date" json:"registration_date"`
	SimcardID        int           `db:"simcard_id" json:"simcard_id"`
	EwalletTypeID    int           `db:"ewallet_type_id" json:"ewallet_type_id"`
	DeviceID         int           `db:"device_id" json:"device_id"`
	CreatedAt        time.Time     `db:"created_at" json:"-"`
	UpdatedAt        time.Time     `db:"updated_at" json:"-"`

	Simcard     *Simcard     `db:"-" json:"simcard,omitempty"`
	EwalletType *EwalletType `db:"-" json:"ewallet_type,omitempty"`
	Device      *Device      `db:"-" json:"device,omitempty"`
}

// EwalletTopup records a balance top-up of an e-wallet.
type EwalletTopup struct {
	ID        int       `db:"id" json:"id"`
	Amount    int64     `db:"amount" json:"amount"`
	EwalletID int       `db:"ewallet_id" json:"ewallet_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`

	Ewallet *Ewallet `db:"-" json:"ewallet,omitempty"`
}
