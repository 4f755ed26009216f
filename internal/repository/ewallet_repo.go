package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

var ewalletTypeList = &listSpec{
	from:     `ewallet_types et`,
	columns:  `et.*`,
	idColumn: `et.id`,
	filters: map[string]filterSpec{
		"name": {column: "et.name", kind: filterContains},
	},
	sortable: map[string]string{
		"id":   "et.id",
		"name": "et.name",
	},
	defaultOrder: `et.id ASC`,
}

// ewalletFrom joins the relations e-wallet lists can sort by.
const ewalletFrom = `ewallets ew
              JOIN ewallet_types et ON et.id = ew.ewallet_type_id
              JOIN simcards s ON s.id = ew.simcard_id
              JOIN devices dv ON dv.id = ew.device_id`

var ewalletList = &listSpec{
	from:     ewalletFrom,
	columns:  `ew.*`,
	idColumn: `ew.id`,
	filters: map[string]filterSpec{
		"ewallet_type_id": {column: "ew.ewallet_type_id", kind: filterEqualsID},
		"simcard_id":      {column: "ew.simcard_id", kind: filterEqualsID},
		"device_id":       {column: "ew.device_id", kind: filterEqualsID},
	},
	sortable: map[string]string{
		"id":                     "ew.id",
		"registration_date":      "ew.registration_date",
		"status":                 "ew.status",
		"ewallet_type.name":      "et.name",
		"simcard.simcard_number": "s.simcard_number",
		"device.name":            "dv.name",
	},
	defaultOrder: `ew.id ASC`,
}

var ewalletTopupList = &listSpec{
	from:     `ewallet_topups t`,
	columns:  `t.*`,
	idColumn: `t.id`,
	filters: map[string]filterSpec{
		"ewallet_id": {column: "t.ewallet_id", kind: filterEqualsID},
	},
	sortable: map[string]string{
		"id":         "t.id",
		"amount":     "t.amount",
		"created_at": "t.created_at",
	},
	defaultOrder: `t.created_at DESC, t.id DESC`,
}

// EwalletTypeRepository handles data access for e-wallet types.
type EwalletTypeRepository struct {
	db sqlx.ExtContext
}

func NewEwalletTypeRepository(db sqlx.ExtContext) *EwalletTypeRepository {
	return &EwalletTypeRepository{db: db}
}

func (r *EwalletTypeRepository) FilterKeys() []string {
	return ewalletTypeList.FilterKeys()
}

func (r *EwalletTypeRepository) List(ctx context.Context, params listquery.Params) ([]models.EwalletType, int, error) {
	return selectPage[models.EwalletType](ctx, r.db, ewalletTypeList, params)
}

func (r *EwalletTypeRepository) GetByID(ctx context.Context, id int) (*models.EwalletType, error) {
	var et models.EwalletType
	if err := getByID(ctx, r.db, "ewallet type", &et, `SELECT * FROM ewallet_types WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &et, nil
}

func (r *EwalletTypeRepository) GetByIDs(ctx context.Context, ids []int) ([]models.EwalletType, error) {
	return selectByIDs[models.EwalletType](ctx, r.db, `SELECT * FROM ewallet_types WHERE id IN (?)`, ids)
}

func (r *EwalletTypeRepository) Create(ctx context.Context, et *models.EwalletType) error {
	const q = `INSERT INTO ewallet_types (name) VALUES ($1) RETURNING id, created_at, updated_at`
	return wrapError("ewallet type", r.db.QueryRowxContext(ctx, q, et.Name).Scan(&et.ID, &et.CreatedAt, &et.UpdatedAt))
}

func (r *EwalletTypeRepository) Update(ctx context.Context, et *models.EwalletType) error {
	const q = `UPDATE ewallet_types SET name = $1, updated_at = NOW() WHERE id = $2 RETURNING updated_at`
	return wrapError("ewallet type", r.db.QueryRowxContext(ctx, q, et.Name, et.ID).Scan(&et.UpdatedAt))
}

func (r *EwalletTypeRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "ewallet type", "ewallet_types", id)
}

// EwalletRepository handles data access for e-wallets.
type EwalletRepository struct {
	db sqlx.ExtContext
}

// NewEwalletRepository creates a new EwalletRepository.
func NewEwalletRepository(db sqlx.ExtContext) *EwalletRepository {
	return &EwalletRepository{db: db}
}

func (r *EwalletRepository) FilterKeys() []string {
	return ewalletList.FilterKeys()
}

func (r *EwalletRepository) List(ctx context.Context, params listquery.Params) ([]models.Ewallet, int, error) {
	return selectPage[models.Ewallet](ctx, r.db, ewalletList, params)
}

func (r *EwalletRepository) GetByID(ctx context.Context, id int) (*models.Ewallet, error) {
	var ew models.Ewallet
	if err := getByID(ctx, r.db, "ewallet", &ew, `SELECT * FROM ewallets WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &ew, nil
}

func (r *EwalletRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Ewallet, error) {
	return selectByIDs[models.Ewallet](ctx, r.db, `SELECT * FROM ewallets WHERE id IN (?)`, ids)
}

func (r *EwalletRepository) Create(ctx context.Context, ew *models.Ewallet) error {
	const q = `INSERT INTO ewallets (status, registration_date, simcard_id, ewallet_type_id, device_id)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, ew.Status, ew.RegistrationDate, ew.SimcardID, ew.EwalletTypeID, ew.DeviceID).
		Scan(&ew.ID, &ew.CreatedAt, &ew.UpdatedAt)
	return wrapError("ewallet", err)
}

func (r *EwalletRepository) Update(ctx context.Context, ew *models.Ewallet) error {
	const q = `UPDATE ewallets
              SET status = $1, registration_date = $2, simcard_id = $3, ewallet_type_id = $4,
                  device_id = $5, updated_at = NOW()
              WHERE id = $6
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, ew.Status, ew.RegistrationDate, ew.SimcardID, ew.EwalletTypeID, ew.DeviceID, ew.ID).
		Scan(&ew.UpdatedAt)
	return wrapError("ewallet", err)
}

func (r *EwalletRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "ewallet", "ewallets", id)
}

// EwalletTopupRepository handles data access for e-wallet top-ups.
type EwalletTopupRepository struct {
	db sqlx.ExtContext
}

func NewEwalletTopupRepository(db sqlx.ExtContext) *EwalletTopupRepository {
	return &EwalletTopupRepository{db: db}
}

func (r *EwalletTopupRepository) FilterKeys() []string {
	return ewalletTopupList.FilterKeys()
}

func (r *EwalletTopupRepository) List(ctx context.Context, params listquery.Params) ([]models.EwalletTopup, int, error) {
	return selectPage[models.EwalletTopup](ctx, r.db, ewalletTopupList, params)
}

func (r *EwalletTopupRepository) GetByID(ctx context.Context, id int) (*models.EwalletTopup, error) {
	var t models.EwalletTopup
	if err := getByID(ctx, r.db, "ewallet topup", &t, `SELECT * FROM ewallet_topups WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *EwalletTopupRepository) Create(ctx context.Context, t *models.EwalletTopup) error {
	const q = `INSERT INTO ewallet_topups (amount, ewallet_id) VALUES ($1, $2) RETURNING id, created_at, updated_at`
	return wrapError("ewallet topup", r.db.QueryRowxContext(ctx, q, t.Amount, t.EwalletID).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt))
}

func (r *EwalletTopupRepository) Update(ctx context.Context, t *models.EwalletTopup) error {
	const q = `UPDATE ewallet_topups SET amount = $1, ewallet_id = $2, updated_at = NOW() WHERE id = $3 RETURNING updated_at`
	return wrapError("ewallet topup", r.db.QueryRowxContext(ctx, q, t.Amount, t.EwalletID, t.ID).Scan(&t.UpdatedAt))
}

func (r *EwalletTopupRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "ewallet topup", "ewallet_topups", id)
}
