package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

var deviceList = &listSpec{
	from:     `devices d`,
	columns:  `d.*`,
	idColumn: `d.id`,
	filters: map[string]filterSpec{
		"name": {column: "d.name", kind: filterContains},
	},
	sortable: map[string]string{
		"id":   "d.id",
		"name": "d.name",
	},
	defaultOrder: `d.id ASC`,
}

// DeviceRepository handles data access for devices.
type DeviceRepository struct {
	db sqlx.ExtContext
}

// NewDeviceRepository creates a new DeviceRepository.
func NewDeviceRepository(db sqlx.ExtContext) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// FilterKeys returns the list filters supported for devices.
func (r *DeviceRepository) FilterKeys() []string {
	return deviceList.FilterKeys()
}

// List returns one page of devices and the total match count.
func (r *DeviceRepository) List(ctx context.Context, params listquery.Params) ([]models.Device, int, error) {
	return selectPage[models.Device](ctx, r.db, deviceList, params)
}

// GetByID returns a single device by id.
func (r *DeviceRepository) GetByID(ctx context.Context, id int) (*models.Device, error) {
	var d models.Device
	if err := getByID(ctx, r.db, "device", &d, `SELECT * FROM devices WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByIDs returns the devices with the given ids, in no particular order.
func (r *DeviceRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Device, error) {
	return selectByIDs[models.Device](ctx, r.db, `SELECT * FROM devices WHERE id IN (?)`, ids)
}

// Create inserts a device and fills its generated fields.
func (r *DeviceRepository) Create(ctx context.Context, d *models.Device) error {
	const q = `INSERT INTO devices (name, description)
              VALUES ($1, $2)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, d.Name, d.Description).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	return wrapError("device", err)
}

// Update writes all mutable fields of d.
func (r *DeviceRepository) Update(ctx context.Context, d *models.Device) error {
	const q = `UPDATE devices
              SET name = $1, description = $2, updated_at = NOW()
              WHERE id = $3
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, d.Name, d.Description, d.ID).Scan(&d.UpdatedAt)
	return wrapError("device", err)
}

// Delete deletes a device by ID.
func (r *DeviceRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "device", "devices", id)
}
