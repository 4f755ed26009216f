package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

var emailList = &listSpec{
	from:     `emails e`,
	columns:  `e.*`,
	idColumn: `e.id`,
	filters: map[string]filterSpec{
		"email": {column: "e.email", kind: filterContains},
	},
	sortable: map[string]string{
		"id":    "e.id",
		"email": "e.email",
	},
	defaultOrder: `e.id ASC`,
}

// EmailRepository handles data access for email accounts.
type EmailRepository struct {
	db sqlx.ExtContext
}

// NewEmailRepository creates a new EmailRepository.
func NewEmailRepository(db sqlx.ExtContext) *EmailRepository {
	return &EmailRepository{db: db}
}

func (r *EmailRepository) FilterKeys() []string {
	return emailList.FilterKeys()
}

func (r *EmailRepository) List(ctx context.Context, params listquery.Params) ([]models.Email, int, error) {
	return selectPage[models.Email](ctx, r.db, emailList, params)
}

func (r *EmailRepository) GetByID(ctx context.Context, id int) (*models.Email, error) {
	var e models.Email
	if err := getByID(ctx, r.db, "email", &e, `SELECT * FROM emails WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmailRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Email, error) {
	return selectByIDs[models.Email](ctx, r.db, `SELECT * FROM emails WHERE id IN (?)`, ids)
}

func (r *EmailRepository) Create(ctx context.Context, e *models.Email) error {
	const q = `INSERT INTO emails (email, password, register_device_id)
              VALUES ($1, $2, $3)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, e.Email, e.Password, e.RegisterDeviceID).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return wrapError("email", err)
}

func (r *EmailRepository) Update(ctx context.Context, e *models.Email) error {
	const q = `UPDATE emails
              SET email = $1, password = $2, register_device_id = $3, updated_at = NOW()
              WHERE id = $4
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, e.Email, e.Password, e.RegisterDeviceID, e.ID).Scan(&e.UpdatedAt)
	return wrapError("email", err)
}

func (r *EmailRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "email", "emails", id)
}
