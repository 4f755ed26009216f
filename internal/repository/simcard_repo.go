package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

var simcardList = &listSpec{
	from:     `simcards s`,
	columns:  `s.*`,
	idColumn: `s.id`,
	filters: map[string]filterSpec{
		"simcard_number": {column: "s.simcard_number", kind: filterContains},
	},
	sortable: map[string]string{
		"id":             "s.id",
		"simcard_number": "s.simcard_number",
		"location":       "s.location",
	},
	defaultOrder: `s.id ASC`,
}

// SimcardRepository handles data access for SIM cards.
type SimcardRepository struct {
	db sqlx.ExtContext
}

// NewSimcardRepository creates a new SimcardRepository.
func NewSimcardRepository(db sqlx.ExtContext) *SimcardRepository {
	return &SimcardRepository{db: db}
}

func (r *SimcardRepository) FilterKeys() []string {
	return simcardList.FilterKeys()
}

func (r *SimcardRepository) List(ctx context.Context, params listquery.Params) ([]models.Simcard, int, error) {
	return selectPage[models.Simcard](ctx, r.db, simcardList, params)
}

func (r *SimcardRepository) GetByID(ctx context.Context, id int) (*models.Simcard, error) {
	var s models.Simcard
	if err := getByID(ctx, r.db, "simcard", &s, `SELECT * FROM simcards WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SimcardRepository) GetByIDs(ctx context.Context, ids []int) ([]models.Simcard, error) {
	return selectByIDs[models.Simcard](ctx, r.db, `SELECT * FROM simcards WHERE id IN (?)`, ids)
}

func (r *SimcardRepository) Create(ctx context.Context, s *models.Simcard) error {
	const q = `INSERT INTO simcards (simcard_number, location)
              VALUES ($1, $2)
              RETURNING id, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, s.SimcardNumber, s.Location).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return wrapError("simcard", err)
}

func (r *SimcardRepository) Update(ctx context.Context, s *models.Simcard) error {
	const q = `UPDATE simcards
              SET simcard_number = $1, location = $2, updated_at = NOW()
              WHERE id = $3
              RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q, s.SimcardNumber, s.Location, s.ID).Scan(&s.UpdatedAt)
	return wrapError("simcard", err)
}

func (r *SimcardRepository) Delete(ctx context.Context, id int) error {
	return deleteByID(ctx, r.db, "simcard", "simcards", id)
}
