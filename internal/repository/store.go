package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/utils"
)

// Postgres error codes mapped to client errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// wrapError translates driver errors into application errors for resource.
func wrapError(resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return utils.NotFound(resource)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return utils.Conflict("DUPLICATE", fmt.Sprintf("%s already exists", resource), err)
		case pgForeignKeyViolation:
			return utils.Conflict("REFERENCE_VIOLATION",
				fmt.Sprintf("%s references a missing record or is still referenced by another record", resource), err)
		case pgCheckViolation:
			return utils.BadRequest(fmt.Sprintf("%s has an invalid value (%s)", resource, pqErr.Constraint))
		}
	}
	return err
}

// getByID loads one row into dest.
func getByID(ctx context.Context, db sqlx.QueryerContext, resource string, dest interface{}, query string, id int) error {
	return wrapError(resource, sqlx.GetContext(ctx, db, dest, query, id))
}

// selectByIDs loads the rows whose id is in ids. query must contain a single
// "IN (?)" placeholder.
func selectByIDs[T any](ctx context.Context, db sqlx.ExtContext, query string, ids []int) ([]T, error) {
	out := []T{}
	if len(ids) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(query, ids)
	if err != nil {
		return nil, err
	}
	if err := sqlx.SelectContext(ctx, db, &out, db.Rebind(q), args...); err != nil {
		return nil, err
	}
	return out, nil
}

// deleteByID removes a row and reports NotFound when nothing matched.
func deleteByID(ctx context.Context, db sqlx.ExecerContext, resource, table string, id int) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return wrapError(resource, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.NotFound(resource)
	}
	return nil
}

// RunInTx executes fn inside a database transaction, committing when fn
// returns nil and rolling back otherwise.
func RunInTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("transaction rollback failed")
		}
		return err
	}
	return tx.Commit()
}
