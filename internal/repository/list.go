package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/pkg/listquery"
)

type filterKind int

const (
	// filterContains matches a case-insensitive substring.
	filterContains filterKind = iota
	// filterEqualsID matches an integer foreign key.
	filterEqualsID
)

type filterSpec struct {
	column string
	kind   filterKind
}

// listSpec describes how list params map onto SQL for one resource.
type listSpec struct {
	// from is the FROM clause including any joins filters need.
	from string
	// columns is the select list for rows.
	columns string
	// idColumn breaks ties so pagination is stable.
	idColumn     string
	filters      map[string]filterSpec
	sortable     map[string]string
	defaultOrder string
}

// FilterKeys returns the query parameters this resource filters on.
func (s *listSpec) FilterKeys() []string {
	return slices.Sorted(maps.Keys(s.filters))
}

// where builds the WHERE clause and its positional args.
func (s *listSpec) where(params listquery.Params) (string, []interface{}, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	// Iterate in a fixed order so generated SQL is deterministic.
	for _, key := range s.FilterKeys() {
		value := params.FilterValue(key)
		if value == "" {
			continue
		}
		f := s.filters[key]
		switch f.kind {
		case filterContains:
			where += fmt.Sprintf(" AND %s ILIKE $%d", f.column, argIdx)
			args = append(args, "%"+escapeLike(value)+"%")
		case filterEqualsID:
			id, err := strconv.Atoi(value)
			if err != nil || id < 1 {
				return "", nil, &listquery.ParamError{Param: key, Reason: "must be a positive integer"}
			}
			where += fmt.Sprintf(" AND %s = $%d", f.column, argIdx)
			args = append(args, id)
		}
		argIdx++
	}
	return where, args, nil
}

// orderBy builds the ORDER BY clause.
func (s *listSpec) orderBy(order listquery.Order) (string, error) {
	if order.IsZero() {
		return "ORDER BY " + s.defaultOrder, nil
	}
	expr, ok := s.sortable[order.By]
	if !ok {
		return "", &listquery.ParamError{Param: listquery.ParamOrderBy, Reason: fmt.Sprintf("cannot sort by %q", order.By)}
	}
	dir := "ASC"
	if order.Direction == listquery.Desc {
		dir = "DESC"
	}
	clause := fmt.Sprintf("ORDER BY %s %s", expr, dir)
	if expr != s.idColumn {
		clause += ", " + s.idColumn + " ASC"
	}
	return clause, nil
}

// build returns the count query, the page query and their shared args. The
// page query takes two extra args (limit, offset) appended by the caller.
func (s *listSpec) build(params listquery.Params) (string, string, []interface{}, error) {
	where, args, err := s.where(params)
	if err != nil {
		return "", "", nil, err
	}
	order, err := s.orderBy(params.Order)
	if err != nil {
		return "", "", nil, err
	}
	countQuery := fmt.Sprintf(`SELECT COUNT(1) FROM %s %s`, s.from, where)
	listQuery := fmt.Sprintf(`SELECT %s FROM %s %s %s LIMIT $%d OFFSET $%d`,
		s.columns, s.from, where, order, len(args)+1, len(args)+2)
	return countQuery, listQuery, args, nil
}

// selectPage runs the count and page queries of spec.
func selectPage[T any](ctx context.Context, db sqlx.QueryerContext, spec *listSpec, params listquery.Params) ([]T, int, error) {
	countQuery, listQuery, args, err := spec.build(params)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := sqlx.GetContext(ctx, db, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	items := []T{}
	if total == 0 {
		return items, 0, nil
	}
	args = append(args, params.Limit, params.Offset())
	if err := sqlx.SelectContext(ctx, db, &items, listQuery, args...); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

