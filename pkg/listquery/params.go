// Package listquery implements the paginated, sortable and filterable list
// protocol shared by every list endpoint: query parameter parsing and
// encoding, the three-state sort cycle, a list-state container and the
// page envelope returned to callers.
package listquery

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query parameter names reserved by the protocol.
const (
	ParamPage           = "page"
	ParamLimit          = "limit"
	ParamOrderBy        = "order_by"
	ParamOrderDirection = "order_direction"
)

// Order is the active sort. The zero value means "unsorted".
type Order struct {
	By        string
	Direction Direction
}

// IsZero reports whether no sort is applied.
func (o Order) IsZero() bool {
	return o.By == ""
}

// Params is a decoded list request.
type Params struct {
	Page   int
	Limit  int
	Order  Order
	Filter map[string]string
}

// Offset returns the row offset of the requested page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// FilterValue returns the committed value of a filter key, or "".
func (p Params) FilterValue(key string) string {
	if p.Filter == nil {
		return ""
	}
	return p.Filter[key]
}

// Values encodes the params as URL query values. Empty filters are dropped.
func (p Params) Values() url.Values {
	values := make(map[string]any, len(p.Filter)+4)
	for k, v := range p.Filter {
		values[k] = v
	}
	if p.Page > 0 {
		values[ParamPage] = p.Page
	}
	if p.Limit > 0 {
		values[ParamLimit] = p.Limit
	}
	if !p.Order.IsZero() {
		values[ParamOrderBy] = p.Order.By
		values[ParamOrderDirection] = string(p.Order.Direction)
	}
	return Encode(values)
}

// Canonical returns a stable string form of the params, suitable as a
// cache key component.
func (p Params) Canonical() string {
	return p.Values().Encode()
}

// ParamError reports an invalid list query parameter.
type ParamError struct {
	Param  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
}

// Parse decodes list params from a query string. Only the given filter keys
// are picked up; blank filter values are ignored.
func Parse(q url.Values, filterKeys ...string) (Params, error) {
	p := Params{
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		Filter: make(map[string]string, len(filterKeys)),
	}

	if raw := strings.TrimSpace(q.Get(ParamPage)); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return Params{}, &ParamError{Param: ParamPage, Reason: "must be an integer >= 1"}
		}
		p.Page = page
	}
	if raw := strings.TrimSpace(q.Get(ParamLimit)); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return Params{}, &ParamError{Param: ParamLimit, Reason: fmt.Sprintf("must be an integer between 1 and %d", MaxLimit)}
		}
		p.Limit = limit
	}

	if by := strings.TrimSpace(q.Get(ParamOrderBy)); by != "" {
		p.Order.By = by
		p.Order.Direction = Asc
		if raw := strings.TrimSpace(q.Get(ParamOrderDirection)); raw != "" {
			dir := Direction(strings.ToLower(raw))
			if dir != Asc && dir != Desc {
				return Params{}, &ParamError{Param: ParamOrderDirection, Reason: "must be asc or desc"}
			}
			p.Order.Direction = dir
		}
	}

	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			p.Filter[key] = v
		}
	}
	return p, nil
}
