package listquery

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextOrderCyclesSameField(t *testing.T) {
	o := Order{}
	o = NextOrder(o, "name")
	require.Equal(t, Order{By: "name", Direction: Asc}, o)
	o = NextOrder(o, "name")
	require.Equal(t, Order{By: "name", Direction: Desc}, o)
	o = NextOrder(o, "name")
	require.True(t, o.IsZero())
	o = NextOrder(o, "name")
	require.Equal(t, Order{By: "name", Direction: Asc}, o)
}

func TestNextOrderDifferentFieldResetsToAsc(t *testing.T) {
	for _, dir := range []Direction{Asc, Desc, ""} {
		got := NextOrder(Order{By: "name", Direction: dir}, "id")
		require.Equal(t, Order{By: "id", Direction: Asc}, got)
	}
}

func TestNextOrderEmptyFieldKeepsCurrent(t *testing.T) {
	cur := Order{By: "name", Direction: Desc}
	require.Equal(t, cur, NextOrder(cur, ""))
}

func TestEncodeDropsEmptyValues(t *testing.T) {
	name := "router"
	var missing *string
	values := Encode(map[string]any{
		"name":    "",
		"email":   "a@b.c",
		"device":  &name,
		"simcard": missing,
		"nothing": nil,
		"ids":     []any{1, "", nil, 3},
		"tags":    []string{},
		"page":    2,
		"active":  true,
	})

	require.Equal(t, url.Values{
		"email":  {"a@b.c"},
		"device": {"router"},
		"ids":    {"1", "3"},
		"page":   {"2"},
		"active": {"true"},
	}, values)
}

func TestEncodeFormatsTime(t *testing.T) {
	ts := time.Date(2025, 3, 4, 5, 6, 7, 891234000, time.UTC)
	values := Encode(map[string]any{"from": ts, "zero": time.Time{}})
	require.Equal(t, []string{"2025-03-04T05:06:07.891234Z"}, values["from"])
	require.NotContains(t, values, "zero")
}

func TestParamsValues(t *testing.T) {
	p := Params{
		Page:   3,
		Limit:  20,
		Order:  Order{By: "name", Direction: Desc},
		Filter: map[string]string{"name": "foo", "product_id": ""},
	}
	require.Equal(t, "limit=20&name=foo&order_by=name&order_direction=desc&page=3", p.Canonical())

	unsorted := Params{Page: 1, Limit: 10}
	require.Equal(t, "limit=10&page=1", unsorted.Canonical())
}

func TestParseDefaults(t *testing.T) {
	p, err := Parse(url.Values{}, "name")
	require.NoError(t, err)
	require.Equal(t, DefaultPage, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
	require.True(t, p.Order.IsZero())
	require.Empty(t, p.Filter)
	require.Equal(t, 0, p.Offset())
}

func TestParseReadsFiltersAndOrder(t *testing.T) {
	q := url.Values{
		"page":            {"2"},
		"limit":           {"25"},
		"order_by":        {"name"},
		"order_direction": {"DESC"},
		"name":            {" foo "},
		"email":           {""},
		"ignored":         {"x"},
	}
	p, err := Parse(q, "name", "email")
	require.NoError(t, err)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 25, p.Limit)
	require.Equal(t, 25, p.Offset())
	require.Equal(t, Order{By: "name", Direction: Desc}, p.Order)
	require.Equal(t, map[string]string{"name": "foo"}, p.Filter)
}

func TestParseOrderDirectionRules(t *testing.T) {
	p, err := Parse(url.Values{"order_by": {"id"}})
	require.NoError(t, err)
	require.Equal(t, Order{By: "id", Direction: Asc}, p.Order)

	p, err = Parse(url.Values{"order_direction": {"desc"}})
	require.NoError(t, err)
	require.True(t, p.Order.IsZero())
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]url.Values{
		ParamPage:           {"page": {"0"}},
		ParamLimit:          {"limit": {"101"}},
		ParamOrderDirection: {"order_by": {"id"}, "order_direction": {"up"}},
	}
	for param, q := range cases {
		_, err := Parse(q)
		var perr *ParamError
		require.True(t, errors.As(err, &perr), param)
		require.Equal(t, param, perr.Param)
	}

	_, err := Parse(url.Values{"page": {"abc"}})
	require.Error(t, err)
}

func TestStateCommitResetsPage(t *testing.T) {
	s := NewState()
	s.SetPage(4)
	s.SetDraft("name", "foo")
	require.Equal(t, 4, s.Page)
	require.Empty(t, s.Committed)

	require.True(t, s.CommitFilter())
	require.Equal(t, 1, s.Page)
	require.Equal(t, map[string]string{"name": "foo"}, s.Committed)

	s.SetPage(3)
	require.False(t, s.CommitFilter())
	require.Equal(t, 1, s.Page)
}

func TestStateCommitDropsEmptyStrings(t *testing.T) {
	s := NewState()
	s.SetDraft("name", "foo")
	s.CommitFilter()
	s.SetDraft("name", "")
	s.SetDraft("product_id", "7")
	require.True(t, s.CommitFilter())
	require.Equal(t, map[string]string{"product_id": "7"}, s.Committed)
	require.NotContains(t, s.Params(10).Values(), "name")
}

func TestStateToggleOrderResetsPage(t *testing.T) {
	s := NewState()
	s.SetPage(5)
	s.ToggleOrder("name")
	require.Equal(t, 1, s.Page)
	require.Equal(t, Order{By: "name", Direction: Asc}, s.Order)

	s.SetPage(0)
	require.Equal(t, 1, s.Page)
}

func TestStateParamsCopiesFilter(t *testing.T) {
	s := NewState()
	s.SetDraft("name", "foo")
	s.CommitFilter()
	p := s.Params(10)
	p.Filter["name"] = "bar"
	require.Equal(t, "foo", s.Committed["name"])
}

func TestNewPage(t *testing.T) {
	params := Params{Page: 2, Limit: 10, Order: Order{By: "id", Direction: Desc}}
	page := NewPage[int](nil, params, 21)
	require.NotNil(t, page.Items)
	require.Equal(t, PaginationData{CurrentPage: 2, TotalPage: 3, Limit: 10, TotalItems: 21}, page.PaginationData)
	require.Equal(t, params.Order, page.OrderData.Order())

	empty := NewPage([]int{}, Params{Page: 1, Limit: 10}, 0)
	require.Equal(t, 0, empty.PaginationData.TotalPage)
	require.Equal(t, OrderData{}, empty.OrderData)
}
