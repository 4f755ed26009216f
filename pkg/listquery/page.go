package listquery

// PaginationData describes the page returned by a list endpoint.
type PaginationData struct {
	CurrentPage int `json:"currentPage"`
	TotalPage   int `json:"totalPage"`
	Limit       int `json:"limit"`
	TotalItems  int `json:"totalItems"`
}

// OrderData echoes the sort applied to a list response.
type OrderData struct {
	OrderBy        string    `json:"order_by,omitempty"`
	OrderDirection Direction `json:"order_direction,omitempty"`
}

// Order converts the echoed sort back into an Order.
func (o OrderData) Order() Order {
	return Order{By: o.OrderBy, Direction: o.OrderDirection}
}

// Page is the list response envelope.
type Page[T any] struct {
	Items          []T            `json:"items"`
	PaginationData PaginationData `json:"paginationData"`
	OrderData      OrderData      `json:"orderData"`
}

// NewPage wraps one page of items. Items is never nil so it encodes as [].
func NewPage[T any](items []T, params Params, totalItems int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPage := 0
	if params.Limit > 0 {
		totalPage = (totalItems + params.Limit - 1) / params.Limit
	}
	return &Page[T]{
		Items: items,
		PaginationData: PaginationData{
			CurrentPage: params.Page,
			TotalPage:   totalPage,
			Limit:       params.Limit,
			TotalItems:  totalItems,
		},
		OrderData: OrderData{
			OrderBy:        params.Order.By,
			OrderDirection: params.Order.Direction,
		},
	}
}
