package listquery

// NextOrder returns the sort that follows activating field while current is
// applied. The same field cycles asc -> desc -> unsorted -> asc; any other
// field starts over at asc.
func NextOrder(current Order, field string) Order {
	if field == "" {
		return current
	}
	if current.By != field {
		return Order{By: field, Direction: Asc}
	}
	switch current.Direction {
	case Asc:
		return Order{By: field, Direction: Desc}
	case Desc:
		return Order{}
	default:
		return Order{By: field, Direction: Asc}
	}
}
