package listquery

import "maps"

// State holds the list view of one resource: the uncommitted filter draft,
// the committed filter, the active sort and the current page.
type State struct {
	Draft     map[string]string
	Committed map[string]string
	Order     Order
	Page      int
}

// NewState returns an empty state on page 1.
func NewState() *State {
	return &State{
		Draft:     map[string]string{},
		Committed: map[string]string{},
		Page:      DefaultPage,
	}
}

// SetDraft edits the filter draft without affecting the committed query.
func (s *State) SetDraft(key, value string) {
	if s.Draft == nil {
		s.Draft = map[string]string{}
	}
	s.Draft[key] = value
}

// CommitFilter promotes the draft to the committed filter and returns to
// page 1. Empty values are treated as unset. It reports whether the
// committed filter changed.
func (s *State) CommitFilter() bool {
	next := make(map[string]string, len(s.Draft))
	for k, v := range s.Draft {
		if v != "" {
			next[k] = v
		}
	}
	changed := !maps.Equal(next, s.Committed)
	s.Committed = next
	s.Page = DefaultPage
	return changed
}

// ToggleOrder advances the sort cycle for field and returns to page 1.
func (s *State) ToggleOrder(field string) {
	s.Order = NextOrder(s.Order, field)
	s.Page = DefaultPage
}

// SetPage moves to page n, keeping filter and sort.
func (s *State) SetPage(n int) {
	if n < DefaultPage {
		n = DefaultPage
	}
	s.Page = n
}

// Params builds the request for the current state.
func (s *State) Params(limit int) Params {
	return Params{
		Page:   s.Page,
		Limit:  limit,
		Order:  s.Order,
		Filter: maps.Clone(s.Committed),
	}
}
