package filter

import "sort"

// Store maps column names to their active filter state. A column has at
// most one entry, and an entry exists only while its filter is active.
type Store struct {
	filters map[string]State
}

// NewStore creates an empty filter store
func NewStore() *Store {
	return &Store{filters: make(map[string]State)}
}

// Set inserts or replaces the filter for state.Column when the state is
// active, and removes the column's entry when it is not. Idempotent.
func (s *Store) Set(state State) {
	if state.Column == "" {
		return
	}
	if !state.Active {
		delete(s.filters, state.Column)
		return
	}
	s.filters[state.Column] = state
}

// Get returns the filter for a column, if one is active
func (s *Store) Get(column string) (State, bool) {
	state, ok := s.filters[column]
	return state, ok
}

// Clear removes all filters
func (s *Store) Clear() {
	s.filters = make(map[string]State)
}

// IsEmpty reports whether no filters are active
func (s *Store) IsEmpty() bool {
	return len(s.filters) == 0
}

// Len returns the number of active filters
func (s *Store) Len() int {
	return len(s.filters)
}

// Active returns the active filter states ordered by column name, so
// callers iterate deterministically.
func (s *Store) Active() []State {
	states := make([]State, 0, len(s.filters))
	for _, st := range s.filters {
		states = append(states, st)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].Column < states[j].Column
	})
	return states
}
