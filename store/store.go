// Package store caches the last page of a list view together with the
// currently selected record.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/yeremiapane/restaurant-backoffice/gateway"
	"github.com/yeremiapane/restaurant-backoffice/services"
)

var (
	// ErrStaleResponse is returned to a fetch whose result was discarded
	// because a newer fetch was issued after it.
	ErrStaleResponse = errors.New("response superseded by a newer request")
	// ErrClosed is returned once the view owning the store is gone.
	ErrClosed = errors.New("store closed")
	// ErrNoQuery is returned by Refresh before any list fetch.
	ErrNoQuery = errors.New("no list query to refresh")
)

// Source is what a store reads from. Every typed service satisfies it.
type Source[T any] interface {
	List(ctx context.Context, q gateway.Query) (services.Page[T], error)
	GetByID(ctx context.Context, id int64) (*T, error)
}

// State is a point-in-time copy of the store. List and detail carry their
// own loading and error flags.
type State[T any] struct {
	Items         []T    `json:"items"`
	TotalCount    int    `json:"totalCount"`
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`
	SelectedItem  *T     `json:"selectedItem,omitempty"`
	DetailLoading bool   `json:"detailLoading"`
	DetailError   string `json:"detailError,omitempty"`
}

type Store[T any] struct {
	source Source[T]

	mu        sync.RWMutex
	state     State[T]
	lastQuery *gateway.Query
	listSeq   uint64
	detailSeq uint64
	closed    bool
}

func New[T any](source Source[T]) *Store[T] {
	return &Store[T]{
		source: source,
		state:  State[T]{Items: []T{}},
	}
}

// Fetch loads a list page. Loading is raised before the call and the current
// items stay visible until the response lands. Only the most recently issued
// fetch may write its result.
func (s *Store[T]) Fetch(ctx context.Context, q gateway.Query) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.listSeq++
	seq := s.listSeq
	kept := q.Clone()
	s.lastQuery = &kept
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()

	page, err := s.source.List(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if seq != s.listSeq {
		return ErrStaleResponse
	}

	s.state.Loading = false
	if err != nil {
		s.state.Error = err.Error()
		return err
	}

	items := page.Data
	if items == nil {
		items = []T{}
	}
	s.state.Items = items
	s.state.TotalCount = page.TotalCount
	return nil
}

// Refresh re-issues the last list query.
func (s *Store[T]) Refresh(ctx context.Context) error {
	s.mu.RLock()
	last := s.lastQuery
	s.mu.RUnlock()

	if last == nil {
		return ErrNoQuery
	}
	return s.Fetch(ctx, last.Clone())
}

// Mutate runs a write and, when it succeeds, refreshes the list with the
// same query. A refresh failure does not undo the write; it is returned
// alongside ok=true.
func (s *Store[T]) Mutate(ctx context.Context, write func(ctx context.Context) (bool, error)) (bool, error) {
	ok, err := write(ctx)
	if err != nil || !ok {
		return ok, err
	}

	if err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrNoQuery) && !errors.Is(err, ErrStaleResponse) {
		return true, err
	}
	return true, nil
}

// FetchByID loads the detail slot. A missing record leaves the slot empty
// without an error.
func (s *Store[T]) FetchByID(ctx context.Context, id int64) (*T, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.detailSeq++
	seq := s.detailSeq
	s.state.DetailLoading = true
	s.state.DetailError = ""
	s.mu.Unlock()

	item, err := s.source.GetByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if seq != s.detailSeq {
		return nil, ErrStaleResponse
	}

	s.state.DetailLoading = false
	if err != nil {
		s.state.DetailError = err.Error()
		return nil, err
	}
	s.state.SelectedItem = item
	return item, nil
}

// ClearSelected empties the detail slot. A detail fetch still in flight will
// not repopulate it.
func (s *Store[T]) ClearSelected() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailSeq++
	s.state.SelectedItem = nil
	s.state.DetailLoading = false
	s.state.DetailError = ""
}

// LastQuery returns a copy of the query behind the current list.
func (s *Store[T]) LastQuery() (gateway.Query, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastQuery == nil {
		return gateway.Query{}, false
	}
	return s.lastQuery.Clone(), true
}

func (s *Store[T]) Snapshot() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Items = append(make([]T, 0, len(s.state.Items)), s.state.Items...)
	if s.state.SelectedItem != nil {
		selected := *s.state.SelectedItem
		out.SelectedItem = &selected
	}
	return out
}

// Close marks the owning view as gone. Results arriving afterwards are
// dropped.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Store[T]) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}
