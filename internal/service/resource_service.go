package service

import (
	"context"

	"github.com/GTDGit/inventory_api/internal/cache"
	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/sse"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

// CRUD is the service surface served by a resource handler. T is the
// entity, C the create payload and U the partial update payload.
type CRUD[T any, C any, U any] interface {
	Resource() models.Resource
	FilterKeys() []string
	List(ctx context.Context, params listquery.Params) (*listquery.Page[T], error)
	Get(ctx context.Context, id int) (*T, error)
	Create(ctx context.Context, req *C) (*T, error)
	Update(ctx context.Context, id int, req *U) (*T, error)
	Delete(ctx context.Context, id int) error
}

// Store is the repository surface a ResourceService needs.
type Store[T any] interface {
	FilterKeys() []string
	List(ctx context.Context, params listquery.Params) ([]T, int, error)
	GetByID(ctx context.Context, id int) (*T, error)
	Create(ctx context.Context, item *T) error
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id int) error
}

// Events fans a mutation out to the list cache and SSE clients.
type Events struct {
	cache    cache.ListCache
	notifier sse.Notifier
}

// NewEvents creates an Events dispatcher.
func NewEvents(listCache cache.ListCache, notifier sse.Notifier) *Events {
	return &Events{cache: listCache, notifier: notifier}
}

// Changed invalidates cached lists of resource and of everything embedding
// it, then notifies SSE clients.
func (e *Events) Changed(ctx context.Context, event sse.EventType, resource models.Resource, ids ...int) {
	e.cache.Invalidate(ctx, models.Affected(resource)...)
	e.notifier.Notify(event, resource, ids...)
}

// ResourceService implements CRUD on top of a Store. Per-resource behavior
// is supplied through the function fields.
type ResourceService[T any, C any, U any] struct {
	resource models.Resource
	store    Store[T]
	cache    cache.ListCache
	events   *Events

	// id returns the primary key of an item.
	id func(*T) int
	// build validates a create payload and returns the row to insert.
	build func(ctx context.Context, req *C) (*T, error)
	// create replaces build plus Store.Create when inserting involves
	// more than one row.
	create func(ctx context.Context, req *C) (*T, error)
	// apply validates a patch and writes it onto item.
	apply func(ctx context.Context, item *T, req *U) error
	// save replaces Store.Update when storing a patch needs checks under
	// a lock. May be nil.
	save func(ctx context.Context, item *T) error
	// populate fills relation fields in place. May be nil.
	populate func(ctx context.Context, items []T) error
}

func (s *ResourceService[T, C, U]) Resource() models.Resource {
	return s.resource
}

func (s *ResourceService[T, C, U]) FilterKeys() []string {
	return s.store.FilterKeys()
}

// List returns one populated page, served from the list cache when fresh.
func (s *ResourceService[T, C, U]) List(ctx context.Context, params listquery.Params) (*listquery.Page[T], error) {
	key := params.Canonical()
	var cached listquery.Page[T]
	version, hit := s.cache.Get(ctx, s.resource, key, &cached)
	if hit {
		return &cached, nil
	}

	items, total, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}
	if err := s.fill(ctx, items); err != nil {
		return nil, err
	}
	page := listquery.NewPage(items, params, total)
	s.cache.Set(ctx, s.resource, version, key, page)
	return page, nil
}

// Get returns a single populated item.
func (s *ResourceService[T, C, U]) Get(ctx context.Context, id int) (*T, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.one(ctx, item)
}

func (s *ResourceService[T, C, U]) Create(ctx context.Context, req *C) (*T, error) {
	var item *T
	var err error
	if s.create != nil {
		item, err = s.create(ctx, req)
	} else {
		item, err = s.build(ctx, req)
		if err == nil {
			err = s.store.Create(ctx, item)
		}
	}
	if err != nil {
		return nil, err
	}
	s.events.Changed(ctx, sse.EventResourceCreated, s.resource, s.id(item))
	return s.reload(ctx, item)
}

func (s *ResourceService[T, C, U]) Update(ctx context.Context, id int, req *U) (*T, error) {
	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, item, req); err != nil {
		return nil, err
	}
	if s.save != nil {
		err = s.save(ctx, item)
	} else {
		err = s.store.Update(ctx, item)
	}
	if err != nil {
		return nil, err
	}
	s.events.Changed(ctx, sse.EventResourceUpdated, s.resource, id)
	return s.reload(ctx, item)
}

func (s *ResourceService[T, C, U]) Delete(ctx context.Context, id int) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Changed(ctx, sse.EventResourceDeleted, s.resource, id)
	return nil
}

// reload re-reads item so computed columns are current, then populates it.
func (s *ResourceService[T, C, U]) reload(ctx context.Context, item *T) (*T, error) {
	fresh, err := s.store.GetByID(ctx, s.id(item))
	if err != nil {
		return nil, err
	}
	return s.one(ctx, fresh)
}

func (s *ResourceService[T, C, U]) one(ctx context.Context, item *T) (*T, error) {
	items := []T{*item}
	if err := s.fill(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

func (s *ResourceService[T, C, U]) fill(ctx context.Context, items []T) error {
	if s.populate == nil || len(items) == 0 {
		return nil
	}
	return s.populate(ctx, items)
}
