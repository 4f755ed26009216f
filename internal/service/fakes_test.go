package service

import (
	"context"
	"slices"
	"strconv"
	"sync"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/sse"
	"github.com/GTDGit/inventory_api/internal/utils"
	"github.com/GTDGit/inventory_api/pkg/listquery"
)

// memDevices is an in-memory device store.
type memDevices struct {
	rows      map[int]models.Device
	next      int
	listCalls int
	// onList runs after the rows are read, before List returns.
	onList func()
}

func newMemDevices(names ...string) *memDevices {
	m := &memDevices{rows: map[int]models.Device{}}
	for _, n := range names {
		m.next++
		m.rows[m.next] = models.Device{ID: m.next, Name: n}
	}
	return m
}

func (m *memDevices) FilterKeys() []string { return []string{"name"} }

func (m *memDevices) List(_ context.Context, params listquery.Params) ([]models.Device, int, error) {
	m.listCalls++
	ids := make([]int, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := []models.Device{}
	for _, id := range ids {
		out = append(out, m.rows[id])
	}
	if m.onList != nil {
		m.onList()
	}
	return out, len(out), nil
}

func (m *memDevices) GetByID(_ context.Context, id int) (*models.Device, error) {
	d, ok := m.rows[id]
	if !ok {
		return nil, utils.NotFound("device")
	}
	return &d, nil
}

func (m *memDevices) GetByIDs(_ context.Context, ids []int) ([]models.Device, error) {
	out := []models.Device{}
	for _, id := range ids {
		if d, ok := m.rows[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *memDevices) Create(_ context.Context, d *models.Device) error {
	m.next++
	d.ID = m.next
	m.rows[d.ID] = *d
	return nil
}

func (m *memDevices) Update(_ context.Context, d *models.Device) error {
	if _, ok := m.rows[d.ID]; !ok {
		return utils.NotFound("device")
	}
	m.rows[d.ID] = *d
	return nil
}

func (m *memDevices) Delete(_ context.Context, id int) error {
	if _, ok := m.rows[id]; !ok {
		return utils.NotFound("device")
	}
	delete(m.rows, id)
	return nil
}

// memCache records cache traffic in memory, versioned per resource.
type memCache struct {
	mu          sync.Mutex
	pages       map[string]interface{}
	versions    map[models.Resource]int
	invalidated []models.Resource
}

func newMemCache() *memCache {
	return &memCache{pages: map[string]interface{}{}, versions: map[models.Resource]int{}}
}

func (c *memCache) key(r models.Resource, version, canonical string) string {
	return string(r) + "|" + version + "|" + canonical
}

func (c *memCache) Get(_ context.Context, r models.Resource, canonical string, dest interface{}) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	version := strconv.Itoa(c.versions[r])
	v, ok := c.pages[c.key(r, version, canonical)]
	if !ok {
		return version, false
	}
	page := dest.(*listquery.Page[models.Device])
	*page = *v.(*listquery.Page[models.Device])
	return version, true
}

func (c *memCache) Set(_ context.Context, r models.Resource, version, canonical string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version != strconv.Itoa(c.versions[r]) {
		return
	}
	c.pages[c.key(r, version, canonical)] = value
}

func (c *memCache) Invalidate(_ context.Context, rs ...models.Resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, rs...)
	for _, r := range rs {
		c.versions[r]++
	}
}

type notification struct {
	event    sse.EventType
	resource models.Resource
	ids      []int
}

type memNotifier struct {
	sent []notification
}

func (n *memNotifier) Notify(event sse.EventType, resource models.Resource, ids ...int) {
	n.sent = append(n.sent, notification{event: event, resource: resource, ids: ids})
}

// fixedRows serves GetByIDs from a fixed slice.
type fixedRows[T any] struct {
	rows  []T
	id    func(*T) int
	calls int
}

func (f *fixedRows[T]) GetByIDs(_ context.Context, ids []int) ([]T, error) {
	f.calls++
	out := []T{}
	for i := range f.rows {
		if slices.Contains(ids, f.id(&f.rows[i])) {
			out = append(out, f.rows[i])
		}
	}
	return out, nil
}
