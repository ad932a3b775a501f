package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("boom")

func testProduct(id, price, category string) domain.Product {
	p := domain.NewProduct(id, id+" name", decimal.RequireFromString(price), category)
	return *p
}

// fakeProductRepo

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
	upserted []string
	catIDs   map[string]int64
	lookups  [][]string
	err      error
}

func newFakeProductRepo(products ...domain.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]domain.Product), catIDs: make(map[string]int64)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Upsert(_ context.Context, product *domain.Product, categoryID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.products[product.ID] = *product
	r.upserted = append(r.upserted, product.ID)
	r.catIDs[product.ID] = categoryID
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, filter ProductFilter) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Product
	for _, p := range r.products {
		if filter.Category != "" && p.CategoryName != filter.Category {
			continue
		}
		if filter.Featured != nil && p.IsFeatured != *filter.Featured {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []string) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups = append(r.lookups, append([]string(nil), ids...))
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeCategoryRepo

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories []domain.Category
}

func (r *fakeCategoryRepo) Upsert(_ context.Context, category *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Name == category.Name {
			return &c, nil
		}
	}
	created := *category
	created.ID = int64(len(r.categories) + 1)
	r.categories = append(r.categories, created)
	return &created, nil
}

func (r *fakeCategoryRepo) List(context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Category(nil), r.categories...), nil
}

// fakeCacheRepo

type fakeCacheRepo struct {
	mu       sync.Mutex
	products map[string]domain.Product
	deleted  []string
	getErr   error
}

func newFakeCacheRepo(products ...domain.Product) *fakeCacheRepo {
	c := &fakeCacheRepo{products: make(map[string]domain.Product)}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCacheRepo) GetProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	out := make(map[string]domain.Product)
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (c *fakeCacheRepo) SetProducts(_ context.Context, products []domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range products {
		c.products[p.ID] = p
	}
	return nil
}

func (c *fakeCacheRepo) DeleteProducts(_ context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.products, id)
	}
	c.deleted = append(c.deleted, ids...)
	return nil
}

func (c *fakeCacheRepo) has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.products[id]
	return ok
}

// fakeImageRepo

type fakeImageRepo struct {
	err error
}

func (f *fakeImageRepo) PresignedURL(_ context.Context, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://minio.local/product-images/" + key + "?X-Amz-Signature=sig", nil
}

// fakeTx

type fakeTx struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	f.calls++
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return fn(ctx)
}

// fakeCartRepo

type fakeCartRepo struct {
	mu        sync.Mutex
	snapshots map[string]domain.CartSnapshot
	loads     int
	loadErr   error
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{snapshots: make(map[string]domain.CartSnapshot)}
}

func (r *fakeCartRepo) Load(_ context.Context, sessionID string) (*domain.CartSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	s, ok := r.snapshots[sessionID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeCartRepo) Save(_ context.Context, snapshot domain.CartSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.snapshots[snapshot.SessionID]; ok && cur.Version > snapshot.Version {
		return nil
	}
	r.snapshots[snapshot.SessionID] = snapshot
	return nil
}

// fakePersister пишет снимки в репозиторий синхронно.

type fakePersister struct {
	mu        sync.Mutex
	repo      *fakeCartRepo
	snapshots []domain.CartSnapshot
	unsynced  bool
	forgotten []string
}

func (p *fakePersister) Enqueue(snapshot domain.CartSnapshot) {
	p.mu.Lock()
	p.snapshots = append(p.snapshots, snapshot)
	p.mu.Unlock()
	if p.repo != nil {
		_ = p.repo.Save(context.Background(), snapshot)
	}
}

func (p *fakePersister) Synced(_ string, version int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.unsynced || version == 0
}

func (p *fakePersister) Forget(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forgotten = append(p.forgotten, sessionID)
}

func (p *fakePersister) all() []domain.CartSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.CartSnapshot(nil), p.snapshots...)
}

// fakeNotifier

type fakeNotifier struct {
	mu     sync.Mutex
	events []CartChangedEvent
	err    error
}

func (n *fakeNotifier) Publish(_ context.Context, event CartChangedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

// fakeOrderRepo

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]domain.Order
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[uuid.UUID]domain.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, e.Wrap(fmt.Sprintf("order %s", id), e.ErrOrderNotFound)
	}
	return &o, nil
}

func (r *fakeOrderRepo) ListBySession(_ context.Context, sessionID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.SessionID == sessionID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return e.ErrOrderNotFound
	}
	r.orders[order.ID] = *order
	return nil
}

// fakeOutboxRepo

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*OutboxEvent
	err    error
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	created := *event
	created.ID = int64(len(r.events) + 1)
	r.events = append(r.events, &created)
	return &created, nil
}

func (r *fakeOutboxRepo) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (r *fakeOutboxRepo) MarkAsProcessed(context.Context, int64) error {
	return nil
}
