package http

import (
	"context"
	"sync"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var catalogFixture = map[string]usecase.ProductInfo{
	"birthday_kit": {ID: "birthday_kit", Name: "Kit de Cumpleaños", CategoryName: "Cumpleaños", Price: decimal.RequireFromString("45.00"), IsFeatured: true},
	"wedding_set":  {ID: "wedding_set", Name: "Set de Boda", CategoryName: "Bodas", Price: decimal.RequireFromString("65.00")},
}

type fakeCatalogUC struct{}

func (fakeCatalogUC) ListProducts(_ context.Context, filter usecase.ProductFilter) ([]usecase.ProductInfo, error) {
	var out []usecase.ProductInfo
	for _, id := range []string{"birthday_kit", "wedding_set"} {
		p := catalogFixture[id]
		if filter.Category != "" && p.CategoryName != filter.Category {
			continue
		}
		if filter.Featured != nil && p.IsFeatured != *filter.Featured {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (fakeCatalogUC) GetProduct(_ context.Context, id string) (*usecase.ProductInfo, error) {
	p, ok := catalogFixture[id]
	if !ok {
		return nil, e.Wrap(id, e.ErrProductNotFound)
	}
	return &p, nil
}

func (fakeCatalogUC) GetProducts(context.Context, []string) (*usecase.GetProductsRes, error) {
	return usecase.NewGetProductsRes(nil, nil), nil
}

func (fakeCatalogUC) ListCategories(context.Context) ([]usecase.CategoryInfo, error) {
	return []usecase.CategoryInfo{{Name: "Cumpleaños", Icon: "cake"}, {Name: "Bodas", Icon: "heart"}}, nil
}

// fakeCartUC держит корзины в памяти без версий и снимков.
type fakeCartUC struct {
	mu        sync.Mutex
	carts     map[string]map[string]int
	order     map[string][]string
	favorites map[string]map[string]bool
}

func newFakeCartUC() *fakeCartUC {
	return &fakeCartUC{
		carts:     make(map[string]map[string]int),
		order:     make(map[string][]string),
		favorites: make(map[string]map[string]bool),
	}
}

func (f *fakeCartUC) view(sessionID string) *usecase.CartView {
	v := &usecase.CartView{SessionID: sessionID, Items: []usecase.CartLine{}, TotalPrice: decimal.Zero}
	for _, id := range f.order[sessionID] {
		qty := f.carts[sessionID][id]
		p := catalogFixture[id]
		line := p.Price.Mul(decimal.NewFromInt(int64(qty)))
		v.Items = append(v.Items, usecase.CartLine{Product: p, Quantity: qty, LineTotal: line})
		v.TotalItems += qty
		v.TotalPrice = v.TotalPrice.Add(line)
	}
	v.Empty = v.TotalItems == 0
	return v
}

func (f *fakeCartUC) GetCart(_ context.Context, sessionID string) (*usecase.CartView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view(sessionID), nil
}

func (f *fakeCartUC) AddItem(_ context.Context, sessionID, productID string, delta int) (*usecase.CartView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if delta < 1 {
		return nil, e.ErrInvalidQuantity
	}
	if _, ok := catalogFixture[productID]; !ok {
		return nil, e.Wrap(productID, e.ErrProductNotFound)
	}
	if f.carts[sessionID][productID] > domain.MaxLineQuantity-delta {
		return nil, e.ErrInvalidQuantity
	}
	if f.carts[sessionID] == nil {
		f.carts[sessionID] = make(map[string]int)
	}
	if _, ok := f.carts[sessionID][productID]; !ok {
		f.order[sessionID] = append(f.order[sessionID], productID)
	}
	f.carts[sessionID][productID] += delta
	return f.view(sessionID), nil
}

func (f *fakeCartUC) RemoveItem(_ context.Context, sessionID, productID string) (*usecase.CartView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remove(sessionID, productID)
	return f.view(sessionID), nil
}

func (f *fakeCartUC) remove(sessionID, productID string) {
	delete(f.carts[sessionID], productID)
	kept := f.order[sessionID][:0]
	for _, id := range f.order[sessionID] {
		if id != productID {
			kept = append(kept, id)
		}
	}
	f.order[sessionID] = kept
}

func (f *fakeCartUC) UpdateQuantity(_ context.Context, sessionID, productID string, quantity int) (*usecase.CartView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.carts[sessionID][productID]; ok {
		if quantity <= 0 {
			f.remove(sessionID, productID)
		} else {
			f.carts[sessionID][productID] = quantity
		}
	}
	return f.view(sessionID), nil
}

func (f *fakeCartUC) ClearCart(_ context.Context, sessionID string) (*usecase.CartView, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, sessionID)
	delete(f.order, sessionID)
	return f.view(sessionID), nil
}

func (f *fakeCartUC) ToggleFavorite(_ context.Context, sessionID, productID string) (*usecase.FavoriteRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := catalogFixture[productID]; !ok {
		return nil, e.Wrap(productID, e.ErrProductNotFound)
	}
	if f.favorites[sessionID] == nil {
		f.favorites[sessionID] = make(map[string]bool)
	}
	f.favorites[sessionID][productID] = !f.favorites[sessionID][productID]
	return &usecase.FavoriteRes{ProductID: productID, IsFavorite: f.favorites[sessionID][productID]}, nil
}

func (f *fakeCartUC) IsFavorite(_ context.Context, sessionID, productID string) (*usecase.FavoriteRes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &usecase.FavoriteRes{ProductID: productID, IsFavorite: f.favorites[sessionID][productID]}, nil
}

func (f *fakeCartUC) ListFavorites(_ context.Context, sessionID string) ([]usecase.ProductInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []usecase.ProductInfo{}
	for _, id := range []string{"birthday_kit", "wedding_set"} {
		if f.favorites[sessionID][id] {
			out = append(out, catalogFixture[id])
		}
	}
	return out, nil
}

// fakeOrderUC оформляет заказы поверх fakeCartUC.
type fakeOrderUC struct {
	mu     sync.Mutex
	carts  *fakeCartUC
	orders map[uuid.UUID]*usecase.OrderInfo
}

func newFakeOrderUC(carts *fakeCartUC) *fakeOrderUC {
	return &fakeOrderUC{carts: carts, orders: make(map[uuid.UUID]*usecase.OrderInfo)}
}

func (f *fakeOrderUC) PlaceOrder(ctx context.Context, sessionID string) (*usecase.OrderInfo, error) {
	view, _ := f.carts.GetCart(ctx, sessionID)
	if view.Empty {
		return nil, e.Wrap("checkout", e.ErrEmptyCart)
	}

	info := &usecase.OrderInfo{
		ID:          uuid.New(),
		Number:      "ORD-TEST0001",
		SessionID:   sessionID,
		Status:      domain.OrderStatusProcessing,
		StatusTitle: "Processing",
		TotalItems:  view.TotalItems,
		TotalPrice:  view.TotalPrice,
	}
	for _, line := range view.Items {
		info.Items = append(info.Items, usecase.OrderItemInfo{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			UnitPrice: line.Product.Price,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal,
		})
	}
	_, _ = f.carts.ClearCart(ctx, sessionID)

	f.mu.Lock()
	f.orders[info.ID] = info
	f.mu.Unlock()
	return info, nil
}

func (f *fakeOrderUC) ListOrders(_ context.Context, sessionID string) ([]usecase.OrderInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []usecase.OrderInfo{}
	for _, o := range f.orders {
		if o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderUC) GetOrder(_ context.Context, id uuid.UUID) (*usecase.OrderInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, e.Wrap(id.String(), e.ErrOrderNotFound)
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderUC) UpdateOrderStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) (*usecase.OrderInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, e.Wrap(id.String(), e.ErrOrderNotFound)
	}
	next := map[domain.OrderStatus]domain.OrderStatus{
		domain.OrderStatusProcessing: domain.OrderStatusInTransit,
		domain.OrderStatusInTransit:  domain.OrderStatusDelivered,
	}
	if next[o.Status] != status {
		return nil, e.ErrInvalidStatusTransition
	}
	o.Status = status
	cp := *o
	return &cp, nil
}
