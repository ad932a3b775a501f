package usecase

import (
	"context"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/google/uuid"
)

type CatalogUC interface {
	ListProducts(ctx context.Context, filter ProductFilter) ([]ProductInfo, error)
	GetProduct(ctx context.Context, id string) (*ProductInfo, error)
	GetProducts(ctx context.Context, ids []string) (*GetProductsRes, error)
	ListCategories(ctx context.Context) ([]CategoryInfo, error)
}

type CartUC interface {
	GetCart(ctx context.Context, sessionID string) (*CartView, error)
	AddItem(ctx context.Context, sessionID, productID string, delta int) (*CartView, error)
	RemoveItem(ctx context.Context, sessionID, productID string) (*CartView, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error)
	ClearCart(ctx context.Context, sessionID string) (*CartView, error)
	ToggleFavorite(ctx context.Context, sessionID, productID string) (*FavoriteRes, error)
	IsFavorite(ctx context.Context, sessionID, productID string) (*FavoriteRes, error)
	ListFavorites(ctx context.Context, sessionID string) ([]ProductInfo, error)
}

type OrderUC interface {
	PlaceOrder(ctx context.Context, sessionID string) (*OrderInfo, error)
	ListOrders(ctx context.Context, sessionID string) ([]OrderInfo, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderInfo, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*OrderInfo, error)
}
