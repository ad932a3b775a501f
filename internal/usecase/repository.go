package usecase

import (
	"context"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/google/uuid"
)

type ProductRepository interface {
	Upsert(ctx context.Context, product *domain.Product, categoryID int64) error
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

type CategoryRepository interface {
	Upsert(ctx context.Context, category *domain.Category) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
}

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, order *domain.Order) error
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

// CacheRepository — кэш товаров каталога. Ошибки кэша не должны ломать чтение каталога.
type CacheRepository interface {
	GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
	DeleteProducts(ctx context.Context, ids []string) error
}

// CartRepository хранит снимки корзин. Load возвращает nil без ошибки, если снимка нет.
type CartRepository interface {
	Load(ctx context.Context, sessionID string) (*domain.CartSnapshot, error)
	Save(ctx context.Context, snapshot domain.CartSnapshot) error
}

type ImageRepository interface {
	PresignedURL(ctx context.Context, key string) (string, error)
}
