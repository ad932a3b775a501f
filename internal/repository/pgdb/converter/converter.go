package converter

import (
	"fmt"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует сущности Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func (ProductConverter) ToModel(entity *domain.Product) *ProductModel {
	return &ProductModel{
		ID:           entity.ID,
		Name:         entity.Name,
		Price:        entity.Price.StringFixed(2),
		CategoryName: entity.CategoryName,
		ImageKey:     entity.ImageKey,
		ImageURL:     entity.ImageURL,
		IsFeatured:   entity.IsFeatured,
		CreatedAt:    entity.CreatedAt,
		UpdatedAt:    entity.UpdatedAt,
	}
}

func (ProductConverter) ToEntity(model *ProductModel) (*domain.Product, error) {
	price, err := parsePrice(model.Price)
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", model.ID, err)
	}

	return &domain.Product{
		ID:           model.ID,
		Name:         model.Name,
		Price:        price,
		CategoryName: model.CategoryName,
		ImageKey:     model.ImageKey,
		ImageURL:     model.ImageURL,
		IsFeatured:   model.IsFeatured,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}, nil
}

func (c ProductConverter) ToArrEntity(models []ProductModel) ([]domain.Product, error) {
	result := make([]domain.Product, 0, len(models))
	for i := range models {
		p, err := c.ToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}

	return result, nil
}

// CategoryConverter преобразует сущности Category между domain и моделью PostgreSQL.
type CategoryConverter struct{}

func (CategoryConverter) ToModel(entity *domain.Category) *CategoryModel {
	return &CategoryModel{
		ID:         entity.ID,
		Name:       entity.Name,
		Icon:       entity.Icon,
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
		IsArchived: entity.IsArchived,
	}
}

func (CategoryConverter) ToEntity(model *CategoryModel) *domain.Category {
	return &domain.Category{
		ID:         model.ID,
		Name:       model.Name,
		Icon:       model.Icon,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
		IsArchived: model.IsArchived,
	}
}

// OrderConverter преобразует заказ и его позиции.
type OrderConverter struct{}

func (OrderConverter) ToModel(entity *domain.Order) (*OrderModel, []OrderItemModel) {
	items := make([]OrderItemModel, 0, len(entity.Items))
	for i, it := range entity.Items {
		items = append(items, OrderItemModel{
			OrderID:   entity.ID,
			Position:  i,
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		})
	}

	return &OrderModel{
		ID:         entity.ID,
		Number:     entity.Number,
		SessionID:  entity.SessionID,
		Status:     entity.Status.String(),
		TotalItems: entity.TotalItems,
		TotalPrice: entity.TotalPrice.StringFixed(2),
		CreatedAt:  entity.CreatedAt,
		UpdatedAt:  entity.UpdatedAt,
	}, items
}

// ToEntity собирает заказ. items должны быть отсортированы по position.
func (OrderConverter) ToEntity(model *OrderModel, items []OrderItemModel) (*domain.Order, error) {
	status, err := domain.ParseOrderStatus(model.Status)
	if err != nil {
		return nil, err
	}

	total, err := parsePrice(model.TotalPrice)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", model.ID, err)
	}

	order := &domain.Order{
		ID:         model.ID,
		Number:     model.Number,
		SessionID:  model.SessionID,
		Status:     status,
		Items:      make([]domain.OrderItem, 0, len(items)),
		TotalItems: model.TotalItems,
		TotalPrice: total,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}

	for _, it := range items {
		price, err := parsePrice(it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("order %s item %s: %w", model.ID, it.ProductID, err)
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: price,
			Quantity:  it.Quantity,
		})
	}

	return order, nil
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		AggregateID: entity.AggregateID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		AggregateID: model.AggregateID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}

	return result
}

func parsePrice(s string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, e.Wrap(fmt.Sprintf("price %q", s), e.ErrInvalidPrice)
	}

	return price, nil
}
