package usecase

import (
	"encoding/json"
	"time"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CATALOG USECASE

// ProductFilter — фильтр выдачи каталога. Пустые поля не ограничивают выборку.
type ProductFilter struct {
	Category string
	Featured *bool
}

// ProductInfo — DTO товара для внешнего использования, с уже разрешённой ссылкой на изображение.
type ProductInfo struct {
	ID           string
	Name         string
	CategoryName string
	Price        decimal.Decimal
	ImageURL     string
	IsFeatured   bool
}

// GetProductsRes содержит найденные товары и ID, которых нет в каталоге.
type GetProductsRes struct {
	Products         []ProductInfo
	NotFoundProducts []string
}

type CategoryInfo struct {
	Name string
	Icon string
}

// CatalogSeed — статический каталог, загружаемый при старте.
type CatalogSeed struct {
	Categories []CategorySeed
	Products   []ProductSeed
}

type CategorySeed struct {
	Name string
	Icon string
}

type ProductSeed struct {
	ID         string
	Name       string
	Price      decimal.Decimal
	Category   string
	ImageKey   string
	ImageURL   string
	IsFeatured bool
}

// CART USECASE

// CartLine описывает позицию корзины в ответе.
type CartLine struct {
	Product   ProductInfo
	Quantity  int
	LineTotal decimal.Decimal
}

// CartView — состояние корзины сессии с производными итогами.
type CartView struct {
	SessionID  string
	Items      []CartLine
	TotalItems int
	TotalPrice decimal.Decimal
	Empty      bool
	Version    int64
}

type FavoriteRes struct {
	ProductID  string
	IsFavorite bool
}

// CartChangedEvent публикуется после каждого изменения корзины.
type CartChangedEvent struct {
	SessionID  string          `json:"session_id"`
	Version    int64           `json:"version"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// ORDER USECASE

type OrderItemInfo struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

type OrderInfo struct {
	ID          uuid.UUID
	Number      string
	SessionID   string
	Status      domain.OrderStatus
	StatusTitle string
	Items       []OrderItemInfo
	TotalItems  int
	TotalPrice  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// INFRASTRUCTURE

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	OrderPlaced        OutboxEventType = "order.placed"
	OrderStatusChanged OutboxEventType = "order.status_changed"
)

// OutboxEvent — событие, записанное в той же транзакции, что и изменение заказа.
type OutboxEvent struct {
	ID          int64
	EventID     uuid.UUID
	EventType   OutboxEventType
	AggregateID string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// OrderEventPayload — тело событий заказа в outbox и Kafka.
type OrderEventPayload struct {
	EventID    string           `json:"event_id"`
	EventType  OutboxEventType  `json:"event_type"`
	OrderID    string           `json:"order_id"`
	Number     string           `json:"number"`
	SessionID  string           `json:"session_id"`
	Status     string           `json:"status"`
	TotalItems int              `json:"total_items"`
	TotalPrice decimal.Decimal  `json:"total_price"`
	Items      []OrderEventItem `json:"items,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type OrderEventItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// WriteRawMessageReq: готовое к отправке сообщение. Headers уходят заголовками Kafka.
type WriteRawMessageReq struct {
	Key     string
	Payload []byte
	Headers map[string]string
}

// MAPPERS

func NewProductInfo(p domain.Product, imageURL string) ProductInfo {
	return ProductInfo{
		ID:           p.ID,
		Name:         p.Name,
		CategoryName: p.CategoryName,
		Price:        p.Price,
		ImageURL:     imageURL,
		IsFeatured:   p.IsFeatured,
	}
}

func NewGetProductsRes(products []ProductInfo, notFoundProducts []string) *GetProductsRes {
	return &GetProductsRes{
		Products:         products,
		NotFoundProducts: notFoundProducts,
	}
}

func NewCategoryInfo(c domain.Category) CategoryInfo {
	return CategoryInfo{Name: c.Name, Icon: c.Icon}
}

// NewCartView строит представление корзины. imageURL разрешает ссылку на изображение товара.
func NewCartView(cart *domain.CartAggregator, imageURL func(domain.Product) string) *CartView {
	items := cart.Items()
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			Product:   NewProductInfo(item.Product, imageURL(item.Product)),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal(),
		})
	}

	return &CartView{
		SessionID:  cart.SessionID(),
		Items:      lines,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
		Empty:      cart.IsEmpty(),
		Version:    cart.Version(),
	}
}

func NewCartChangedEvent(view *CartView, now time.Time) CartChangedEvent {
	return CartChangedEvent{
		SessionID:  view.SessionID,
		Version:    view.Version,
		TotalItems: view.TotalItems,
		TotalPrice: view.TotalPrice,
		OccurredAt: now,
	}
}

func NewOrderInfo(o *domain.Order) *OrderInfo {
	items := make([]OrderItemInfo, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemInfo{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal(),
		})
	}

	return &OrderInfo{
		ID:          o.ID,
		Number:      o.Number,
		SessionID:   o.SessionID,
		Status:      o.Status,
		StatusTitle: o.Status.Title(),
		Items:       items,
		TotalItems:  o.TotalItems,
		TotalPrice:  o.TotalPrice,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// NewOrderOutboxEvent собирает outbox-событие заказа с JSON-телом.
func NewOrderOutboxEvent(eventType OutboxEventType, o *domain.Order, now time.Time) (*OutboxEvent, error) {
	eventID := uuid.New()

	payload := OrderEventPayload{
		EventID:    eventID.String(),
		EventType:  eventType,
		OrderID:    o.ID.String(),
		Number:     o.Number,
		SessionID:  o.SessionID,
		Status:     o.Status.String(),
		TotalItems: o.TotalItems,
		TotalPrice: o.TotalPrice,
		OccurredAt: now,
	}
	if eventType == OrderPlaced {
		for _, it := range o.Items {
			payload.Items = append(payload.Items, OrderEventItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:     eventID,
		EventType:   eventType,
		AggregateID: o.ID.String(),
		Payload:     data,
		Status:      Pending,
		CreatedAt:   now,
	}, nil
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

// NewOutboxMessageReq строит сообщение из outbox-события: ключом служит ID заказа, тип и ID события идут в заголовках.
func NewOutboxMessageReq(event *OutboxEvent) *WriteRawMessageReq {
	req := NewWriteRawMessageReq(event.AggregateID, event.Payload)
	req.Headers = map[string]string{
		"event_type": string(event.EventType),
		"event_id":   event.EventID.String(),
	}
	return req
}
