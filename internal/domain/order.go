package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusInTransit  OrderStatus = "in_transit"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// orderStatusFlow задаёт единственный допустимый следующий статус.
var orderStatusFlow = map[OrderStatus]OrderStatus{
	OrderStatusProcessing: OrderStatusInTransit,
	OrderStatusInTransit:  OrderStatusDelivered,
}

var orderStatusTitles = map[OrderStatus]string{
	OrderStatusProcessing: "Processing",
	OrderStatusInTransit:  "In Transit",
	OrderStatusDelivered:  "Delivered",
}

// ParseOrderStatus разбирает статус из строки. Регистр и пробелы не важны.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := orderStatusTitles[status]; !ok {
		return "", e.Wrap(fmt.Sprintf("status %q", s), e.ErrUnknownOrderStatus)
	}

	return status, nil
}

// CanTransitionTo разрешает только переход на один шаг вперёд.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	allowed, ok := orderStatusFlow[s]
	return ok && allowed == next
}

// Title возвращает человекочитаемое название статуса.
func (s OrderStatus) Title() string {
	return orderStatusTitles[s]
}

func (s OrderStatus) String() string {
	return string(s)
}

// OrderItem — позиция заказа. Цена и название копируются из корзины в момент оформления.
type OrderItem struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (oi OrderItem) LineTotal() decimal.Decimal {
	return oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

// Order — оформленный заказ сессии.
type Order struct {
	ID         uuid.UUID
	Number     string
	SessionID  string
	Status     OrderStatus
	Items      []OrderItem
	TotalItems int
	TotalPrice decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// NewOrderFromCart формирует заказ в статусе processing из текущего содержимого корзины.
func NewOrderFromCart(cart *CartAggregator, now time.Time) (*Order, error) {
	if cart.IsEmpty() {
		return nil, e.Wrap("domain.NewOrderFromCart", e.ErrEmptyCart)
	}

	lines := cart.Items()
	items := make([]OrderItem, 0, len(lines))
	for _, li := range lines {
		items = append(items, OrderItem{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			UnitPrice: li.Product.Price,
			Quantity:  li.Quantity,
		})
	}

	id := uuid.New()
	return &Order{
		ID:         id,
		Number:     OrderNumber(id),
		SessionID:  cart.SessionID(),
		Status:     OrderStatusProcessing,
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
		CreatedAt:  now,
	}, nil
}

// OrderNumber строит номер заказа вида ORD-1A2B3C4D из первых символов UUID.
func OrderNumber(id uuid.UUID) string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// Advance переводит заказ в следующий статус.
func (o *Order) Advance(next OrderStatus, now time.Time) error {
	if !o.Status.CanTransitionTo(next) {
		return e.Wrap(fmt.Sprintf("order %s: %s -> %s", o.Number, o.Status, next), e.ErrInvalidStatusTransition)
	}

	o.Status = next
	o.UpdatedAt = &now
	return nil
}
