package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"github.com/google/uuid"
)

// CartLocker даёт эксклюзивный доступ к корзине сессии.
type CartLocker interface {
	WithCart(ctx context.Context, sessionID string, fn func(ctx context.Context, cart *domain.CartAggregator) error) (*CartView, error)
}

// OrderUseCase оформляет заказы и ведёт их статусы. Каждое изменение заказа
// пишется в БД вместе с outbox-событием в одной транзакции.
type OrderUseCase struct {
	carts      CartLocker
	orderRepo  OrderRepository
	outboxRepo OutboxRepository
	txManager  TxManager
	logger     logger.Logger
	now        func() time.Time
}

func NewOrderUC(
	carts CartLocker,
	orderRepo OrderRepository,
	outboxRepo OutboxRepository,
	txManager TxManager,
	logger logger.Logger,
) *OrderUseCase {
	return &OrderUseCase{
		carts:      carts,
		orderRepo:  orderRepo,
		outboxRepo: outboxRepo,
		txManager:  txManager,
		logger:     logger,
		now:        time.Now,
	}
}

// PlaceOrder превращает корзину сессии в заказ. Корзина очищается только после коммита;
// при ошибке транзакции она остаётся нетронутой.
func (o *OrderUseCase) PlaceOrder(ctx context.Context, sessionID string) (*OrderInfo, error) {
	const op = "OrderUseCase.PlaceOrder"

	var order *domain.Order
	_, err := o.carts.WithCart(ctx, sessionID, func(ctx context.Context, cart *domain.CartAggregator) error {
		now := o.now().UTC()

		placed, err := domain.NewOrderFromCart(cart, now)
		if err != nil {
			return err
		}

		event, err := NewOrderOutboxEvent(OrderPlaced, placed, now)
		if err != nil {
			return err
		}

		err = o.txManager.WithinTx(ctx, func(ctx context.Context) error {
			if err := o.orderRepo.Create(ctx, placed); err != nil {
				return err
			}
			_, err := o.outboxRepo.Create(ctx, event)
			return err
		})
		if err != nil {
			return err
		}

		cart.ClearCart()
		order = placed
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.logger.Infof("Order %s placed: session %s, %d items, total %s",
		order.Number, order.SessionID, order.TotalItems, order.TotalPrice.StringFixed(2))

	return NewOrderInfo(order), nil
}

// ListOrders возвращает заказы сессии, новые первыми.
func (o *OrderUseCase) ListOrders(ctx context.Context, sessionID string) ([]OrderInfo, error) {
	const op = "OrderUseCase.ListOrders"

	if err := validateSessionID(sessionID); err != nil {
		return nil, e.Wrap(op, err)
	}

	orders, err := o.orderRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]OrderInfo, 0, len(orders))
	for i := range orders {
		result = append(result, *NewOrderInfo(&orders[i]))
	}

	return result, nil
}

func (o *OrderUseCase) GetOrder(ctx context.Context, id uuid.UUID) (*OrderInfo, error) {
	const op = "OrderUseCase.GetOrder"

	order, err := o.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewOrderInfo(order), nil
}

// UpdateOrderStatus переводит заказ на один шаг вперёд: processing -> in_transit -> delivered.
func (o *OrderUseCase) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*OrderInfo, error) {
	const op = "OrderUseCase.UpdateOrderStatus"

	var order *domain.Order
	err := o.txManager.WithinTx(ctx, func(ctx context.Context) error {
		current, err := o.orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		now := o.now().UTC()
		if err := current.Advance(status, now); err != nil {
			return err
		}

		if err := o.orderRepo.UpdateStatus(ctx, current); err != nil {
			return err
		}

		event, err := NewOrderOutboxEvent(OrderStatusChanged, current, now)
		if err != nil {
			return err
		}
		if _, err := o.outboxRepo.Create(ctx, event); err != nil {
			return err
		}

		order = current
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	o.logger.Infof("Order %s moved to %s", order.Number, order.Status)
	return NewOrderInfo(order), nil
}
