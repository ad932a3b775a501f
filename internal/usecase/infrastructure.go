package usecase

import (
	"context"

	"github.com/DRSN-tech/cart-backend/internal/domain"
)

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// CartPersister асинхронно сохраняет снимки корзин.
type CartPersister interface {
	Enqueue(snapshot domain.CartSnapshot)
	// Synced сообщает, что версия version сессии уже записана и новых снимков в очереди нет.
	Synced(sessionID string, version int64) bool
	Forget(sessionID string)
}

type CartNotifier interface {
	Publish(ctx context.Context, event CartChangedEvent) error
}

// TxManager выполняет fn в одной транзакции БД.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
