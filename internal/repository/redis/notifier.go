package redis

import (
	"context"
	"encoding/json"

	"github.com/DRSN-tech/cart-backend/internal/cfg"
	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/clients"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/jimlawless/whereami"
)

// CartNotifier публикует изменения корзин в канал Redis Pub/Sub.
type CartNotifier struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
}

func NewCartNotifier(client *clients.RedisClient, cfg *cfg.RedisCfg) *CartNotifier {
	return &CartNotifier{client: client, cfg: cfg}
}

func (n *CartNotifier) Publish(ctx context.Context, event usecase.CartChangedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := n.client.Client.Publish(ctx, n.cfg.EventsChannel, data).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
