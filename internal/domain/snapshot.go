package domain

import (
	"fmt"

	"github.com/DRSN-tech/cart-backend/pkg/e"
)

// CartSnapshot — сериализуемая копия состояния сессии для внешнего хранилища.
type CartSnapshot struct {
	SessionID string
	Version   int64
	Items     []LineItem
	Favorites []string
}

// Snapshot делает глубокую копию текущего состояния.
func (c *CartAggregator) Snapshot() CartSnapshot {
	return CartSnapshot{
		SessionID: c.sessionID,
		Version:   c.version,
		Items:     c.Items(),
		Favorites: c.Favorites(),
	}
}

// SnapshotError сообщает, что сохранённый снимок не читается.
// Version содержит версию снимка в хранилище, если её удалось прочитать.
type SnapshotError struct {
	Version int64
	Err     error
}

func (s *SnapshotError) Error() string {
	return fmt.Sprintf("cart snapshot v%d: %v", s.Version, s.Err)
}

func (s *SnapshotError) Unwrap() []error {
	return []error{e.ErrSnapshotBroken, s.Err}
}

// NewCartAggregatorAfter создаёт пустую корзину, версии которой продолжают version.
// Первое же изменение такой корзины новее снимка в хранилище.
func NewCartAggregatorAfter(sessionID string, version int64) *CartAggregator {
	c := NewCartAggregator(sessionID)
	if version > 0 {
		c.version = version
	}
	return c
}

// RestoreCartAggregator восстанавливает сессию из снимка, проверяя инварианты позиций.
func RestoreCartAggregator(s CartSnapshot) (*CartAggregator, error) {
	const op = "domain.RestoreCartAggregator"

	c := NewCartAggregator(s.SessionID)
	seen := make(map[string]struct{}, len(s.Items))
	for _, item := range s.Items {
		if err := item.Product.Validate(); err != nil {
			return nil, e.Wrap(op, err)
		}
		if item.Quantity < 1 || item.Quantity > MaxLineQuantity {
			return nil, e.Wrap(fmt.Sprintf("%s: product %s quantity %d", op, item.Product.ID, item.Quantity), e.ErrInvalidQuantity)
		}
		if _, dup := seen[item.Product.ID]; dup {
			return nil, e.Wrap(fmt.Sprintf("%s: duplicate product %s", op, item.Product.ID), e.ErrInvalidProduct)
		}
		seen[item.Product.ID] = struct{}{}
		c.items = append(c.items, item)
	}

	for _, id := range s.Favorites {
		if !c.favorites.Contains(id) {
			c.favorites.Toggle(id)
		}
	}
	c.version = s.Version

	return c, nil
}
