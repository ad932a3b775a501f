package domain

import (
	"fmt"

	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// CartAggregator хранит корзину и избранное одной сессии и считает итоги.
//
// Корзина хранит упорядоченный список позиций, не более одной позиции на товар.
// Порядок добавления сохраняется для отображения и не влияет на итоги.
// Тип не потокобезопасен: конкурентный доступ сериализует вызывающая сторона.
type CartAggregator struct {
	sessionID string
	items     []LineItem
	favorites *FavoriteSet
	version   int64 // растёт при каждом реальном изменении состояния
}

func NewCartAggregator(sessionID string) *CartAggregator {
	return &CartAggregator{
		sessionID: sessionID,
		favorites: NewFavoriteSet(),
	}
}

func (c *CartAggregator) SessionID() string {
	return c.sessionID
}

func (c *CartAggregator) Version() int64 {
	return c.version
}

// AddToCart увеличивает количество товара на 1 или добавляет новую позицию в конец корзины.
// Товар с пустым ID или отрицательной ценой отклоняется с e.ErrInvalidProduct, состояние не меняется.
func (c *CartAggregator) AddToCart(product Product) error {
	return c.AddQuantity(product, 1)
}

// AddQuantity равносильна n вызовам AddToCart, но выполняется одним шагом.
// n < 1 или итог больше MaxLineQuantity отклоняются с e.ErrInvalidQuantity, состояние не меняется.
func (c *CartAggregator) AddQuantity(product Product, n int) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if n < 1 || n > MaxLineQuantity {
		return e.Wrap(fmt.Sprintf("add %d of %s", n, product.ID), e.ErrInvalidQuantity)
	}

	if i := c.indexOf(product.ID); i >= 0 {
		if c.items[i].Quantity > MaxLineQuantity-n {
			return e.Wrap(fmt.Sprintf("%s: %d + %d exceeds %d", product.ID, c.items[i].Quantity, n, MaxLineQuantity), e.ErrInvalidQuantity)
		}
		c.items[i].Quantity += n
	} else {
		c.items = append(c.items, LineItem{Product: product, Quantity: n})
	}
	c.version++

	return nil
}

// RemoveFromCart удаляет позицию товара. Отсутствующий товар ошибкой не считается.
func (c *CartAggregator) RemoveFromCart(productID string) {
	i := c.indexOf(productID)
	if i < 0 {
		return
	}

	c.items = append(c.items[:i], c.items[i+1:]...)
	c.version++
}

// UpdateQuantity задаёт количество существующей позиции.
// quantity <= 0 удаляет позицию. Для товара, которого нет в корзине, ничего не происходит.
// quantity больше MaxLineQuantity отклоняется с e.ErrInvalidQuantity.
func (c *CartAggregator) UpdateQuantity(productID string, quantity int) error {
	if quantity > MaxLineQuantity {
		return e.Wrap(fmt.Sprintf("set %s to %d", productID, quantity), e.ErrInvalidQuantity)
	}
	if quantity <= 0 {
		c.RemoveFromCart(productID)
		return nil
	}

	i := c.indexOf(productID)
	if i < 0 || c.items[i].Quantity == quantity {
		return nil
	}

	c.items[i].Quantity = quantity
	c.version++

	return nil
}

// TotalItems возвращает сумму количеств всех позиций.
func (c *CartAggregator) TotalItems() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}

	return total
}

// TotalPrice считает сумму price * quantity по всем позициям в точной десятичной арифметике.
func (c *CartAggregator) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}

	return total
}

// ToggleFavorite переключает товар в избранном и возвращает новое состояние.
func (c *CartAggregator) ToggleFavorite(productID string) bool {
	on := c.favorites.Toggle(productID)
	c.version++
	return on
}

func (c *CartAggregator) IsFavorite(productID string) bool {
	return c.favorites.Contains(productID)
}

func (c *CartAggregator) Favorites() []string {
	return c.favorites.IDs()
}

// ClearCart очищает корзину. Избранное не трогается.
func (c *CartAggregator) ClearCart() {
	if len(c.items) == 0 {
		return
	}

	c.items = nil
	c.version++
}

func (c *CartAggregator) IsEmpty() bool {
	return len(c.items) == 0
}

// Items возвращает копию позиций в порядке добавления.
func (c *CartAggregator) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item возвращает позицию товара, если она есть.
func (c *CartAggregator) Item(productID string) (LineItem, bool) {
	i := c.indexOf(productID)
	if i < 0 {
		return LineItem{}, false
	}

	return c.items[i], true
}

func (c *CartAggregator) indexOf(productID string) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}

	return -1
}
