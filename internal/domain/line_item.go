package domain

import "github.com/shopspring/decimal"

// MaxLineQuantity ограничивает количество одного товара в корзине.
const MaxLineQuantity = 9999

// LineItem — позиция корзины: товар и его количество (всегда >= 1).
type LineItem struct {
	Product  Product
	Quantity int
}

// LineTotal возвращает цену позиции: price * quantity.
func (li LineItem) LineTotal() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
