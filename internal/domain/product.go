package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// Product описывает товар каталога. После загрузки из статической конфигурации не изменяется.
type Product struct {
	ID           string
	Name         string
	Price        decimal.Decimal // Точная десятичная цена, без float
	CategoryName string
	ImageKey     string // Ключ объекта в MinIO
	ImageURL     string // Публичная ссылка на изображение, если ключа нет
	IsFeatured   bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func NewProduct(id string, name string, price decimal.Decimal, categoryName string) *Product {
	return &Product{
		ID:           id,
		Name:         name,
		Price:        price,
		CategoryName: categoryName,
	}
}

// Validate проверяет, что товар можно положить в корзину: непустой ID и неотрицательная цена.
func (p Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return e.Wrap("empty product id", e.ErrInvalidProduct)
	}

	if p.Price.IsNegative() {
		return e.Wrap(fmt.Sprintf("product %s has negative price %s", p.ID, p.Price), e.ErrInvalidProduct)
	}

	return nil
}
