package http

import (
	"time"

	"github.com/DRSN-tech/cart-backend/internal/usecase"
)

// Цены во всех ответах передаются строками с двумя знаками после запятой.

type ProductResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Price      string `json:"price" example:"45.00"`
	ImageURL   string `json:"image_url"`
	IsFeatured bool   `json:"is_featured"`
}

type CategoryResponse struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type CartLineResponse struct {
	Product   ProductResponse `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal string          `json:"line_total" example:"130.00"`
}

type CartResponse struct {
	Items      []CartLineResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice string             `json:"total_price" example:"175.00"`
	Empty      bool               `json:"empty"`
}

type FavoriteResponse struct {
	ProductID  string `json:"product_id"`
	IsFavorite bool   `json:"is_favorite"`
}

type OrderItemResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type OrderResponse struct {
	ID          string              `json:"id"`
	Number      string              `json:"number" example:"ORD-1A2B3C4D"`
	Status      string              `json:"status" example:"processing"`
	StatusTitle string              `json:"status_title" example:"Processing"`
	Items       []OrderItemResponse `json:"items"`
	TotalItems  int                 `json:"total_items"`
	TotalPrice  string              `json:"total_price"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at,omitempty"`
}

type AddItemRequest struct {
	ProductID string `json:"productId" example:"birthday_kit"`
	Delta     *int   `json:"delta,omitempty" example:"1"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" example:"3"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" example:"in_transit"`
}

func newProductResponse(p usecase.ProductInfo) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.CategoryName,
		Price:      p.Price.StringFixed(2),
		ImageURL:   p.ImageURL,
		IsFeatured: p.IsFeatured,
	}
}

func newProductsResponse(products []usecase.ProductInfo) []ProductResponse {
	result := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, newProductResponse(p))
	}
	return result
}

func newCategoriesResponse(categories []usecase.CategoryInfo) []CategoryResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategoryResponse{Name: c.Name, Icon: c.Icon})
	}
	return result
}

func newCartResponse(v *usecase.CartView) CartResponse {
	items := make([]CartLineResponse, 0, len(v.Items))
	for _, line := range v.Items {
		items = append(items, CartLineResponse{
			Product:   newProductResponse(line.Product),
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal.StringFixed(2),
		})
	}

	return CartResponse{
		Items:      items,
		TotalItems: v.TotalItems,
		TotalPrice: v.TotalPrice.StringFixed(2),
		Empty:      v.Empty,
	}
}

func newOrderResponse(o *usecase.OrderInfo) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal.StringFixed(2),
		})
	}

	return OrderResponse{
		ID:          o.ID.String(),
		Number:      o.Number,
		Status:      o.Status.String(),
		StatusTitle: o.StatusTitle,
		Items:       items,
		TotalItems:  o.TotalItems,
		TotalPrice:  o.TotalPrice.StringFixed(2),
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func newOrdersResponse(orders []usecase.OrderInfo) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, newOrderResponse(&orders[i]))
	}
	return result
}
