package http

import (
	"fmt"
	"net/http"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartUsecase usecase.CartUC
	logger      logger.Logger
}

func NewCartHandler(cartUsecase usecase.CartUC, logger logger.Logger) *CartHandler {
	return &CartHandler{cartUsecase: cartUsecase, logger: logger}
}

// getCart
//
//	@Summary	Корзина сессии
//	@Tags		cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"ID сессии"
//	@Success	200				{object}	CartResponse
//	@Failure	400				{object}	ErrorResponse
//	@Router		/cart [get]
func (c *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	view, err := c.cartUsecase.GetCart(r.Context(), sessionFromCtx(r.Context()))
	c.respond(w, view, err)
}

// addItem
//
//	@Summary		Добавить товар в корзину
//	@Description	delta по умолчанию 1, не больше 9999 на позицию; повторное добавление увеличивает количество
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string			true	"ID сессии"
//	@Param			request			body		AddItemRequest	true	"Товар и количество"
//	@Success		200				{object}	CartResponse
//	@Failure		400				{object}	ErrorResponse
//	@Failure		404				{object}	ErrorResponse
//	@Router			/cart/items [post]
func (c *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, c.logger, err)
		return
	}

	delta := 1
	if req.Delta != nil {
		delta = *req.Delta
	}
	if delta < 1 || delta > domain.MaxLineQuantity {
		writeFailure(w, c.logger, e.Wrap(fmt.Sprintf("delta %d out of [1, %d]", delta, domain.MaxLineQuantity), e.ErrInvalidQuantity))
		return
	}

	view, err := c.cartUsecase.AddItem(r.Context(), sessionFromCtx(r.Context()), req.ProductID, delta)
	c.respond(w, view, err)
}

// updateQuantity
//
//	@Summary		Задать количество позиции
//	@Description	Количество 0 или меньше удаляет позицию; отсутствующая позиция не создаётся
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string					true	"ID сессии"
//	@Param			productID		path		string					true	"ID товара"
//	@Param			request			body		UpdateQuantityRequest	true	"Новое количество"
//	@Success		200				{object}	CartResponse
//	@Failure		400				{object}	ErrorResponse
//	@Router			/cart/items/{productID} [put]
func (c *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, c.logger, err)
		return
	}
	if req.Quantity == nil {
		writeFailure(w, c.logger, e.Wrap("quantity is required", e.ErrInvalidRequestBody))
		return
	}
	if *req.Quantity > domain.MaxLineQuantity {
		writeFailure(w, c.logger, e.Wrap(fmt.Sprintf("quantity %d above %d", *req.Quantity, domain.MaxLineQuantity), e.ErrInvalidQuantity))
		return
	}

	view, err := c.cartUsecase.UpdateQuantity(r.Context(), sessionFromCtx(r.Context()), chi.URLParam(r, "productID"), *req.Quantity)
	c.respond(w, view, err)
}

// removeItem
//
//	@Summary	Удалить позицию из корзины
//	@Tags		cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"ID сессии"
//	@Param		productID		path		string	true	"ID товара"
//	@Success	200				{object}	CartResponse
//	@Router		/cart/items/{productID} [delete]
func (c *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	view, err := c.cartUsecase.RemoveItem(r.Context(), sessionFromCtx(r.Context()), chi.URLParam(r, "productID"))
	c.respond(w, view, err)
}

// clearCart
//
//	@Summary	Очистить корзину
//	@Tags		cart
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"ID сессии"
//	@Success	200				{object}	CartResponse
//	@Router		/cart [delete]
func (c *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	view, err := c.cartUsecase.ClearCart(r.Context(), sessionFromCtx(r.Context()))
	c.respond(w, view, err)
}

// listFavorites
//
//	@Summary	Избранное
//	@Tags		favorites
//	@Produce	json
//	@Param		X-Session-ID	header	string	true	"ID сессии"
//	@Success	200				{array}	ProductResponse
//	@Router		/favorites [get]
func (c *CartHandler) listFavorites(w http.ResponseWriter, r *http.Request) {
	products, err := c.cartUsecase.ListFavorites(r.Context(), sessionFromCtx(r.Context()))
	if err != nil {
		writeFailure(w, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductsResponse(products))
}

// isFavorite
//
//	@Summary	Товар в избранном?
//	@Tags		favorites
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"ID сессии"
//	@Param		productID		path		string	true	"ID товара"
//	@Success	200				{object}	FavoriteResponse
//	@Router		/favorites/{productID} [get]
func (c *CartHandler) isFavorite(w http.ResponseWriter, r *http.Request) {
	res, err := c.cartUsecase.IsFavorite(r.Context(), sessionFromCtx(r.Context()), chi.URLParam(r, "productID"))
	c.respondFavorite(w, res, err)
}

// toggleFavorite
//
//	@Summary	Добавить в избранное или убрать из него
//	@Tags		favorites
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"ID сессии"
//	@Param		productID		path		string	true	"ID товара"
//	@Success	200				{object}	FavoriteResponse
//	@Failure	404				{object}	ErrorResponse
//	@Router		/favorites/{productID}/toggle [post]
func (c *CartHandler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	res, err := c.cartUsecase.ToggleFavorite(r.Context(), sessionFromCtx(r.Context()), chi.URLParam(r, "productID"))
	c.respondFavorite(w, res, err)
}

func (c *CartHandler) respond(w http.ResponseWriter, view *usecase.CartView, err error) {
	if err != nil {
		writeFailure(w, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCartResponse(view))
}

func (c *CartHandler) respondFavorite(w http.ResponseWriter, res *usecase.FavoriteRes, err error) {
	if err != nil {
		writeFailure(w, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, FavoriteResponse{ProductID: res.ProductID, IsFavorite: res.IsFavorite})
}
