package http

import (
	"net/http"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orderUsecase usecase.OrderUC
	logger       logger.Logger
}

func NewOrderHandler(orderUsecase usecase.OrderUC, logger logger.Logger) *OrderHandler {
	return &OrderHandler{orderUsecase: orderUsecase, logger: logger}
}

// checkout
//
//	@Summary		Оформить заказ
//	@Description	Превращает корзину сессии в заказ и очищает её. Избранное сохраняется
//	@Tags			orders
//	@Produce		json
//	@Param			X-Session-ID	header		string	true	"ID сессии"
//	@Success		201				{object}	OrderResponse
//	@Failure		409				{object}	ErrorResponse	"Корзина пуста"
//	@Router			/checkout [post]
func (o *OrderHandler) checkout(w http.ResponseWriter, r *http.Request) {
	order, err := o.orderUsecase.PlaceOrder(r.Context(), sessionFromCtx(r.Context()))
	if err != nil {
		writeFailure(w, o.logger, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, newOrderResponse(order))
}

// listOrders
//
//	@Summary	Заказы сессии
//	@Tags		orders
//	@Produce	json
//	@Param		X-Session-ID	header	string	true	"ID сессии"
//	@Success	200				{array}	OrderResponse
//	@Router		/orders [get]
func (o *OrderHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := o.orderUsecase.ListOrders(r.Context(), sessionFromCtx(r.Context()))
	if err != nil {
		writeFailure(w, o.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrdersResponse(orders))
}

// getOrder
//
//	@Summary	Заказ по ID
//	@Tags		orders
//	@Produce	json
//	@Param		X-Session-ID	header		string	true	"ID сессии"
//	@Param		orderID			path		string	true	"ID заказа"
//	@Success	200				{object}	OrderResponse
//	@Failure	404				{object}	ErrorResponse
//	@Router		/orders/{orderID} [get]
func (o *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		writeFailure(w, o.logger, err)
		return
	}

	order, err := o.orderUsecase.GetOrder(r.Context(), id)
	if err != nil {
		writeFailure(w, o.logger, err)
		return
	}

	// чужой заказ неотличим от несуществующего
	if order.SessionID != sessionFromCtx(r.Context()) {
		writeFailure(w, o.logger, e.Wrap(id.String(), e.ErrOrderNotFound))
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderResponse(order))
}

// updateOrderStatus
//
//	@Summary		Сменить статус заказа
//	@Description	Допустимы только переходы processing → in_transit → delivered
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			orderID	path		string				true	"ID заказа"
//	@Param			request	body		UpdateStatusRequest	true	"Новый статус"
//	@Success		200		{object}	OrderResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse	"Недопустимый переход"
//	@Router			/orders/{orderID}/status [patch]
func (o *OrderHandler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		writeFailure(w, o.logger, err)
		return
	}

	var req UpdateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, o.logger, err)
		return
	}

	status, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		writeFailure(w, o.logger, err)
		return
	}

	order, err := o.orderUsecase.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		writeFailure(w, o.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newOrderResponse(order))
}

func orderIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "orderID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, e.Wrap("order id "+raw, e.ErrStatusBadRequest)
	}
	return id, nil
}
