package http

import (
	"net/http"
	"strconv"

	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalogUsecase usecase.CatalogUC
	logger         logger.Logger
}

func NewCatalogHandler(catalogUsecase usecase.CatalogUC, logger logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalogUsecase: catalogUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает каталог с необязательными фильтрами по категории и признаку «рекомендуемый»
//	@Tags			catalog
//	@Produce		json
//	@Param			category	query		string	false	"Название категории"
//	@Param			featured	query		bool	false	"Только рекомендуемые"
//	@Success		200			{array}		ProductResponse
//	@Failure		400			{object}	ErrorResponse
//	@Router			/products [get]
func (c *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	filter := usecase.ProductFilter{Category: r.URL.Query().Get("category")}

	if raw := r.URL.Query().Get("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			writeFailure(w, c.logger, e.Wrap("featured="+raw, e.ErrStatusBadRequest))
			return
		}
		filter.Featured = &featured
	}

	products, err := c.catalogUsecase.ListProducts(r.Context(), filter)
	if err != nil {
		writeFailure(w, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductsResponse(products))
}

// getProduct
//
//	@Summary	Товар по ID
//	@Tags		catalog
//	@Produce	json
//	@Param		productID	path		string	true	"ID товара"
//	@Success	200			{object}	ProductResponse
//	@Failure	404			{object}	ErrorResponse
//	@Router		/products/{productID} [get]
func (c *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := c.catalogUsecase.GetProduct(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		writeFailure(w, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newProductResponse(*product))
}

// listCategories
//
//	@Summary	Список категорий
//	@Tags		catalog
//	@Produce	json
//	@Success	200	{array}	CategoryResponse
//	@Router		/categories [get]
func (c *CatalogHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalogUsecase.ListCategories(r.Context())
	if err != nil {
		writeFailure(w, c.logger, err)
		return
	}

	WriteSuccess(w, http.StatusOK, newCategoriesResponse(categories))
}

// writeFailure пишет ошибку в ответ и в лог: 4xx как предупреждение, 5xx как ошибку.
func writeFailure(w http.ResponseWriter, log logger.Logger, err error) {
	code, msg := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		log.Errorf(err, "%d %s", code, msg)
	} else {
		log.Warnf("%d %s: %s", code, msg, err.Error())
	}
	WriteError(w, err)
}
