package http

import (
	"context"
	"net/http"
	"time"

	_ "github.com/DRSN-tech/cart-backend/docs" // Регистрация swagger-спецификации
	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// HealthCheck проверяет одну зависимость сервиса.
type HealthCheck func(ctx context.Context) error

type Router struct {
	router     *chi.Mux
	logger     logger.Logger
	swaggerURL string
}

func NewRouter(router *chi.Mux, logger logger.Logger, swaggerURL string) *Router {
	return &Router{router: router, logger: logger, swaggerURL: swaggerURL}
}

func (r *Router) Init(catalogUC usecase.CatalogUC, cartUC usecase.CartUC, orderUC usecase.OrderUC, checks map[string]HealthCheck) {
	r.router.Use(middleware.RequestID, middleware.RealIP, r.accessLog, middleware.Recoverer)

	r.router.Get("/healthz", r.healthz(checks))
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(r.swaggerURL), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerCatalogRoutes(v1, NewCatalogHandler(catalogUC, r.logger))
		registerOrderAdminRoutes(v1, NewOrderHandler(orderUC, r.logger))

		v1.Group(func(s chi.Router) {
			s.Use(requireSession)
			registerCartRoutes(s, NewCartHandler(cartUC, r.logger))
			registerOrderRoutes(s, NewOrderHandler(orderUC, r.logger))
		})
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Get("/products", h.listProducts)
	router.Get("/products/{productID}", h.getProduct)
	router.Get("/categories", h.listCategories)
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(c chi.Router) {
		c.Get("/", h.getCart)
		c.Delete("/", h.clearCart)
		c.Post("/items", h.addItem)
		c.Put("/items/{productID}", h.updateQuantity)
		c.Delete("/items/{productID}", h.removeItem)
	})

	router.Route("/favorites", func(f chi.Router) {
		f.Get("/", h.listFavorites)
		f.Get("/{productID}", h.isFavorite)
		f.Post("/{productID}/toggle", h.toggleFavorite)
	})
}

func registerOrderRoutes(router chi.Router, h *OrderHandler) {
	router.Post("/checkout", h.checkout)
	router.Get("/orders", h.listOrders)
	router.Get("/orders/{orderID}", h.getOrder)
}

// Смена статуса выполняется оператором доставки, а не покупателем, поэтому сессия не нужна.
func registerOrderAdminRoutes(router chi.Router, h *OrderHandler) {
	router.Patch("/orders/{orderID}/status", h.updateOrderStatus)
}

// healthz
//
//	@Summary	Проверка живости
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Failure	503	{object}	map[string]string
//	@Router		/healthz [get]
func (r *Router) healthz(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				r.logger.Warnf("health check %s failed: %v", name, err)
				result[name] = "down"
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}

		WriteSuccess(w, status, result)
	}
}

func (r *Router) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, req)

		r.logger.Debugf("%s %s %d %s [%s]",
			req.Method, req.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(req.Context()))
	})
}
