package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
)

const (
	maxSessionIDLen = 128
	restoreTimeout  = time.Second
)

// ProductFinder разрешает ID товаров в товары каталога.
type ProductFinder interface {
	FindProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProducts(ctx context.Context, ids []string) (*GetProductsRes, error)
	ImageURL(ctx context.Context, p domain.Product) string
}

// cartSession — корзина одной сессии под собственным мьютексом.
type cartSession struct {
	mu       sync.Mutex
	cart     *domain.CartAggregator
	loaded   bool
	evicted  bool
	lastSeen time.Time
}

// CartUseCase сериализует операции каждой сессии и отдаёт снимки на асинхронное сохранение.
type CartUseCase struct {
	products  ProductFinder
	cartRepo  CartRepository
	persister CartPersister
	notifier  CartNotifier
	logger    logger.Logger
	idleTTL   time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*cartSession
}

func NewCartUC(
	products ProductFinder,
	cartRepo CartRepository,
	persister CartPersister,
	notifier CartNotifier,
	logger logger.Logger,
	idleTTL time.Duration,
) *CartUseCase {
	return &CartUseCase{
		products:  products,
		cartRepo:  cartRepo,
		persister: persister,
		notifier:  notifier,
		logger:    logger,
		idleTTL:   idleTTL,
		now:       time.Now,
		sessions:  make(map[string]*cartSession),
	}
}

// GetCart возвращает корзину сессии.
func (c *CartUseCase) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	const op = "CartUseCase.GetCart"

	view, err := c.WithCart(ctx, sessionID, func(context.Context, *domain.CartAggregator) error {
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return view, nil
}

// AddItem добавляет товар delta раз. delta вне [1, MaxLineQuantity] или переполнение позиции
// отклоняются с e.ErrInvalidQuantity, корзина при этом не меняется.
func (c *CartUseCase) AddItem(ctx context.Context, sessionID, productID string, delta int) (*CartView, error) {
	const op = "CartUseCase.AddItem"

	if err := validateSessionID(sessionID); err != nil {
		return nil, e.Wrap(op, err)
	}
	if delta < 1 || delta > domain.MaxLineQuantity {
		return nil, e.Wrap(fmt.Sprintf("%s: delta %d", op, delta), e.ErrInvalidQuantity)
	}

	product, err := c.products.FindProduct(ctx, productID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	view, err := c.WithCart(ctx, sessionID, func(_ context.Context, cart *domain.CartAggregator) error {
		return cart.AddQuantity(*product, delta)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return view, nil
}

// RemoveItem удаляет позицию. Отсутствующая позиция ошибкой не считается.
func (c *CartUseCase) RemoveItem(ctx context.Context, sessionID, productID string) (*CartView, error) {
	const op = "CartUseCase.RemoveItem"

	view, err := c.WithCart(ctx, sessionID, func(_ context.Context, cart *domain.CartAggregator) error {
		cart.RemoveFromCart(productID)
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return view, nil
}

// UpdateQuantity задаёт количество позиции; quantity <= 0 удаляет её,
// quantity больше domain.MaxLineQuantity отклоняется с e.ErrInvalidQuantity.
func (c *CartUseCase) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error) {
	const op = "CartUseCase.UpdateQuantity"

	if strings.TrimSpace(productID) == "" {
		return nil, e.Wrap(op, e.ErrInvalidProduct)
	}

	view, err := c.WithCart(ctx, sessionID, func(_ context.Context, cart *domain.CartAggregator) error {
		return cart.UpdateQuantity(productID, quantity)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return view, nil
}

// ClearCart очищает корзину, избранное сохраняется.
func (c *CartUseCase) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	const op = "CartUseCase.ClearCart"

	view, err := c.WithCart(ctx, sessionID, func(_ context.Context, cart *domain.CartAggregator) error {
		cart.ClearCart()
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return view, nil
}

// ToggleFavorite переключает товар каталога в избранном.
func (c *CartUseCase) ToggleFavorite(ctx context.Context, sessionID, productID string) (*FavoriteRes, error) {
	const op = "CartUseCase.ToggleFavorite"

	if err := validateSessionID(sessionID); err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := c.products.FindProduct(ctx, productID); err != nil {
		return nil, e.Wrap(op, err)
	}

	var favorite bool
	_, err := c.WithCart(ctx, sessionID, func(_ context.Context, cart *domain.CartAggregator) error {
		favorite = cart.ToggleFavorite(productID)
		return nil
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &FavoriteRes{ProductID: productID, IsFavorite: favorite}, nil
}

func (c *CartUseCase) IsFavorite(ctx context.Context, sessionID, productID string) (*FavoriteRes, error) {
	const op = "CartUseCase.IsFavorite"

	var favorite bool
	err := c.read(ctx, sessionID, func(cart *domain.CartAggregator) {
		favorite = cart.IsFavorite(productID)
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return &FavoriteRes{ProductID: productID, IsFavorite: favorite}, nil
}

// ListFavorites возвращает избранные товары в порядке добавления. Исчезнувшие из каталога пропускаются.
func (c *CartUseCase) ListFavorites(ctx context.Context, sessionID string) ([]ProductInfo, error) {
	const op = "CartUseCase.ListFavorites"

	var ids []string
	err := c.read(ctx, sessionID, func(cart *domain.CartAggregator) {
		ids = cart.Favorites()
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(ids) == 0 {
		return []ProductInfo{}, nil
	}

	res, err := c.products.GetProducts(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(res.NotFoundProducts) > 0 {
		c.logger.Warnf("Favorites of session %s reference unknown products: %v", sessionID, res.NotFoundProducts)
	}

	return res.Products, nil
}

// WithCart выполняет fn под мьютексом сессии. Если fn изменила корзину,
// снимок отправляется на сохранение, а подписчики получают cart.changed.
// Ошибка fn возвращается как есть, снимок в этом случае не отправляется.
func (c *CartUseCase) WithCart(
	ctx context.Context,
	sessionID string,
	fn func(ctx context.Context, cart *domain.CartAggregator) error,
) (*CartView, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	view, changed, err := func() (*CartView, bool, error) {
		s, err := c.lock(ctx, sessionID)
		if err != nil {
			return nil, false, err
		}
		defer s.mu.Unlock()

		before := s.cart.Version()
		if err := fn(ctx, s.cart); err != nil {
			return nil, false, err
		}

		changed := s.cart.Version() != before
		if changed {
			c.persister.Enqueue(s.cart.Snapshot())
		}

		return NewCartView(s.cart, func(p domain.Product) string { return c.products.ImageURL(ctx, p) }), changed, nil
	}()
	if err != nil {
		return nil, err
	}

	if changed {
		c.notify(ctx, view)
	}

	return view, nil
}

// EvictIdle выгружает из памяти сессии, неактивные дольше idleTTL, чьё состояние уже сохранено.
// Занятые в данный момент сессии пропускаются.
func (c *CartUseCase) EvictIdle() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for id, s := range c.sessions {
		if !s.mu.TryLock() {
			continue
		}

		idle := now.Sub(s.lastSeen) >= c.idleTTL
		if idle && (!s.loaded || c.persister.Synced(id, s.cart.Version())) {
			s.evicted = true
			delete(c.sessions, id)
			c.persister.Forget(id)
			evicted++
		}
		s.mu.Unlock()
	}

	return evicted
}

// RunEviction периодически вызывает EvictIdle до отмены ctx.
func (c *CartUseCase) RunEviction(ctx context.Context) error {
	interval := c.idleTTL / 2
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := c.EvictIdle(); n > 0 {
				c.logger.Debugf("Evicted %d idle cart sessions", n)
			}
		}
	}
}

// ActiveSessions возвращает количество сессий в памяти.
func (c *CartUseCase) ActiveSessions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

func (c *CartUseCase) read(ctx context.Context, sessionID string, fn func(cart *domain.CartAggregator)) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}

	s, err := c.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()
	fn(s.cart)

	return nil
}

// lock возвращает захваченную сессию, при первом обращении восстанавливая её из хранилища.
// Если хранилище недоступно, сессия остаётся незагруженной и следующий вызов повторит загрузку.
func (c *CartUseCase) lock(ctx context.Context, sessionID string) (*cartSession, error) {
	for {
		s := c.session(sessionID)
		s.mu.Lock()
		if s.evicted {
			s.mu.Unlock()
			continue
		}

		if !s.loaded {
			cart, err := c.restore(ctx, sessionID)
			if err != nil {
				s.mu.Unlock()
				return nil, err
			}
			s.cart = cart
			s.loaded = true
		}
		s.lastSeen = c.now()

		return s, nil
	}
}

func (c *CartUseCase) session(sessionID string) *cartSession {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[sessionID]
	if !ok {
		s = &cartSession{}
		c.sessions[sessionID] = s
	}

	return s
}

// restore загружает снимок сессии. Отсутствующий снимок даёт пустую корзину.
// Нечитаемый снимок логируется и заменяется пустой корзиной, версии которой идут после него.
// Ошибка доступа к хранилищу возвращается как e.ErrServiceUnavailable.
func (c *CartUseCase) restore(ctx context.Context, sessionID string) (*domain.CartAggregator, error) {
	const op = "CartUseCase.restore"

	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
	defer cancel()

	snapshot, err := c.cartRepo.Load(loadCtx, sessionID)
	if err != nil {
		var broken *domain.SnapshotError
		if errors.As(err, &broken) {
			c.logger.Errorf(e.Wrap(op, err), "Broken cart snapshot of session %s, starting empty after v%d", sessionID, broken.Version)
			return domain.NewCartAggregatorAfter(sessionID, broken.Version), nil
		}
		c.logger.Warnf("Failed to load cart snapshot of session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%s: %w: %w", op, e.ErrServiceUnavailable, err)
	}
	if snapshot == nil {
		return domain.NewCartAggregator(sessionID), nil
	}

	cart, err := domain.RestoreCartAggregator(*snapshot)
	if err != nil {
		c.logger.Errorf(e.Wrap(op, err), "Broken cart snapshot of session %s, starting empty after v%d", sessionID, snapshot.Version)
		return domain.NewCartAggregatorAfter(sessionID, snapshot.Version), nil
	}

	return cart, nil
}

func (c *CartUseCase) notify(ctx context.Context, view *CartView) {
	if err := c.notifier.Publish(ctx, NewCartChangedEvent(view, c.now())); err != nil {
		c.logger.Warnf("Failed to publish cart.changed for session %s: %v", view.SessionID, err)
	}
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return e.ErrSessionRequired
	}
	if len(sessionID) > maxSessionIDLen {
		return e.Wrap(fmt.Sprintf("session id longer than %d", maxSessionIDLen), e.ErrSessionRequired)
	}

	return nil
}
