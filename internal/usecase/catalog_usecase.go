package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
)

const cacheFillTimeout = 500 * time.Millisecond

// CatalogUseCase отдаёт статический каталог товаров: PostgreSQL как источник, Redis как кэш.
type CatalogUseCase struct {
	productRepo  ProductRepository
	categoryRepo CategoryRepository
	cacheRepo    CacheRepository
	imageRepo    ImageRepository
	txManager    TxManager
	logger       logger.Logger
	bg           sync.WaitGroup
}

func NewCatalogUC(
	productRepo ProductRepository,
	categoryRepo CategoryRepository,
	cacheRepo CacheRepository,
	imageRepo ImageRepository,
	txManager TxManager,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cacheRepo:    cacheRepo,
		imageRepo:    imageRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// SeedCatalog идемпотентно загружает категории и товары в одной транзакции.
// После коммита устаревшие записи удаляются из кэша.
func (c *CatalogUseCase) SeedCatalog(ctx context.Context, seed *CatalogSeed) error {
	const op = "CatalogUseCase.SeedCatalog"

	if err := validateSeed(seed); err != nil {
		return e.Wrap(op, err)
	}

	err := c.txManager.WithinTx(ctx, func(ctx context.Context) error {
		categoryIDs := make(map[string]int64, len(seed.Categories))
		for _, cs := range seed.Categories {
			category, err := c.categoryRepo.Upsert(ctx, domain.NewCategory(cs.Name, cs.Icon))
			if err != nil {
				return err
			}
			categoryIDs[category.Name] = category.ID
		}

		for _, ps := range seed.Products {
			product := domain.NewProduct(ps.ID, ps.Name, ps.Price, ps.Category)
			product.ImageKey = ps.ImageKey
			product.ImageURL = ps.ImageURL
			product.IsFeatured = ps.IsFeatured

			if err := c.productRepo.Upsert(ctx, product, categoryIDs[ps.Category]); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	ids := make([]string, 0, len(seed.Products))
	for _, ps := range seed.Products {
		ids = append(ids, ps.ID)
	}
	if err := c.cacheRepo.DeleteProducts(ctx, ids); err != nil {
		c.logger.Warnf("Failed to invalidate products cache: %v", e.Wrap(op, err))
	}

	c.logger.Infof("Catalog seeded: %d categories, %d products", len(seed.Categories), len(seed.Products))
	return nil
}

// ListProducts возвращает товары каталога с учётом фильтра.
func (c *CatalogUseCase) ListProducts(ctx context.Context, filter ProductFilter) ([]ProductInfo, error) {
	const op = "CatalogUseCase.ListProducts"

	products, err := c.productRepo.List(ctx, filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]ProductInfo, 0, len(products))
	for _, p := range products {
		result = append(result, NewProductInfo(p, c.ImageURL(ctx, p)))
	}

	return result, nil
}

// GetProduct возвращает один товар или e.ErrProductNotFound.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id string) (*ProductInfo, error) {
	const op = "CatalogUseCase.GetProduct"

	product, err := c.FindProduct(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	info := NewProductInfo(*product, c.ImageURL(ctx, *product))
	return &info, nil
}

// GetProducts возвращает товары по идентификаторам в порядке запроса.
func (c *CatalogUseCase) GetProducts(ctx context.Context, ids []string) (*GetProductsRes, error) {
	const op = "CatalogUseCase.GetProducts"

	if len(ids) == 0 {
		return nil, e.Wrap(op, e.ErrStatusBadRequest)
	}

	found, err := c.lookup(ctx, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]ProductInfo, 0, len(ids))
	notFound := make([]string, 0)
	for _, id := range ids {
		if p, ok := found[id]; ok {
			result = append(result, NewProductInfo(p, c.ImageURL(ctx, p)))
		} else {
			notFound = append(notFound, id)
		}
	}

	return NewGetProductsRes(result, notFound), nil
}

// FindProduct возвращает доменный товар для операций корзины.
func (c *CatalogUseCase) FindProduct(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, e.Wrap("empty product id", e.ErrInvalidProduct)
	}

	found, err := c.lookup(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	product, ok := found[id]
	if !ok {
		return nil, e.Wrap(fmt.Sprintf("product %s", id), e.ErrProductNotFound)
	}

	return &product, nil
}

// ListCategories возвращает активные категории.
func (c *CatalogUseCase) ListCategories(ctx context.Context) ([]CategoryInfo, error) {
	const op = "CatalogUseCase.ListCategories"

	categories, err := c.categoryRepo.List(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	result := make([]CategoryInfo, 0, len(categories))
	for _, cat := range categories {
		result = append(result, NewCategoryInfo(cat))
	}

	return result, nil
}

// ImageURL возвращает ссылку на изображение товара: presigned-ссылку MinIO для image_key,
// иначе публичную ссылку из каталога.
func (c *CatalogUseCase) ImageURL(ctx context.Context, p domain.Product) string {
	if p.ImageKey == "" || c.imageRepo == nil {
		return p.ImageURL
	}

	url, err := c.imageRepo.PresignedURL(ctx, p.ImageKey)
	if err != nil {
		c.logger.Warnf("Failed to presign image %s of product %s: %v", p.ImageKey, p.ID, err)
		return p.ImageURL
	}

	return url
}

// Wait дожидается фоновых записей в кэш.
func (c *CatalogUseCase) Wait() {
	c.bg.Wait()
}

// lookup ищет товары сначала в кэше, затем в БД. Найденные в БД товары кэшируются в фоне.
func (c *CatalogUseCase) lookup(ctx context.Context, ids []string) (map[string]domain.Product, error) {
	const op = "CatalogUseCase.lookup"

	cached, err := c.cacheRepo.GetProducts(ctx, ids)
	if err != nil {
		cached = nil
	}

	result := make(map[string]domain.Product, len(ids))
	queued := make(map[string]struct{})
	var nonCacheable []string
	for _, id := range ids {
		if p, ok := cached[id]; ok {
			result[id] = p
			continue
		}
		if _, ok := queued[id]; !ok {
			queued[id] = struct{}{}
			nonCacheable = append(nonCacheable, id)
		}
	}

	if len(nonCacheable) == 0 {
		return result, nil
	}

	fromDB, err := c.productRepo.GetByIDs(ctx, nonCacheable)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	for _, p := range fromDB {
		result[p.ID] = p
	}

	if len(fromDB) > 0 {
		c.bg.Add(1)
		go func() {
			defer c.bg.Done()
			bgCtx, cancel := context.WithTimeout(context.Background(), cacheFillTimeout)
			defer cancel()

			if err := c.cacheRepo.SetProducts(bgCtx, fromDB); err != nil {
				c.logger.Warnf("Failed to cache products in background: %v", e.Wrap(op, err))
			}
		}()
	}

	return result, nil
}

// validateSeed проверяет статический каталог до записи в БД.
func validateSeed(seed *CatalogSeed) error {
	if seed == nil || len(seed.Products) == 0 {
		return e.Wrap("catalog seed has no products", e.ErrStatusBadRequest)
	}

	categories := make(map[string]struct{}, len(seed.Categories))
	for _, cs := range seed.Categories {
		if strings.TrimSpace(cs.Name) == "" {
			return e.Wrap("category with empty name", e.ErrStatusBadRequest)
		}
		categories[cs.Name] = struct{}{}
	}

	ids := make(map[string]struct{}, len(seed.Products))
	for _, ps := range seed.Products {
		product := domain.NewProduct(ps.ID, ps.Name, ps.Price, ps.Category)
		if err := product.Validate(); err != nil {
			return err
		}
		if strings.TrimSpace(ps.Name) == "" {
			return e.Wrap(fmt.Sprintf("product %s has empty name", ps.ID), e.ErrInvalidProduct)
		}
		if !ps.Price.Equal(ps.Price.Round(2)) {
			return e.Wrap(fmt.Sprintf("product %s price %s", ps.ID, ps.Price), e.ErrPricePrecision)
		}
		if _, ok := categories[ps.Category]; !ok {
			return e.Wrap(fmt.Sprintf("product %s references unknown category %q", ps.ID, ps.Category), e.ErrStatusBadRequest)
		}
		if _, dup := ids[ps.ID]; dup {
			return e.Wrap(fmt.Sprintf("duplicate product id %s", ps.ID), e.ErrInvalidProduct)
		}
		ids[ps.ID] = struct{}{}
	}

	return nil
}
