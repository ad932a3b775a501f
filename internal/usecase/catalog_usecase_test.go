package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type catalogFixture struct {
	uc       *CatalogUseCase
	products *fakeProductRepo
	cats     *fakeCategoryRepo
	cache    *fakeCacheRepo
	images   *fakeImageRepo
	tx       *fakeTx
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		products: newFakeProductRepo(),
		cats:     &fakeCategoryRepo{},
		cache:    newFakeCacheRepo(),
		images:   &fakeImageRepo{},
		tx:       &fakeTx{},
	}
	f.uc = NewCatalogUC(f.products, f.cats, f.cache, f.images, f.tx, logger.NewNopLogger())
	return f
}

func TestCatalogUseCase_GetProducts_CacheThenDatabase(t *testing.T) {
	f := newCatalogFixture()
	a := testProduct("birthday_kit", "45.00", "Birthday")
	b := testProduct("wedding_set", "65.00", "Wedding")
	f.cache.products[a.ID] = a
	f.products.products[a.ID] = a
	f.products.products[b.ID] = b

	res, err := f.uc.GetProducts(context.Background(), []string{"wedding_set", "birthday_kit", "ghost"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.uc.Wait()

	if len(res.Products) != 2 || res.Products[0].ID != "wedding_set" || res.Products[1].ID != "birthday_kit" {
		t.Fatalf("expected [wedding_set birthday_kit], got %+v", res.Products)
	}
	if len(res.NotFoundProducts) != 1 || res.NotFoundProducts[0] != "ghost" {
		t.Fatalf("expected [ghost] not found, got %v", res.NotFoundProducts)
	}

	if len(f.products.lookups) != 1 || strings.Join(f.products.lookups[0], ",") != "wedding_set,ghost" {
		t.Fatalf("expected database lookup of cache misses only, got %v", f.products.lookups)
	}
	if !f.cache.has("wedding_set") {
		t.Fatal("expected wedding_set cached in background")
	}
}

func TestCatalogUseCase_GetProducts_CacheFailureFallsBack(t *testing.T) {
	f := newCatalogFixture()
	f.cache.getErr = errBoom
	f.products.products["cups"] = testProduct("cups", "3.00", "Birthday")

	res, err := f.uc.GetProducts(context.Background(), []string{"cups"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.uc.Wait()

	if len(res.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(res.Products))
	}
}

func TestCatalogUseCase_GetProducts_Errors(t *testing.T) {
	f := newCatalogFixture()

	if _, err := f.uc.GetProducts(context.Background(), nil); !errors.Is(err, e.ErrStatusBadRequest) {
		t.Fatalf("expected ErrStatusBadRequest, got %v", err)
	}

	f.products.err = errBoom
	if _, err := f.uc.GetProducts(context.Background(), []string{"a"}); !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
}

func TestCatalogUseCase_GetProduct(t *testing.T) {
	f := newCatalogFixture()
	f.products.products["cups"] = testProduct("cups", "3.00", "Birthday")

	got, err := f.uc.GetProduct(context.Background(), "cups")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.uc.Wait()
	if got.ID != "cups" || !got.Price.Equal(decimal.RequireFromString("3")) {
		t.Fatalf("unexpected product %+v", got)
	}

	if _, err := f.uc.GetProduct(context.Background(), "ghost"); !errors.Is(err, e.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if _, err := f.uc.GetProduct(context.Background(), " "); !errors.Is(err, e.ErrInvalidProduct) {
		t.Fatalf("expected ErrInvalidProduct, got %v", err)
	}
}

func TestCatalogUseCase_ImageURL(t *testing.T) {
	f := newCatalogFixture()
	ctx := context.Background()

	withKey := testProduct("a", "1.00", "Birthday")
	withKey.ImageKey = "birthday/kit.jpg"
	withKey.ImageURL = "https://images.pexels.com/photos/1.jpeg"

	if got := f.uc.ImageURL(ctx, withKey); !strings.HasPrefix(got, "https://minio.local/product-images/birthday/kit.jpg") {
		t.Fatalf("expected presigned url, got %s", got)
	}

	f.images.err = errBoom
	if got := f.uc.ImageURL(ctx, withKey); got != withKey.ImageURL {
		t.Fatalf("expected fallback to public url, got %s", got)
	}

	public := testProduct("b", "1.00", "Birthday")
	public.ImageURL = "https://images.pexels.com/photos/2.jpeg"
	if got := f.uc.ImageURL(ctx, public); got != public.ImageURL {
		t.Fatalf("expected public url, got %s", got)
	}
}

func TestCatalogUseCase_ListProducts(t *testing.T) {
	f := newCatalogFixture()
	featured := testProduct("a", "1.00", "Birthday")
	featured.IsFeatured = true
	f.products.products["a"] = featured
	f.products.products["b"] = testProduct("b", "2.00", "Birthday")
	f.products.products["c"] = testProduct("c", "3.00", "Wedding")

	yes := true
	tests := []struct {
		name   string
		filter ProductFilter
		want   string
	}{
		{name: "all", filter: ProductFilter{}, want: "a,b,c"},
		{name: "category", filter: ProductFilter{Category: "Birthday"}, want: "a,b"},
		{name: "featured", filter: ProductFilter{Featured: &yes}, want: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.uc.ListProducts(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if strings.Join(ids, ",") != tt.want {
				t.Fatalf("expected %s, got %v", tt.want, ids)
			}
		})
	}
}

func validSeed() *CatalogSeed {
	return &CatalogSeed{
		Categories: []CategorySeed{{Name: "Birthday", Icon: "gift"}, {Name: "Wedding", Icon: "heart"}},
		Products: []ProductSeed{
			{ID: "birthday_kit", Name: "Birthday Kit", Price: decimal.RequireFromString("45.00"), Category: "Birthday", IsFeatured: true},
			{ID: "wedding_set", Name: "Wedding Set", Price: decimal.RequireFromString("65.00"), Category: "Wedding"},
		},
	}
}

func TestCatalogUseCase_SeedCatalog(t *testing.T) {
	f := newCatalogFixture()
	f.cache.products["birthday_kit"] = testProduct("birthday_kit", "40.00", "Birthday")

	if err := f.uc.SeedCatalog(context.Background(), validSeed()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.tx.calls != 1 {
		t.Fatalf("expected 1 transaction, got %d", f.tx.calls)
	}
	if len(f.cats.categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(f.cats.categories))
	}
	if f.products.catIDs["wedding_set"] != 2 {
		t.Fatalf("expected wedding_set in category 2, got %d", f.products.catIDs["wedding_set"])
	}
	if !f.products.products["birthday_kit"].IsFeatured {
		t.Fatal("expected featured flag stored")
	}
	if f.cache.has("birthday_kit") {
		t.Fatal("expected stale cache entry invalidated")
	}

	// повторная загрузка идемпотентна
	if err := f.uc.SeedCatalog(context.Background(), validSeed()); err != nil {
		t.Fatalf("unexpected error on reseed: %v", err)
	}
	if len(f.cats.categories) != 2 || len(f.products.products) != 2 {
		t.Fatalf("expected reseed to keep 2/2, got %d/%d", len(f.cats.categories), len(f.products.products))
	}
}

func TestCatalogUseCase_SeedCatalog_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *CatalogSeed)
		want   error
	}{
		{name: "negative price", mutate: func(s *CatalogSeed) { s.Products[0].Price = decimal.RequireFromString("-1") }, want: e.ErrInvalidProduct},
		{name: "empty id", mutate: func(s *CatalogSeed) { s.Products[0].ID = "" }, want: e.ErrInvalidProduct},
		{name: "empty name", mutate: func(s *CatalogSeed) { s.Products[0].Name = " " }, want: e.ErrInvalidProduct},
		{name: "sub-cent price", mutate: func(s *CatalogSeed) { s.Products[0].Price = decimal.RequireFromString("1.005") }, want: e.ErrPricePrecision},
		{name: "unknown category", mutate: func(s *CatalogSeed) { s.Products[0].Category = "Funeral" }, want: e.ErrStatusBadRequest},
		{name: "duplicate id", mutate: func(s *CatalogSeed) { s.Products[1].ID = s.Products[0].ID }, want: e.ErrInvalidProduct},
		{name: "no products", mutate: func(s *CatalogSeed) { s.Products = nil }, want: e.ErrStatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCatalogFixture()
			seed := validSeed()
			tt.mutate(seed)

			err := f.uc.SeedCatalog(context.Background(), seed)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if f.tx.calls != 0 {
				t.Fatal("expected no transaction for invalid seed")
			}
		})
	}
}

func TestCatalogUseCase_SeedCatalog_TxFailure(t *testing.T) {
	f := newCatalogFixture()
	f.tx.err = errBoom

	if err := f.uc.SeedCatalog(context.Background(), validSeed()); !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(f.cache.deleted) != 0 {
		t.Fatal("expected cache untouched after failed seed")
	}
}
