package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type cartFixture struct {
	uc        *CartUseCase
	catalog   *CatalogUseCase
	products  *fakeProductRepo
	cartRepo  *fakeCartRepo
	persister *fakePersister
	notifier  *fakeNotifier
}

func newCartFixture() *cartFixture {
	products := newFakeProductRepo(
		testProduct("birthday_kit", "45.00", "Birthday"),
		testProduct("wedding_set", "65.00", "Wedding"),
		testProduct("balloons", "12.50", "Birthday"),
	)
	catalog := NewCatalogUC(products, &fakeCategoryRepo{}, newFakeCacheRepo(), &fakeImageRepo{}, &fakeTx{}, logger.NewNopLogger())
	cartRepo := newFakeCartRepo()
	persister := &fakePersister{repo: cartRepo}
	notifier := &fakeNotifier{}

	return &cartFixture{
		uc:        NewCartUC(catalog, cartRepo, persister, notifier, logger.NewNopLogger(), time.Minute),
		catalog:   catalog,
		products:  products,
		cartRepo:  cartRepo,
		persister: persister,
		notifier:  notifier,
	}
}

func TestCartUseCase_AddItem_Totals(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	if _, err := f.uc.AddItem(ctx, "s1", "birthday_kit", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, err := f.uc.AddItem(ctx, "s1", "wedding_set", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.catalog.Wait()

	if view.TotalItems != 3 {
		t.Fatalf("expected 3 items, got %d", view.TotalItems)
	}
	if view.TotalPrice.StringFixed(2) != "175.00" {
		t.Fatalf("expected 175.00, got %s", view.TotalPrice.StringFixed(2))
	}
	if view.Empty {
		t.Fatal("expected non-empty cart")
	}
	if len(view.Items) != 2 || view.Items[1].Quantity != 2 || !view.Items[1].LineTotal.Equal(decimal.RequireFromString("130")) {
		t.Fatalf("unexpected lines %+v", view.Items)
	}
}

func TestCartUseCase_AddItem_Errors(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	tests := []struct {
		name      string
		sessionID string
		productID string
		delta     int
		want      error
	}{
		{name: "zero delta", sessionID: "s1", productID: "balloons", delta: 0, want: e.ErrInvalidQuantity},
		{name: "negative delta", sessionID: "s1", productID: "balloons", delta: -2, want: e.ErrInvalidQuantity},
		{name: "unknown product", sessionID: "s1", productID: "ghost", delta: 1, want: e.ErrProductNotFound},
		{name: "missing session", sessionID: "", productID: "balloons", delta: 1, want: e.ErrSessionRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.uc.AddItem(ctx, tt.sessionID, tt.productID, tt.delta); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	f.catalog.Wait()

	if got := len(f.persister.all()); got != 0 {
		t.Fatalf("expected no snapshots for rejected operations, got %d", got)
	}
}

func TestCartUseCase_PersistsAndNotifiesOnlyOnChange(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.uc.AddItem(ctx, "s1", "balloons", 1)
	_, _ = f.uc.AddItem(ctx, "s1", "balloons", 1)
	_, _ = f.uc.GetCart(ctx, "s1")
	_, _ = f.uc.RemoveItem(ctx, "s1", "never_added")
	_, _ = f.uc.UpdateQuantity(ctx, "s1", "never_added", 5)
	_, _ = f.uc.UpdateQuantity(ctx, "s1", "balloons", 0)
	f.catalog.Wait()

	snaps := f.persister.all()
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Version <= snaps[i-1].Version {
			t.Fatalf("expected increasing versions, got %d after %d", snaps[i].Version, snaps[i-1].Version)
		}
	}
	if f.notifier.count() != 3 {
		t.Fatalf("expected 3 notifications, got %d", f.notifier.count())
	}
	if last := f.notifier.events[2]; last.TotalItems != 0 || !last.TotalPrice.IsZero() {
		t.Fatalf("expected empty totals in last event, got %+v", last)
	}
}

func TestCartUseCase_NotifierFailureDoesNotFail(t *testing.T) {
	f := newCartFixture()
	f.notifier.err = errBoom

	view, err := f.uc.AddItem(context.Background(), "s1", "balloons", 1)
	if err != nil {
		t.Fatalf("expected publish failure to be ignored, got %v", err)
	}
	f.catalog.Wait()
	if view.TotalItems != 1 {
		t.Fatalf("expected 1 item, got %d", view.TotalItems)
	}
}

func TestCartUseCase_RestoresSnapshotOnFirstAccess(t *testing.T) {
	f := newCartFixture()
	f.cartRepo.snapshots["s1"] = domain.CartSnapshot{
		SessionID: "s1",
		Version:   7,
		Items:     []domain.LineItem{{Product: testProduct("balloons", "12.50", "Birthday"), Quantity: 2}},
		Favorites: []string{"wedding_set"},
	}

	view, err := f.uc.GetCart(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalItems != 2 || view.Version != 7 {
		t.Fatalf("expected restored cart with 2 items at v7, got %d at v%d", view.TotalItems, view.Version)
	}

	fav, _ := f.uc.IsFavorite(context.Background(), "s1", "wedding_set")
	if !fav.IsFavorite {
		t.Fatal("expected restored favorite")
	}
	if f.cartRepo.loads != 1 {
		t.Fatalf("expected a single load, got %d", f.cartRepo.loads)
	}
}

func TestCartUseCase_RestoreUnavailableIsRetried(t *testing.T) {
	f := newCartFixture()
	f.cartRepo.snapshots["s1"] = domain.CartSnapshot{
		SessionID: "s1",
		Version:   50,
		Items:     []domain.LineItem{{Product: testProduct("balloons", "12.50", "Birthday"), Quantity: 4}},
	}
	f.cartRepo.loadErr = errBoom
	ctx := context.Background()

	if _, err := f.uc.AddItem(ctx, "s1", "birthday_kit", 1); !errors.Is(err, e.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
	if _, err := f.uc.GetCart(ctx, "s1"); !errors.Is(err, errBoom) {
		t.Fatalf("expected load error kept in chain, got %v", err)
	}
	if got := len(f.persister.all()); got != 0 {
		t.Fatalf("expected nothing persisted while storage is down, got %d", got)
	}

	f.cartRepo.loadErr = nil
	view, err := f.uc.AddItem(ctx, "s1", "birthday_kit", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalItems != 5 || view.Version <= 50 {
		t.Fatalf("expected restored cart plus new item after v50, got %d items at v%d", view.TotalItems, view.Version)
	}
	f.catalog.Wait()
	if saved := f.cartRepo.snapshots["s1"]; saved.Version != view.Version || len(saved.Items) != 2 {
		t.Fatalf("expected new snapshot stored, got v%d with %d lines", saved.Version, len(saved.Items))
	}
}

func TestCartUseCase_BrokenSnapshotStartsAfterStoredVersion(t *testing.T) {
	tests := []struct {
		name  string
		setup func(r *fakeCartRepo)
	}{
		{name: "unreadable", setup: func(r *fakeCartRepo) {
			r.loadErr = e.Wrap("load", &domain.SnapshotError{Version: 50, Err: errBoom})
		}},
		{name: "invalid line item", setup: func(r *fakeCartRepo) {
			r.snapshots["s1"] = domain.CartSnapshot{
				SessionID: "s1",
				Version:   50,
				Items:     []domain.LineItem{{Product: testProduct("balloons", "12.50", "Birthday"), Quantity: 0}},
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture()
			tt.setup(f.cartRepo)

			view, err := f.uc.AddItem(context.Background(), "s1", "birthday_kit", 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if view.TotalItems != 1 || view.Version != 51 {
				t.Fatalf("expected 1 item at v51, got %d at v%d", view.TotalItems, view.Version)
			}
		})
	}
}

func TestCartUseCase_ConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	const n = 100
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, err := f.uc.AddItem(ctx, "s1", "balloons", 1)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.catalog.Wait()

	view, err := f.uc.GetCart(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != n {
		t.Fatalf("expected 1 line with quantity %d, got %+v", n, view.Items)
	}

	// последний сохранённый снимок совпадает с состоянием в памяти
	saved := f.cartRepo.snapshots["s1"]
	if saved.Version != view.Version || saved.Items[0].Quantity != n {
		t.Fatalf("expected persisted v%d with %d, got v%d", view.Version, n, saved.Version)
	}
}

func TestCartUseCase_Favorites(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	if _, err := f.uc.ToggleFavorite(ctx, "s1", "ghost"); !errors.Is(err, e.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	for _, id := range []string{"wedding_set", "balloons", "birthday_kit"} {
		res, err := f.uc.ToggleFavorite(ctx, "s1", id)
		if err != nil || !res.IsFavorite {
			t.Fatalf("expected %s favorite, got %+v (%v)", id, res, err)
		}
	}
	res, _ := f.uc.ToggleFavorite(ctx, "s1", "balloons")
	if res.IsFavorite {
		t.Fatal("expected balloons removed from favorites")
	}

	list, err := f.uc.ListFavorites(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.catalog.Wait()
	if len(list) != 2 || list[0].ID != "wedding_set" || list[1].ID != "birthday_kit" {
		t.Fatalf("expected [wedding_set birthday_kit], got %+v", list)
	}

	empty, err := f.uc.ListFavorites(ctx, "s2")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty favorites, got %v (%v)", empty, err)
	}
}

func TestCartUseCase_ClearCartKeepsFavorites(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.uc.AddItem(ctx, "s1", "balloons", 3)
	_, _ = f.uc.ToggleFavorite(ctx, "s1", "balloons")

	view, err := f.uc.ClearCart(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f.catalog.Wait()
	if !view.Empty || view.TotalItems != 0 || !view.TotalPrice.IsZero() {
		t.Fatalf("expected empty cart, got %+v", view)
	}

	fav, _ := f.uc.IsFavorite(ctx, "s1", "balloons")
	if !fav.IsFavorite {
		t.Fatal("expected favorite kept")
	}
}

func TestCartUseCase_SessionsAreIsolated(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()

	_, _ = f.uc.AddItem(ctx, "s1", "balloons", 2)
	view, _ := f.uc.GetCart(ctx, "s2")
	f.catalog.Wait()

	if !view.Empty {
		t.Fatalf("expected s2 empty, got %d items", view.TotalItems)
	}
}

func TestCartUseCase_EvictIdle(t *testing.T) {
	f := newCartFixture()
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	f.uc.now = func() time.Time { return now }

	_, _ = f.uc.AddItem(ctx, "s1", "balloons", 2)
	_, _ = f.uc.GetCart(ctx, "s2")
	f.catalog.Wait()

	if n := f.uc.EvictIdle(); n != 0 {
		t.Fatalf("expected nothing evicted before ttl, got %d", n)
	}

	now = now.Add(2 * time.Minute)
	f.persister.unsynced = true
	if n := f.uc.EvictIdle(); n != 1 {
		t.Fatalf("expected only the empty session evicted while unsynced, got %d", n)
	}

	f.persister.unsynced = false
	if n := f.uc.EvictIdle(); n != 1 {
		t.Fatalf("expected s1 evicted once synced, got %d", n)
	}
	if f.uc.ActiveSessions() != 0 {
		t.Fatalf("expected no sessions in memory, got %d", f.uc.ActiveSessions())
	}

	view, err := f.uc.GetCart(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalItems != 2 {
		t.Fatalf("expected evicted session restored with 2 items, got %d", view.TotalItems)
	}
}

func TestCartUseCase_QuantityBounds(t *testing.T) {
	tests := []struct {
		name    string
		call    func(uc *CartUseCase) error
		wantErr bool
		want    int
	}{
		{name: "add to limit", call: func(uc *CartUseCase) error {
			_, err := uc.AddItem(context.Background(), "s1", "birthday_kit", domain.MaxLineQuantity-2)
			return err
		}, want: domain.MaxLineQuantity},
		{name: "add past limit", call: func(uc *CartUseCase) error {
			_, err := uc.AddItem(context.Background(), "s1", "birthday_kit", domain.MaxLineQuantity-1)
			return err
		}, wantErr: true, want: 2},
		{name: "add delta above limit", call: func(uc *CartUseCase) error {
			_, err := uc.AddItem(context.Background(), "s1", "birthday_kit", domain.MaxLineQuantity+1)
			return err
		}, wantErr: true, want: 2},
		{name: "add max int", call: func(uc *CartUseCase) error {
			_, err := uc.AddItem(context.Background(), "s1", "birthday_kit", math.MaxInt)
			return err
		}, wantErr: true, want: 2},
		{name: "set to limit", call: func(uc *CartUseCase) error {
			_, err := uc.UpdateQuantity(context.Background(), "s1", "birthday_kit", domain.MaxLineQuantity)
			return err
		}, want: domain.MaxLineQuantity},
		{name: "set max int", call: func(uc *CartUseCase) error {
			_, err := uc.UpdateQuantity(context.Background(), "s1", "birthday_kit", math.MaxInt)
			return err
		}, wantErr: true, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture()
			ctx := context.Background()
			if _, err := f.uc.AddItem(ctx, "s1", "birthday_kit", 2); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			f.catalog.Wait()
			snapshots := len(f.persister.all())

			err := tt.call(f.uc)
			if tt.wantErr {
				if !errors.Is(err, e.ErrInvalidQuantity) {
					t.Fatalf("expected ErrInvalidQuantity, got %v", err)
				}
				if got := len(f.persister.all()); got != snapshots {
					t.Fatalf("expected no snapshot for rejected change, got %d", got-snapshots)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			view, _ := f.uc.GetCart(ctx, "s1")
			if view.Empty || view.TotalItems != tt.want {
				t.Fatalf("expected %d items, got %d (empty=%v)", tt.want, view.TotalItems, view.Empty)
			}
		})
	}
}
