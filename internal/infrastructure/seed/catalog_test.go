package seed

import (
	"errors"
	"testing"

	"github.com/DRSN-tech/cart-backend/pkg/e"
)

func TestParseCatalog(t *testing.T) {
	data := []byte(`
categories:
  - name: "Cumpleaños"
    icon: "birthday.cake"
products:
  - id: birthday_kit
    name: "Kit Decoración Cumpleaños Premium"
    price: "45.00"
    category: "Cumpleaños"
    image_url: "https://images.pexels.com/photos/1464208/pexels-photo-1464208.jpeg"
    featured: true
  - id: candy_table
    name: "Mesa de Dulces"
    price: "0.10"
    category: "Cumpleaños"
    image_key: "birthday/candy_table.jpg"
`)

	seed, err := ParseCatalog(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seed.Categories) != 1 || seed.Categories[0].Icon != "birthday.cake" {
		t.Fatalf("unexpected categories %+v", seed.Categories)
	}
	if len(seed.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(seed.Products))
	}

	kit := seed.Products[0]
	if kit.ID != "birthday_kit" || !kit.IsFeatured || kit.Price.StringFixed(2) != "45.00" {
		t.Fatalf("unexpected product %+v", kit)
	}
	if candy := seed.Products[1]; candy.ImageKey != "birthday/candy_table.jpg" || candy.Price.String() != "0.1" {
		t.Fatalf("unexpected product %+v", candy)
	}
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{
			name: "unknown field",
			data: "products:\n  - id: a\n    cost: 1\n",
			want: e.ErrStatusBadRequest,
		},
		{
			name: "bad price",
			data: "products:\n  - id: a\n    price: \"12,50\"\n",
			want: e.ErrInvalidPrice,
		},
		{
			name: "not yaml",
			data: "products: [",
			want: e.ErrStatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadCatalog_ShippedFile(t *testing.T) {
	seed, err := LoadCatalog("../../../configs/catalog.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seed.Categories) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(seed.Categories))
	}

	featured := 0
	for _, p := range seed.Products {
		if p.IsFeatured {
			featured++
		}
		if !p.Price.Equal(p.Price.Round(2)) {
			t.Errorf("product %s has sub-cent price %s", p.ID, p.Price)
		}
	}
	if featured != 4 {
		t.Fatalf("expected 4 featured products, got %d", featured)
	}
}
