package seed

import (
	"bytes"
	"fmt"
	"os"

	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type yamlCatalog struct {
	Categories []yamlCategory `yaml:"categories"`
	Products   []yamlProduct  `yaml:"products"`
}

type yamlCategory struct {
	Name string `yaml:"name"`
	Icon string `yaml:"icon"`
}

type yamlProduct struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Price    string `yaml:"price"`
	Category string `yaml:"category"`
	ImageKey string `yaml:"image_key"`
	ImageURL string `yaml:"image_url"`
	Featured bool   `yaml:"featured"`
}

// LoadCatalog читает YAML-файл каталога.
func LoadCatalog(path string) (*usecase.CatalogSeed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return ParseCatalog(data)
}

// ParseCatalog разбирает каталог. Неизвестные поля считаются ошибкой,
// цена читается как строка, чтобы сохранить точность.
func ParseCatalog(data []byte) (*usecase.CatalogSeed, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw yamlCatalog
	if err := dec.Decode(&raw); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrStatusBadRequest, err))
	}

	seed := &usecase.CatalogSeed{
		Categories: make([]usecase.CategorySeed, 0, len(raw.Categories)),
		Products:   make([]usecase.ProductSeed, 0, len(raw.Products)),
	}

	for _, c := range raw.Categories {
		seed.Categories = append(seed.Categories, usecase.CategorySeed{Name: c.Name, Icon: c.Icon})
	}

	for _, p := range raw.Products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return nil, e.Wrap(fmt.Sprintf("product %s price %q", p.ID, p.Price), e.ErrInvalidPrice)
		}

		seed.Products = append(seed.Products, usecase.ProductSeed{
			ID:         p.ID,
			Name:       p.Name,
			Price:      price,
			Category:   p.Category,
			ImageKey:   p.ImageKey,
			ImageURL:   p.ImageURL,
			IsFeatured: p.Featured,
		})
	}

	return seed, nil
}
