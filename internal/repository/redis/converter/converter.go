package converter

import (
	"fmt"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует товары между domain и моделью кэша.
type ProductConverter struct{}

func (ProductConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:           entity.ID,
		Name:         entity.Name,
		CategoryName: entity.CategoryName,
		Price:        entity.Price.StringFixed(2),
		ImageKey:     entity.ImageKey,
		ImageURL:     entity.ImageURL,
		IsFeatured:   entity.IsFeatured,
	}
}

func (ProductConverter) ToEntity(model *ProductRedisModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, e.Wrap(fmt.Sprintf("product %s price %q", model.ID, model.Price), e.ErrInvalidPrice)
	}

	return &domain.Product{
		ID:           model.ID,
		Name:         model.Name,
		Price:        price,
		CategoryName: model.CategoryName,
		ImageKey:     model.ImageKey,
		ImageURL:     model.ImageURL,
		IsFeatured:   model.IsFeatured,
	}, nil
}

func (c ProductConverter) ToArrRedisModel(entities []domain.Product) []ProductRedisModel {
	result := make([]ProductRedisModel, 0, len(entities))
	for i := range entities {
		result = append(result, *c.ToRedisModel(&entities[i]))
	}

	return result
}

// CartConverter преобразует снимок корзины в модель Redis и обратно.
type CartConverter struct {
	products ProductConverter
}

func (c CartConverter) ToRedisModel(snapshot *domain.CartSnapshot) *CartRedisModel {
	items := make([]LineItemRedisModel, 0, len(snapshot.Items))
	for i := range snapshot.Items {
		items = append(items, LineItemRedisModel{
			Product:  *c.products.ToRedisModel(&snapshot.Items[i].Product),
			Quantity: snapshot.Items[i].Quantity,
		})
	}

	favorites := snapshot.Favorites
	if favorites == nil {
		favorites = []string{}
	}

	return &CartRedisModel{
		SessionID: snapshot.SessionID,
		Version:   snapshot.Version,
		Items:     items,
		Favorites: favorites,
	}
}

func (c CartConverter) ToSnapshot(model *CartRedisModel) (*domain.CartSnapshot, error) {
	items := make([]domain.LineItem, 0, len(model.Items))
	for i := range model.Items {
		product, err := c.products.ToEntity(&model.Items[i].Product)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.LineItem{Product: *product, Quantity: model.Items[i].Quantity})
	}

	return &domain.CartSnapshot{
		SessionID: model.SessionID,
		Version:   model.Version,
		Items:     items,
		Favorites: model.Favorites,
	}, nil
}
