package pgdb

import (
	"context"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/cart-backend/internal/usecase"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const productColumns = `
	pr.id, pr.name, pr.price::text, cat.name,
	pr.image_key, pr.image_url, pr.is_featured, pr.created_at, pr.updated_at`

// ProductRepo реализует репозиторий продуктов поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// Upsert идемпотентно создаёт или обновляет продукт по его ID.
// Запись обновляется только если что-то действительно изменилось.
func (p *ProductRepo) Upsert(ctx context.Context, product *domain.Product, categoryID int64) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model := p.conv.ToModel(product)
	query := `
		INSERT INTO products (id, name, price, category_id, image_key, image_url, is_featured)
		VALUES ($1, $2, $3::numeric, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			category_id = EXCLUDED.category_id,
			image_key = EXCLUDED.image_key,
			image_url = EXCLUDED.image_url,
			is_featured = EXCLUDED.is_featured,
			is_archived = FALSE,
			updated_at = NOW()
		WHERE
			products.name IS DISTINCT FROM EXCLUDED.name OR
			products.price IS DISTINCT FROM EXCLUDED.price OR
			products.category_id IS DISTINCT FROM EXCLUDED.category_id OR
			products.image_key IS DISTINCT FROM EXCLUDED.image_key OR
			products.image_url IS DISTINCT FROM EXCLUDED.image_url OR
			products.is_featured IS DISTINCT FROM EXCLUDED.is_featured OR
			products.is_archived
	`

	if _, err := tx.Exec(ctx, query,
		model.ID, model.Name, model.Price, categoryID,
		model.ImageKey, model.ImageURL, model.IsFeatured,
	); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// List возвращает активные продукты. Пустая категория и nil Featured фильтр не применяют.
func (p *ProductRepo) List(ctx context.Context, filter usecase.ProductFilter) ([]domain.Product, error) {
	query := `
		SELECT` + productColumns + `
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE NOT pr.is_archived
		  AND ($1 = '' OR cat.name = $1)
		  AND ($2::boolean IS NULL OR pr.is_featured = $2)
		ORDER BY cat.id, pr.name
	`

	rows, err := conn(ctx, p.pool).Query(ctx, query, filter.Category, filter.Featured)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.scan(rows)
}

// GetByIDs возвращает найденные продукты. Порядок не гарантируется.
func (p *ProductRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	query := `
		SELECT` + productColumns + `
		FROM products pr
		JOIN categories cat ON pr.category_id = cat.id
		WHERE pr.id = ANY($1) AND NOT pr.is_archived
	`

	rows, err := conn(ctx, p.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.scan(rows)
}

func (p *ProductRepo) scan(rows pgx.Rows) ([]domain.Product, error) {
	defer rows.Close()

	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		var m converter.ProductModel
		if err := rows.Scan(
			&m.ID, &m.Name, &m.Price, &m.CategoryName,
			&m.ImageKey, &m.ImageURL, &m.IsFeatured, &m.CreatedAt, &m.UpdatedAt,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	products, err := p.conv.ToArrEntity(models)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return products, nil
}
