package pgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/DRSN-tech/cart-backend/internal/domain"
	"github.com/DRSN-tech/cart-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/cart-backend/pkg/e"
	"github.com/DRSN-tech/cart-backend/pkg/tr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

const orderColumns = `id, number, session_id, status, total_items, total_price::text, created_at, updated_at`

// OrderRepo хранит заказы и их позиции в PostgreSQL.
type OrderRepo struct {
	pool *pgxpool.Pool
	conv converter.OrderConverter
}

func NewOrderRepo(pool *pgxpool.Pool, conv converter.OrderConverter) *OrderRepo {
	return &OrderRepo{pool: pool, conv: conv}
}

// Create сохраняет заказ вместе с позициями. Требует транзакцию в контексте.
func (o *OrderRepo) Create(ctx context.Context, order *domain.Order) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	model, items := o.conv.ToModel(order)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO orders (id, number, session_id, status, total_items, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, $7)`,
		model.ID, model.Number, model.SessionID, model.Status, model.TotalItems, model.TotalPrice, model.CreatedAt,
	)
	for _, it := range items {
		batch.Queue(`
			INSERT INTO order_items (order_id, position, product_id, name, unit_price, quantity)
			VALUES ($1, $2, $3, $4, $5::numeric, $6)`,
			it.OrderID, it.Position, it.ProductID, it.Name, it.UnitPrice, it.Quantity,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if postgresDuplicate(err) {
				return fmt.Errorf("%s: order %s already exists", whereami.WhereAmI(), order.Number)
			}
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if err := br.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// GetByID возвращает заказ. Внутри транзакции строка заказа блокируется до её конца.
func (o *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if inTx(ctx) {
		query += ` FOR UPDATE`
	}

	q := conn(ctx, o.pool)

	var model converter.OrderModel
	err := q.QueryRow(ctx, query, id).Scan(
		&model.ID, &model.Number, &model.SessionID, &model.Status,
		&model.TotalItems, &model.TotalPrice, &model.CreatedAt, &model.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.Wrap(fmt.Sprintf("order %s", id), e.ErrOrderNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	items, err := o.items(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	order, err := o.conv.ToEntity(&model, items[id])
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return order, nil
}

// ListBySession возвращает заказы сессии, новые первыми.
func (o *OrderRepo) ListBySession(ctx context.Context, sessionID string) ([]domain.Order, error) {
	q := conn(ctx, o.pool)

	rows, err := q.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE session_id = $1 ORDER BY created_at DESC, number`,
		sessionID,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	models, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (converter.OrderModel, error) {
		var m converter.OrderModel
		err := row.Scan(
			&m.ID, &m.Number, &m.SessionID, &m.Status,
			&m.TotalItems, &m.TotalPrice, &m.CreatedAt, &m.UpdatedAt,
		)
		return m, err
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(models) == 0 {
		return []domain.Order{}, nil
	}

	ids := make([]uuid.UUID, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}

	items, err := o.items(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Order, 0, len(models))
	for i := range models {
		order, err := o.conv.ToEntity(&models[i], items[models[i].ID])
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result = append(result, *order)
	}

	return result, nil
}

// UpdateStatus сохраняет новый статус и время изменения.
func (o *OrderRepo) UpdateStatus(ctx context.Context, order *domain.Order) error {
	tag, err := conn(ctx, o.pool).Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		order.ID, order.Status.String(), order.UpdatedAt,
	)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.Wrap(fmt.Sprintf("order %s", order.ID), e.ErrOrderNotFound)
	}

	return nil
}

func (o *OrderRepo) items(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID][]converter.OrderItemModel, error) {
	rows, err := q.Query(ctx, `
		SELECT order_id, position, product_id, name, unit_price::text, quantity
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position`,
		ids,
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]converter.OrderItemModel, len(ids))
	for rows.Next() {
		var it converter.OrderItemModel
		if err := rows.Scan(&it.OrderID, &it.Position, &it.ProductID, &it.Name, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		result[it.OrderID] = append(result[it.OrderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return result, nil
}
