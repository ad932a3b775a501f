package converter

import (
	"time"

	"github.com/google/uuid"
)

// ProductModel представляет запись таблицы products вместе с названием категории.
// Цена читается как текст (price::text), чтобы не терять точность NUMERIC.
type ProductModel struct {
	ID           string     `db:"id"`
	Name         string     `db:"name"`
	Price        string     `db:"price"`
	CategoryName string     `db:"category_name"`
	ImageKey     string     `db:"image_key"`
	ImageURL     string     `db:"image_url"`
	IsFeatured   bool       `db:"is_featured"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"`
}

// CategoryModel представляет запись таблицы categories в PostgreSQL.
type CategoryModel struct {
	ID         int64      `db:"id"`
	Name       string     `db:"name"`
	Icon       string     `db:"icon"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
	IsArchived bool       `db:"is_archived"`
}

// OrderModel представляет запись таблицы orders.
type OrderModel struct {
	ID         uuid.UUID  `db:"id"`
	Number     string     `db:"number"`
	SessionID  string     `db:"session_id"`
	Status     string     `db:"status"`
	TotalItems int        `db:"total_items"`
	TotalPrice string     `db:"total_price"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
}

// OrderItemModel представляет запись таблицы order_items.
type OrderItemModel struct {
	OrderID   uuid.UUID `db:"order_id"`
	Position  int       `db:"position"`
	ProductID string    `db:"product_id"`
	Name      string    `db:"name"`
	UnitPrice string    `db:"unit_price"`
	Quantity  int       `db:"quantity"`
}

// OutboxEventModel представляет запись таблицы outbox_events.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     uuid.UUID  `db:"event_id"`
	EventType   string     `db:"event_type"`
	AggregateID string     `db:"aggregate_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
