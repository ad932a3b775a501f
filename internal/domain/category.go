package domain

import "time"

// Category описывает категорию товаров (день рождения, свадьба и т.д.)
type Category struct {
	ID         int64
	Name       string
	Icon       string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	IsArchived bool
}

func NewCategory(name string, icon string) *Category {
	return &Category{
		Name: name,
		Icon: icon,
	}
}
