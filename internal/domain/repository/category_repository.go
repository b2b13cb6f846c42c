package repository

import "github.com/facturio/autonomo-api/internal/domain/entity"

// CategoryRepository persistencia de categorías de gasto.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByName(userID, name string) (*entity.Category, error)
	Update(category *entity.Category) error
	Delete(id string) error
	ListByUser(userID string) ([]*entity.Category, error)
}
