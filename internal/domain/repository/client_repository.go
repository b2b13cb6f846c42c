package repository

import "github.com/facturio/autonomo-api/internal/domain/entity"

// ClientRepository persistencia de clientes.
type ClientRepository interface {
	Create(client *entity.Client) error
	GetByID(id string) (*entity.Client, error)
	Update(client *entity.Client) error
	Delete(id string) error
	ListByUser(userID string, limit, offset int) ([]*entity.Client, error)
}
