// Package usecase contiene los casos de uso CRUD simples: clientes y
// categorías de gasto.
package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/facturio/autonomo-api/internal/application/dto"
	"github.com/facturio/autonomo-api/internal/domain"
	"github.com/facturio/autonomo-api/internal/domain/entity"
	"github.com/facturio/autonomo-api/internal/domain/repository"
)

// ClientUseCase gestiona los clientes del usuario.
type ClientUseCase struct {
	clientRepo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(clientRepo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clientRepo: clientRepo}
}

// CreateClient da de alta un cliente.
func (uc *ClientUseCase) CreateClient(userID string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// UpdateClient edita los datos de un cliente propio.
func (uc *ClientUseCase) UpdateClient(userID, id string, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	client, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	client.Name = in.Name
	client.TaxID = in.TaxID
	client.Email = in.Email
	client.Phone = in.Phone
	client.Address = in.Address
	client.UpdatedAt = time.Now()
	if err := uc.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// GetClient obtiene un cliente propio por ID.
func (uc *ClientUseCase) GetClient(userID, id string) (*dto.ClientResponse, error) {
	client, err := uc.owned(userID, id)
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// ListClients lista los clientes del usuario, paginados.
func (uc *ClientUseCase) ListClients(userID string, page dto.PageRequest) ([]dto.ClientResponse, error) {
	page.DefaultPage()
	clients, err := uc.clientRepo.ListByUser(userID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, *toClientResponse(c))
	}
	return out, nil
}

// DeleteClient elimina un cliente propio. Devuelve ErrConflict si tiene
// facturas asociadas (restricción de clave foránea).
func (uc *ClientUseCase) DeleteClient(userID, id string) error {
	if _, err := uc.owned(userID, id); err != nil {
		return err
	}
	return uc.clientRepo.Delete(id)
}

func (uc *ClientUseCase) owned(userID, id string) (*entity.Client, error) {
	client, err := uc.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if client.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return client, nil
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:      c.ID,
		Name:    c.Name,
		TaxID:   c.TaxID,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
}
