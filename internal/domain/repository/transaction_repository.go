package repository

import (
	"context"
	"time"

	"github.com/facturio/autonomo-api/internal/domain/entity"
)

// TransactionWithCategory acompaña al movimiento con el nombre de su
// categoría resuelto en la consulta (para el desglose del dashboard).
type TransactionWithCategory struct {
	entity.Transaction
	CategoryName string
}

// TransactionRepository persistencia de movimientos de tesorería.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	GetByID(id string) (*entity.Transaction, error)
	Update(tx *entity.Transaction) error
	Delete(id string) error
	ListByUser(userID string, limit, offset int) ([]*entity.Transaction, error)
	// ListByPeriod devuelve los movimientos con fecha en [start, end) junto
	// con el nombre de categoría, para la agregación fiscal.
	ListByPeriod(ctx context.Context, userID string, start, end time.Time) ([]*TransactionWithCategory, error)
}
