package repository

import (
	"time"

	"github.com/facturio/autonomo-api/internal/domain/entity"
)

// QuoteRepository persistencia de presupuestos y sus líneas.
type QuoteRepository interface {
	Create(quote *entity.Quote) error
	CreateLine(line *entity.QuoteLine) error
	GetByID(id string) (*entity.Quote, error)
	GetLinesByQuoteID(quoteID string) ([]*entity.QuoteLine, error)
	Update(quote *entity.Quote) error
	ReplaceLines(quoteID string, lines []*entity.QuoteLine) error
	UpdateStatus(id, status string, updatedAt time.Time) error
	Delete(id string) error
	ListByUser(userID string, limit, offset int) ([]*entity.Quote, error)
}
