package repository

import (
	"context"
	"time"

	"github.com/facturio/autonomo-api/internal/domain/entity"
)

// InvoiceRepository persistencia de facturas y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateLine(line *entity.InvoiceLine) error
	GetByID(id string) (*entity.Invoice, error)
	GetLinesByInvoiceID(invoiceID string) ([]*entity.InvoiceLine, error)
	Update(invoice *entity.Invoice) error
	// ReplaceLines borra y reinserta las líneas de la factura (edición completa).
	ReplaceLines(invoiceID string, lines []*entity.InvoiceLine) error
	UpdateStatus(id, status string, updatedAt time.Time) error
	Delete(id string) error
	ListByUser(userID string, limit, offset int) ([]*entity.Invoice, error)
	// ListNumbersByUser devuelve todos los números de factura emitidos por el
	// usuario, para la validación consultiva de secuencia.
	ListNumbersByUser(userID string) ([]string, error)
	// ListByPeriod devuelve las facturas con fecha de emisión en [start, end),
	// con la columna de impuestos cruda, para la agregación fiscal.
	ListByPeriod(ctx context.Context, userID string, start, end time.Time) ([]*entity.Invoice, error)
}
