package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// ValidInvoiceStatus indica si s es un estado de factura conocido.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

// Invoice representa la cabecera de una factura emitida.
//
// Subtotal, TaxTotal y Total son proyecciones derivadas: se recalculan
// completas con el motor fiscal ante cualquier mutación de líneas o
// impuestos y nunca se asignan a mano. AdditionalTaxes guarda el JSON crudo
// de la columna tal como se persiste ([{name, amount, isPercentage}, ...]).
type Invoice struct {
	ID              string
	UserID          string
	ClientID        string
	Number          string // número completo, ej. "F-2025-001"
	IssueDate       time.Time
	Status          string
	Subtotal        decimal.Decimal
	TaxTotal        decimal.Decimal
	Total           decimal.Decimal
	AdditionalTaxes []byte
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// InvoiceLine representa una línea de detalle de una factura. El IVA no se
// aplica por línea: los impuestos del documento van en AdditionalTaxes.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
}
