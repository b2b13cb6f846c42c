package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un presupuesto.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusRejected = "rejected"
)

// ValidQuoteStatus indica si s es un estado de presupuesto conocido.
func ValidQuoteStatus(s string) bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// Quote representa un presupuesto. Mismas reglas de totales derivados que
// Invoice; un presupuesto aceptado puede convertirse en factura borrador.
type Quote struct {
	ID              string
	UserID          string
	ClientID        string
	Number          string
	IssueDate       time.Time
	Status          string
	Subtotal        decimal.Decimal
	TaxTotal        decimal.Decimal
	Total           decimal.Decimal
	AdditionalTaxes []byte // JSON crudo de la columna
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// QuoteLine representa una línea de un presupuesto.
type QuoteLine struct {
	ID          string
	QuoteID     string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
}
