package dto

import "github.com/shopspring/decimal"

// LineItemRequest línea de factura o presupuesto en peticiones.
type LineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
}

// AdditionalTaxRequest impuesto adicional en peticiones: porcentaje del
// subtotal (isPercentage) o importe fijo en EUR, con cualquier signo.
type AdditionalTaxRequest struct {
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	IsPercentage bool            `json:"isPercentage"`
}

// CreateInvoiceRequest alta o edición completa de factura. Los totales nunca
// viajan en la petición: siempre se derivan de Items y AdditionalTaxes.
type CreateInvoiceRequest struct {
	ClientID        string                 `json:"clientId"`
	Number          string                 `json:"number"`
	IssueDate       string                 `json:"issueDate"` // YYYY-MM-DD
	Status          string                 `json:"status"`
	Items           []LineItemRequest      `json:"items"`
	AdditionalTaxes []AdditionalTaxRequest `json:"additionalTaxes"`
	// BaseAmount se usa en el formulario simplificado sin líneas: el subtotal
	// es directamente esta base.
	BaseAmount *decimal.Decimal `json:"baseAmount,omitempty"`
	Notes      string           `json:"notes"`
}

// UpdateInvoiceStatusRequest cambio de estado.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// LineItemResponse línea en respuestas.
type LineItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	TaxRate     decimal.Decimal `json:"taxRate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse factura completa en respuestas. SequenceWarning transporta
// el aviso consultivo de numeración: nunca bloquea la operación.
type InvoiceResponse struct {
	ID              string                 `json:"id"`
	ClientID        string                 `json:"clientId"`
	ClientName      string                 `json:"clientName,omitempty"`
	Number          string                 `json:"number"`
	IssueDate       string                 `json:"issueDate"`
	Status          string                 `json:"status"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	TaxTotal        decimal.Decimal        `json:"taxTotal"`
	Total           decimal.Decimal        `json:"total"`
	Items           []LineItemResponse     `json:"items"`
	AdditionalTaxes []AdditionalTaxRequest `json:"additionalTaxes"`
	Notes           string                 `json:"notes,omitempty"`
	SequenceWarning string                 `json:"sequenceWarning,omitempty"`
}

// CreateQuoteRequest alta o edición completa de presupuesto.
type CreateQuoteRequest struct {
	ClientID        string                 `json:"clientId"`
	Number          string                 `json:"number"`
	IssueDate       string                 `json:"issueDate"`
	Status          string                 `json:"status"`
	Items           []LineItemRequest      `json:"items"`
	AdditionalTaxes []AdditionalTaxRequest `json:"additionalTaxes"`
	BaseAmount      *decimal.Decimal       `json:"baseAmount,omitempty"`
	Notes           string                 `json:"notes"`
}

// UpdateQuoteStatusRequest cambio de estado de presupuesto.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status"`
}

// QuoteResponse presupuesto completo en respuestas.
type QuoteResponse struct {
	ID              string                 `json:"id"`
	ClientID        string                 `json:"clientId"`
	ClientName      string                 `json:"clientName,omitempty"`
	Number          string                 `json:"number"`
	IssueDate       string                 `json:"issueDate"`
	Status          string                 `json:"status"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	TaxTotal        decimal.Decimal        `json:"taxTotal"`
	Total           decimal.Decimal        `json:"total"`
	Items           []LineItemResponse     `json:"items"`
	AdditionalTaxes []AdditionalTaxRequest `json:"additionalTaxes"`
	Notes           string                 `json:"notes,omitempty"`
}
