package dto

import "github.com/shopspring/decimal"

// SummaryTaxesDTO cifras de liquidación del resumen fiscal.
type SummaryTaxesDTO struct {
	VAT          decimal.Decimal `json:"vat"`
	IncomeTax    decimal.Decimal `json:"incomeTax"`
	IVAALiquidar decimal.Decimal `json:"ivaALiquidar"`
}

// FiscalSummaryDTO resumen fiscal del periodo para el dashboard y los
// informes. Se re-deriva de los documentos fuente en cada consulta.
type FiscalSummaryDTO struct {
	Period               string          `json:"period"` // token canónico resuelto
	Income               decimal.Decimal `json:"income"`
	Expenses             decimal.Decimal `json:"expenses"`
	BaseImponible        decimal.Decimal `json:"baseImponible"`
	IVARepercutido       decimal.Decimal `json:"ivaRepercutido"`
	IVASoportado         decimal.Decimal `json:"ivaSoportado"`
	IRPFRetenidoIngresos decimal.Decimal `json:"irpfRetenidoIngresos"`
	TotalWithholdings    decimal.Decimal `json:"totalWithholdings"`
	Taxes                SummaryTaxesDTO `json:"taxes"`
}

// CategoryBreakdownDTO un grupo del desglose de gastos por categoría.
type CategoryBreakdownDTO struct {
	CategoryID   string          `json:"categoryId,omitempty"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
	Count        int             `json:"count"`
	Percentage   decimal.Decimal `json:"percentage"`
}
