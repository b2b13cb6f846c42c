package dto

import "github.com/shopspring/decimal"

// CreateTransactionRequest alta o edición de movimiento.
//
// Para gastos, el importe puede llegar de dos formas excluyentes:
//   - Amount: base sin IVA, acompañada opcionalmente de AdditionalTaxes.
//   - GrossAmount + VATRate (+IRPFRate): total con IVA del ticket; el motor
//     fiscal deriva la base y los impuestos (SplitGross).
type CreateTransactionRequest struct {
	Type            string                 `json:"type"` // income | expense
	Description     string                 `json:"description"`
	Date            string                 `json:"date"` // YYYY-MM-DD
	CategoryID      string                 `json:"categoryId"`
	Amount          *decimal.Decimal       `json:"amount,omitempty"`
	AdditionalTaxes []AdditionalTaxRequest `json:"additionalTaxes,omitempty"`
	GrossAmount     *decimal.Decimal       `json:"grossAmount,omitempty"`
	VATRate         *decimal.Decimal       `json:"vatRate,omitempty"`
	IRPFRate        *decimal.Decimal       `json:"irpfRate,omitempty"`
}

// TransactionResponse movimiento en respuestas. Amount es siempre la base
// sin IVA almacenada.
type TransactionResponse struct {
	ID              string                 `json:"id"`
	Type            string                 `json:"type"`
	Description     string                 `json:"description"`
	Amount          decimal.Decimal        `json:"amount"`
	Date            string                 `json:"date"`
	CategoryID      string                 `json:"categoryId,omitempty"`
	AdditionalTaxes []AdditionalTaxRequest `json:"additionalTaxes"`
	VATAmount       decimal.Decimal        `json:"vatAmount"`
	IRPFAmount      decimal.Decimal        `json:"irpfAmount"`
}
