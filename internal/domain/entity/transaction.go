package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction representa un movimiento de tesorería (ingreso o gasto).
//
// Amount se almacena siempre sin IVA: al registrar un gasto desde un importe
// bruto, el motor fiscal deriva la base con SplitGross y los componentes
// impositivos quedan en AdditionalTaxes (JSON crudo de la columna).
type Transaction struct {
	ID              string
	UserID          string
	Type            string // income | expense
	Description     string
	Amount          decimal.Decimal
	Date            time.Time
	CategoryID      string // vacío si no está categorizado
	AdditionalTaxes []byte
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
