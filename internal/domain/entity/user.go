package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// User representa un autónomo o pequeño negocio dado de alta en el sistema.
// Los datos fiscales (NIF, dirección) se usan como emisor en facturas,
// Facturae y PDF.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt; nunca en claro tras persistir
	Name         string
	TaxID        string // NIF/CIF del emisor
	Address      string
	IRPFRate     decimal.Decimal // tipo de retención habitual, ej. 15
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
