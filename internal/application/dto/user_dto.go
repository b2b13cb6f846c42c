package dto

import "github.com/shopspring/decimal"

// RegisterRequest alta de usuario.
type RegisterRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Name     string          `json:"name"`
	TaxID    string          `json:"taxId"`
	Address  string          `json:"address"`
	IRPFRate decimal.Decimal `json:"irpfRate"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuario en respuestas (sin hash).
type UserResponse struct {
	ID       string          `json:"id"`
	Email    string          `json:"email"`
	Name     string          `json:"name"`
	TaxID    string          `json:"taxId,omitempty"`
	Address  string          `json:"address,omitempty"`
	IRPFRate decimal.Decimal `json:"irpfRate"`
}

// LoginResponse token JWT más el usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
