package entity

import "time"

// Client representa un cliente del autónomo (facturación).
type Client struct {
	ID        string
	UserID    string
	Name      string
	TaxID     string // NIF o CIF
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
