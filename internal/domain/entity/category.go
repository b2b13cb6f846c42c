package entity

import "time"

// Category representa una categoría de gastos del usuario.
type Category struct {
	ID        string
	UserID    string
	Name      string
	Color     string // color hex para el gráfico del dashboard, ej. "#2563eb"
	CreatedAt time.Time
	UpdatedAt time.Time
}
