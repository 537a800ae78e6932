package entity

import "time"

// Product producto del catálogo. El catálogo es de solo lectura para este servicio.
type Product struct {
	ID         string
	Name       string
	CategoryID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
