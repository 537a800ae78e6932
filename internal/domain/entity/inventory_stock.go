package entity

import "time"

// InventoryStock representa el stock de un producto en una bodega.
// Quantity es la existencia física; ReservedQuantity lo comprometido por órdenes de venta preparadas.
// Invariante: 0 <= ReservedQuantity <= Quantity. Solo el StockLedger la modifica.
type InventoryStock struct {
	ID               string
	ProductID        string
	WarehouseID      string
	Quantity         int
	ReservedQuantity int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Available existencia menos lo reservado.
func (s *InventoryStock) Available() int {
	return s.Quantity - s.ReservedQuantity
}
