package entity

import "time"

// Tipos de movimiento del historial.
const (
	HistoryTypeIN  = "IN"  // entrada
	HistoryTypeOUT = "OUT" // salida
	HistoryTypeADJ = "ADJ" // ajuste
)

// Tipos de referencia del movimiento.
const (
	RefTypePO  = "PO"  // orden de compra
	RefTypeSO  = "SO"  // orden de venta
	RefTypeADJ = "ADJ" // ajuste manual
)

// StockHistory registro inmutable de un cambio de cantidad (libro mayor de stock).
// Para todo InventoryStock: Quantity == suma de ChangeQty de su historial.
type StockHistory struct {
	ID               string
	InventoryStockID string
	ProductID        string // desnormalizado para consultas por orden
	WarehouseID      string
	ChangeQty        int    // con signo, nunca cero
	Type             string // IN, OUT, ADJ
	RefType          string // PO, SO, ADJ
	RefID            string // vacío = sin referencia (NULL)
	Notes            string
	CreatedAt        time.Time
}

// IsValidHistoryType valida el tipo de movimiento.
func IsValidHistoryType(t string) bool {
	return t == HistoryTypeIN || t == HistoryTypeOUT || t == HistoryTypeADJ
}

// IsValidRefType valida el tipo de referencia.
func IsValidRefType(t string) bool {
	return t == RefTypePO || t == RefTypeSO || t == RefTypeADJ
}
