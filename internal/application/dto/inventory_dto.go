package dto

import (
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockMovementRequest body para POST /api/inventory/increase y /decrease.
// Los movimientos manuales son siempre ADJ: los asientos PO y SO solo los crean la
// recepción y el despacho, porque lo recibido de una orden se deriva de ellos.
// RefID queda como referencia libre (documento externo, conteo).
type StockMovementRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
	RefType     string `json:"ref_type,omitempty" validate:"omitempty,eq=ADJ"`
	RefID       string `json:"ref_id,omitempty"`
	Notes       string `json:"notes,omitempty" validate:"max=500"`
}

// ToInput convierte el body al input del libro mayor.
func (r StockMovementRequest) ToInput() inventory.StockMovementInput {
	return inventory.StockMovementInput{
		ProductID:   r.ProductID,
		WarehouseID: r.WarehouseID,
		Quantity:    r.Quantity,
		RefType:     entity.RefTypeADJ,
		RefID:       r.RefID,
		Notes:       r.Notes,
	}
}

// AdjustStockRequest body para POST /api/inventory/adjust. Delta con signo, distinto de cero.
type AdjustStockRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	Delta       int    `json:"delta" validate:"ne=0"`
	Notes       string `json:"notes,omitempty" validate:"max=500"`
}

// StockResponse fila de stock por producto y bodega.
type StockResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	WarehouseID      string    `json:"warehouse_id"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reserved_quantity"`
	Available        int       `json:"available"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// StockHistoryResponse entrada del historial de stock.
type StockHistoryResponse struct {
	ID               string    `json:"id"`
	InventoryStockID string    `json:"inventory_stock_id"`
	ProductID        string    `json:"product_id"`
	WarehouseID      string    `json:"warehouse_id"`
	ChangeQty        int       `json:"change_qty"`
	Type             string    `json:"type"`
	RefType          string    `json:"ref_type"`
	RefID            string    `json:"ref_id,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// AvailabilityResponse cantidad disponible (existencia - reservado) sumada en todas las bodegas.
type AvailabilityResponse struct {
	ProductID string `json:"product_id,omitempty"`
	SKU       string `json:"sku,omitempty"`
	Available int    `json:"available"`
}

// StockAuditResponse resultado de comparar la fila de stock con su historial.
type StockAuditResponse struct {
	StockID    string `json:"stock_id"`
	Quantity   int    `json:"quantity"`
	LedgerSum  int    `json:"ledger_sum"`
	Drift      int    `json:"drift"`
	Consistent bool   `json:"consistent"`
}

// ToStockResponse convierte la entidad al DTO.
func ToStockResponse(s *entity.InventoryStock) StockResponse {
	return StockResponse{
		ID:               s.ID,
		ProductID:        s.ProductID,
		WarehouseID:      s.WarehouseID,
		Quantity:         s.Quantity,
		ReservedQuantity: s.ReservedQuantity,
		Available:        s.Available(),
		UpdatedAt:        s.UpdatedAt,
	}
}

// ToStockResponses convierte una lista de filas de stock.
func ToStockResponses(list []*entity.InventoryStock) []StockResponse {
	out := make([]StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ToStockResponse(s))
	}
	return out
}

// ToStockHistoryResponse convierte la entidad al DTO.
func ToStockHistoryResponse(h *entity.StockHistory) StockHistoryResponse {
	return StockHistoryResponse{
		ID:               h.ID,
		InventoryStockID: h.InventoryStockID,
		ProductID:        h.ProductID,
		WarehouseID:      h.WarehouseID,
		ChangeQty:        h.ChangeQty,
		Type:             h.Type,
		RefType:          h.RefType,
		RefID:            h.RefID,
		Notes:            h.Notes,
		CreatedAt:        h.CreatedAt,
	}
}

// ToStockHistoryResponses convierte una lista de entradas del historial.
func ToStockHistoryResponses(list []*entity.StockHistory) []StockHistoryResponse {
	out := make([]StockHistoryResponse, 0, len(list))
	for _, h := range list {
		out = append(out, ToStockHistoryResponse(h))
	}
	return out
}

// ToStockAuditResponse convierte el resultado de la auditoría.
func ToStockAuditResponse(a *inventory.StockAudit) StockAuditResponse {
	return StockAuditResponse{
		StockID:    a.StockID,
		Quantity:   a.Quantity,
		LedgerSum:  a.LedgerSum,
		Drift:      a.Drift,
		Consistent: a.Drift == 0,
	}
}
