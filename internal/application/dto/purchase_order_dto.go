package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID string                     `json:"supplier_id" validate:"required"`
	Notes      string                     `json:"notes,omitempty" validate:"max=500"`
	Lines      []PurchaseOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderLineRequest línea solicitada al proveedor.
type PurchaseOrderLineRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	Cost        decimal.Decimal `json:"cost" validate:"gte=0"`
	Description string          `json:"description,omitempty" validate:"max=255"`
}

// ToInput convierte el body al input del caso de uso.
func (r CreatePurchaseOrderRequest) ToInput() purchasing.CreateOrderInput {
	lines := make([]purchasing.LineInput, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, purchasing.LineInput{
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			Cost:        l.Cost,
			Description: l.Description,
		})
	}
	return purchasing.CreateOrderInput{SupplierID: r.SupplierID, Notes: r.Notes, Lines: lines}
}

// UpdateLineQuantityRequest body para PATCH /api/purchase-orders/:id/lines/:detailId.
type UpdateLineQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gt=0"`
}

// ReceiveStockRequest body para POST /api/purchase-orders/:id/receive.
type ReceiveStockRequest struct {
	Items []ReceiveItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReceiveItemRequest cantidad recibida de una línea en una bodega.
type ReceiveItemRequest struct {
	DetailID    string `json:"detail_id" validate:"required"`
	WarehouseID string `json:"warehouse_id" validate:"required"`
	ReceivedQty int    `json:"received_qty" validate:"gt=0"`
	Note        string `json:"note,omitempty" validate:"max=500"`
}

// ToItems convierte el body a los ítems del caso de uso.
func (r ReceiveStockRequest) ToItems() []purchasing.ReceiveItem {
	items := make([]purchasing.ReceiveItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, purchasing.ReceiveItem{
			DetailID:    it.DetailID,
			WarehouseID: it.WarehouseID,
			ReceivedQty: it.ReceivedQty,
			Note:        it.Note,
		})
	}
	return items
}

// PurchaseOrderResponse orden de compra con sus líneas.
type PurchaseOrderResponse struct {
	ID         string                      `json:"id"`
	SupplierID string                      `json:"supplier_id"`
	CreatedBy  string                      `json:"created_by"`
	Status     string                      `json:"status"`
	Total      decimal.Decimal             `json:"total"`
	Notes      string                      `json:"notes,omitempty"`
	CreatedAt  time.Time                   `json:"created_at"`
	UpdatedAt  time.Time                   `json:"updated_at"`
	Lines      []PurchaseOrderLineResponse `json:"lines"`
}

// PurchaseOrderLineResponse línea de la orden. ReceivedQty se omite en listados.
type PurchaseOrderLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	ReceivedQty *int            `json:"received_qty,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
}

// ReceiveStockResponse resultado de una recepción.
type ReceiveStockResponse struct {
	Status             string                 `json:"status"`
	CompletedDetailIDs []string               `json:"completed_detail_ids"`
	History            []StockHistoryResponse `json:"history"`
}

// ToPurchaseOrderResponse convierte la orden; received puede ser nil.
func ToPurchaseOrderResponse(po *entity.PurchaseOrder, received map[string]int) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(po.Details))
	for _, d := range po.Details {
		line := PurchaseOrderLineResponse{
			ID:          d.ID,
			ProductID:   d.ProductID,
			Quantity:    d.Quantity,
			Cost:        d.Cost,
			Status:      d.Status.String(),
			Description: d.Description,
		}
		if received != nil {
			qty := received[d.ID]
			line.ReceivedQty = &qty
		}
		lines = append(lines, line)
	}
	return PurchaseOrderResponse{
		ID:         po.ID,
		SupplierID: po.SupplierID,
		CreatedBy:  po.CreatedBy,
		Status:     po.Status.String(),
		Total:      po.Total,
		Notes:      po.Notes,
		CreatedAt:  po.CreatedAt,
		UpdatedAt:  po.UpdatedAt,
		Lines:      lines,
	}
}

// ToPurchaseOrderResponses convierte un listado (sin cantidades recibidas).
func ToPurchaseOrderResponses(list []*entity.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, ToPurchaseOrderResponse(po, nil))
	}
	return out
}

// ToReceiveStockResponse convierte el resultado de la recepción.
func ToReceiveStockResponse(res *purchasing.ReceiveResult) ReceiveStockResponse {
	ids := res.CompletedDetailIDs
	if ids == nil {
		ids = []string{}
	}
	return ReceiveStockResponse{
		Status:             res.Status.String(),
		CompletedDetailIDs: ids,
		History:            ToStockHistoryResponses(res.History),
	}
}
