package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CreateSalesOrderRequest body para POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	CustomerName string                  `json:"customer_name" validate:"required,max=255"`
	Lines        []SalesOrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SalesOrderLineRequest línea pedida por SKU.
type SalesOrderLineRequest struct {
	SKU         string          `json:"sku" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Description string          `json:"description,omitempty" validate:"max=255"`
}

// ToInput convierte el body al input del caso de uso.
func (r CreateSalesOrderRequest) ToInput() sales.CreateOrderInput {
	lines := make([]sales.LineInput, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, sales.LineInput{
			SKU:         l.SKU,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Description: l.Description,
		})
	}
	return sales.CreateOrderInput{CustomerName: r.CustomerName, Lines: lines}
}

// UpdateSalesLineRequest body para PATCH /api/sales-orders/:id/lines/:detailId.
type UpdateSalesLineRequest struct {
	Quantity int             `json:"quantity" validate:"gt=0"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
}

// DeliverStockRequest body para POST /api/sales-orders/:id/deliver.
type DeliverStockRequest struct {
	Items []DeliverItemRequest `json:"items" validate:"required,min=1,dive"`
}

// DeliverItemRequest cantidad entregada de una línea desde una bodega.
type DeliverItemRequest struct {
	DetailID     string `json:"detail_id" validate:"required"`
	WarehouseID  string `json:"warehouse_id" validate:"required"`
	DeliveredQty int    `json:"delivered_qty" validate:"gt=0"`
}

// ToItems convierte el body a los ítems del caso de uso.
func (r DeliverStockRequest) ToItems() []sales.DeliverItem {
	items := make([]sales.DeliverItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, sales.DeliverItem{
			DetailID:     it.DetailID,
			WarehouseID:  it.WarehouseID,
			DeliveredQty: it.DeliveredQty,
		})
	}
	return items
}

// SalesOrderResponse orden de venta con sus líneas.
type SalesOrderResponse struct {
	ID           string                   `json:"id"`
	CustomerName string                   `json:"customer_name"`
	CreatedBy    string                   `json:"created_by"`
	Status       string                   `json:"status"`
	Total        decimal.Decimal          `json:"total"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
	Lines        []SalesOrderLineResponse `json:"lines"`
}

// SalesOrderLineResponse línea de la orden de venta.
type SalesOrderLineResponse struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Quantity     int             `json:"quantity"`
	DeliveredQty int             `json:"delivered_qty"`
	Price        decimal.Decimal `json:"price"`
	Status       string          `json:"status"`
	Description  string          `json:"description,omitempty"`
}

// DeliverStockResponse resultado de una entrega.
type DeliverStockResponse struct {
	Status             string                 `json:"status"`
	CompletedDetailIDs []string               `json:"completed_detail_ids"`
	History            []StockHistoryResponse `json:"history"`
}

// ToSalesOrderResponse convierte la orden al DTO.
func ToSalesOrderResponse(so *entity.SalesOrder) SalesOrderResponse {
	lines := make([]SalesOrderLineResponse, 0, len(so.Details))
	for _, d := range so.Details {
		lines = append(lines, SalesOrderLineResponse{
			ID:           d.ID,
			ProductID:    d.ProductID,
			SKU:          d.SKU,
			Quantity:     d.Quantity,
			DeliveredQty: d.DeliveredQty,
			Price:        d.Price,
			Status:       d.Status.String(),
			Description:  d.Description,
		})
	}
	return SalesOrderResponse{
		ID:           so.ID,
		CustomerName: so.CustomerName,
		CreatedBy:    so.CreatedBy,
		Status:       so.Status.String(),
		Total:        so.Total,
		CreatedAt:    so.CreatedAt,
		UpdatedAt:    so.UpdatedAt,
		Lines:        lines,
	}
}

// ToSalesOrderResponses convierte un listado.
func ToSalesOrderResponses(list []*entity.SalesOrder) []SalesOrderResponse {
	out := make([]SalesOrderResponse, 0, len(list))
	for _, so := range list {
		out = append(out, ToSalesOrderResponse(so))
	}
	return out
}

// ToDeliverStockResponse convierte el resultado de la entrega.
func ToDeliverStockResponse(res *sales.DeliverResult) DeliverStockResponse {
	ids := res.CompletedDetailIDs
	if ids == nil {
		ids = []string{}
	}
	return DeliverStockResponse{
		Status:             res.Status.String(),
		CompletedDetailIDs: ids,
		History:            ToStockHistoryResponses(res.History),
	}
}
