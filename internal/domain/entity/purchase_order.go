package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder orden de compra a un proveedor. Es dueña de sus líneas.
type PurchaseOrder struct {
	ID         string
	SupplierID string
	CreatedBy  string
	Status     OrderStatus
	Total      decimal.Decimal // Σ cost × quantity
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Details    []PurchaseOrderDetail
}

// PurchaseOrderDetail línea de la orden de compra. Cost es un snapshot del costo al crear la orden.
type PurchaseOrderDetail struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Quantity        int
	Cost            decimal.Decimal
	Status          OrderStatus
	Description     string
}

// Detail busca una línea por ID.
func (o *PurchaseOrder) Detail(id string) (*PurchaseOrderDetail, bool) {
	for i := range o.Details {
		if o.Details[i].ID == id {
			return &o.Details[i], true
		}
	}
	return nil, false
}

// RecalculateTotal recalcula el total derivado de las líneas.
func (o *PurchaseOrder) RecalculateTotal() {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.Cost.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	o.Total = total
}
