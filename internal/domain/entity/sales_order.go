package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrder orden de venta a un cliente. Es dueña de sus líneas.
type SalesOrder struct {
	ID           string
	CustomerName string
	CreatedBy    string
	Status       OrderStatus
	Total        decimal.Decimal // Σ price × quantity
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Details      []SalesOrderDetail
}

// SalesOrderDetail línea de la orden de venta (producto + SKU del proveedor).
// Invariante: 0 <= DeliveredQty <= Quantity.
type SalesOrderDetail struct {
	ID           string
	SalesOrderID string
	ProductID    string
	SKU          string
	Quantity     int
	DeliveredQty int
	Price        decimal.Decimal
	Status       OrderStatus
	Description  string
}

// Detail busca una línea por ID.
func (o *SalesOrder) Detail(id string) (*SalesOrderDetail, bool) {
	for i := range o.Details {
		if o.Details[i].ID == id {
			return &o.Details[i], true
		}
	}
	return nil, false
}

// RecalculateTotal recalcula el total derivado de las líneas.
func (o *SalesOrder) RecalculateTotal() {
	total := decimal.Zero
	for _, d := range o.Details {
		total = total.Add(d.Price.Mul(decimal.NewFromInt(int64(d.Quantity))))
	}
	o.Total = total
}
