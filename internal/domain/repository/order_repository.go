package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// OrderFilter filtros de listado de órdenes. Status vacío = todos.
type OrderFilter struct {
	Status    entity.OrderStatus
	CreatedBy string
	Limit     int
	Offset    int
}

// PurchaseOrderRepository persiste la orden de compra junto con sus líneas.
// GetByID y GetForUpdate devuelven nil, nil si no existe.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update guarda cabecera (estado, total, notas) y cantidad/estado de cada línea.
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f OrderFilter) ([]*entity.PurchaseOrder, error)
}

// SalesOrderRepository persiste la orden de venta junto con sus líneas.
type SalesOrderRepository interface {
	Create(ctx context.Context, so *entity.SalesOrder) error
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error)
	Update(ctx context.Context, so *entity.SalesOrder) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f OrderFilter) ([]*entity.SalesOrder, error)
}
