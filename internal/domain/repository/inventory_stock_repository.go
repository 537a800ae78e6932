package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// InventoryStockRepository puerto del stock por (producto, bodega).
// Los métodos *ForUpdate bloquean las filas hasta el fin de la transacción.
type InventoryStockRepository interface {
	// GetOrCreateForUpdate crea la fila con cantidad 0 si no existe y la devuelve bloqueada.
	GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryStock, error)
	// GetForUpdate devuelve nil, nil si no existe la fila.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryStock, error)
	// ListByProductForUpdate bloquea todas las filas del producto ordenadas por bodega.
	ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.InventoryStock, error)

	GetByID(ctx context.Context, id string) (*entity.InventoryStock, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryStock, error)
	// Update persiste Quantity y ReservedQuantity.
	Update(ctx context.Context, stock *entity.InventoryStock) error
}
