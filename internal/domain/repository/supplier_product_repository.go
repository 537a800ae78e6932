package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// SupplierProductRepository resuelve SKUs de proveedor a productos.
type SupplierProductRepository interface {
	// GetBySKU devuelve nil, nil si el SKU no existe.
	GetBySKU(ctx context.Context, sku string) (*entity.SupplierProduct, error)
	// ListActiveBySupplier SKUs activos del proveedor.
	ListActiveBySupplier(ctx context.Context, supplierID string) ([]*entity.SupplierProduct, error)
}
