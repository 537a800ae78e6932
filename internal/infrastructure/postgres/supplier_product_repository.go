package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SupplierProductRepository = (*SupplierProductRepo)(nil)

// SupplierProductRepo resuelve SKUs de proveedor.
type SupplierProductRepo struct {
	q Querier
}

// NewSupplierProductRepository construye el adaptador.
func NewSupplierProductRepository(q Querier) *SupplierProductRepo {
	return &SupplierProductRepo{q: q}
}

// GetBySKU obtiene la relación por SKU. nil, nil si no existe.
func (r *SupplierProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.SupplierProduct, error) {
	query := `SELECT sku, product_id, supplier_id, active FROM supplier_products WHERE sku = $1`
	var sp entity.SupplierProduct
	err := r.q.QueryRow(ctx, query, sku).Scan(&sp.SKU, &sp.ProductID, &sp.SupplierID, &sp.Active)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier product: %w", err)
	}
	return &sp, nil
}

// ListActiveBySupplier SKUs activos del proveedor ordenados por SKU.
func (r *SupplierProductRepo) ListActiveBySupplier(ctx context.Context, supplierID string) ([]*entity.SupplierProduct, error) {
	query := `
		SELECT sku, product_id, supplier_id, active
		FROM supplier_products WHERE supplier_id = $1 AND active
		ORDER BY sku`
	rows, err := r.q.Query(ctx, query, supplierID)
	if err != nil {
		return nil, fmt.Errorf("list supplier products: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.SupplierProduct, 0)
	for rows.Next() {
		var sp entity.SupplierProduct
		if err := rows.Scan(&sp.SKU, &sp.ProductID, &sp.SupplierID, &sp.Active); err != nil {
			return nil, fmt.Errorf("scan supplier product: %w", err)
		}
		out = append(out, &sp)
	}
	return out, rows.Err()
}
