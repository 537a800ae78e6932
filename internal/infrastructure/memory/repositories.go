package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var (
	_ repository.InventoryStockRepository  = (*stockRepo)(nil)
	_ repository.StockHistoryRepository    = (*historyRepo)(nil)
	_ repository.PurchaseOrderRepository   = (*purchaseOrderRepo)(nil)
	_ repository.SalesOrderRepository      = (*salesOrderRepo)(nil)
	_ repository.ProductRepository         = (*productRepo)(nil)
	_ repository.WarehouseRepository       = (*warehouseRepo)(nil)
	_ repository.SupplierProductRepository = (*supplierProductRepo)(nil)
)

// ── Stock ─────────────────────────────────────────────────────────────────────

type stockRepo struct{ st *state }

func (r *stockRepo) GetOrCreateForUpdate(_ context.Context, productID, warehouseID string) (*entity.InventoryStock, error) {
	if id, ok := r.st.stockKeys[stockKey(productID, warehouseID)]; ok {
		s := r.st.stocks[id]
		return &s, nil
	}
	now := time.Now()
	s := entity.InventoryStock{
		ID:          uuid.New().String(),
		ProductID:   productID,
		WarehouseID: warehouseID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.st.stocks[s.ID] = s
	r.st.stockKeys[stockKey(productID, warehouseID)] = s.ID
	return &s, nil
}

func (r *stockRepo) GetForUpdate(_ context.Context, productID, warehouseID string) (*entity.InventoryStock, error) {
	id, ok := r.st.stockKeys[stockKey(productID, warehouseID)]
	if !ok {
		return nil, nil
	}
	s := r.st.stocks[id]
	return &s, nil
}

func (r *stockRepo) ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.InventoryStock, error) {
	return r.ListByProduct(ctx, productID)
}

func (r *stockRepo) GetByID(_ context.Context, id string) (*entity.InventoryStock, error) {
	s, ok := r.st.stocks[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *stockRepo) ListByProduct(_ context.Context, productID string) ([]*entity.InventoryStock, error) {
	out := make([]*entity.InventoryStock, 0)
	for _, s := range r.st.stocks {
		if s.ProductID == productID {
			s := s
			out = append(out, &s)
		}
	}
	inventory.SortByWarehouse(out)
	return out, nil
}

func (r *stockRepo) Update(_ context.Context, stock *entity.InventoryStock) error {
	if _, ok := r.st.stocks[stock.ID]; !ok {
		return fmt.Errorf("stock %s: %w", stock.ID, domain.ErrNotFound)
	}
	r.st.stocks[stock.ID] = *stock
	return nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

type historyRepo struct{ st *state }

func (r *historyRepo) Create(_ context.Context, h *entity.StockHistory) error {
	r.st.history = append(r.st.history, *h)
	return nil
}

func (r *historyRepo) ListByStock(_ context.Context, stockID string, limit, offset int) ([]*entity.StockHistory, error) {
	out := make([]*entity.StockHistory, 0)
	// El slice está en orden de inserción; se recorre al revés (más reciente primero).
	for i := len(r.st.history) - 1; i >= 0; i-- {
		h := r.st.history[i]
		if h.InventoryStockID == stockID {
			out = append(out, &h)
		}
	}
	return page(out, limit, offset), nil
}

func (r *historyRepo) SumByStock(_ context.Context, stockID string) (int, error) {
	sum := 0
	for _, h := range r.st.history {
		if h.InventoryStockID == stockID {
			sum += h.ChangeQty
		}
	}
	return sum, nil
}

func (r *historyRepo) SumByRef(_ context.Context, refType, refID string) (map[string]int, error) {
	sums := map[string]int{}
	for _, h := range r.st.history {
		if h.RefType == refType && h.RefID == refID {
			sums[h.ProductID] += h.ChangeQty
		}
	}
	return sums, nil
}

// ── Órdenes de compra ─────────────────────────────────────────────────────────

type purchaseOrderRepo struct{ st *state }

func (r *purchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	if _, ok := r.st.purchaseOrders[po.ID]; ok {
		return fmt.Errorf("orden de compra %s ya existe: %w", po.ID, domain.ErrConflict)
	}
	r.st.purchaseOrders[po.ID] = clonePurchaseOrder(*po)
	return nil
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	po, ok := r.st.purchaseOrders[id]
	if !ok {
		return nil, nil
	}
	po = clonePurchaseOrder(po)
	return &po, nil
}

func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	if _, ok := r.st.purchaseOrders[po.ID]; !ok {
		return fmt.Errorf("orden de compra %s: %w", po.ID, domain.ErrNotFound)
	}
	r.st.purchaseOrders[po.ID] = clonePurchaseOrder(*po)
	return nil
}

func (r *purchaseOrderRepo) Delete(_ context.Context, id string) error {
	delete(r.st.purchaseOrders, id)
	return nil
}

func (r *purchaseOrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	out := make([]*entity.PurchaseOrder, 0)
	for _, po := range r.st.purchaseOrders {
		if f.Status != "" && po.Status != f.Status {
			continue
		}
		if f.CreatedBy != "" && po.CreatedBy != f.CreatedBy {
			continue
		}
		po = clonePurchaseOrder(po)
		out = append(out, &po)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

// ── Órdenes de venta ──────────────────────────────────────────────────────────

type salesOrderRepo struct{ st *state }

func (r *salesOrderRepo) Create(_ context.Context, so *entity.SalesOrder) error {
	if _, ok := r.st.salesOrders[so.ID]; ok {
		return fmt.Errorf("orden de venta %s ya existe: %w", so.ID, domain.ErrConflict)
	}
	r.st.salesOrders[so.ID] = cloneSalesOrder(*so)
	return nil
}

func (r *salesOrderRepo) GetByID(_ context.Context, id string) (*entity.SalesOrder, error) {
	so, ok := r.st.salesOrders[id]
	if !ok {
		return nil, nil
	}
	so = cloneSalesOrder(so)
	return &so, nil
}

func (r *salesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *salesOrderRepo) Update(_ context.Context, so *entity.SalesOrder) error {
	if _, ok := r.st.salesOrders[so.ID]; !ok {
		return fmt.Errorf("orden de venta %s: %w", so.ID, domain.ErrNotFound)
	}
	r.st.salesOrders[so.ID] = cloneSalesOrder(*so)
	return nil
}

func (r *salesOrderRepo) Delete(_ context.Context, id string) error {
	delete(r.st.salesOrders, id)
	return nil
}

func (r *salesOrderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.SalesOrder, error) {
	out := make([]*entity.SalesOrder, 0)
	for _, so := range r.st.salesOrders {
		if f.Status != "" && so.Status != f.Status {
			continue
		}
		if f.CreatedBy != "" && so.CreatedBy != f.CreatedBy {
			continue
		}
		so = cloneSalesOrder(so)
		out = append(out, &so)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

// ── Consultas externas ────────────────────────────────────────────────────────

type productRepo struct{ st *state }

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type warehouseRepo struct{ st *state }

func (r *warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	w, ok := r.st.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

type supplierProductRepo struct{ st *state }

func (r *supplierProductRepo) GetBySKU(_ context.Context, sku string) (*entity.SupplierProduct, error) {
	sp, ok := r.st.supplierProducts[sku]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *supplierProductRepo) ListActiveBySupplier(_ context.Context, supplierID string) ([]*entity.SupplierProduct, error) {
	out := make([]*entity.SupplierProduct, 0)
	for _, sp := range r.st.supplierProducts {
		if sp.SupplierID == supplierID && sp.Active {
			sp := sp
			out = append(out, &sp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
