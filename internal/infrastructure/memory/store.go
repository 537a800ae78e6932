// Package memory implementa los repositorios en memoria. Se usa en pruebas y en
// modo APP_STORAGE=memory (demos sin PostgreSQL).
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda todo el estado detrás de un único mutex. Cada transacción trabaja
// sobre una copia y solo se publica si fn termina sin error (Commit); si no, se descarta.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	products         map[string]entity.Product
	warehouses       map[string]entity.Warehouse
	supplierProducts map[string]entity.SupplierProduct // por SKU
	stocks           map[string]entity.InventoryStock
	stockKeys        map[string]string // producto|bodega -> id de stock
	history          []entity.StockHistory
	purchaseOrders   map[string]entity.PurchaseOrder
	salesOrders      map[string]entity.SalesOrder
}

// NewStore construye un almacén vacío.
func NewStore() *Store {
	return &Store{state: &state{
		products:         map[string]entity.Product{},
		warehouses:       map[string]entity.Warehouse{},
		supplierProducts: map[string]entity.SupplierProduct{},
		stocks:           map[string]entity.InventoryStock{},
		stockKeys:        map[string]string{},
		purchaseOrders:   map[string]entity.PurchaseOrder{},
		salesOrders:      map[string]entity.SalesOrder{},
	}}
}

// Run ejecuta fn serializada con las demás transacciones.
func (s *Store) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.state.clone()
	if err := fn(snapshot.repos()); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.state = snapshot
	return nil
}

// AddProduct registra un producto del catálogo.
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.products[p.ID] = p
}

// AddWarehouse registra una bodega.
func (s *Store) AddWarehouse(w entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.warehouses[w.ID] = w
}

// AddSupplierProduct registra un SKU de proveedor.
func (s *Store) AddSupplierProduct(sp entity.SupplierProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.supplierProducts[sp.SKU] = sp
}

func (st *state) repos() repository.TxRepos {
	return repository.TxRepos{
		Stocks:           &stockRepo{st: st},
		History:          &historyRepo{st: st},
		PurchaseOrders:   &purchaseOrderRepo{st: st},
		SalesOrders:      &salesOrderRepo{st: st},
		Products:         &productRepo{st: st},
		Warehouses:       &warehouseRepo{st: st},
		SupplierProducts: &supplierProductRepo{st: st},
	}
}

func (st *state) clone() *state {
	c := &state{
		products:         make(map[string]entity.Product, len(st.products)),
		warehouses:       make(map[string]entity.Warehouse, len(st.warehouses)),
		supplierProducts: make(map[string]entity.SupplierProduct, len(st.supplierProducts)),
		stocks:           make(map[string]entity.InventoryStock, len(st.stocks)),
		stockKeys:        make(map[string]string, len(st.stockKeys)),
		history:          make([]entity.StockHistory, len(st.history)),
		purchaseOrders:   make(map[string]entity.PurchaseOrder, len(st.purchaseOrders)),
		salesOrders:      make(map[string]entity.SalesOrder, len(st.salesOrders)),
	}
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range st.supplierProducts {
		c.supplierProducts[k] = v
	}
	for k, v := range st.stocks {
		c.stocks[k] = v
	}
	for k, v := range st.stockKeys {
		c.stockKeys[k] = v
	}
	copy(c.history, st.history)
	for k, v := range st.purchaseOrders {
		c.purchaseOrders[k] = clonePurchaseOrder(v)
	}
	for k, v := range st.salesOrders {
		c.salesOrders[k] = cloneSalesOrder(v)
	}
	return c
}

func clonePurchaseOrder(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Details = append([]entity.PurchaseOrderDetail(nil), po.Details...)
	return po
}

func cloneSalesOrder(so entity.SalesOrder) entity.SalesOrder {
	so.Details = append([]entity.SalesOrderDetail(nil), so.Details...)
	return so
}

func stockKey(productID, warehouseID string) string {
	return productID + "|" + warehouseID
}
