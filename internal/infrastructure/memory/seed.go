package memory

import "github.com/jhoicas/inventario-ledger/internal/domain/entity"

// Catálogo de demostración para APP_STORAGE=memory. Los IDs son fijos para poder
// usarlos directamente en las peticiones.
const (
	DemoSupplierID     = "5a1e0000-0000-4000-8000-000000000001"
	DemoWarehouseMain  = "b0d00000-0000-4000-8000-000000000001"
	DemoWarehouseNorth = "b0d00000-0000-4000-8000-000000000002"
)

var (
	demoProducts = []entity.Product{
		{ID: "9d000000-0000-4000-8000-000000000001", Name: "Tornillo hexagonal 1/4"},
		{ID: "9d000000-0000-4000-8000-000000000002", Name: "Tuerca de seguridad 1/4"},
		{ID: "9d000000-0000-4000-8000-000000000003", Name: "Arandela plana 1/4"},
	}
	demoWarehouses = []entity.Warehouse{
		{ID: DemoWarehouseMain, Name: "Bodega principal"},
		{ID: DemoWarehouseNorth, Name: "Bodega norte"},
	}
	demoSKUs = []string{"TOR-14", "TUE-14", "ARA-14"}
)

// SeedDemoCatalog registra productos, bodegas y SKUs activos del proveedor demo.
// No crea stock: las existencias nacen con los movimientos.
func (s *Store) SeedDemoCatalog() {
	for _, w := range demoWarehouses {
		s.AddWarehouse(w)
	}
	for i, p := range demoProducts {
		s.AddProduct(p)
		s.AddSupplierProduct(entity.SupplierProduct{SKU: demoSKUs[i], ProductID: p.ID, SupplierID: DemoSupplierID, Active: true})
	}
}

// DemoProducts productos del catálogo de demostración, para registrarlos en el log de arranque.
func DemoProducts() []entity.Product {
	return append([]entity.Product(nil), demoProducts...)
}
