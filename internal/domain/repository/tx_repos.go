package repository

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Stocks           InventoryStockRepository
	History          StockHistoryRepository
	PurchaseOrders   PurchaseOrderRepository
	SalesOrders      SalesOrderRepository
	Products         ProductRepository
	Warehouses       WarehouseRepository
	SupplierProducts SupplierProductRepository
}
