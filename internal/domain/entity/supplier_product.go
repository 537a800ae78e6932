package entity

// SupplierProduct relación proveedor-producto identificada por SKU.
type SupplierProduct struct {
	SKU        string
	ProductID  string
	SupplierID string
	Active     bool
}
