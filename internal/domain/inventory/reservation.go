package inventory

import (
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Allocation porción de una reserva asignada a un registro de stock.
type Allocation struct {
	StockID     string
	WarehouseID string
	Quantity    int
}

// Available suma de (existencia - reservado) sobre los registros dados.
func Available(stocks []*entity.InventoryStock) int {
	total := 0
	for _, s := range stocks {
		if a := s.Available(); a > 0 {
			total += a
		}
	}
	return total
}

// PlanReservation reparte qty entre los registros de stock de forma voraz.
// Orden determinista: bodega ascendente y luego ID del registro.
// Si el disponible total no alcanza devuelve ErrInsufficientStock sin asignar nada.
func PlanReservation(stocks []*entity.InventoryStock, qty int) ([]Allocation, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if Available(stocks) < qty {
		return nil, domain.ErrInsufficientStock
	}

	ordered := make([]*entity.InventoryStock, len(stocks))
	copy(ordered, stocks)
	SortByWarehouse(ordered)

	remaining := qty
	plan := make([]Allocation, 0, len(ordered))
	for _, s := range ordered {
		if remaining == 0 {
			break
		}
		free := s.Available()
		if free <= 0 {
			continue
		}
		take := min(free, remaining)
		plan = append(plan, Allocation{StockID: s.ID, WarehouseID: s.WarehouseID, Quantity: take})
		remaining -= take
	}
	return plan, nil
}

// SortByWarehouse ordena in-place por bodega y luego por ID.
func SortByWarehouse(stocks []*entity.InventoryStock) {
	sort.SliceStable(stocks, func(i, j int) bool {
		if stocks[i].WarehouseID != stocks[j].WarehouseID {
			return stocks[i].WarehouseID < stocks[j].WarehouseID
		}
		return stocks[i].ID < stocks[j].ID
	})
}
