package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func stock(id, warehouse string, qty, reserved int) *entity.InventoryStock {
	return &entity.InventoryStock{ID: id, ProductID: "p1", WarehouseID: warehouse, Quantity: qty, ReservedQuantity: reserved}
}

func TestPlanReservation_RepartePorBodegaAscendente(t *testing.T) {
	// Se pasan desordenadas a propósito: B tiene 6 libres, A tiene 3.
	stocks := []*entity.InventoryStock{
		stock("s2", "wh-b", 6, 0),
		stock("s1", "wh-a", 5, 2),
	}

	plan, err := inventory.PlanReservation(stocks, 7)
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, inventory.Allocation{StockID: "s1", WarehouseID: "wh-a", Quantity: 3}, plan[0])
	assert.Equal(t, inventory.Allocation{StockID: "s2", WarehouseID: "wh-b", Quantity: 4}, plan[1])

	// La entrada no se reordena.
	assert.Equal(t, "s2", stocks[0].ID)
}

func TestPlanReservation_OmiteRegistrosSinDisponible(t *testing.T) {
	stocks := []*entity.InventoryStock{
		stock("s1", "wh-a", 4, 4),
		stock("s2", "wh-b", 5, 0),
	}
	plan, err := inventory.PlanReservation(stocks, 5)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, "s2", plan[0].StockID)
	assert.Equal(t, 5, plan[0].Quantity)
}

func TestPlanReservation_StockInsuficiente(t *testing.T) {
	stocks := []*entity.InventoryStock{stock("s1", "wh-a", 5, 2), stock("s2", "wh-b", 1, 0)}

	plan, err := inventory.PlanReservation(stocks, 5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	assert.Nil(t, plan)
}

func TestPlanReservation_CantidadInvalida(t *testing.T) {
	_, err := inventory.PlanReservation(nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAvailable(t *testing.T) {
	assert.Equal(t, 0, inventory.Available(nil))
	assert.Equal(t, 9, inventory.Available([]*entity.InventoryStock{stock("a", "w1", 5, 1), stock("b", "w2", 5, 0)}))
}
