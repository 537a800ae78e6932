package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	productA   = "prod-a"
	warehouse1 = "wh-1"
	warehouse2 = "wh-2"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt ports.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

type recordingMetrics struct {
	ops     map[string]int
	changes map[string]int
}

func (m *recordingMetrics) RecordOperation(_ context.Context, op string, err error, _ time.Duration) {
	if err == nil {
		m.ops[op]++
	}
}

func (m *recordingMetrics) RecordStockChange(_ context.Context, t string, qty int) {
	m.changes[t] += qty
}

func newLedger(t *testing.T) (*inventory.StockLedger, *memory.Store, *recordingPublisher, *recordingMetrics) {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: productA, Name: "Producto A"})
	store.AddWarehouse(entity.Warehouse{ID: warehouse1, Name: "Bodega 1"})
	store.AddWarehouse(entity.Warehouse{ID: warehouse2, Name: "Bodega 2"})
	store.AddSupplierProduct(entity.SupplierProduct{SKU: "SKU-A", ProductID: productA, SupplierID: "sup-1", Active: true})

	pub := &recordingPublisher{}
	met := &recordingMetrics{ops: map[string]int{}, changes: map[string]int{}}
	return inventory.NewStockLedger(store, pub, met), store, pub, met
}

func stockOf(t *testing.T, store *memory.Store, productID, warehouseID string) *entity.InventoryStock {
	t.Helper()
	var s *entity.InventoryStock
	require.NoError(t, store.Run(context.Background(), func(repos repository.TxRepos) error {
		var err error
		s, err = repos.Stocks.GetForUpdate(context.Background(), productID, warehouseID)
		return err
	}))
	return s
}

// ──────────────────────────────────────────────────────────────────────────────

func TestIncreaseStock_CreaRegistroYAsiento(t *testing.T) {
	ctx := context.Background()
	ledger, store, pub, met := newLedger(t)

	h, err := ledger.IncreaseStock(ctx, inventory.StockMovementInput{
		ProductID: productA, WarehouseID: warehouse1, Quantity: 50,
		RefType: entity.RefTypePO, RefID: "10", Notes: "recepción inicial",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, h.ChangeQty)
	assert.Equal(t, entity.HistoryTypeIN, h.Type)
	assert.Equal(t, "10", h.RefID)

	s := stockOf(t, store, productA, warehouse1)
	require.NotNil(t, s)
	assert.Equal(t, 50, s.Quantity)
	assert.Equal(t, 0, s.ReservedQuantity)

	history, err := ledger.History(ctx, s.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, h.ID, history[0].ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, ports.EventStockChanged, pub.events[0].Type)
	assert.Equal(t, 1, met.ops["increase_stock"])
	assert.Equal(t, 50, met.changes[entity.HistoryTypeIN])
}

func TestDecreaseStock_NoPermiteExistenciaNegativa(t *testing.T) {
	ctx := context.Background()
	ledger, store, pub, _ := newLedger(t)

	_, err := ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse1, Quantity: 5, RefType: entity.RefTypeADJ})
	require.NoError(t, err)

	_, err = ledger.DecreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse1, Quantity: 6, RefType: entity.RefTypeSO, RefID: "so-1"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)

	s := stockOf(t, store, productA, warehouse1)
	assert.Equal(t, 5, s.Quantity, "la existencia no debe cambiar si la salida falla")
	assert.Len(t, pub.events, 1, "no se publican eventos de operaciones revertidas")

	h, err := ledger.DecreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse1, Quantity: 5, RefType: entity.RefTypeSO, RefID: "so-1"})
	require.NoError(t, err)
	assert.Equal(t, -5, h.ChangeQty)
	assert.Equal(t, entity.HistoryTypeOUT, h.Type)
	assert.Equal(t, 0, stockOf(t, store, productA, warehouse1).Quantity)
}

func TestIncreaseStock_SinReferenciaQuedaComoAjuste(t *testing.T) {
	ctx := context.Background()
	ledger, _, _, _ := newLedger(t)

	h, err := ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse1, Quantity: 3, RefID: "conteo-7"})
	require.NoError(t, err)
	assert.Equal(t, entity.HistoryTypeIN, h.Type)
	assert.Equal(t, entity.RefTypeADJ, h.RefType)
	assert.Equal(t, "conteo-7", h.RefID)
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	ledger, store, _, _ := newLedger(t)

	h, err := ledger.AdjustStock(ctx, productA, warehouse2, 7, "conteo físico")
	require.NoError(t, err)
	assert.Equal(t, entity.HistoryTypeADJ, h.Type)
	assert.Equal(t, entity.RefTypeADJ, h.RefType)
	assert.Empty(t, h.RefID)

	_, err = ledger.AdjustStock(ctx, productA, warehouse2, -3, "merma")
	require.NoError(t, err)
	assert.Equal(t, 4, stockOf(t, store, productA, warehouse2).Quantity)

	_, err = ledger.AdjustStock(ctx, productA, warehouse2, 0, "nada")
	assert.ErrorIs(t, err, domain.ErrInvalidChange)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_ValidaEntradas(t *testing.T) {
	ctx := context.Background()
	ledger, store, _, _ := newLedger(t)

	_, err := ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse1, Quantity: 0, RefType: entity.RefTypeADJ})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: "no-existe", WarehouseID: warehouse1, Quantity: 1, RefType: entity.RefTypeADJ})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: "no-existe", Quantity: 1, RefType: entity.RefTypeADJ})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse1, Quantity: 1, RefType: "XX"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Nil(t, stockOf(t, store, productA, warehouse1), "ninguna entrada inválida crea el registro de stock")
}

func TestApplyChangeInTx_ReservadoNuncaSuperaExistencia(t *testing.T) {
	ctx := context.Background()
	ledger, store, _, _ := newLedger(t)

	_, err := ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse1, Quantity: 10, RefType: entity.RefTypeADJ})
	require.NoError(t, err)
	require.NoError(t, store.Run(ctx, func(repos repository.TxRepos) error {
		_, err := ledger.ReserveInTx(ctx, repos, productA, 8, time.Now())
		return err
	}))

	// 10 en existencia, 8 reservados: un ajuste de -3 dejaría 7 < 8.
	_, err = ledger.AdjustStock(ctx, productA, warehouse1, -3, "merma")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = ledger.AdjustStock(ctx, productA, warehouse1, -2, "merma")
	require.NoError(t, err)
	s := stockOf(t, store, productA, warehouse1)
	assert.Equal(t, 8, s.Quantity)
	assert.Equal(t, 8, s.ReservedQuantity)
}

func TestApplyChangeInTx_LiberaReserva(t *testing.T) {
	ctx := context.Background()
	ledger, store, _, _ := newLedger(t)

	_, err := ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse1, Quantity: 10, RefType: entity.RefTypeADJ})
	require.NoError(t, err)

	err = store.Run(ctx, func(repos repository.TxRepos) error {
		if _, err := ledger.ReserveInTx(ctx, repos, productA, 4, time.Now()); err != nil {
			return err
		}
		_, err := ledger.ApplyChangeInTx(ctx, repos, inventory.StockChange{
			ProductID: productA, WarehouseID: warehouse1, ChangeQty: -5,
			Type: entity.HistoryTypeOUT, RefType: entity.RefTypeSO, RefID: "so-1",
			ReleaseReserved: 5,
		}, time.Now())
		return err
	})
	assert.ErrorIs(t, err, domain.ErrReservationShortfall)

	s := stockOf(t, store, productA, warehouse1)
	assert.Equal(t, 10, s.Quantity)
	assert.Equal(t, 0, s.ReservedQuantity, "la reserva de la transacción fallida se revierte")
}

func TestAvailableQuantity(t *testing.T) {
	ctx := context.Background()
	ledger, store, _, _ := newLedger(t)

	_, err := ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse1, Quantity: 12, RefType: entity.RefTypeADJ})
	require.NoError(t, err)
	_, err = ledger.IncreaseStock(ctx, inventory.StockMovementInput{ProductID: productA, WarehouseID: warehouse2, Quantity: 8, RefType: entity.RefTypeADJ})
	require.NoError(t, err)
	require.NoError(t, store.Run(ctx, func(repos repository.TxRepos) error {
		_, err := ledger.ReserveInTx(ctx, repos, productA, 15, time.Now())
		return err
	}))

	qty, err := ledger.AvailableQuantity(ctx, productA)
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	qty, err = ledger.AvailableQuantityBySKU(ctx, "SKU-A")
	require.NoError(t, err)
	assert.Equal(t, 5, qty)

	_, err = ledger.AvailableQuantityBySKU(ctx, "SKU-X")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	stocks, err := ledger.ListStocks(ctx, productA)
	require.NoError(t, err)
	require.Len(t, stocks, 2)
	assert.Equal(t, warehouse1, stocks[0].WarehouseID)
	assert.Equal(t, 12, stocks[0].ReservedQuantity, "se reserva primero la bodega de menor id")
	assert.Equal(t, 3, stocks[1].ReservedQuantity)
}

func TestVerifyStock_ExistenciaIgualASumaDelHistorial(t *testing.T) {
	ctx := context.Background()
	ledger, store, _, _ := newLedger(t)

	for _, delta := range []int{10, -4, 7, -1} {
		_, err := ledger.AdjustStock(ctx, productA, warehouse1, delta, "")
		require.NoError(t, err)
	}
	_, err := ledger.AdjustStock(ctx, productA, warehouse1, -100, "")
	require.Error(t, err)

	s := stockOf(t, store, productA, warehouse1)
	audit, err := ledger.VerifyStock(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, audit.Quantity)
	assert.Equal(t, 12, audit.LedgerSum)
	assert.Zero(t, audit.Drift)

	_, err = ledger.VerifyStock(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
