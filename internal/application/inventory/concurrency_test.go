package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
)

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestDecreaseStock_ConcurrenteNoConsumeLoReservado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: productA, Name: "Producto A"})
	store.AddWarehouse(entity.Warehouse{ID: warehouse1, Name: "Bodega 1"})
	ledger := inventory.NewStockLedger(store, events.NoopPublisher{}, metrics.Nop{})

	_, err := ledger.IncreaseStock(ctx, inventory.StockMovementInput{
		ProductID: productA, WarehouseID: warehouse1, Quantity: 30, RefType: entity.RefTypeADJ,
	})
	require.NoError(t, err)
	require.NoError(t, store.Run(ctx, func(repos repository.TxRepos) error {
		_, err := ledger.ReserveInTx(ctx, repos, productA, 10, time.Now())
		return err
	}))

	const callers = 50
	var ok atomic.Int32
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.DecreaseStock(ctx, inventory.StockMovementInput{
				ProductID: productA, WarehouseID: warehouse1, Quantity: 1, RefType: entity.RefTypeADJ,
			})
			if err != nil {
				errs <- err
				return
			}
			ok.Add(1)
		}()
	}
	wg.Wait()
	close(errs)

	assert.Equal(t, int32(20), ok.Load(), "solo sale lo no reservado")
	for err := range errs {
		assert.True(t, errors.Is(err, domain.ErrInsufficientStock), "error inesperado: %v", err)
	}

	s := stockOf(t, store, productA, warehouse1)
	assert.Equal(t, 10, s.Quantity)
	assert.Equal(t, 10, s.ReservedQuantity)
	audit, err := ledger.VerifyStock(ctx, s.ID)
	require.NoError(t, err)
	assert.Zero(t, audit.Drift)
}
