package purchasing_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestReceiveStock_ConcurrenteNoSuperaLoOrdenado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.placedOrder(t, 30)
	detailID := po.Details[0].ID

	const callers = 50
	var ok atomic.Int32
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.receiving.ReceiveStock(ctx, po.ID, []purchasing.ReceiveItem{
				{DetailID: detailID, WarehouseID: warehouse1, ReceivedQty: 1},
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

	assert.Equal(t, int32(30), ok.Load())
	for err := range errs {
		assert.True(t, errors.Is(err, domain.ErrOverReceipt), "error inesperado: %v", err)
	}
	assert.Equal(t, 30, f.quantity(t, productA, warehouse1))

	view, err := f.orders.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCompleted, view.Order.Status)
	assert.Equal(t, 30, view.ReceivedQty[detailID])

	var stockID string
	require.NoError(t, f.store.Run(ctx, func(repos repository.TxRepos) error {
		s, err := repos.Stocks.GetForUpdate(ctx, productA, warehouse1)
		if s != nil {
			stockID = s.ID
		}
		return err
	}))
	audit, err := f.ledger.VerifyStock(ctx, stockID)
	require.NoError(t, err)
	assert.Zero(t, audit.Drift)
}
