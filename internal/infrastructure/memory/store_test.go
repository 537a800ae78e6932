package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

func TestStore_RunDescartaCambiosSiFalla(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	boom := errors.New("boom")
	err := store.Run(ctx, func(repos repository.TxRepos) error {
		s, err := repos.Stocks.GetOrCreateForUpdate(ctx, "p1", "w1")
		require.NoError(t, err)
		s.Quantity = 10
		require.NoError(t, repos.Stocks.Update(ctx, s))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.Run(ctx, func(repos repository.TxRepos) error {
		s, err := repos.Stocks.GetForUpdate(ctx, "p1", "w1")
		require.NoError(t, err)
		assert.Nil(t, s, "la fila creada en la transacción fallida no debe persistir")
		return nil
	})
	require.NoError(t, err)
}

func TestStore_RunConfirmaCambios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	var stockID string
	require.NoError(t, store.Run(ctx, func(repos repository.TxRepos) error {
		s, err := repos.Stocks.GetOrCreateForUpdate(ctx, "p1", "w1")
		if err != nil {
			return err
		}
		stockID = s.ID
		s.Quantity = 4
		return repos.Stocks.Update(ctx, s)
	}))

	require.NoError(t, store.Run(ctx, func(repos repository.TxRepos) error {
		s, err := repos.Stocks.GetByID(ctx, stockID)
		require.NoError(t, err)
		require.NotNil(t, s)
		assert.Equal(t, 4, s.Quantity)

		again, err := repos.Stocks.GetOrCreateForUpdate(ctx, "p1", "w1")
		require.NoError(t, err)
		assert.Equal(t, stockID, again.ID, "un solo registro por (producto, bodega)")
		return nil
	}))
}

func TestStore_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewStore().Run(ctx, func(repository.TxRepos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestSupplierProducts_ListActiveBySupplier(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.AddSupplierProduct(entity.SupplierProduct{SKU: "B-2", ProductID: "p2", SupplierID: "sup", Active: true})
	store.AddSupplierProduct(entity.SupplierProduct{SKU: "A-1", ProductID: "p1", SupplierID: "sup", Active: true})
	store.AddSupplierProduct(entity.SupplierProduct{SKU: "C-3", ProductID: "p3", SupplierID: "sup", Active: false})
	store.AddSupplierProduct(entity.SupplierProduct{SKU: "D-4", ProductID: "p4", SupplierID: "otro", Active: true})

	require.NoError(t, store.Run(ctx, func(repos repository.TxRepos) error {
		list, err := repos.SupplierProducts.ListActiveBySupplier(ctx, "sup")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "A-1", list[0].SKU)
		assert.Equal(t, "B-2", list[1].SKU)
		return nil
	}))
}

func TestSeedDemoCatalog_PermiteOperarSinBaseDeDatos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.SeedDemoCatalog()

	products := memory.DemoProducts()
	require.Len(t, products, 3)

	err := store.Run(ctx, func(repos repository.TxRepos) error {
		w, err := repos.Warehouses.GetByID(ctx, memory.DemoWarehouseMain)
		require.NoError(t, err)
		require.NotNil(t, w)

		p, err := repos.Products.GetByID(ctx, products[0].ID)
		require.NoError(t, err)
		require.NotNil(t, p)

		sp, err := repos.SupplierProducts.GetBySKU(ctx, "TOR-14")
		require.NoError(t, err)
		require.NotNil(t, sp)
		assert.Equal(t, products[0].ID, sp.ProductID)

		active, err := repos.SupplierProducts.ListActiveBySupplier(ctx, memory.DemoSupplierID)
		require.NoError(t, err)
		assert.Len(t, active, 3)
		return nil
	})
	require.NoError(t, err)
}
