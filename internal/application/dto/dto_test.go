package dto_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/pkg/validator"
)

func TestToPurchaseOrderResponse_IncluyeRecibidoSoloEnDetalle(t *testing.T) {
	po := &entity.PurchaseOrder{
		ID:     "po-1",
		Status: entity.StatusProcessing,
		Total:  decimal.NewFromInt(50),
		Details: []entity.PurchaseOrderDetail{
			{ID: "d-1", ProductID: "p-1", Quantity: 5, Cost: decimal.NewFromInt(10), Status: entity.StatusProcessing},
		},
	}

	detail := dto.ToPurchaseOrderResponse(po, map[string]int{"d-1": 2})
	require.Len(t, detail.Lines, 1)
	require.NotNil(t, detail.Lines[0].ReceivedQty)
	assert.Equal(t, 2, *detail.Lines[0].ReceivedQty)
	assert.Equal(t, "PROCESSING", detail.Status)

	list := dto.ToPurchaseOrderResponses([]*entity.PurchaseOrder{po})
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Lines[0].ReceivedQty)
}

func TestToStockResponse_CalculaDisponible(t *testing.T) {
	out := dto.ToStockResponse(&entity.InventoryStock{ID: "s-1", Quantity: 10, ReservedQuantity: 3})
	assert.Equal(t, 7, out.Available)
}

func TestCreateSalesOrderRequest_Validacion(t *testing.T) {
	req := dto.CreateSalesOrderRequest{
		CustomerName: "ACME",
		Lines:        []dto.SalesOrderLineRequest{{SKU: "SKU-A", Quantity: 0, Price: decimal.NewFromInt(-5)}},
	}
	errs := validator.ValidateStruct(req)
	require.Len(t, errs, 2)

	req.Lines[0].Quantity = 1
	req.Lines[0].Price = decimal.NewFromInt(5)
	assert.Empty(t, validator.ValidateStruct(req))

	in := req.ToInput()
	assert.Equal(t, "ACME", in.CustomerName)
	assert.Equal(t, "SKU-A", in.Lines[0].SKU)
}

func TestAdjustStockRequest_DeltaCeroInvalido(t *testing.T) {
	errs := validator.ValidateStruct(dto.AdjustStockRequest{ProductID: "p", WarehouseID: "w"})
	require.Len(t, errs, 1)
	assert.Equal(t, "ne", errs[0].Tag)
}

func TestStockMovementRequest_SoloMovimientosDeAjuste(t *testing.T) {
	req := dto.StockMovementRequest{ProductID: "p", WarehouseID: "w", Quantity: 2, RefType: entity.RefTypePO, RefID: "po-1"}
	errs := validator.ValidateStruct(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "eq", errs[0].Tag)

	req.RefType = ""
	assert.Empty(t, validator.ValidateStruct(req))
	in := req.ToInput()
	assert.Equal(t, entity.RefTypeADJ, in.RefType)
	assert.Equal(t, "po-1", in.RefID)
}
