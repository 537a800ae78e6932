package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	flowProduct   = "prod-a"
	flowWarehouse = "wh-1"
	flowSupplier  = "sup-1"
	flowSKU       = "SKU-A"
)

// buildFlowApp arma la API completa sobre el almacenamiento en memoria.
func buildFlowApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	store.AddProduct(entity.Product{ID: flowProduct, Name: "Tornillo"})
	store.AddWarehouse(entity.Warehouse{ID: flowWarehouse, Name: "Bodega central"})
	store.AddSupplierProduct(entity.SupplierProduct{SKU: flowSKU, ProductID: flowProduct, SupplierID: flowSupplier, Active: true})

	pub := events.NoopPublisher{}
	met := metrics.Nop{}
	ledger := inventory.NewStockLedger(store, pub, met)

	return apphttp.NewApp("inventario-ledger-test", apphttp.RouterDeps{
		Ledger:         ledger,
		PurchaseOrders: purchasing.NewOrderUseCase(store, pub, met, pdf.NewMarotoPDFGenerator("Test")),
		Receiving:      purchasing.NewReceivingUseCase(store, ledger, pub, met),
		SalesOrders:    sales.NewOrderUseCase(store, pub, met),
		Reservation:    sales.NewReservationUseCase(store, ledger, pub, met),
		Delivery:       sales.NewDeliveryUseCase(store, ledger, pub, met),
		Tokens:         testTokens(t),
		MetricsHandler: promhttp.Handler(),
	})
}

// call lanza la petición con el rol indicado ("" = sin token) y decodifica el JSON de respuesta.
func call(t *testing.T, app *fiber.App, method, path, role string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func firstLine(t *testing.T, order map[string]any) map[string]any {
	t.Helper()
	lines, ok := order["lines"].([]any)
	require.True(t, ok, "la orden debe traer líneas")
	require.NotEmpty(t, lines)
	return lines[0].(map[string]any)
}

func createPlacedPO(t *testing.T, app *fiber.App, qty int) (poID, detailID string) {
	t.Helper()
	status, po := call(t, app, http.MethodPost, "/api/purchase-orders", "bodeguero", map[string]any{
		"supplier_id": flowSupplier,
		"lines":       []map[string]any{{"product_id": flowProduct, "quantity": qty, "cost": 1000}},
	})
	require.Equal(t, http.StatusCreated, status, po)
	poID = po["id"].(string)
	detailID = firstLine(t, po)["id"].(string)

	status, placed := call(t, app, http.MethodPost, "/api/purchase-orders/"+poID+"/place", "bodeguero", nil)
	require.Equal(t, http.StatusOK, status, placed)
	require.Equal(t, "PENDING", placed["status"])
	return poID, detailID
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: compra → recepción → venta → reserva → entrega
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_CompraRecepcionVentaEntrega(t *testing.T) {
	app := buildFlowApp(t)
	poID, poDetail := createPlacedPO(t, app, 10)

	receive := func(qty int) map[string]any {
		status, res := call(t, app, http.MethodPost, "/api/purchase-orders/"+poID+"/receive", "bodeguero", map[string]any{
			"items": []map[string]any{{"detail_id": poDetail, "warehouse_id": flowWarehouse, "received_qty": qty}},
		})
		require.Equal(t, http.StatusOK, status, res)
		return res
	}

	res := receive(4)
	assert.Equal(t, "PROCESSING", res["status"])
	res = receive(6)
	assert.Equal(t, "COMPLETED", res["status"])
	assert.Equal(t, []any{poDetail}, res["completed_detail_ids"])

	status, po := call(t, app, http.MethodGet, "/api/purchase-orders/"+poID, "vendedor", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 10, firstLine(t, po)["received_qty"])

	status, avail := call(t, app, http.MethodGet, "/api/inventory/skus/"+flowSKU+"/available", "vendedor", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 10, avail["available"])

	// Venta
	status, so := call(t, app, http.MethodPost, "/api/sales-orders", "vendedor", map[string]any{
		"customer_name": "Ferretería El Tornillo",
		"lines":         []map[string]any{{"sku": flowSKU, "quantity": 3, "price": 2500}},
	})
	require.Equal(t, http.StatusCreated, status, so)
	soID := so["id"].(string)
	soDetail := firstLine(t, so)["id"].(string)

	status, prepared := call(t, app, http.MethodPost, "/api/sales-orders/"+soID+"/prepare", "vendedor", nil)
	require.Equal(t, http.StatusOK, status, prepared)
	assert.Equal(t, "PENDING", prepared["status"])

	status, avail = call(t, app, http.MethodGet, "/api/inventory/products/"+flowProduct+"/available", "bodeguero", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 7, avail["available"], "la reserva descuenta del disponible")

	status, delivered := call(t, app, http.MethodPost, "/api/sales-orders/"+soID+"/deliver", "bodeguero", map[string]any{
		"items": []map[string]any{{"detail_id": soDetail, "warehouse_id": flowWarehouse, "delivered_qty": 3}},
	})
	require.Equal(t, http.StatusOK, status, delivered)
	assert.Equal(t, "COMPLETED", delivered["status"])

	status, stocks := call(t, app, http.MethodGet, "/api/inventory/products/"+flowProduct+"/stocks", "admin", nil)
	require.Equal(t, http.StatusOK, status)
	list := stocks["stocks"].([]any)
	require.Len(t, list, 1)
	row := list[0].(map[string]any)
	assert.EqualValues(t, 7, row["quantity"])
	assert.EqualValues(t, 0, row["reserved_quantity"])

	status, audit := call(t, app, http.MethodGet, "/api/inventory/stocks/"+row["id"].(string)+"/audit", "admin", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, audit["consistent"])

	status, hist := call(t, app, http.MethodGet, "/api/inventory/stocks/"+row["id"].(string)+"/history?limit=10", "admin", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, hist["history"], 3, "dos recepciones y una entrega")
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores y autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestRecepcion_ExcedeOrdenado_Retorna400(t *testing.T) {
	app := buildFlowApp(t)
	poID, detail := createPlacedPO(t, app, 5)

	status, body := call(t, app, http.MethodPost, "/api/purchase-orders/"+poID+"/receive", "bodeguero", map[string]any{
		"items": []map[string]any{{"detail_id": detail, "warehouse_id": flowWarehouse, "received_qty": 6}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "OVER_RECEIPT", body["code"])
}

func TestRecepcion_VendedorNoAutorizado_Retorna403(t *testing.T) {
	app := buildFlowApp(t)
	poID, detail := createPlacedPO(t, app, 5)

	status, body := call(t, app, http.MethodPost, "/api/purchase-orders/"+poID+"/receive", "vendedor", map[string]any{
		"items": []map[string]any{{"detail_id": detail, "warehouse_id": flowWarehouse, "received_qty": 1}},
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestOrdenInexistente_Retorna404(t *testing.T) {
	app := buildFlowApp(t)
	status, body := call(t, app, http.MethodGet, "/api/purchase-orders/no-existe", "admin", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestCrearOrdenSinLineas_Retorna400ConCampos(t *testing.T) {
	app := buildFlowApp(t)
	status, body := call(t, app, http.MethodPost, "/api/purchase-orders", "admin", map[string]any{
		"supplier_id": flowSupplier,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.NotEmpty(t, body["fields"])
}

func TestSalidaSinStock_Retorna400(t *testing.T) {
	app := buildFlowApp(t)
	status, body := call(t, app, http.MethodPost, "/api/inventory/decrease", "bodeguero", map[string]any{
		"product_id": flowProduct, "warehouse_id": flowWarehouse, "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
}

func TestEntradaManual_NoAvanzaRecepcionDeLaOrden(t *testing.T) {
	app := buildFlowApp(t)
	poID, _ := createPlacedPO(t, app, 5)

	status, body := call(t, app, http.MethodPost, "/api/inventory/increase", "bodeguero", map[string]any{
		"product_id": flowProduct, "warehouse_id": flowWarehouse, "quantity": 5, "ref_type": "PO", "ref_id": poID,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, entry := call(t, app, http.MethodPost, "/api/inventory/increase", "bodeguero", map[string]any{
		"product_id": flowProduct, "warehouse_id": flowWarehouse, "quantity": 5, "ref_id": poID,
	})
	require.Equal(t, http.StatusCreated, status, entry)
	assert.Equal(t, "ADJ", entry["ref_type"])

	status, po := call(t, app, http.MethodGet, "/api/purchase-orders/"+poID, "bodeguero", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "PENDING", po["status"])
	assert.EqualValues(t, 0, firstLine(t, po)["received_qty"])
}

func TestCancelarYEliminarOrdenDeCompra(t *testing.T) {
	app := buildFlowApp(t)
	status, po := call(t, app, http.MethodPost, "/api/purchase-orders", "bodeguero", map[string]any{
		"supplier_id": flowSupplier,
		"lines":       []map[string]any{{"product_id": flowProduct, "quantity": 2, "cost": 500}},
	})
	require.Equal(t, http.StatusCreated, status)
	id := po["id"].(string)

	status, cancelled := call(t, app, http.MethodPost, "/api/purchase-orders/"+id+"/cancel", "bodeguero", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CANCELLED", cancelled["status"])

	status, _ = call(t, app, http.MethodPost, "/api/purchase-orders/"+id+"/place", "bodeguero", nil)
	assert.Equal(t, http.StatusBadRequest, status, "una orden cancelada no se puede colocar")

	status, _ = call(t, app, http.MethodDelete, "/api/purchase-orders/"+id, "bodeguero", nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = call(t, app, http.MethodGet, "/api/purchase-orders/"+id, "bodeguero", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPDFOrdenDeCompra(t *testing.T) {
	app := buildFlowApp(t)
	poID, _ := createPlacedPO(t, app, 3)

	req := httptest.NewRequest(http.MethodGet, "/api/purchase-orders/"+poID+"/pdf", nil)
	req.Header.Set("Authorization", tokenForRole(t, "vendedor"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "orden-compra-"+poID+".pdf")
}

func TestHealthYMetricsSinToken(t *testing.T) {
	app := buildFlowApp(t)

	status, body := call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, _ = call(t, app, http.MethodGet, "/api/sales-orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
