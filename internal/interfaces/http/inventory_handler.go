package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del libro mayor de stock (protegido).
type InventoryHandler struct {
	ledger *inventory.StockLedger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.StockLedger) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// Increase godoc
// @Summary      Entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, warehouse_id, quantity > 0"
// @Success      201   {object}  dto.StockHistoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/increase [post]
func (h *InventoryHandler) Increase(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	entry, err := h.ledger.IncreaseStock(c.UserContext(), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockHistoryResponse(entry))
}

// Decrease godoc
// @Summary      Salida de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, warehouse_id, quantity > 0"
// @Success      201   {object}  dto.StockHistoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/decrease [post]
func (h *InventoryHandler) Decrease(c *fiber.Ctx) error {
	var in dto.StockMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	entry, err := h.ledger.DecreaseStock(c.UserContext(), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockHistoryResponse(entry))
}

// Adjust godoc
// @Summary      Ajuste manual de stock (delta con signo)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustStockRequest  true  "product_id, warehouse_id, delta != 0"
// @Success      201   {object}  dto.StockHistoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	entry, err := h.ledger.AdjustStock(c.UserContext(), in.ProductID, in.WarehouseID, in.Delta, in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockHistoryResponse(entry))
}

// ListStocks GET /api/inventory/products/:productId/stocks
func (h *InventoryHandler) ListStocks(c *fiber.Ctx) error {
	list, err := h.ledger.ListStocks(c.UserContext(), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"stocks": dto.ToStockResponses(list)})
}

// Available GET /api/inventory/products/:productId/available
func (h *InventoryHandler) Available(c *fiber.Ctx) error {
	productID := c.Params("productId")
	qty, err := h.ledger.AvailableQuantity(c.UserContext(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{ProductID: productID, Available: qty})
}

// AvailableBySKU GET /api/inventory/skus/:sku/available
func (h *InventoryHandler) AvailableBySKU(c *fiber.Ctx) error {
	sku := c.Params("sku")
	qty, err := h.ledger.AvailableQuantityBySKU(c.UserContext(), sku)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{SKU: sku, Available: qty})
}

// History GET /api/inventory/stocks/:stockId/history?limit=&offset=
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	list, err := h.ledger.History(c.UserContext(), c.Params("stockId"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"history": dto.ToStockHistoryResponses(list),
		"page":    dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// Audit GET /api/inventory/stocks/:stockId/audit
// Compara la cantidad guardada con la suma de su historial.
func (h *InventoryHandler) Audit(c *fiber.Ctx) error {
	audit, err := h.ledger.VerifyStock(c.UserContext(), c.Params("stockId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToStockAuditResponse(audit))
}
