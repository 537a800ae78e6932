package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/purchasing"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// PurchaseOrderHandler maneja órdenes de compra y recepción de mercancía (protegido).
type PurchaseOrderHandler struct {
	orders    *purchasing.OrderUseCase
	receiving *purchasing.ReceivingUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(orders *purchasing.OrderUseCase, receiving *purchasing.ReceivingUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders, receiving: receiving}
}

// Create godoc
// @Summary      Crear orden de compra (NEW)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_id y líneas"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	po, err := h.orders.Create(c.UserContext(), GetActor(c), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPurchaseOrderResponse(po, map[string]int{}))
}

// List GET /api/purchase-orders?status=&mine=true&limit=&offset=
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	page, ok, err := parsePage(c)
	if !ok {
		return err
	}
	filter := repository.OrderFilter{
		Status: entity.OrderStatus(c.Query("status")),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if c.QueryBool("mine") {
		filter.CreatedBy = GetUserID(c)
	}
	list, err := h.orders.List(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"orders": dto.ToPurchaseOrderResponses(list),
		"page":   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// GetByID GET /api/purchase-orders/:id
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	view, err := h.orders.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToPurchaseOrderResponse(view.Order, view.ReceivedQty))
}

// Place POST /api/purchase-orders/:id/place
func (h *PurchaseOrderHandler) Place(c *fiber.Ctx) error {
	po, err := h.orders.PlaceOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToPurchaseOrderResponse(po, nil))
}

// UpdateLine PATCH /api/purchase-orders/:id/lines/:detailId
func (h *PurchaseOrderHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateLineQuantityRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	po, err := h.orders.UpdateDetailQuantity(c.UserContext(), GetActor(c), c.Params("id"), c.Params("detailId"), in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToPurchaseOrderResponse(po, nil))
}

// Cancel POST /api/purchase-orders/:id/cancel
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	po, err := h.orders.Cancel(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToPurchaseOrderResponse(po, nil))
}

// Delete DELETE /api/purchase-orders/:id
func (h *PurchaseOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receive godoc
// @Summary      Recibir mercancía de una orden de compra
// @Description  Aplica todas las líneas en una sola transacción; si una falla no se aplica ninguna.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.ReceiveStockRequest  true  "líneas recibidas por bodega"
// @Success      200   {object}  dto.ReceiveStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.receiving.ReceiveStock(c.UserContext(), c.Params("id"), in.ToItems())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToReceiveStockResponse(res))
}

// PDF GET /api/purchase-orders/:id/pdf
func (h *PurchaseOrderHandler) PDF(c *fiber.Ctx) error {
	out, filename, err := h.orders.RenderPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(out)
}
