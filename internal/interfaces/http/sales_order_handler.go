package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/sales"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// SalesOrderHandler maneja órdenes de venta, reserva y entrega (protegido).
type SalesOrderHandler struct {
	orders      *sales.OrderUseCase
	reservation *sales.ReservationUseCase
	delivery    *sales.DeliveryUseCase
}

// NewSalesOrderHandler construye el handler.
func NewSalesOrderHandler(orders *sales.OrderUseCase, reservation *sales.ReservationUseCase, delivery *sales.DeliveryUseCase) *SalesOrderHandler {
	return &SalesOrderHandler{orders: orders, reservation: reservation, delivery: delivery}
}

// Create godoc
// @Summary      Crear orden de venta (NEW)
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "cliente y líneas por SKU"
// @Success      201   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales-orders [post]
func (h *SalesOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	so, err := h.orders.Create(c.UserContext(), GetActor(c), in.ToInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSalesOrderResponse(so))
}

// List GET /api/sales-orders?status=&mine=true&limit=&offset=
func (h *SalesOrderHandler) List(c *fiber.Ctx) error {
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
		"orders": dto.ToSalesOrderResponses(list),
		"page":   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	})
}

// GetByID GET /api/sales-orders/:id
func (h *SalesOrderHandler) GetByID(c *fiber.Ctx) error {
	so, err := h.orders.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToSalesOrderResponse(so))
}

// UpdateLine PATCH /api/sales-orders/:id/lines/:detailId
func (h *SalesOrderHandler) UpdateLine(c *fiber.Ctx) error {
	var in dto.UpdateSalesLineRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	so, err := h.orders.UpdateDetail(c.UserContext(), GetActor(c), c.Params("id"), c.Params("detailId"), in.Quantity, in.Price)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToSalesOrderResponse(so))
}

// Prepare godoc
// @Summary      Preparar orden de venta (reserva stock)
// @Description  Reserva la cantidad de cada línea recorriendo las bodegas por ID ascendente.
// @Tags         sales-orders
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/prepare [post]
func (h *SalesOrderHandler) Prepare(c *fiber.Ctx) error {
	so, err := h.reservation.PrepareOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToSalesOrderResponse(so))
}

// Deliver godoc
// @Summary      Entregar mercancía de una orden de venta
// @Tags         sales-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la orden"
// @Param        body  body  dto.DeliverStockRequest  true  "líneas entregadas por bodega"
// @Success      200   {object}  dto.DeliverStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales-orders/{id}/deliver [post]
func (h *SalesOrderHandler) Deliver(c *fiber.Ctx) error {
	var in dto.DeliverStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.delivery.DeliverStock(c.UserContext(), c.Params("id"), in.ToItems())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToDeliverStockResponse(res))
}

// Cancel POST /api/sales-orders/:id/cancel
func (h *SalesOrderHandler) Cancel(c *fiber.Ctx) error {
	so, err := h.orders.Cancel(c.UserContext(), GetActor(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToSalesOrderResponse(so))
}

// Delete DELETE /api/sales-orders/:id
func (h *SalesOrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.orders.Delete(c.UserContext(), GetActor(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
