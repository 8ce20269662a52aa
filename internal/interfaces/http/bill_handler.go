package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
	"github.com/jhoicas/exhibition-api/internal/application/dto"
)

// BillHandler maneja las peticiones HTTP de cargos.
type BillHandler struct {
	uc  *billing.BillUseCase
	log zerolog.Logger
}

// NewBillHandler construye el handler.
func NewBillHandler(uc *billing.BillUseCase, log zerolog.Logger) *BillHandler {
	return &BillHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar cargo a un cliente
// @Description  created_by se toma del body o, si no viene, de la cabecera X-Operator.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id          path    int     true   "ID interno del cliente"
// @Param        X-Operator  header  string  false  "Operador que registra el cargo"
// @Param        body        body    dto.CreateBillRequest  true  "Datos del cargo"
// @Success      201  {object}  dto.BillResponse
// @Failure      400  {object}  dto.ErrorResponse  "VALIDATION (fields.amount) o INVALID_BODY"
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/bills [post]
func (h *BillHandler) Create(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.CreateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBillBody(c)
	}
	if in.CreatedBy == nil || strings.TrimSpace(*in.CreatedBy) == "" {
		if op := GetOperator(c); op != "" {
			in.CreatedBy = &op
		}
	}
	out, err := h.uc.Create(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByCustomer godoc
// @Summary      Cargos de un cliente
// @Tags         bills
// @Produce      json
// @Param        id   path  int  true  "ID interno del cliente"
// @Success      200  {object}  dto.CustomerBillsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/bills [get]
func (h *BillHandler) ListByCustomer(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.ListByCustomer(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar cargos
// @Tags         bills
// @Produce      json
// @Param        search  query  string  false  "Busca en customer_id, nombre, email y descripción"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.BillListResponse
// @Router       /api/bills [get]
func (h *BillHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), dto.BillListRequest{
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)},
		Search:      c.Query("search"),
	})
	if err != nil {
		return writeError(c, h.log, err, "cargo no encontrado")
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cargo
// @Tags         bills
// @Produce      json
// @Param        id   path  int  true  "ID del cargo"
// @Success      200  {object}  dto.BillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, "cargo no encontrado")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cargo
// @Tags         bills
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del cargo"
// @Param        body  body  dto.UpdateBillRequest  true  "Monto y descripción"
// @Success      200   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/bills/{id} [put]
func (h *BillHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.UpdateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBillBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err, "cargo no encontrado")
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cargo
// @Tags         bills
// @Param        id   path  int  true  "ID del cargo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{id} [delete]
func (h *BillHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err, "cargo no encontrado")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
