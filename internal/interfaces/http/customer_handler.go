package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
	"github.com/jhoicas/exhibition-api/internal/application/dto"
)

const customerNotFound = "cliente no encontrado"

// CustomerHandler maneja las peticiones HTTP de clientes.
type CustomerHandler struct {
	uc        *billing.CustomerUseCase
	exportUC  *billing.ExportUseCase
	statement *billing.StatementUseCase
	log       zerolog.Logger
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(
	uc *billing.CustomerUseCase,
	exportUC *billing.ExportUseCase,
	statement *billing.StatementUseCase,
	log zerolog.Logger,
) *CustomerHandler {
	return &CustomerHandler{uc: uc, exportUC: exportUC, statement: statement, log: log}
}

// Create godoc
// @Summary      Registrar cliente
// @Description  Asigna un customer_id único y envía el correo de bienvenida con el QR. Si el correo falla el cliente se crea igual y la respuesta trae warning.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CreateCustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Produce      json
// @Param        search      query  string  false  "Busca en customer_id, nombre, email y teléfono"
// @Param        email_sent  query  bool    false  "Filtra por correo enviado"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	in := dto.CustomerListRequest{
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)},
		Search:      strings.TrimSpace(c.Query("search")),
	}
	emailSent, ok := queryBool(c, "email_sent")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email_sent debe ser true o false"})
	}
	in.EmailSent = emailSent
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         customers
// @Produce      json
// @Param        id   path  int  true  "ID interno del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	return c.JSON(out)
}

// GetByCode godoc
// @Summary      Buscar cliente por customer_id
// @Tags         customers
// @Produce      json
// @Param        customerID  path  string  true  "Identificador público de 8 caracteres"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/code/{customerID} [get]
func (h *CustomerHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByCustomerID(c.UserContext(), c.Params("customerID"))
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Description  Modifica nombre, email y teléfono. El customer_id no es editable.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID interno del cliente"
// @Param        body  body  dto.UpdateCustomerRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	var in dto.UpdateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar cliente
// @Description  Elimina el cliente y todos sus cargos.
// @Tags         customers
// @Param        id   path  int  true  "ID interno del cliente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SendWelcome godoc
// @Summary      Reenviar correo de bienvenida
// @Tags         customers
// @Produce      json
// @Param        id   path  int  true  "ID interno del cliente"
// @Success      200  {object}  dto.WelcomeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/welcome [post]
func (h *CustomerHandler) SendWelcome(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.SendWelcome(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	return c.JSON(out)
}

// QRCode godoc
// @Summary      QR del customer_id
// @Tags         customers
// @Produce      png
// @Param        id   path  int  true  "ID interno del cliente"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/qr.png [get]
func (h *CustomerHandler) QRCode(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	png, filename, err := h.uc.QRCode(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(png)
}

// Statement godoc
// @Summary      Estado de cuenta en PDF
// @Tags         customers
// @Produce      application/pdf
// @Param        id   path  int  true  "ID interno del cliente"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/statement.pdf [get]
func (h *CustomerHandler) Statement(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return invalidID(c)
	}
	pdf, filename, err := h.statement.Download(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Export godoc
// @Summary      Exportar clientes a Excel
// @Description  Con ids exporta esos clientes en ese orden; sin ids exporta todos los que cumplan search/email_sent.
// @Tags         customers
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        ids         query  string  false  "IDs internos separados por coma"
// @Param        search      query  string  false  "Búsqueda libre"
// @Param        email_sent  query  bool    false  "Filtra por correo enviado"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/customers/export [get]
func (h *CustomerHandler) Export(c *fiber.Ctx) error {
	ids, ok := parseIDList(c.Query("ids"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ids debe ser una lista de enteros separados por coma"})
	}
	emailSent, ok := queryBool(c, "email_sent")
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email_sent debe ser true o false"})
	}
	out, err := h.exportUC.Export(c.UserContext(), dto.ExportRequest{
		IDs:       ids,
		Search:    c.Query("search"),
		EmailSent: emailSent,
	})
	if err != nil {
		return writeError(c, h.log, err, customerNotFound)
	}
	c.Set(fiber.HeaderContentType, billing.ExportContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+billing.ExportFilename+`"`)
	return c.Send(out)
}

// queryBool lee un booleano opcional. ok=false si viene con un valor inválido.
func queryBool(c *fiber.Ctx, key string) (*bool, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, false
	}
	return &v, true
}

func parseIDList(raw string) ([]int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || id <= 0 {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}
