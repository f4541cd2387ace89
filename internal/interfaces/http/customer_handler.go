package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Timesheet-api/internal/application/dto"
)

// customerService lo implementa *billing.CustomerUseCase.
type customerService interface {
	Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	Get(ctx context.Context, id string) (*dto.CustomerResponse, error)
	List(ctx context.Context, page dto.PageRequest) ([]*dto.CustomerResponse, error)
}

// CustomerHandler maneja las peticiones HTTP de clientes (protegido).
type CustomerHandler struct {
	uc customerService
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc customerService) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "cliente"
// @Success      201  {object}  dto.CustomerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	customer, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// GetByID GET /api/customers/:id
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	customer, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(customer)
}

// List GET /api/customers?limit=20&offset=0
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// templateService lo implementa *billing.TemplateUseCase.
type templateService interface {
	Create(ctx context.Context, in dto.CreateInvoiceTemplateRequest) (*dto.InvoiceTemplateResponse, error)
}

// TemplateHandler alta de plantillas de factura.
type TemplateHandler struct {
	uc templateService
}

// NewTemplateHandler construye el handler.
func NewTemplateHandler(uc templateService) *TemplateHandler {
	return &TemplateHandler{uc: uc}
}

// Create godoc
// @Summary      Crear plantilla de factura
// @Description  Calculadora, generador de número y documento deben estar registrados. Requiere rol admin o teamlead.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceTemplateRequest  true  "plantilla"
// @Success      201  {object}  dto.InvoiceTemplateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoice-templates [post]
func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
