package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Timesheet-api/internal/application/dto"
)

// invoiceService contrato que el handler necesita; lo implementa *invoicing.InvoiceUseCase.
type invoiceService interface {
	Summary(ctx context.Context, userID string, in dto.InvoiceRequest) (*dto.InvoicePreviewResponse, error)
	Preview(ctx context.Context, userID string, in dto.InvoiceRequest) (*dto.FileResponse, error)
	Create(ctx context.Context, userID string, in dto.InvoiceRequest) ([]*dto.InvoiceResponse, error)
	Get(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	ChangeStatus(ctx context.Context, id string, in dto.ChangeStatusRequest) (*dto.InvoiceResponse, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, id string) (*dto.FileResponse, error)
	List(ctx context.Context, in dto.InvoiceListRequest) ([]*dto.InvoiceResponse, error)
	ListTemplates(ctx context.Context) ([]*dto.InvoiceTemplateResponse, error)
	ListDocuments() []*dto.InvoiceDocumentResponse
}

// InvoiceHandler maneja las peticiones HTTP de facturación (protegido).
type InvoiceHandler struct {
	uc invoiceService
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc invoiceService) *InvoiceHandler {
	return &InvoiceHandler{uc: uc}
}

// List godoc
// @Summary      Listar facturas emitidas
// @Tags         invoices
// @Produce      json
// @Param        customer_id  query  string  false  "cliente"
// @Param        status       query  string  false  "estados separados por coma"
// @Success      200  {array}   dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.InvoiceListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// Preview godoc
// @Summary      Previsualizar factura
// @Description  Renderiza la factura del primer cliente sin guardarla. Con ?format=json devuelve los totales calculados por cliente.
// @Tags         invoices
// @Accept       json
// @Param        body  body  dto.InvoiceRequest  true  "clientes, plantilla y rango"
// @Success      200  {object}  dto.InvoicePreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/preview [post]
func (h *InvoiceHandler) Preview(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if c.Query("format") == "json" {
		out, err := h.uc.Summary(c.UserContext(), GetUserID(c), in)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(out)
	}
	file, err := h.uc.Preview(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file, "inline")
}

// Create godoc
// @Summary      Emitir facturas
// @Description  Una factura por cliente con registros facturables. Requiere rol admin o teamlead.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InvoiceRequest  true  "clientes, plantilla y rango"
// @Success      201  {array}   dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Download godoc
// @Summary      Descargar archivo de factura
// @Tags         invoices
// @Param        id   path  string  true  "ID"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/download [get]
func (h *InvoiceHandler) Download(c *fiber.Ctx) error {
	file, err := h.uc.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return sendFile(c, file, "attachment")
}

// ChangeStatus godoc
// @Summary      Cambiar estado de factura
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID"
// @Param        body  body  dto.ChangeStatusRequest  true  "new | pending | paid | canceled"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.ChangeStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ChangeStatus(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar factura y su archivo
// @Tags         invoices
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTemplates godoc
// @Summary      Listar plantillas de factura
// @Tags         invoices
// @Produce      json
// @Success      200  {array}  dto.InvoiceTemplateResponse
// @Router       /api/invoice-templates [get]
func (h *InvoiceHandler) ListTemplates(c *fiber.Ctx) error {
	list, err := h.uc.ListTemplates(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ListDocuments godoc
// @Summary      Listar documentos de salida
// @Tags         invoices
// @Produce      json
// @Success      200  {array}  dto.InvoiceDocumentResponse
// @Router       /api/invoice-documents [get]
func (h *InvoiceHandler) ListDocuments(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListDocuments())
}

func sendFile(c *fiber.Ctx, file *dto.FileResponse, disposition string) error {
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("%s; filename=%q", disposition, file.Filename))
	return c.Send(file.Content)
}
