package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRequest body para POST /api/invoices y /api/invoices/preview.
// Begin/End en formato 2006-01-02; vacío = se completa con los registros encontrados.
type InvoiceRequest struct {
	CustomerIDs    []string `json:"customer_ids"`
	TemplateID     string   `json:"template_id"`
	Document       string   `json:"document,omitempty"` // nombre del documento; vacío = el de la plantilla
	Begin          string   `json:"begin,omitempty"`
	End            string   `json:"end,omitempty"`
	ProjectIDs     []string `json:"project_ids,omitempty"`
	ActivityIDs    []string `json:"activity_ids,omitempty"`
	UserIDs        []string `json:"user_ids,omitempty"`
	Exported       string   `json:"exported,omitempty"` // all | yes | no (default no)
	Billable       *bool    `json:"billable,omitempty"`
	Search         string   `json:"search,omitempty"`
	MarkAsExported bool     `json:"mark_as_exported,omitempty"`
}

// ChangeStatusRequest body para PATCH /api/invoices/:id/status.
type ChangeStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceResponse factura emitida.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name,omitempty"`
	Date          time.Time       `json:"date"`
	DueDate       time.Time       `json:"due_date"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Vat           decimal.Decimal `json:"vat"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	Overdue       bool            `json:"overdue"`
	Filename      string          `json:"filename"`
}

// InvoiceListRequest filtros de GET /api/invoices.
type InvoiceListRequest struct {
	PageRequest
	CustomerID string `query:"customer_id"`
	Status     string `query:"status"` // separado por comas
}

// InvoicePreviewResponse modelos calculados sin persistir.
type InvoicePreviewResponse struct {
	Begin  *time.Time            `json:"begin,omitempty"`
	End    *time.Time            `json:"end,omitempty"`
	Models []InvoiceModelPreview `json:"invoices"`
}

// InvoiceModelPreview resumen de un modelo por cliente.
type InvoiceModelPreview struct {
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	InvoiceNumber string          `json:"invoice_number"`
	Language      string          `json:"language"`
	Items         int             `json:"items"`
	Entries       []EntryResponse `json:"entries"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Currency      string          `json:"currency"`
	Duration      string          `json:"duration"`
}

// EntryResponse línea calculada.
type EntryResponse struct {
	Description string          `json:"description"`
	Begin       time.Time       `json:"begin"`
	Duration    int64           `json:"duration"`
	Amount      decimal.Decimal `json:"amount"`
	Rate        decimal.Decimal `json:"rate"`
}

// InvoiceTemplateResponse plantilla de factura.
type InvoiceTemplateResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	DueDays         int             `json:"due_days"`
	Vat             decimal.Decimal `json:"vat"`
	Calculator      string          `json:"calculator"`
	NumberGenerator string          `json:"number_generator"`
	Renderer        string          `json:"renderer"`
	Language        string          `json:"language,omitempty"`
}

// InvoiceDocumentResponse documento de salida disponible.
type InvoiceDocumentResponse struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	Extension string `json:"extension"`
}

// FileResponse archivo generado para descarga.
type FileResponse struct {
	Filename    string
	ContentType string
	Content     []byte
}
