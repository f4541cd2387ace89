package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	Number   string `json:"number,omitempty"`
	VatID    string `json:"vat_id,omitempty"`
	Address  string `json:"address,omitempty"`
	Country  string `json:"country,omitempty"`
	Currency string `json:"currency,omitempty"` // ISO 4217; vacío = EUR
	Timezone string `json:"timezone,omitempty"` // IANA; vacío = UTC
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Company  string `json:"company,omitempty"`
	Number   string `json:"number,omitempty"`
	VatID    string `json:"vat_id,omitempty"`
	Address  string `json:"address,omitempty"`
	Country  string `json:"country,omitempty"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Visible  bool   `json:"visible"`
}

// CreateInvoiceTemplateRequest body para POST /api/invoice-templates.
// Los campos vacíos toman los valores por defecto de la plantilla.
type CreateInvoiceTemplateRequest struct {
	Name            string          `json:"name"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	VatID           string          `json:"vat_id,omitempty"`
	Address         string          `json:"address,omitempty"`
	Contact         string          `json:"contact,omitempty"`
	PaymentTerms    string          `json:"payment_terms,omitempty"`
	PaymentDetails  string          `json:"payment_details,omitempty"`
	DueDays         *int            `json:"due_days,omitempty"`
	Vat             decimal.Decimal `json:"vat"`
	Calculator      string          `json:"calculator,omitempty"`
	NumberGenerator string          `json:"number_generator,omitempty"`
	Renderer        string          `json:"renderer,omitempty"`
	Language        string          `json:"language,omitempty"`
	DecimalDuration bool            `json:"decimal_duration,omitempty"`
}
