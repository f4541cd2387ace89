package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Valores por defecto de una plantilla nueva.
const (
	DefaultCalculator      = "default"
	DefaultNumberGenerator = "default"
	DefaultDocument        = "default"
	DefaultDueDays         = 30
)

// InvoiceTemplate configura cómo se calcula, numera y presenta una factura.
// Durante una ejecución de facturación se trata como referencia inmutable,
// salvo el idioma, que el servicio completa si viene vacío.
type InvoiceTemplate struct {
	ID              string
	Name            string
	Title           string
	Company         string
	VatID           string
	Address         string
	Contact         string
	PaymentTerms    string
	PaymentDetails  string
	DueDays         int
	Vat             decimal.Decimal // porcentaje, ej. 19
	Calculator      string
	NumberGenerator string
	Renderer        string // nombre del documento (InvoiceDocument.Name)
	Language        string // "" = sin definir
	DecimalDuration bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewInvoiceTemplate crea una plantilla con los valores por defecto.
func NewInvoiceTemplate() *InvoiceTemplate {
	return &InvoiceTemplate{
		DueDays:         DefaultDueDays,
		Vat:             decimal.Zero,
		Calculator:      DefaultCalculator,
		NumberGenerator: DefaultNumberGenerator,
		Renderer:        DefaultDocument,
	}
}
