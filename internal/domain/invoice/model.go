package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
)

// Entry línea calculada de la factura. Agrupa uno o más ítems.
type Entry struct {
	Description string
	Begin       time.Time
	End         *time.Time
	Duration    int64 // segundos
	Amount      decimal.Decimal
	Rate        decimal.Decimal
	HourlyRate  decimal.Decimal
	FixedRate   *decimal.Decimal
	User        *entity.User
	Project     *entity.Project
	Activity    *entity.Activity
	Category    string
	Items       []*entity.InvoiceItem
}

// Totals resultado de una calculadora.
type Totals struct {
	Entries    []*Entry
	Subtotal   decimal.Decimal
	Vat        decimal.Decimal // porcentaje aplicado
	Tax        decimal.Decimal
	Total      decimal.Decimal
	TimeWorked int64 // segundos
	Currency   string
}

// Model ensamblado en memoria de una factura para un cliente; lo consume un Renderer.
type Model struct {
	Template        *entity.InvoiceTemplate
	Customer        *entity.Customer
	Query           Query
	Items           []*entity.InvoiceItem
	Totals          *Totals
	Calculator      Calculator
	NumberGenerator NumberGenerator
	InvoiceNumber   string
	InvoiceDate     time.Time
	DueDate         time.Time
	Formatter       Formatter
	UserID          string
}

// Currency moneda del modelo: la de los totales o la del cliente.
func (m *Model) Currency() string {
	if m.Totals != nil && m.Totals.Currency != "" {
		return m.Totals.Currency
	}
	return m.Customer.CurrencyOrDefault()
}

// Entries líneas calculadas; vacío si aún no se calculó.
func (m *Model) Entries() []*Entry {
	if m.Totals == nil {
		return []*Entry{}
	}
	return m.Totals.Entries
}
