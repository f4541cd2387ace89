package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de registro facturable.
const (
	CategoryWork    = "work"
	CategoryExpense = "expense"
)

// Tipos de ítem de factura según su origen.
const (
	ItemTypeTimesheet = "timesheet"
	ItemTypeExpense   = "expense"
)

// Timesheet es un registro de tiempo persistido.
type Timesheet struct {
	ID          string
	UserID      string
	ProjectID   string
	ActivityID  string
	Description string
	Begin       time.Time
	End         *time.Time // nil mientras el registro sigue corriendo
	Duration    int64      // segundos
	Rate        decimal.Decimal
	HourlyRate  decimal.Decimal
	FixedRate   *decimal.Decimal
	Billable    bool
	Exported    bool
	Category    string
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// InvoiceItem es la forma común que devuelven todas las fuentes de ítems
// facturables. Es de solo lectura para el servicio de facturación.
type InvoiceItem struct {
	ID          string
	Type        string
	Category    string
	Description string
	Begin       time.Time
	End         *time.Time
	Duration    int64           // segundos
	Amount      decimal.Decimal // cantidad; 1 para registros de tiempo
	Rate        decimal.Decimal // importe total del ítem
	HourlyRate  decimal.Decimal
	FixedRate   *decimal.Decimal
	User        *User
	Project     *Project
	Activity    *Activity
	Tags        []string
	Exported    bool
}

// Customer devuelve el cliente del proyecto del ítem, o nil.
func (i *InvoiceItem) Customer() *Customer {
	if i == nil || i.Project == nil {
		return nil
	}
	return i.Project.Customer
}

// EndOrBegin devuelve End, o Begin si el ítem no tiene fin.
func (i *InvoiceItem) EndOrBegin() time.Time {
	if i.End != nil {
		return *i.End
	}
	return i.Begin
}

// NewInvoiceItemFromTimesheet arma el ítem facturable con sus relaciones cargadas.
func NewInvoiceItemFromTimesheet(t *Timesheet, user *User, project *Project, activity *Activity) *InvoiceItem {
	category := t.Category
	if category == "" {
		category = CategoryWork
	}
	return &InvoiceItem{
		ID:          t.ID,
		Type:        ItemTypeTimesheet,
		Category:    category,
		Description: t.Description,
		Begin:       t.Begin,
		End:         t.End,
		Duration:    t.Duration,
		Amount:      decimal.NewFromInt(1),
		Rate:        t.Rate,
		HourlyRate:  t.HourlyRate,
		FixedRate:   t.FixedRate,
		User:        user,
		Project:     project,
		Activity:    activity,
		Tags:        t.Tags,
		Exported:    t.Exported,
	}
}
