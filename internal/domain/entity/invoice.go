package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timesheet-api/internal/domain"
)

// InvoiceStatus estado de una factura emitida. Conjunto cerrado.
type InvoiceStatus string

// Estados válidos de factura.
const (
	InvoiceStatusNew      InvoiceStatus = "new"
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
)

// InvoiceStatuses devuelve los estados válidos en orden de ciclo de vida.
func InvoiceStatuses() []InvoiceStatus {
	return []InvoiceStatus{InvoiceStatusNew, InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusCanceled}
}

// ParseInvoiceStatus convierte texto libre en un estado válido.
// Cualquier transición entre estados conocidos está permitida.
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	for _, st := range InvoiceStatuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownInvoiceStatus, s)
}

// Invoice representa una factura emitida y persistida.
type Invoice struct {
	ID              string
	InvoiceNumber   string
	CustomerID      string
	Customer        *Customer
	UserID          string
	CreatedAt       time.Time // fecha de la factura
	Timezone        string
	Subtotal        decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	Currency        string
	Vat             decimal.Decimal // porcentaje
	DueDays         int
	Status          InvoiceStatus
	PaymentDate     *time.Time
	InvoiceFilename string
	Comment         string
	UpdatedAt       time.Time
}

// DueDate fecha de vencimiento: CreatedAt + DueDays.
func (i *Invoice) DueDate() time.Time {
	return i.CreatedAt.AddDate(0, 0, i.DueDays)
}

// IsPaid indica si la factura está pagada.
func (i *Invoice) IsPaid() bool { return i.Status == InvoiceStatusPaid }

// IsCanceled indica si la factura fue anulada.
func (i *Invoice) IsCanceled() bool { return i.Status == InvoiceStatusCanceled }

// IsOverdue una factura vence si no está pagada ni anulada y now supera DueDate.
func (i *Invoice) IsOverdue(now time.Time) bool {
	if i.IsPaid() || i.IsCanceled() {
		return false
	}
	return now.After(i.DueDate())
}
