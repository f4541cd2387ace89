package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
)

// InvoiceFilter filtros para listar facturas emitidas.
type InvoiceFilter struct {
	CustomerIDs []string
	Status      []entity.InvoiceStatus
	Begin       *time.Time
	End         *time.Time
	Limit       int
	Offset      int
}

// InvoiceRepository define el puerto de persistencia para facturas emitidas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// UpdateStatus persiste estado y fecha de pago.
	UpdateStatus(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, error)
	Delete(ctx context.Context, id string) error
	// HasInvoice indica si ya existe una factura con ese número.
	HasInvoice(ctx context.Context, number string) (bool, error)
	// CountInvoices cuenta facturas con fecha en [from, to]; customerID vacío = todos.
	CountInvoices(ctx context.Context, from, to *time.Time, customerID string) (int, error)
}
