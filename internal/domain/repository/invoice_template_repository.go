package repository

import (
	"context"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
)

// InvoiceTemplateRepository define el puerto de persistencia para plantillas de factura.
type InvoiceTemplateRepository interface {
	Create(ctx context.Context, template *entity.InvoiceTemplate) error
	GetByID(ctx context.Context, id string) (*entity.InvoiceTemplate, error)
	List(ctx context.Context) ([]*entity.InvoiceTemplate, error)
}
