package repository

import (
	"context"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	// GetByIDs devuelve los clientes en el orden de ids; los inexistentes se omiten.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Customer, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Customer, error)
}
