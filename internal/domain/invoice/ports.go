// Package invoice contiene el núcleo de generación de facturas: la consulta,
// el modelo por cliente y los contratos de las estrategias intercambiables
// (calculadoras, generadores de número, renderers y fuentes de ítems).
package invoice

import (
	"context"
	"time"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
)

// Named lo cumple toda estrategia registrable; ID es la clave del registro.
type Named interface {
	ID() string
}

// Calculator convierte los ítems del modelo en líneas y totales.
type Calculator interface {
	Named
	Calculate(model *Model) (*Totals, error)
}

// NumberGenerator produce el número de factura para un modelo.
type NumberGenerator interface {
	Named
	Generate(ctx context.Context, model *Model) (string, error)
}

// CounterBinder lo cumplen los generadores que consultan facturas existentes.
// BindCounter devuelve una copia que consulta counter en lugar del suyo.
type CounterBinder interface {
	BindCounter(counter InvoiceCounter) NumberGenerator
}

// RenderedDocument resultado de renderizar un modelo.
type RenderedDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Renderer transforma un modelo en un documento distribuible.
type Renderer interface {
	Named
	Supports(doc *entity.InvoiceDocument) bool
	Render(ctx context.Context, doc *entity.InvoiceDocument, model *Model) (*RenderedDocument, error)
}

// ItemRepository es una fuente de ítems facturables.
type ItemRepository interface {
	Named
	GetInvoiceItemsForQuery(ctx context.Context, query Query) ([]*entity.InvoiceItem, error)
	// MarkAsExported marca como exportados los ítems que pertenecen a esta fuente.
	MarkAsExported(ctx context.Context, items []*entity.InvoiceItem) error
}

// InvoiceNumberChecker evita colisiones de número de factura.
type InvoiceNumberChecker interface {
	HasInvoice(ctx context.Context, number string) (bool, error)
}

// InvoiceCounter cuenta facturas existentes para los contadores del generador configurable.
type InvoiceCounter interface {
	InvoiceNumberChecker
	CountInvoices(ctx context.Context, from, to *time.Time, customerID string) (int, error)
}
