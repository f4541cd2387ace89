package invoice

import (
	"fmt"
	"time"

	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
)

// ExportedState filtra ítems por su marca de exportado.
type ExportedState int

// Estados del filtro de exportación.
const (
	ExportedAll ExportedState = iota
	ExportedNo
	ExportedYes
)

// Query es la solicitud de facturación: clientes, rango y plantilla, más
// filtros opcionales que interpretan las fuentes de ítems.
// Se pasa por valor; el servicio nunca modifica la consulta del llamador.
type Query struct {
	Customers      []*entity.Customer
	ProjectIDs     []string
	ActivityIDs    []string
	UserIDs        []string
	Template       *entity.InvoiceTemplate
	Begin          *time.Time
	End            *time.Time
	Exported       ExportedState
	Billable       *bool
	Search         string
	MarkAsExported bool
	CurrentUserID  string
}

// HasCustomers indica si la consulta tiene al menos un cliente.
func (q Query) HasCustomers() bool { return len(q.Customers) > 0 }

// CustomerIDs devuelve los IDs de clientes en orden.
func (q Query) CustomerIDs() []string {
	ids := make([]string, 0, len(q.Customers))
	for _, c := range q.Customers {
		if c != nil {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Validate exige begin <= end cuando ambos están definidos.
func (q Query) Validate() error {
	if q.Begin != nil && q.End != nil && q.Begin.After(*q.End) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, domain.ErrInvalidDateRange)
	}
	return nil
}

// WithCustomer devuelve una copia limitada a un solo cliente.
func (q Query) WithCustomer(c *entity.Customer) Query {
	q.Customers = []*entity.Customer{c}
	return q
}

// WithRange devuelve una copia con el rango indicado.
func (q Query) WithRange(r DateRange) Query {
	q.Begin = r.Begin
	q.End = r.End
	return q
}

// DateRange rango de fechas; cualquiera de los extremos puede faltar.
type DateRange struct {
	Begin *time.Time
	End   *time.Time
}

// ResolveDateRange completa los extremos que la consulta no define a partir
// de los ítems: begin = menor Begin llevado a 00:00:00 de su día, end = mayor
// End (o Begin si falta) llevado a 23:59:59, cada uno en su propia zona
// horaria. Los extremos ya definidos se respetan. Función pura.
func ResolveDateRange(q Query, items []*entity.InvoiceItem) DateRange {
	r := DateRange{Begin: q.Begin, End: q.End}
	if r.Begin != nil && r.End != nil {
		return r
	}

	var minBegin, maxEnd *time.Time
	for _, item := range items {
		if item == nil {
			continue
		}
		begin := item.Begin
		if minBegin == nil || begin.Before(*minBegin) {
			minBegin = &begin
		}
		end := item.EndOrBegin()
		if maxEnd == nil || end.After(*maxEnd) {
			maxEnd = &end
		}
	}

	if r.Begin == nil && minBegin != nil {
		b := StartOfDay(*minBegin)
		r.Begin = &b
	}
	if r.End == nil && maxEnd != nil {
		e := EndOfDay(*maxEnd)
		r.End = &e
	}
	return r
}

// StartOfDay 00:00:00 del día de t en su zona horaria.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay 23:59:59 del día de t en su zona horaria.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}
