package invoicing

import (
	"context"
	"time"

	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// numberRun numeración de una emisión. Los generadores consultan el store del
// servicio (la transacción, si la hay) y además los números ya asignados en la
// misma corrida, que todavía no están persistidos.
type numberRun struct {
	store  invoice.InvoiceCounter // nil si el store no cuenta facturas
	issued map[string]bool
}

var _ invoice.InvoiceCounter = (*numberRun)(nil)

func (s *ServiceInvoice) newNumberRun() *numberRun {
	run := &numberRun{issued: make(map[string]bool)}
	if c, ok := s.invoices.(invoice.InvoiceCounter); ok {
		run.store = c
	}
	return run
}

// HasInvoice implementa invoice.InvoiceNumberChecker.
func (r *numberRun) HasInvoice(ctx context.Context, number string) (bool, error) {
	if r.issued[number] {
		return true, nil
	}
	if r.store == nil {
		return false, nil
	}
	return r.store.HasInvoice(ctx, number)
}

// CountInvoices delega en el store. Las colisiones con números de la corrida
// se resuelven por HasInvoice.
func (r *numberRun) CountInvoices(ctx context.Context, from, to *time.Time, customerID string) (int, error) {
	if r.store == nil {
		return 0, nil
	}
	return r.store.CountInvoices(ctx, from, to, customerID)
}

// bind generador atado a la corrida: consulta la corrida si sabe contar
// facturas y registra cada número que entrega.
func (r *numberRun) bind(gen invoice.NumberGenerator) invoice.NumberGenerator {
	if b, ok := gen.(invoice.CounterBinder); ok {
		gen = b.BindCounter(r)
	}
	return &runGenerator{NumberGenerator: gen, run: r}
}

type runGenerator struct {
	invoice.NumberGenerator
	run *numberRun
}

func (g *runGenerator) Generate(ctx context.Context, model *invoice.Model) (string, error) {
	number, err := g.NumberGenerator.Generate(ctx, model)
	if err != nil {
		return "", err
	}
	g.run.issued[number] = true
	return number, nil
}
