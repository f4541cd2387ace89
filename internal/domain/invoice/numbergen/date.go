// Package numbergen implementa los generadores de número de factura.
package numbergen

import (
	"context"
	"fmt"

	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// maxAttempts intentos antes de rendirse ante colisiones.
const maxAttempts = 99

// DateGenerator "date": número yymmdd de la fecha de factura; si ya existe
// agrega -1, -2, ... hasta encontrar uno libre.
type DateGenerator struct {
	checker invoice.InvoiceNumberChecker
}

var (
	_ invoice.NumberGenerator = (*DateGenerator)(nil)
	_ invoice.CounterBinder   = (*DateGenerator)(nil)
)

// NewDateGenerator checker nil desactiva la comprobación de colisiones.
func NewDateGenerator(checker invoice.InvoiceNumberChecker) *DateGenerator {
	return &DateGenerator{checker: checker}
}

// ID clave de registro.
func (g *DateGenerator) ID() string { return "date" }

// BindCounter implementa invoice.CounterBinder.
func (g *DateGenerator) BindCounter(counter invoice.InvoiceCounter) invoice.NumberGenerator {
	return NewDateGenerator(counter)
}

// Generate implementa invoice.NumberGenerator.
func (g *DateGenerator) Generate(ctx context.Context, model *invoice.Model) (string, error) {
	base := model.InvoiceDate.Format("060102")
	candidate := base
	for i := 1; i <= maxAttempts; i++ {
		taken, err := hasInvoice(ctx, g.checker, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("%w: sin número de factura libre para %s", domain.ErrConflict, base)
}

func hasInvoice(ctx context.Context, checker invoice.InvoiceNumberChecker, number string) (bool, error) {
	if checker == nil {
		return false, nil
	}
	taken, err := checker.HasInvoice(ctx, number)
	if err != nil {
		return false, fmt.Errorf("comprobar número de factura %s: %w", number, err)
	}
	return taken, nil
}
