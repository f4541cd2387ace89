package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
)

// ModelParams entrada del ModelFactory: estrategias ya resueltas e ítems ya cargados.
type ModelParams struct {
	Query           Query
	Customer        *entity.Customer
	Items           []*entity.InvoiceItem
	Calculator      Calculator
	NumberGenerator NumberGenerator
}

// ModelFactory ensambla el modelo por cliente: fechas, formatter, totales y número.
type ModelFactory struct {
	formattings *LanguageFormattings
	now         func() time.Time
}

// NewModelFactory construye la fábrica. now nil = time.Now.
func NewModelFactory(formattings *LanguageFormattings, now func() time.Time) *ModelFactory {
	if now == nil {
		now = time.Now
	}
	return &ModelFactory{formattings: formattings, now: now}
}

// Formattings configuración de idiomas usada por la fábrica.
func (f *ModelFactory) Formattings() *LanguageFormattings { return f.formattings }

// CreateModel arma el modelo y ejecuta calculadora y generador de número.
func (f *ModelFactory) CreateModel(ctx context.Context, p ModelParams) (*Model, error) {
	template := p.Query.Template
	if template == nil {
		return nil, fmt.Errorf("crear modelo: plantilla nula")
	}
	items := p.Items
	if items == nil {
		items = []*entity.InvoiceItem{}
	}

	invoiceDate := f.now()
	if p.Customer != nil && p.Customer.Timezone != "" {
		if loc, err := time.LoadLocation(p.Customer.Timezone); err == nil {
			invoiceDate = invoiceDate.In(loc)
		}
	}

	model := &Model{
		Template:        template,
		Customer:        p.Customer,
		Query:           p.Query,
		Items:           items,
		Calculator:      p.Calculator,
		NumberGenerator: p.NumberGenerator,
		InvoiceDate:     invoiceDate,
		DueDate:         invoiceDate.AddDate(0, 0, template.DueDays),
		Formatter:       NewLanguageFormatter(f.formattings, template.Language),
		UserID:          p.Query.CurrentUserID,
	}

	totals, err := p.Calculator.Calculate(model)
	if err != nil {
		return nil, fmt.Errorf("calculadora %s: %w", p.Calculator.ID(), err)
	}
	model.Totals = totals

	number, err := p.NumberGenerator.Generate(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("generador de número %s: %w", p.NumberGenerator.ID(), err)
	}
	model.InvoiceNumber = number
	return model, nil
}
