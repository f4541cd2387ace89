package invoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// ─── stubs ────────────────────────────────────────────────────────────────────

type fixedCalculator struct{ err error }

func (c fixedCalculator) ID() string { return "fixed" }

func (c fixedCalculator) Calculate(m *invoice.Model) (*invoice.Totals, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &invoice.Totals{Subtotal: decimal.NewFromInt(int64(len(m.Items))), Currency: m.Customer.CurrencyOrDefault()}, nil
}

type fixedNumber struct {
	number string
	err    error
	seen   *invoice.Model
}

func (g *fixedNumber) ID() string { return "fixed" }

func (g *fixedNumber) Generate(_ context.Context, m *invoice.Model) (string, error) {
	g.seen = m
	return g.number, g.err
}

func newFactory(now time.Time) *invoice.ModelFactory {
	lf := invoice.NewLanguageFormattings(invoice.DefaultLanguageFormats(), "en")
	return invoice.NewModelFactory(lf, func() time.Time { return now })
}

// ─── CreateModel ─────────────────────────────────────────────────────────────

func TestModelFactory_CreateModel(t *testing.T) {
	now := time.Date(2024, time.January, 31, 23, 30, 0, 0, time.UTC)
	tpl := entity.NewInvoiceTemplate()
	tpl.Language = "de"
	tpl.DueDays = 14
	customer := &entity.Customer{ID: "c1", Currency: "USD", Timezone: "Europe/Vienna"}
	gen := &fixedNumber{number: "2024/001"}

	m, err := newFactory(now).CreateModel(context.Background(), invoice.ModelParams{
		Query:           invoice.Query{Template: tpl, CurrentUserID: "u1"},
		Customer:        customer,
		Items:           []*entity.InvoiceItem{{ID: "1"}, {ID: "2"}},
		Calculator:      fixedCalculator{},
		NumberGenerator: gen,
	})

	require.NoError(t, err)
	assert.Equal(t, "2024/001", m.InvoiceNumber)
	assert.Equal(t, "USD", m.Currency())
	assert.True(t, m.Totals.Subtotal.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "de", m.Formatter.Language())
	assert.Equal(t, "u1", m.UserID)
	assert.Equal(t, time.February, m.InvoiceDate.Month(), "la fecha usa la zona horaria del cliente")
	assert.Equal(t, 1, m.InvoiceDate.Day())
	assert.Equal(t, 14*24*time.Hour, m.DueDate.Sub(m.InvoiceDate))
	assert.NotNil(t, gen.seen.Totals, "el generador recibe el modelo ya calculado")
}

func TestModelFactory_SinItemsNoEsNil(t *testing.T) {
	m, err := newFactory(time.Now()).CreateModel(context.Background(), invoice.ModelParams{
		Query:           invoice.Query{Template: entity.NewInvoiceTemplate()},
		Calculator:      fixedCalculator{},
		NumberGenerator: &fixedNumber{number: "1"},
	})
	require.NoError(t, err)
	assert.NotNil(t, m.Items)
	assert.Equal(t, entity.DefaultCurrency, m.Currency())
}

func TestModelFactory_Errores(t *testing.T) {
	boom := errors.New("boom")
	f := newFactory(time.Now())

	_, err := f.CreateModel(context.Background(), invoice.ModelParams{
		Calculator: fixedCalculator{}, NumberGenerator: &fixedNumber{},
	})
	assert.Error(t, err, "sin plantilla")

	_, err = f.CreateModel(context.Background(), invoice.ModelParams{
		Query:      invoice.Query{Template: entity.NewInvoiceTemplate()},
		Calculator: fixedCalculator{err: boom}, NumberGenerator: &fixedNumber{},
	})
	assert.ErrorIs(t, err, boom)

	_, err = f.CreateModel(context.Background(), invoice.ModelParams{
		Query:      invoice.Query{Template: entity.NewInvoiceTemplate()},
		Calculator: fixedCalculator{}, NumberGenerator: &fixedNumber{err: boom},
	})
	assert.ErrorIs(t, err, boom)
}
