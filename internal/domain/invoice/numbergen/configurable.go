package numbergen

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// DefaultFormat formato usado si la configuración no define otro.
const DefaultFormat = "{Y}/{cy,3}"

var tokenPattern = regexp.MustCompile(`\{([a-zA-Z]+)(?:,(\d+))?\}`)

// ConfigurableGenerator "default": número a partir de un formato con tokens.
//
//	{Y} año 4 dígitos   {y} año 2 dígitos
//	{M} mes 2 dígitos   {m} mes sin cero
//	{D} día 2 dígitos   {d} día sin cero
//	{cy} contador anual {cm} contador mensual {cd} contador diario
//	{cc} contador del cliente (histórico)      {cn} número de cliente
//
// ",N" rellena con ceros a N posiciones, ej. {cy,4}. Si el número ya existe
// se incrementan los contadores; sin contadores la colisión es un error.
type ConfigurableGenerator struct {
	format  string
	counter invoice.InvoiceCounter
}

var (
	_ invoice.NumberGenerator = (*ConfigurableGenerator)(nil)
	_ invoice.CounterBinder   = (*ConfigurableGenerator)(nil)
)

// NewConfigurableGenerator format vacío = DefaultFormat. counter nil = contadores en 1 y sin colisiones.
func NewConfigurableGenerator(format string, counter invoice.InvoiceCounter) *ConfigurableGenerator {
	if strings.TrimSpace(format) == "" {
		format = DefaultFormat
	}
	return &ConfigurableGenerator{format: format, counter: counter}
}

// ID clave de registro.
func (g *ConfigurableGenerator) ID() string { return "default" }

// BindCounter implementa invoice.CounterBinder.
func (g *ConfigurableGenerator) BindCounter(counter invoice.InvoiceCounter) invoice.NumberGenerator {
	return &ConfigurableGenerator{format: g.format, counter: counter}
}

// Format formato configurado.
func (g *ConfigurableGenerator) Format() string { return g.format }

// Generate implementa invoice.NumberGenerator.
func (g *ConfigurableGenerator) Generate(ctx context.Context, model *invoice.Model) (string, error) {
	counters, err := g.loadCounters(ctx, model)
	if err != nil {
		return "", err
	}
	hasCounters := len(counters) > 0

	for attempt := 0; attempt < maxAttempts; attempt++ {
		number := g.render(model, counters, attempt)
		var taken bool
		if g.counter != nil {
			taken, err = hasInvoice(ctx, g.counter, number)
			if err != nil {
				return "", err
			}
		}
		if !taken {
			return number, nil
		}
		if !hasCounters {
			return "", fmt.Errorf("%w: el número de factura %s ya existe", domain.ErrConflict, number)
		}
	}
	return "", fmt.Errorf("%w: sin número de factura libre para el formato %s", domain.ErrConflict, g.format)
}

// loadCounters consulta solo los contadores que usa el formato.
func (g *ConfigurableGenerator) loadCounters(ctx context.Context, model *invoice.Model) (map[string]int, error) {
	counters := make(map[string]int)
	date := model.InvoiceDate
	for _, m := range tokenPattern.FindAllStringSubmatch(g.format, -1) {
		token := m[1]
		if _, done := counters[token]; done {
			continue
		}
		var from, to *time.Time
		customerID := ""
		switch token {
		case "cy":
			f := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, date.Location())
			t := f.AddDate(1, 0, 0).Add(-time.Second)
			from, to = &f, &t
		case "cm":
			f := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
			t := f.AddDate(0, 1, 0).Add(-time.Second)
			from, to = &f, &t
		case "cd":
			f := invoice.StartOfDay(date)
			t := invoice.EndOfDay(date)
			from, to = &f, &t
		case "cc":
			if model.Customer != nil {
				customerID = model.Customer.ID
			}
		default:
			continue
		}
		n := 0
		if g.counter != nil {
			var err error
			n, err = g.counter.CountInvoices(ctx, from, to, customerID)
			if err != nil {
				return nil, fmt.Errorf("contar facturas para {%s}: %w", token, err)
			}
		}
		counters[token] = n + 1
	}
	return counters, nil
}

func (g *ConfigurableGenerator) render(model *invoice.Model, counters map[string]int, attempt int) string {
	date := model.InvoiceDate
	return tokenPattern.ReplaceAllStringFunc(g.format, func(raw string) string {
		m := tokenPattern.FindStringSubmatch(raw)
		token := m[1]
		var value string
		switch token {
		case "Y":
			value = date.Format("2006")
		case "y":
			value = date.Format("06")
		case "M":
			value = date.Format("01")
		case "m":
			value = strconv.Itoa(int(date.Month()))
		case "D":
			value = date.Format("02")
		case "d":
			value = strconv.Itoa(date.Day())
		case "cy", "cm", "cd", "cc":
			value = strconv.Itoa(counters[token] + attempt)
		case "cn":
			if model.Customer != nil {
				value = model.Customer.Number
			}
		default:
			return raw
		}
		if m[2] != "" {
			width, _ := strconv.Atoi(m[2])
			value = padLeft(value, width)
		}
		return value
	})
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
