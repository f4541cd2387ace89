// Package render implementa los renderers de factura: HTML (html/template),
// PDF (maroto, layout en YAML) y XML (esqueleto UBL con etree + C14N).
package render

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// View datos de solo lectura que reciben las plantillas.
type View struct {
	Model         *invoice.Model
	Template      *entity.InvoiceTemplate
	Customer      *entity.Customer
	Entries       []*invoice.Entry
	Totals        *invoice.Totals
	InvoiceNumber string
	InvoiceDate   time.Time
	DueDate       time.Time
	Begin         *time.Time
	End           *time.Time
	Currency      string
	Language      string
}

// NewView arma la vista a partir del modelo calculado.
func NewView(model *invoice.Model) View {
	totals := model.Totals
	if totals == nil {
		totals = &invoice.Totals{Currency: model.Currency()}
	}
	lang := ""
	if model.Formatter != nil {
		lang = model.Formatter.Language()
	}
	return View{
		Model:         model,
		Template:      model.Template,
		Customer:      model.Customer,
		Entries:       model.Entries(),
		Totals:        totals,
		InvoiceNumber: model.InvoiceNumber,
		InvoiceDate:   model.InvoiceDate,
		DueDate:       model.DueDate,
		Begin:         model.Query.Begin,
		End:           model.Query.End,
		Currency:      model.Currency(),
		Language:      lang,
	}
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Filename nombre de archivo de salida: número de factura y cliente, sin caracteres inseguros.
func Filename(model *invoice.Model, ext string) string {
	parts := []string{model.InvoiceNumber}
	if model.Customer != nil {
		parts = append(parts, model.Customer.DisplayName())
	}
	name := unsafeFilename.ReplaceAllString(strings.Join(parts, "-"), "-")
	name = strings.Trim(strings.ToLower(name), "-")
	if name == "" {
		name = "invoice"
	}
	return name + "." + ext
}

// formatting helpers compartidos por los renderers; sin formatter usan ISO y dos decimales.
type formatting struct {
	f        invoice.Formatter
	decimal  bool
	currency string
}

func newFormatting(model *invoice.Model) formatting {
	dec := false
	if model.Template != nil {
		dec = model.Template.DecimalDuration
	}
	return formatting{f: model.Formatter, decimal: dec, currency: model.Currency()}
}

func (x formatting) date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	if x.f == nil {
		return t.Format("2006-01-02")
	}
	return x.f.FormatDate(t)
}

func (x formatting) datePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return x.date(*t)
}

func (x formatting) clock(t time.Time) string {
	if x.f == nil {
		return t.Format("15:04")
	}
	return x.f.FormatTime(t)
}

func (x formatting) duration(seconds int64) string {
	if x.f == nil {
		return decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600)).StringFixed(2)
	}
	return x.f.FormatDuration(seconds, x.decimal)
}

func (x formatting) money(amount decimal.Decimal) string {
	if x.f == nil {
		return x.currency + " " + amount.StringFixed(2)
	}
	return x.f.FormatMoney(amount, x.currency)
}

func (x formatting) amount(amount decimal.Decimal) string {
	if x.f == nil {
		return amount.StringFixed(2)
	}
	return x.f.FormatAmount(amount)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
