package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter presenta fechas, duraciones y montos en el idioma de la factura.
type Formatter interface {
	Language() string
	FormatDate(t time.Time) string
	FormatTime(t time.Time) string
	FormatDuration(seconds int64, decimalHours bool) string
	FormatAmount(amount decimal.Decimal) string
	FormatMoney(amount decimal.Decimal, currencyCode string) string
	CurrencySymbol(currencyCode string) string
}

// LanguageFormatter implementa Formatter con los formatos configurados
// y el printer de golang.org/x/text para números.
type LanguageFormatter struct {
	lang    string
	format  LanguageFormat
	printer *message.Printer
}

var _ Formatter = (*LanguageFormatter)(nil)

// NewLanguageFormatter construye el formatter para lang.
func NewLanguageFormatter(formattings *LanguageFormattings, lang string) *LanguageFormatter {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &LanguageFormatter{
		lang:    lang,
		format:  formattings.Format(lang),
		printer: message.NewPrinter(tag),
	}
}

// Language idioma del formatter.
func (f *LanguageFormatter) Language() string { return f.lang }

// FormatDate fecha según el layout del idioma.
func (f *LanguageFormatter) FormatDate(t time.Time) string { return t.Format(f.format.Date) }

// FormatTime hora según el layout del idioma.
func (f *LanguageFormatter) FormatTime(t time.Time) string { return t.Format(f.format.Time) }

// FormatDuration con decimalHours=true devuelve horas con dos decimales,
// si no aplica el patrón del idioma (%h horas, %m minutos, %s segundos).
func (f *LanguageFormatter) FormatDuration(seconds int64, decimalHours bool) string {
	if decimalHours {
		hours := decimal.NewFromInt(seconds).Div(decimal.NewFromInt(3600))
		return f.FormatAmount(hours)
	}
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	r := strings.NewReplacer(
		"%h", fmt.Sprintf("%d", seconds/3600),
		"%m", fmt.Sprintf("%02d", (seconds%3600)/60),
		"%s", fmt.Sprintf("%02d", seconds%60),
	)
	return sign + r.Replace(f.format.Duration)
}

// FormatAmount número con dos decimales y separadores del idioma.
func (f *LanguageFormatter) FormatAmount(amount decimal.Decimal) string {
	return f.printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// FormatMoney monto precedido del símbolo de la moneda.
func (f *LanguageFormatter) FormatMoney(amount decimal.Decimal, currencyCode string) string {
	return f.CurrencySymbol(currencyCode) + " " + f.FormatAmount(amount)
}

// CurrencySymbol símbolo localizado; si el código no es ISO 4217 se devuelve tal cual.
func (f *LanguageFormatter) CurrencySymbol(currencyCode string) string {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return currencyCode
	}
	return f.printer.Sprint(currency.Symbol(unit))
}
