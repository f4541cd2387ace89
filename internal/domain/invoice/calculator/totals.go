// Package calculator implementa las calculadoras de factura: cómo se agrupan
// los ítems en líneas y cómo se obtienen subtotal, impuesto y total.
package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

var hundred = decimal.NewFromInt(100)

// buildTotals suma las líneas y aplica el IVA de la plantilla (impuesto redondeado a 2 decimales).
func buildTotals(model *invoice.Model, entries []*invoice.Entry) *invoice.Totals {
	subtotal := decimal.Zero
	var worked int64
	for _, e := range entries {
		subtotal = subtotal.Add(e.Rate)
		worked += e.Duration
	}
	vat := decimal.Zero
	if model.Template != nil {
		vat = model.Template.Vat
	}
	tax := subtotal.Mul(vat).Div(hundred).Round(2)
	return &invoice.Totals{
		Entries:    entries,
		Subtotal:   subtotal,
		Vat:        vat,
		Tax:        tax,
		Total:      subtotal.Add(tax),
		TimeWorked: worked,
		Currency:   model.Customer.CurrencyOrDefault(),
	}
}

// sortedItems copia ordenada por inicio; el slice del modelo no se toca.
func sortedItems(items []*entity.InvoiceItem) []*entity.InvoiceItem {
	out := make([]*entity.InvoiceItem, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Begin.Before(out[j].Begin) })
	return out
}

func entryFromItem(item *entity.InvoiceItem) *invoice.Entry {
	return &invoice.Entry{
		Description: item.Description,
		Begin:       item.Begin,
		End:         item.End,
		Duration:    item.Duration,
		Amount:      item.Amount,
		Rate:        item.Rate,
		HourlyRate:  item.HourlyRate,
		FixedRate:   item.FixedRate,
		User:        item.User,
		Project:     item.Project,
		Activity:    item.Activity,
		Category:    item.Category,
		Items:       []*entity.InvoiceItem{item},
	}
}

// mergeItems une ítems en una sola línea. Suma duración, importe y cantidad;
// conserva tarifa, usuario, proyecto y actividad solo si todos coinciden.
func mergeItems(items []*entity.InvoiceItem) *invoice.Entry {
	e := entryFromItem(items[0])
	e.Items = append([]*entity.InvoiceItem(nil), items...)
	for _, it := range items[1:] {
		if it.Begin.Before(e.Begin) {
			e.Begin = it.Begin
		}
		if it.End != nil && (e.End == nil || it.End.After(*e.End)) {
			end := *it.End
			e.End = &end
		}
		e.Duration += it.Duration
		e.Rate = e.Rate.Add(it.Rate)
		e.Amount = e.Amount.Add(it.Amount)
		if !e.HourlyRate.Equal(it.HourlyRate) {
			e.HourlyRate = decimal.Zero
		}
		if !sameFixedRate(e.FixedRate, it.FixedRate) {
			e.FixedRate = nil
		}
		if e.User != nil && (it.User == nil || it.User.ID != e.User.ID) {
			e.User = nil
		}
		if e.Project != nil && (it.Project == nil || it.Project.ID != e.Project.ID) {
			e.Project = nil
		}
		if e.Activity != nil && (it.Activity == nil || it.Activity.ID != e.Activity.ID) {
			e.Activity = nil
		}
		if e.Category != it.Category {
			e.Category = ""
		}
		if e.Description != it.Description {
			e.Description = ""
		}
	}
	return e
}

func sameFixedRate(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
