package calculator

import (
	"fmt"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// DefaultCalculator una línea por ítem, ordenadas por inicio.
type DefaultCalculator struct{}

var _ invoice.Calculator = (*DefaultCalculator)(nil)

// NewDefaultCalculator construye la calculadora "default".
func NewDefaultCalculator() *DefaultCalculator { return &DefaultCalculator{} }

// ID clave de registro.
func (c *DefaultCalculator) ID() string { return "default" }

// Calculate implementa invoice.Calculator.
func (c *DefaultCalculator) Calculate(model *invoice.Model) (*invoice.Totals, error) {
	items := sortedItems(model.Items)
	entries := make([]*invoice.Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, entryFromItem(it))
	}
	return buildTotals(model, entries), nil
}

// GroupedCalculator agrupa ítems por una clave y une cada grupo en una línea.
// Los grupos conservan el orden de su primer ítem.
type GroupedCalculator struct {
	id       string
	key      func(item *entity.InvoiceItem) string
	describe func(model *invoice.Model, entry *invoice.Entry) string
}

var _ invoice.Calculator = (*GroupedCalculator)(nil)

// ID clave de registro.
func (c *GroupedCalculator) ID() string { return c.id }

// Calculate implementa invoice.Calculator.
func (c *GroupedCalculator) Calculate(model *invoice.Model) (*invoice.Totals, error) {
	var order []string
	groups := make(map[string][]*entity.InvoiceItem)
	for _, it := range sortedItems(model.Items) {
		k := c.key(it)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}

	entries := make([]*invoice.Entry, 0, len(order))
	for _, k := range order {
		e := mergeItems(groups[k])
		if c.describe != nil {
			if d := c.describe(model, e); d != "" {
				e.Description = d
			}
		}
		entries = append(entries, e)
	}
	return buildTotals(model, entries), nil
}

// NewShortCalculator "short": todo en una sola línea.
func NewShortCalculator() *GroupedCalculator {
	return &GroupedCalculator{
		id:  "short",
		key: func(*entity.InvoiceItem) string { return "" },
		describe: func(_ *invoice.Model, e *invoice.Entry) string {
			switch {
			case e.Activity != nil:
				return e.Activity.Name
			case e.Project != nil:
				return e.Project.Name
			}
			return ""
		},
	}
}

// NewUserCalculator "user": una línea por usuario.
func NewUserCalculator() *GroupedCalculator {
	return &GroupedCalculator{
		id: "user",
		key: func(it *entity.InvoiceItem) string {
			if it.User == nil {
				return ""
			}
			return it.User.ID
		},
		describe: func(_ *invoice.Model, e *invoice.Entry) string { return e.User.DisplayName() },
	}
}

// NewProjectCalculator "project": una línea por proyecto.
func NewProjectCalculator() *GroupedCalculator {
	return &GroupedCalculator{
		id: "project",
		key: func(it *entity.InvoiceItem) string {
			if it.Project == nil {
				return ""
			}
			return it.Project.ID
		},
		describe: func(_ *invoice.Model, e *invoice.Entry) string {
			if e.Project == nil {
				return ""
			}
			return e.Project.Name
		},
	}
}

// NewActivityCalculator "activity": una línea por actividad.
func NewActivityCalculator() *GroupedCalculator {
	return &GroupedCalculator{
		id: "activity",
		key: func(it *entity.InvoiceItem) string {
			if it.Activity == nil {
				return ""
			}
			return it.Activity.ID
		},
		describe: func(_ *invoice.Model, e *invoice.Entry) string {
			if e.Activity == nil {
				return ""
			}
			return e.Activity.Name
		},
	}
}

// NewDateCalculator "date": una línea por día calendario del inicio.
func NewDateCalculator() *GroupedCalculator {
	return &GroupedCalculator{
		id:  "date",
		key: func(it *entity.InvoiceItem) string { return it.Begin.Format("2006-01-02") },
		describe: func(m *invoice.Model, e *invoice.Entry) string {
			if m.Formatter == nil {
				return e.Begin.Format("2006-01-02")
			}
			return m.Formatter.FormatDate(e.Begin)
		},
	}
}

// NewWeeklyCalculator "weekly": una línea por semana ISO.
func NewWeeklyCalculator() *GroupedCalculator {
	return &GroupedCalculator{
		id: "weekly",
		key: func(it *entity.InvoiceItem) string {
			y, w := it.Begin.ISOWeek()
			return fmt.Sprintf("%d-W%02d", y, w)
		},
		describe: func(_ *invoice.Model, e *invoice.Entry) string {
			y, w := e.Begin.ISOWeek()
			return fmt.Sprintf("%d-W%02d", y, w)
		},
	}
}

// NewPriceCalculator "price": una línea por tarifa (horaria o fija).
func NewPriceCalculator() *GroupedCalculator {
	return &GroupedCalculator{
		id: "price",
		key: func(it *entity.InvoiceItem) string {
			if it.FixedRate != nil {
				return "fixed:" + it.FixedRate.String()
			}
			return "hourly:" + it.HourlyRate.String()
		},
	}
}

// All devuelve todas las calculadoras incluidas.
func All() []invoice.Calculator {
	return []invoice.Calculator{
		NewDefaultCalculator(),
		NewShortCalculator(),
		NewUserCalculator(),
		NewProjectCalculator(),
		NewActivityCalculator(),
		NewDateCalculator(),
		NewWeeklyCalculator(),
		NewPriceCalculator(),
	}
}
