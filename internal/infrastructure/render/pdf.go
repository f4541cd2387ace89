package render

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// Layout de la página A4 (por defecto):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor + NIF          │  N° Factura + Fechas       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Razón social + dirección + NIF                    │
//	│  PERÍODO: inicio - fin                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Descripción | Fecha | Duración | Tarifa | Importe    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA / TOTAL                            │
//	│  FOOTER: condiciones y datos de pago                        │
//	└─────────────────────────────────────────────────────────────┘

// PDFLayout opciones del documento *.pdf.yaml.
type PDFLayout struct {
	Title        string            `mapstructure:"title"`
	PageSize     string            `mapstructure:"page_size"` // a4 | letter
	Margin       float64           `mapstructure:"margin"`
	FontSize     float64           `mapstructure:"font_size"`
	PrimaryColor [3]int            `mapstructure:"primary_color"`
	ShowDate     bool              `mapstructure:"show_date"`
	Footer       string            `mapstructure:"footer"`
	Labels       map[string]string `mapstructure:"labels"`
}

var defaultLabels = map[string]string{
	"invoice":     "Invoice",
	"date":        "Date",
	"due_date":    "Due date",
	"customer":    "Customer",
	"period":      "Period",
	"description": "Description",
	"duration":    "Duration",
	"rate":        "Unit price",
	"total_line":  "Total",
	"subtotal":    "Subtotal",
	"vat":         "VAT",
	"total":       "Total",
	"vat_id":      "VAT ID",
}

func (l PDFLayout) label(key string) string {
	if v, ok := l.Labels[key]; ok && v != "" {
		return v
	}
	return defaultLabels[key]
}

func (l PDFLayout) color() *props.Color {
	return &props.Color{Red: l.PrimaryColor[0], Green: l.PrimaryColor[1], Blue: l.PrimaryColor[2]}
}

var colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}

// PDFRenderer dibuja la factura con maroto; el documento solo aporta el layout.
type PDFRenderer struct {
	fs afero.Fs
}

var _ invoice.Renderer = (*PDFRenderer)(nil)

// NewPDFRenderer fs es de donde se leen los layouts.
func NewPDFRenderer(fs afero.Fs) *PDFRenderer { return &PDFRenderer{fs: fs} }

// ID clave de registro.
func (r *PDFRenderer) ID() string { return "pdf" }

// Supports implementa invoice.Renderer.
func (r *PDFRenderer) Supports(doc *entity.InvoiceDocument) bool {
	return doc != nil && doc.HasExtension("pdf.yaml")
}

// LoadLayout lee el YAML con viper y completa los valores por defecto.
func (r *PDFRenderer) LoadLayout(doc *entity.InvoiceDocument) (PDFLayout, error) {
	v := viper.New()
	v.SetFs(r.fs)
	v.SetConfigFile(doc.Path)
	v.SetConfigType("yaml")
	v.SetDefault("page_size", "a4")
	v.SetDefault("margin", 10)
	v.SetDefault("font_size", 9)
	v.SetDefault("primary_color", []int{0, 70, 127})
	v.SetDefault("show_date", true)
	if err := v.ReadInConfig(); err != nil {
		return PDFLayout{}, fmt.Errorf("pdf: leer layout %s: %w", doc.Path, err)
	}
	var layout PDFLayout
	if err := v.Unmarshal(&layout); err != nil {
		return PDFLayout{}, fmt.Errorf("pdf: layout %s: %w", doc.Path, err)
	}
	return layout, nil
}

// Render implementa invoice.Renderer.
func (r *PDFRenderer) Render(_ context.Context, doc *entity.InvoiceDocument, model *invoice.Model) (*invoice.RenderedDocument, error) {
	layout, err := r.LoadLayout(doc)
	if err != nil {
		return nil, err
	}
	x := newFormatting(model)
	view := NewView(model)

	size := pagesize.A4
	if strings.EqualFold(layout.PageSize, "letter") {
		size = pagesize.Letter
	}
	author := ""
	if model.Template != nil {
		author = model.Template.Company
	}
	cfg := config.NewBuilder().
		WithPageSize(size).
		WithLeftMargin(layout.Margin).WithRightMargin(layout.Margin).
		WithTopMargin(layout.Margin).WithBottomMargin(layout.Margin).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: layout.FontSize}).
		WithTitle(nonEmpty(layout.Title, layout.label("invoice")+" "+view.InvoiceNumber), true).
		WithAuthor(author, true).
		Build()

	m := maroto.New(cfg)
	primary := layout.color()

	m.AddRows(headerRow(layout, view, x, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.5}))
	m.AddRows(customerRow(layout, view, primary))
	if view.Begin != nil || view.End != nil {
		m.AddRows(row.New(6).Add(col.New(12).Add(text.New(
			layout.label("period")+": "+x.datePtr(view.Begin)+" - "+x.datePtr(view.End),
			props.Text{Size: 8, Color: colorGray, Top: 1},
		))))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(layout, primary))
	m.AddRows(entryRows(layout, view, x)...)

	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.3}))
	m.AddRows(totalsRow(layout, view, x, primary))

	if rows := footerRows(layout, view); len(rows) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
		m.AddRows(rows...)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return &invoice.RenderedDocument{
		Filename:    Filename(model, "pdf"),
		ContentType: "application/pdf",
		Content:     out.GetBytes(),
	}, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(l PDFLayout, v View, x formatting, primary *props.Color) core.Row {
	company, vatID := "", ""
	if v.Template != nil {
		company, vatID = v.Template.Company, v.Template.VatID
	}
	left := col.New(7).Add(
		text.New(company, props.Text{Style: fontstyle.Bold, Size: 13, Color: primary, Top: 1}),
	)
	if vatID != "" {
		left.Add(text.New(l.label("vat_id")+": "+vatID, props.Text{Size: 9, Top: 9, Color: colorGray}))
	}
	return row.New(20).Add(
		left,
		col.New(5).Add(
			text.New(strings.ToUpper(l.label("invoice")), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: primary, Top: 1,
			}),
			text.New(v.InvoiceNumber, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New(l.label("date")+": "+x.date(v.InvoiceDate), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New(l.label("due_date")+": "+x.date(v.DueDate), props.Text{
				Size: 8, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

func customerRow(l PDFLayout, v View, primary *props.Color) core.Row {
	c := v.Customer
	details := ""
	if c != nil {
		parts := []string{}
		if c.Address != "" {
			parts = append(parts, strings.ReplaceAll(c.Address, "\n", ", "))
		}
		if c.VatID != "" {
			parts = append(parts, l.label("vat_id")+": "+c.VatID)
		}
		details = strings.Join(parts, "   |   ")
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New(strings.ToUpper(l.label("customer")), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: primary, Top: 1,
			}),
			text.New(c.DisplayName(), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(details, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow(l PDFLayout, primary *props.Color) core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: primary, Top: 2, Left: 1, Right: 1,
		}))
	}
	if !l.ShowDate {
		return row.New(8).Add(
			h(l.label("description"), 6, align.Left),
			h(l.label("duration"), 2, align.Right),
			h(l.label("rate"), 2, align.Right),
			h(l.label("total_line"), 2, align.Right),
		)
	}
	return row.New(8).Add(
		h(l.label("description"), 4, align.Left),
		h(l.label("date"), 2, align.Center),
		h(l.label("duration"), 2, align.Right),
		h(l.label("rate"), 2, align.Right),
		h(l.label("total_line"), 2, align.Right),
	)
}

func entryRows(l PDFLayout, v View, x formatting) []core.Row {
	result := make([]core.Row, 0, len(v.Entries))
	for _, e := range v.Entries {
		unit := e.HourlyRate
		if e.FixedRate != nil {
			unit = *e.FixedRate
		}
		desc := nonEmpty(e.Description, entryFallback(e))
		cols := []core.Col{
			col.New(6).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		}
		if l.ShowDate {
			cols = []core.Col{
				col.New(4).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
				col.New(2).Add(text.New(x.date(e.Begin), props.Text{Size: 8, Align: align.Center, Top: 1})),
			}
		}
		cols = append(cols,
			col.New(2).Add(text.New(x.duration(e.Duration), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(x.money(unit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(x.money(e.Rate), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		)
		result = append(result, row.New(7).Add(cols...))
	}
	return result
}

func entryFallback(e *invoice.Entry) string {
	switch {
	case e.Activity != nil:
		return e.Activity.Name
	case e.Project != nil:
		return e.Project.Name
	}
	return "-"
}

func totalsRow(l PDFLayout, v View, x formatting, primary *props.Color) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: primary, Right: right, Top: 10})
	}
	vat := l.label("vat") + " " + v.Totals.Vat.String() + "%"
	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(
			label(l.label("subtotal")+":"),
			text.New(vat+":", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			grand(strings.ToUpper(l.label("total"))+":", 2),
		),
		col.New(3).Add(
			value(x.money(v.Totals.Subtotal)),
			text.New(x.money(v.Totals.Tax), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 5}),
			grand(x.money(v.Totals.Total), 1),
		),
	)
}

func footerRows(l PDFLayout, v View) []core.Row {
	var lines []string
	if v.Template != nil {
		for _, s := range []string{v.Template.PaymentTerms, v.Template.PaymentDetails} {
			if s = strings.TrimSpace(s); s != "" {
				lines = append(lines, strings.Split(s, "\n")...)
			}
		}
	}
	if l.Footer != "" {
		lines = append(lines, l.Footer)
	}
	rows := make([]core.Row, 0, len(lines))
	for _, s := range lines {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(s, props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}
	return rows
}
