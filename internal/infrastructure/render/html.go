package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// HTMLRenderer ejecuta documentos *.html.tmpl con html/template.
//
// Funciones disponibles: date, time, duration, money, amount, nl2br, upper.
type HTMLRenderer struct {
	fs afero.Fs
}

var _ invoice.Renderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer fs es de donde se leen los documentos.
func NewHTMLRenderer(fs afero.Fs) *HTMLRenderer { return &HTMLRenderer{fs: fs} }

// ID clave de registro.
func (r *HTMLRenderer) ID() string { return "html" }

// Supports implementa invoice.Renderer.
func (r *HTMLRenderer) Supports(doc *entity.InvoiceDocument) bool {
	return doc != nil && doc.HasExtension("html.tmpl")
}

// Render implementa invoice.Renderer.
func (r *HTMLRenderer) Render(_ context.Context, doc *entity.InvoiceDocument, model *invoice.Model) (*invoice.RenderedDocument, error) {
	src, err := afero.ReadFile(r.fs, doc.Path)
	if err != nil {
		return nil, fmt.Errorf("html: leer %s: %w", doc.Path, err)
	}
	tpl, err := template.New(doc.Filename).Funcs(htmlFuncs(model)).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("html: parsear %s: %w", doc.Filename, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, NewView(model)); err != nil {
		return nil, fmt.Errorf("html: ejecutar %s: %w", doc.Filename, err)
	}
	return &invoice.RenderedDocument{
		Filename:    Filename(model, "html"),
		ContentType: "text/html; charset=utf-8",
		Content:     buf.Bytes(),
	}, nil
}

func htmlFuncs(model *invoice.Model) template.FuncMap {
	x := newFormatting(model)
	return template.FuncMap{
		"date":     x.date,
		"datePtr":  x.datePtr,
		"time":     x.clock,
		"duration": x.duration,
		"money":    x.money,
		"amount":   x.amount,
		"upper":    strings.ToUpper,
		"nl2br": func(s string) template.HTML {
			return template.HTML(strings.ReplaceAll(template.HTMLEscapeString(s), "\n", "<br>"))
		},
	}
}
