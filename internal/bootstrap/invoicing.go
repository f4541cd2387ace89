// Package bootstrap arma el servicio de facturación con sus extensiones
// incluidas. Lo comparten la API y el CLI.
package bootstrap

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/jhoicas/Timesheet-api/internal/application/invoicing"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice/calculator"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice/numbergen"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/documents"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/render"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/storage"
	"github.com/jhoicas/Timesheet-api/pkg/config"
	"github.com/jhoicas/Timesheet-api/pkg/logger"
)

// InvoiceStore lo que el servicio necesita del repositorio de facturas:
// persistir y contar para los generadores de número.
type InvoiceStore interface {
	invoicing.InvoiceStore
	invoice.InvoiceCounter
}

// InvoiceDeps dependencias externas del servicio.
type InvoiceDeps struct {
	Fs       afero.Fs // nil = disco
	Invoices InvoiceStore
	Items    []invoice.ItemRepository
	Log      *logger.Logger
}

// Invoicing resultado del armado.
type Invoicing struct {
	Service *invoicing.ServiceInvoice
	Files   *storage.FileHelper
}

// NewInvoicing registra calculadores, generadores de número, renderers y
// fuentes de ítems sobre un ServiceInvoice nuevo.
func NewInvoicing(cfg config.InvoiceConfig, deps InvoiceDeps) (*Invoicing, error) {
	fs := deps.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	formats, err := config.LoadLanguageFormats(cfg.LanguagesFile)
	if err != nil {
		return nil, err
	}
	lang := cfg.DefaultLanguage
	if _, ok := formats[lang]; !ok {
		return nil, fmt.Errorf("idioma por defecto %q sin formatos", lang)
	}
	factory := invoice.NewModelFactory(invoice.NewLanguageFormattings(formats, lang), nil)

	files := storage.NewFileHelper(fs, cfg.DataDir)
	docs := documents.NewRepository(fs, cfg.DocumentDirs, log)

	var store invoicing.InvoiceStore
	if deps.Invoices != nil {
		store = deps.Invoices
	}
	svc := invoicing.NewServiceInvoice(docs, files, store, factory, log)

	for _, c := range calculator.All() {
		svc.AddCalculator(c)
	}
	var counter invoice.InvoiceCounter
	if deps.Invoices != nil {
		counter = deps.Invoices
	}
	svc.AddNumberGenerator(numbergen.NewDateGenerator(counter))
	svc.AddNumberGenerator(numbergen.NewConfigurableGenerator(cfg.NumberFormat, counter))

	svc.AddRenderer(render.NewHTMLRenderer(fs))
	svc.AddRenderer(render.NewPDFRenderer(fs))
	svc.AddRenderer(render.NewXMLRenderer(fs))

	for _, r := range deps.Items {
		svc.AddInvoiceItemRepository(r)
	}

	log.Info().
		Int("documents", len(svc.GetDocuments())).
		Int("calculators", len(svc.GetCalculator())).
		Int("item_sources", len(svc.GetInvoiceItemRepositories())).
		Msg("servicio de facturación listo")

	return &Invoicing{Service: svc, Files: files}, nil
}
