package invoicing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Timesheet-api/internal/application/invoicing"
	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice/calculator"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice/numbergen"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/documents"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/render"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/storage"
	"github.com/jhoicas/Timesheet-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// fakeItems devuelve siempre los mismos ítems; con byCustomer solo los de los
// clientes de la consulta.
type fakeItems struct {
	id         string
	items      []*entity.InvoiceItem
	byCustomer bool
	err        error
	queries    []invoice.Query
	exported   []*entity.InvoiceItem
}

func (f *fakeItems) ID() string { return f.id }

func (f *fakeItems) GetInvoiceItemsForQuery(_ context.Context, q invoice.Query) ([]*entity.InvoiceItem, error) {
	f.queries = append(f.queries, q)
	if !f.byCustomer || f.err != nil {
		return f.items, f.err
	}
	ids := map[string]bool{}
	for _, id := range q.CustomerIDs() {
		ids[id] = true
	}
	out := []*entity.InvoiceItem{}
	for _, it := range f.items {
		if c := it.Customer(); c != nil && ids[c.ID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeItems) MarkAsExported(_ context.Context, items []*entity.InvoiceItem) error {
	f.exported = append(f.exported, items...)
	return nil
}

type fakeInvoices struct {
	created []*entity.Invoice
	updated []*entity.Invoice
	deleted []string
	err     error
}

func (f *fakeInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, inv)
	return nil
}

func (f *fakeInvoices) UpdateStatus(_ context.Context, inv *entity.Invoice) error {
	if f.err != nil {
		return f.err
	}
	f.updated = append(f.updated, inv)
	return nil
}

func (f *fakeInvoices) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.err
}

func (f *fakeInvoices) HasInvoice(_ context.Context, number string) (bool, error) {
	for _, inv := range f.created {
		if inv.InvoiceNumber == number {
			return true, nil
		}
	}
	return false, nil
}

// CountInvoices ignora rango y cliente: cuenta todo lo guardado.
func (f *fakeInvoices) CountInvoices(context.Context, *time.Time, *time.Time, string) (int, error) {
	return len(f.created), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func newFormattings() *invoice.LanguageFormattings {
	return invoice.NewLanguageFormattings(map[string]invoice.LanguageFormat{
		"en": {Date: "2006.01.02", Duration: "%h:%m h", Time: "15:04"},
	}, "")
}

func getSut(t *testing.T, paths []string) *invoicing.ServiceInvoice {
	t.Helper()
	docs := documents.NewRepository(afero.NewOsFs(), paths, logger.Nop())
	factory := invoice.NewModelFactory(newFormattings(), nil)
	return invoicing.NewServiceInvoice(docs, nil, nil, factory, logger.Nop())
}

func withDefaults(s *invoicing.ServiceInvoice) *invoicing.ServiceInvoice {
	s.AddCalculator(calculator.NewDefaultCalculator())
	s.AddNumberGenerator(numbergen.NewDateGenerator(nil))
	return s
}

func dateTemplate() *entity.InvoiceTemplate {
	tpl := entity.NewInvoiceTemplate()
	tpl.NumberGenerator = "date"
	return tpl
}

func itemFor(customer *entity.Customer, id string, begin time.Time, hours int64) *entity.InvoiceItem {
	end := begin.Add(time.Duration(hours) * time.Hour)
	return &entity.InvoiceItem{
		ID:       id,
		Type:     entity.ItemTypeTimesheet,
		Begin:    begin,
		End:      &end,
		Duration: hours * 3600,
		Rate:     decimal.NewFromInt(hours * 100),
		Project:  &entity.Project{ID: "p-" + id, Customer: customer},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registros
// ──────────────────────────────────────────────────────────────────────────────

func TestServiceInvoice_ObjetoVacio(t *testing.T) {
	sut := getSut(t, nil)

	assert.NotNil(t, sut.GetCalculator())
	assert.Empty(t, sut.GetCalculator())
	assert.NotNil(t, sut.GetRenderer())
	assert.Empty(t, sut.GetRenderer())
	assert.NotNil(t, sut.GetNumberGenerator())
	assert.Empty(t, sut.GetNumberGenerator())
	assert.NotNil(t, sut.GetDocuments())
	assert.Empty(t, sut.GetDocuments())

	_, ok := sut.GetCalculatorByName("default")
	assert.False(t, ok)
	_, ok = sut.GetDocumentByName("default")
	assert.False(t, ok)
	_, ok = sut.GetNumberGeneratorByName("default")
	assert.False(t, ok)
	_, ok = sut.GetRendererByName("html")
	assert.False(t, ok)
}

func TestServiceInvoice_DirectorioDeDocumentos(t *testing.T) {
	sut := getSut(t, []string{"../../../templates/invoice/renderer"})

	docs := sut.GetDocuments()
	assert.NotEmpty(t, docs)
	assert.Equal(t, docs, sut.GetDocuments(), "listado idempotente")

	doc, ok := sut.GetDocumentByName("default")
	require.True(t, ok)
	assert.Equal(t, "html.tmpl", doc.Extension)
}

func TestServiceInvoice_Add(t *testing.T) {
	sut := getSut(t, nil)
	fs := afero.NewMemMapFs()

	sut.AddCalculator(calculator.NewDefaultCalculator())
	sut.AddNumberGenerator(numbergen.NewDateGenerator(nil))
	sut.AddRenderer(render.NewHTMLRenderer(fs))

	assert.Len(t, sut.GetCalculator(), 1)
	c, ok := sut.GetCalculatorByName("default")
	require.True(t, ok)
	assert.IsType(t, &calculator.DefaultCalculator{}, c)

	assert.Len(t, sut.GetNumberGenerator(), 1)
	g, ok := sut.GetNumberGeneratorByName("date")
	require.True(t, ok)
	assert.IsType(t, &numbergen.DateGenerator{}, g)

	assert.Len(t, sut.GetRenderer(), 1)
}

func TestServiceInvoice_RegistroDuplicadoReemplaza(t *testing.T) {
	sut := getSut(t, nil)
	second := calculator.NewDefaultCalculator()

	sut.AddCalculator(calculator.NewDefaultCalculator())
	sut.AddCalculator(second)
	sut.AddNumberGenerator(numbergen.NewDateGenerator(nil))
	sut.AddNumberGenerator(numbergen.NewDateGenerator(nil))
	sut.AddRenderer(render.NewXMLRenderer(afero.NewMemMapFs()))
	sut.AddRenderer(render.NewXMLRenderer(afero.NewMemMapFs()))

	assert.Len(t, sut.GetCalculator(), 1)
	assert.Len(t, sut.GetNumberGenerator(), 1)
	assert.Len(t, sut.GetRenderer(), 1)
	got, _ := sut.GetCalculatorByName("default")
	assert.Same(t, second, got, "gana el último registro")
}

func TestServiceInvoice_FuentesDeItems(t *testing.T) {
	sut := getSut(t, nil)
	a := &fakeItems{id: "timesheet"}
	b := &fakeItems{id: "expense"}
	a2 := &fakeItems{id: "timesheet"}

	sut.AddInvoiceItemRepository(a)
	sut.AddInvoiceItemRepository(b)
	sut.AddInvoiceItemRepository(a2)

	repos := sut.GetInvoiceItemRepositories()
	require.Len(t, repos, 2)
	assert.Same(t, a2, repos[0], "mismo ID reemplaza en su lugar")
	assert.Same(t, b, repos[1])
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateModel
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateModel_SinPlantilla(t *testing.T) {
	sut := withDefaults(getSut(t, nil))
	query := invoice.Query{Customers: []*entity.Customer{{}}}

	_, err := sut.CreateModel(context.Background(), query)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingTemplate)
	assert.Equal(t, "Cannot create invoice model without template", err.Error())

	_, _, err = sut.CreateModels(context.Background(), query)
	assert.ErrorIs(t, err, domain.ErrMissingTemplate)
}

func TestCreateModel_IdiomaPorDefecto(t *testing.T) {
	sut := withDefaults(getSut(t, nil))
	template := dateTemplate()
	require.Empty(t, template.Language)

	model, err := sut.CreateModel(context.Background(), invoice.Query{
		Customers: []*entity.Customer{{}},
		Template:  template,
	})

	require.NoError(t, err)
	assert.Equal(t, "en", model.Template.Language)
	assert.Equal(t, "en", template.Language, "la plantilla queda modificada")
	assert.Equal(t, "en", model.Formatter.Language())
}

func TestCreateModel_UsaIdiomaDeLaPlantilla(t *testing.T) {
	sut := withDefaults(getSut(t, nil))
	template := dateTemplate()
	template.Language = "de"

	model, err := sut.CreateModel(context.Background(), invoice.Query{
		Customers: []*entity.Customer{{}},
		Template:  template,
	})

	require.NoError(t, err)
	assert.Equal(t, "de", model.Template.Language)
	assert.Len(t, model.InvoiceNumber, 6, "número yymmdd del generador date")
}

func TestCreateModel_EstrategiaDesconocida(t *testing.T) {
	sut := withDefaults(getSut(t, nil))
	tpl := dateTemplate()
	tpl.Calculator = "weekly"

	_, err := sut.CreateModel(context.Background(), invoice.Query{Template: tpl})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	tpl = entity.NewInvoiceTemplate() // generador "default" sin registrar
	_, err = sut.CreateModel(context.Background(), invoice.Query{Template: tpl})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateModel_RangoInvalido(t *testing.T) {
	sut := withDefaults(getSut(t, nil))
	b := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	e := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	_, err := sut.CreateModel(context.Background(), invoice.Query{Template: dateTemplate(), Begin: &b, End: &e})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// FindInvoiceItems
// ──────────────────────────────────────────────────────────────────────────────

func TestFindInvoiceItems_SinClientes(t *testing.T) {
	sut := getSut(t, nil)
	repo := &fakeItems{id: "timesheet", items: []*entity.InvoiceItem{{ID: "1"}}}
	sut.AddInvoiceItemRepository(repo)

	items, err := sut.FindInvoiceItems(context.Background(), invoice.Query{})

	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Empty(t, repo.queries, "no se consulta ninguna fuente")
}

func TestFindInvoiceItems_ConClientesSinFuentes(t *testing.T) {
	sut := getSut(t, nil)

	items, err := sut.FindInvoiceItems(context.Background(), invoice.Query{Customers: []*entity.Customer{{}, {}}})

	require.NoError(t, err)
	assert.Equal(t, []*entity.InvoiceItem{}, items)
}

func TestFindInvoiceItems_ConcatenaEnOrden(t *testing.T) {
	sut := getSut(t, nil)
	sut.AddInvoiceItemRepository(&fakeItems{id: "timesheet", items: []*entity.InvoiceItem{{ID: "t1"}, {ID: "t2"}}})
	sut.AddInvoiceItemRepository(&fakeItems{id: "expense", items: []*entity.InvoiceItem{{ID: "e1"}}})

	items, err := sut.FindInvoiceItems(context.Background(), invoice.Query{Customers: []*entity.Customer{{ID: "c"}}})

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "t1", items[0].ID)
	assert.Equal(t, "e1", items[2].ID)
}

func TestFindInvoiceItems_ErrorDeFuente(t *testing.T) {
	boom := errors.New("db caída")
	sut := getSut(t, nil)
	sut.AddInvoiceItemRepository(&fakeItems{id: "timesheet", err: boom})

	_, err := sut.FindInvoiceItems(context.Background(), invoice.Query{Customers: []*entity.Customer{{ID: "c"}}})

	assert.ErrorIs(t, err, boom)
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateModels
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateModels_CompletaFechas(t *testing.T) {
	vienna, err := time.LoadLocation("Europe/Vienna")
	require.NoError(t, err)
	at := func(s string) time.Time {
		v, err := time.ParseInLocation("2006-01-02 15:04:05", s, vienna)
		require.NoError(t, err)
		return v
	}
	customer := &entity.Customer{}
	project := &entity.Project{Customer: customer}
	ts := func(begin, end string) *entity.InvoiceItem {
		e := at(end)
		return &entity.InvoiceItem{Begin: at(begin), End: &e, Project: project}
	}
	repo := &fakeItems{id: "timesheet", items: []*entity.InvoiceItem{
		ts("2011-01-27 12:12:12", "2020-01-27 12:12:12"),
		ts("2010-01-27 08:24:33", "2019-01-27 12:12:12"),
		ts("2019-01-27 12:12:12", "2020-01-07 12:12:12"),
		ts("2020-01-27 10:12:12", "2020-11-27 11:12:12"),
		ts("2012-01-27 12:12:12", "2018-01-27 12:12:12"),
	}}

	template := dateTemplate()
	template.Language = "de"
	query := invoice.Query{Customers: []*entity.Customer{{}, customer}, Template: template}
	require.Nil(t, query.Begin)
	require.Nil(t, query.End)

	sut := withDefaults(getSut(t, nil))
	sut.AddInvoiceItemRepository(repo)

	models, resolved, err := sut.CreateModels(context.Background(), query)

	require.NoError(t, err)
	require.NotNil(t, resolved.Begin)
	require.NotNil(t, resolved.End)
	assert.Equal(t, "2010-01-27T00:00:00+0100", resolved.Begin.Format("2006-01-02T15:04:05-0700"))
	assert.Equal(t, "2020-11-27T23:59:59+0100", resolved.End.Format("2006-01-02T15:04:05-0700"))
	assert.Nil(t, query.Begin, "la consulta del llamador no cambia")

	require.Len(t, models, 1, "el cliente sin ítems no genera modelo")
	assert.Same(t, customer, models[0].Customer)
	assert.Len(t, models[0].Items, 5)
	assert.Equal(t, resolved.Begin, models[0].Query.Begin)
	assert.Len(t, models[0].Query.Customers, 1)
}

func TestCreateModels_OrdenPorCliente(t *testing.T) {
	a := &entity.Customer{ID: "a", Currency: "USD"}
	b := &entity.Customer{ID: "b"}
	c := &entity.Customer{ID: "c"}
	day := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	repo := &fakeItems{id: "timesheet", items: []*entity.InvoiceItem{
		itemFor(a, "1", day, 1),
		itemFor(c, "2", day, 2),
		itemFor(b, "3", day, 3),
		itemFor(a, "4", day.AddDate(0, 0, 1), 4),
		{ID: "huérfano", Begin: day},
	}}
	sut := withDefaults(getSut(t, nil))
	sut.AddInvoiceItemRepository(repo)

	models, _, err := sut.CreateModels(context.Background(), invoice.Query{
		Customers: []*entity.Customer{b, a},
		Template:  dateTemplate(),
	})

	require.NoError(t, err)
	require.Len(t, models, 3)
	assert.Equal(t, "b", models[0].Customer.ID)
	assert.Equal(t, "a", models[1].Customer.ID)
	assert.Equal(t, "c", models[2].Customer.ID)
	assert.Equal(t, "500", models[1].Totals.Total.String())
	assert.Equal(t, "USD", models[1].Currency())
	assert.Len(t, repo.queries, 1, "las fuentes se consultan una sola vez")
	assert.NotEqual(t, models[0].InvoiceNumber, models[1].InvoiceNumber)
	assert.Equal(t, models[0].InvoiceNumber+"-2", models[2].InvoiceNumber)
}

// ──────────────────────────────────────────────────────────────────────────────
// ChangeInvoiceStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeInvoiceStatus_EstadoDesconocido(t *testing.T) {
	sut := getSut(t, nil)
	inv := &entity.Invoice{Status: entity.InvoiceStatusNew}

	err := sut.ChangeInvoiceStatus(context.Background(), inv, "foo")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownInvoiceStatus)
	assert.Contains(t, err.Error(), "Unknown invoice status")
	assert.Equal(t, entity.InvoiceStatusNew, inv.Status, "sin mutación parcial")
}

func TestChangeInvoiceStatus_EstadosValidos(t *testing.T) {
	store := &fakeInvoices{}
	paidAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sut := invoicing.NewServiceInvoice(nil, nil, store, invoice.NewModelFactory(newFormattings(), nil), nil)
	sut.SetClock(func() time.Time { return paidAt })
	inv := &entity.Invoice{ID: "i1", Status: entity.InvoiceStatusNew}

	for _, st := range entity.InvoiceStatuses() {
		require.NoError(t, sut.ChangeInvoiceStatus(context.Background(), inv, string(st)))
		assert.Equal(t, st, inv.Status)
		if st == entity.InvoiceStatusPaid {
			require.NotNil(t, inv.PaymentDate)
			assert.Equal(t, paidAt, *inv.PaymentDate)
		} else {
			assert.Nil(t, inv.PaymentDate)
		}
	}
	assert.Len(t, store.updated, len(entity.InvoiceStatuses()))
}

func TestChangeInvoiceStatus_ErrorDelStoreRevierte(t *testing.T) {
	store := &fakeInvoices{err: errors.New("db caída")}
	sut := invoicing.NewServiceInvoice(nil, nil, store, invoice.NewModelFactory(newFormattings(), nil), nil)
	inv := &entity.Invoice{ID: "i1", Status: entity.InvoiceStatusPending}

	err := sut.ChangeInvoiceStatus(context.Background(), inv, "paid")

	assert.Error(t, err)
	assert.Equal(t, entity.InvoiceStatusPending, inv.Status)
	assert.Nil(t, inv.PaymentDate)
}

// ──────────────────────────────────────────────────────────────────────────────
// Render, alta y baja de facturas
// ──────────────────────────────────────────────────────────────────────────────

func TestRenderInvoice_SinRenderer(t *testing.T) {
	sut := getSut(t, nil)
	sut.AddRenderer(render.NewXMLRenderer(afero.NewMemMapFs()))

	_, err := sut.RenderInvoice(context.Background(), entity.NewInvoiceDocument("d/x.docx"), &invoice.Model{})

	assert.ErrorIs(t, err, domain.ErrNoRenderer)
}

func TestCreateInvoices(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "docs/default.html.tmpl", []byte(`{{.InvoiceNumber}} {{money .Totals.Total}}`), 0o644))

	docs := documents.NewRepository(fs, []string{"docs"}, logger.Nop())
	files := storage.NewFileHelper(fs, "data")
	store := &fakeInvoices{}
	sut := invoicing.NewServiceInvoice(docs, files, store, invoice.NewModelFactory(newFormattings(), nil), logger.Nop())
	withDefaults(sut)
	sut.AddRenderer(render.NewHTMLRenderer(fs))

	a := &entity.Customer{ID: "a", Name: "Alpha"}
	repo := &fakeItems{id: "timesheet", items: []*entity.InvoiceItem{itemFor(a, "1", time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC), 2)}}
	sut.AddInvoiceItemRepository(repo)

	created, err := sut.CreateInvoices(context.Background(), invoice.Query{
		Customers:      []*entity.Customer{a},
		Template:       dateTemplate(),
		MarkAsExported: true,
	}, nil)

	require.NoError(t, err)
	require.Len(t, created, 1)
	inv := created[0]
	assert.Equal(t, entity.InvoiceStatusNew, inv.Status)
	assert.Equal(t, "a", inv.CustomerID)
	assert.Equal(t, "200", inv.Total.String())
	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, store.created, created)
	assert.Len(t, repo.exported, 1)

	content, err := files.ReadInvoice(inv.InvoiceFilename)
	require.NoError(t, err)
	assert.Contains(t, string(content), inv.InvoiceNumber)

	require.NoError(t, sut.DeleteInvoice(context.Background(), inv))
	assert.Equal(t, []string{inv.ID}, store.deleted)
	_, err = files.ReadInvoice(inv.InvoiceFilename)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

var issueDay = time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)

// issuingSut servicio con documentos, archivos y store, reloj fijo en issueDay
// e ítems para los clientes a y b.
func issuingSut(t *testing.T, store *fakeInvoices, a, b *entity.Customer) *invoicing.ServiceInvoice {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "docs/default.html.tmpl", []byte(`{{.InvoiceNumber}}`), 0o644))
	docs := documents.NewRepository(fs, []string{"docs"}, logger.Nop())
	factory := invoice.NewModelFactory(newFormattings(), func() time.Time { return issueDay })
	sut := invoicing.NewServiceInvoice(docs, storage.NewFileHelper(fs, "data"), store, factory, logger.Nop())
	withDefaults(sut)
	sut.AddNumberGenerator(numbergen.NewConfigurableGenerator("{cy,3}", nil))
	sut.AddRenderer(render.NewHTMLRenderer(fs))
	sut.AddInvoiceItemRepository(&fakeItems{id: "timesheet", items: []*entity.InvoiceItem{
		itemFor(a, "1", issueDay.AddDate(0, 0, -3), 2),
		itemFor(b, "2", issueDay.AddDate(0, 0, -2), 1),
	}})
	return sut
}

func TestCreateInvoices_NumerosDistintosPorCliente(t *testing.T) {
	a := &entity.Customer{ID: "a"}
	b := &entity.Customer{ID: "b"}
	store := &fakeInvoices{created: []*entity.Invoice{{ID: "viejo", InvoiceNumber: "240506"}}}
	sut := issuingSut(t, store, a, b)

	created, err := sut.CreateInvoices(context.Background(), invoice.Query{
		Customers: []*entity.Customer{a, b},
		Template:  dateTemplate(),
	}, nil)

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "240506-1", created[0].InvoiceNumber)
	assert.Equal(t, "240506-2", created[1].InvoiceNumber)
	assert.Len(t, store.created, 3)
}

func TestCreateInvoices_ContadorAnualPorCliente(t *testing.T) {
	a := &entity.Customer{ID: "a"}
	b := &entity.Customer{ID: "b"}
	store := &fakeInvoices{created: []*entity.Invoice{{ID: "viejo", InvoiceNumber: "001"}}}
	sut := issuingSut(t, store, a, b)
	tpl := entity.NewInvoiceTemplate()
	tpl.NumberGenerator = "default"

	created, err := sut.CreateInvoices(context.Background(), invoice.Query{
		Customers: []*entity.Customer{a, b},
		Template:  tpl,
	}, nil)

	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "002", created[0].InvoiceNumber)
	assert.Equal(t, "003", created[1].InvoiceNumber)
}

func TestCreateModels_NumeroConsultaElStoreDeLaTransaccion(t *testing.T) {
	a := &entity.Customer{ID: "a"}
	b := &entity.Customer{ID: "b"}
	sut := issuingSut(t, &fakeInvoices{}, a, b)
	tx := &fakeInvoices{created: []*entity.Invoice{{ID: "en-tx", InvoiceNumber: "240506"}}}

	models, _, err := sut.WithStores(tx).CreateModels(context.Background(), invoice.Query{
		Customers: []*entity.Customer{a, b},
		Template:  dateTemplate(),
	})

	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "240506-1", models[0].InvoiceNumber)
	assert.Equal(t, "240506-2", models[1].InvoiceNumber)
	assert.Equal(t, "date", models[0].NumberGenerator.ID())
}

func TestCreateInvoices_SinAlmacenamiento(t *testing.T) {
	sut := withDefaults(getSut(t, nil))
	_, err := sut.CreateInvoices(context.Background(), invoice.Query{Template: dateTemplate()}, nil)
	assert.Error(t, err)
}

func TestWithStores(t *testing.T) {
	base := &fakeItems{id: "timesheet"}
	other := &fakeItems{id: "expense"}
	txItems := &fakeItems{id: "timesheet"}
	store := &fakeInvoices{}
	sut := withDefaults(getSut(t, nil))
	sut.AddInvoiceItemRepository(base)
	sut.AddInvoiceItemRepository(other)

	cp := sut.WithStores(store, txItems)

	repos := cp.GetInvoiceItemRepositories()
	require.Len(t, repos, 2)
	assert.Same(t, txItems, repos[0])
	assert.Same(t, other, repos[1])
	assert.Same(t, base, sut.GetInvoiceItemRepositories()[0], "el original no cambia")
	assert.Len(t, cp.GetCalculator(), 1, "comparte registros")

	require.NoError(t, cp.ChangeInvoiceStatus(context.Background(), &entity.Invoice{ID: "x"}, "pending"))
	assert.Len(t, store.updated, 1)
}
