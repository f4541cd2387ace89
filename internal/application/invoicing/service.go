// Package invoicing orquesta la generación de facturas: registra las
// estrategias, reúne los ítems facturables y arma un modelo por cliente.
package invoicing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
	"github.com/jhoicas/Timesheet-api/pkg/logger"
)

// ServiceInvoice registros de estrategias y operaciones de facturación.
// Los registros se llenan una vez al arrancar; después solo se leen.
type ServiceInvoice struct {
	calculators      *invoice.Registry[invoice.Calculator]
	numberGenerators *invoice.Registry[invoice.NumberGenerator]
	renderers        *invoice.Registry[invoice.Renderer]
	itemRepositories []invoice.ItemRepository

	documents DocumentRepository
	files     FileStore
	invoices  InvoiceStore
	factory   *invoice.ModelFactory
	now       func() time.Time
	log       *logger.Logger
}

// NewServiceInvoice files e invoices pueden ser nil: entonces solo se arman y
// renderizan modelos, sin persistir facturas.
func NewServiceInvoice(
	documents DocumentRepository,
	files FileStore,
	invoices InvoiceStore,
	factory *invoice.ModelFactory,
	log *logger.Logger,
) *ServiceInvoice {
	if log == nil {
		log = logger.Nop()
	}
	return &ServiceInvoice{
		calculators:      invoice.NewRegistry[invoice.Calculator](),
		numberGenerators: invoice.NewRegistry[invoice.NumberGenerator](),
		renderers:        invoice.NewRegistry[invoice.Renderer](),
		documents:        documents,
		files:            files,
		invoices:         invoices,
		factory:          factory,
		now:              time.Now,
		log:              log.Component("invoice"),
	}
}

// WithStores copia del servicio que comparte los registros pero persiste en
// invoices y usa items en lugar de la fuente registrada con el mismo ID.
// Pensado para correr una emisión dentro de una transacción.
func (s *ServiceInvoice) WithStores(invoices InvoiceStore, items ...invoice.ItemRepository) *ServiceInvoice {
	cp := *s
	cp.invoices = invoices
	cp.itemRepositories = s.GetInvoiceItemRepositories()
	for _, r := range items {
		cp.AddInvoiceItemRepository(r)
	}
	return &cp
}

// SetClock reemplaza el reloj usado para fechas de pago.
func (s *ServiceInvoice) SetClock(now func() time.Time) { s.now = now }

// ── Registros ─────────────────────────────────────────────────────────────────

// AddCalculator registra (o reemplaza) una calculadora por su ID.
func (s *ServiceInvoice) AddCalculator(c invoice.Calculator) { s.calculators.Add(c) }

// AddNumberGenerator registra (o reemplaza) un generador de número.
func (s *ServiceInvoice) AddNumberGenerator(g invoice.NumberGenerator) { s.numberGenerators.Add(g) }

// AddRenderer registra (o reemplaza) un renderer.
func (s *ServiceInvoice) AddRenderer(r invoice.Renderer) { s.renderers.Add(r) }

// AddInvoiceItemRepository registra una fuente de ítems. Las fuentes se
// consultan en orden de registro; un ID repetido reemplaza en su lugar.
func (s *ServiceInvoice) AddInvoiceItemRepository(r invoice.ItemRepository) {
	for i, existing := range s.itemRepositories {
		if existing.ID() == r.ID() {
			s.itemRepositories[i] = r
			return
		}
	}
	s.itemRepositories = append(s.itemRepositories, r)
}

// GetCalculator todas las calculadoras, ordenadas por ID.
func (s *ServiceInvoice) GetCalculator() []invoice.Calculator { return s.calculators.All() }

// GetNumberGenerator todos los generadores de número, ordenados por ID.
func (s *ServiceInvoice) GetNumberGenerator() []invoice.NumberGenerator {
	return s.numberGenerators.All()
}

// GetRenderer todos los renderers, ordenados por ID.
func (s *ServiceInvoice) GetRenderer() []invoice.Renderer { return s.renderers.All() }

// GetInvoiceItemRepositories fuentes de ítems en orden de registro.
func (s *ServiceInvoice) GetInvoiceItemRepositories() []invoice.ItemRepository {
	out := make([]invoice.ItemRepository, len(s.itemRepositories))
	copy(out, s.itemRepositories)
	return out
}

// GetDocuments documentos disponibles; nunca nil.
func (s *ServiceInvoice) GetDocuments() []*entity.InvoiceDocument {
	if s.documents == nil {
		return []*entity.InvoiceDocument{}
	}
	return s.documents.GetDocuments()
}

// GetCalculatorByName false si no existe.
func (s *ServiceInvoice) GetCalculatorByName(name string) (invoice.Calculator, bool) {
	return s.calculators.Get(name)
}

// GetNumberGeneratorByName false si no existe.
func (s *ServiceInvoice) GetNumberGeneratorByName(name string) (invoice.NumberGenerator, bool) {
	return s.numberGenerators.Get(name)
}

// GetRendererByName false si no existe.
func (s *ServiceInvoice) GetRendererByName(name string) (invoice.Renderer, bool) {
	return s.renderers.Get(name)
}

// GetDocumentByName false si no existe.
func (s *ServiceInvoice) GetDocumentByName(name string) (*entity.InvoiceDocument, bool) {
	if s.documents == nil {
		return nil, false
	}
	return s.documents.GetDocumentByName(name)
}

// ── Ítems y modelos ───────────────────────────────────────────────────────────

// FindInvoiceItems concatena los ítems de todas las fuentes en orden de registro.
// Sin clientes o sin fuentes devuelve un slice vacío.
func (s *ServiceInvoice) FindInvoiceItems(ctx context.Context, query invoice.Query) ([]*entity.InvoiceItem, error) {
	items := []*entity.InvoiceItem{}
	if !query.HasCustomers() {
		return items, nil
	}
	for _, repo := range s.itemRepositories {
		found, err := repo.GetInvoiceItemsForQuery(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("ítems de %s: %w", repo.ID(), err)
		}
		items = append(items, found...)
	}
	s.log.Debug().Int("items", len(items)).Strs("customers", query.CustomerIDs()).Msg("ítems de factura cargados")
	return items, nil
}

// CreateModel arma el modelo de una consulta acotada a un cliente (el primero de la consulta).
func (s *ServiceInvoice) CreateModel(ctx context.Context, query invoice.Query) (*invoice.Model, error) {
	calc, gen, err := s.prepare(query)
	if err != nil {
		return nil, err
	}
	items, err := s.FindInvoiceItems(ctx, query)
	if err != nil {
		return nil, err
	}
	var customer *entity.Customer
	if query.HasCustomers() {
		customer = query.Customers[0]
	}
	return s.buildModel(ctx, query, customer, items, calc, s.newNumberRun().bind(gen))
}

// CreateModels arma un modelo por cliente con ítems. Los extremos vacíos del
// rango se completan con los ítems encontrados; la consulta resuelta se devuelve
// y la del llamador no se modifica.
//
// Orden: primero los clientes de la consulta, luego los que solo aparecen en
// los ítems, por primera aparición. Clientes sin ítems no generan modelo.
// Los números se asignan en ese orden y no se repiten dentro de la corrida.
func (s *ServiceInvoice) CreateModels(ctx context.Context, query invoice.Query) ([]*invoice.Model, invoice.Query, error) {
	calc, gen, err := s.prepare(query)
	if err != nil {
		return nil, query, err
	}
	items, err := s.FindInvoiceItems(ctx, query)
	if err != nil {
		return nil, query, err
	}

	resolved := query.WithRange(invoice.ResolveDateRange(query, items))
	if query.Begin == nil || query.End == nil {
		ev := s.log.Debug()
		if resolved.Begin != nil {
			ev = ev.Time("begin", *resolved.Begin)
		}
		if resolved.End != nil {
			ev = ev.Time("end", *resolved.End)
		}
		ev.Msg("rango de factura completado con los ítems")
	}

	gen = s.newNumberRun().bind(gen)
	groups := groupByCustomer(query.Customers, items)
	models := make([]*invoice.Model, 0, len(groups))
	for _, g := range groups {
		m, err := s.buildModel(ctx, resolved.WithCustomer(g.customer), g.customer, g.items, calc, gen)
		if err != nil {
			return nil, resolved, err
		}
		models = append(models, m)
	}
	return models, resolved, nil
}

// prepare valida la consulta, completa el idioma de la plantilla y resuelve las estrategias.
func (s *ServiceInvoice) prepare(query invoice.Query) (invoice.Calculator, invoice.NumberGenerator, error) {
	template := query.Template
	if template == nil {
		return nil, nil, domain.ErrMissingTemplate
	}
	if err := query.Validate(); err != nil {
		return nil, nil, err
	}

	// la plantilla queda con el idioma efectivo; el modelo y los renderers lo leen de ahí
	if template.Language == "" {
		template.Language = s.factory.Formattings().DefaultLanguage()
	}

	calcName := nonEmpty(template.Calculator, entity.DefaultCalculator)
	calc, ok := s.calculators.Get(calcName)
	if !ok {
		return nil, nil, fmt.Errorf("%w: calculadora %q", domain.ErrNotFound, calcName)
	}
	genName := nonEmpty(template.NumberGenerator, entity.DefaultNumberGenerator)
	gen, ok := s.numberGenerators.Get(genName)
	if !ok {
		return nil, nil, fmt.Errorf("%w: generador de número %q", domain.ErrNotFound, genName)
	}
	return calc, gen, nil
}

func (s *ServiceInvoice) buildModel(
	ctx context.Context,
	query invoice.Query,
	customer *entity.Customer,
	items []*entity.InvoiceItem,
	calc invoice.Calculator,
	gen invoice.NumberGenerator,
) (*invoice.Model, error) {
	m, err := s.factory.CreateModel(ctx, invoice.ModelParams{
		Query:           query,
		Customer:        customer,
		Items:           items,
		Calculator:      calc,
		NumberGenerator: gen,
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug().
		Str("customer", customerID(customer)).
		Str("number", m.InvoiceNumber).
		Int("items", len(m.Items)).
		Str("total", m.Totals.Total.String()).
		Msg("modelo de factura creado")
	return m, nil
}

type customerItems struct {
	customer *entity.Customer
	items    []*entity.InvoiceItem
}

// groupByCustomer reparte los ítems por cliente del proyecto.
// Los ítems sin cliente se descartan.
func groupByCustomer(customers []*entity.Customer, items []*entity.InvoiceItem) []*customerItems {
	byKey := make(map[string]*customerItems)
	var order []string
	for _, it := range items {
		c := it.Customer()
		if c == nil {
			continue
		}
		k := customerKey(c)
		g, ok := byKey[k]
		if !ok {
			g = &customerItems{customer: c}
			byKey[k] = g
			order = append(order, k)
		}
		g.items = append(g.items, it)
	}

	out := make([]*customerItems, 0, len(byKey))
	seen := make(map[string]bool, len(byKey))
	for _, c := range customers {
		if c == nil {
			continue
		}
		k := customerKey(c)
		if g, ok := byKey[k]; ok && !seen[k] {
			g.customer = c
			out = append(out, g)
			seen[k] = true
		}
	}
	for _, k := range order {
		if !seen[k] {
			out = append(out, byKey[k])
			seen[k] = true
		}
	}
	return out
}

// customerKey identifica por ID; clientes sin persistir se identifican por puntero.
func customerKey(c *entity.Customer) string {
	if c.ID != "" {
		return "id:" + c.ID
	}
	return fmt.Sprintf("ptr:%p", c)
}

func customerID(c *entity.Customer) string {
	if c == nil {
		return ""
	}
	return c.ID
}

// ── Estado y ciclo de vida de facturas ────────────────────────────────────────

// ChangeInvoiceStatus valida y aplica el estado. "paid" fija la fecha de pago si
// falta; los demás estados la limpian. Con un store configurado se persiste.
func (s *ServiceInvoice) ChangeInvoiceStatus(ctx context.Context, inv *entity.Invoice, status string) error {
	st, err := entity.ParseInvoiceStatus(status)
	if err != nil {
		return err
	}
	if inv == nil {
		return fmt.Errorf("%w: factura nula", domain.ErrInvalidInput)
	}

	prevStatus, prevPayment := inv.Status, inv.PaymentDate
	inv.Status = st
	if st == entity.InvoiceStatusPaid {
		if inv.PaymentDate == nil {
			now := s.now()
			inv.PaymentDate = &now
		}
	} else {
		inv.PaymentDate = nil
	}

	if s.invoices != nil {
		if err := s.invoices.UpdateStatus(ctx, inv); err != nil {
			inv.Status, inv.PaymentDate = prevStatus, prevPayment
			return fmt.Errorf("actualizar estado de factura %s: %w", inv.ID, err)
		}
	}
	s.log.Info().Str("invoice", inv.ID).Str("from", string(prevStatus)).Str("to", string(st)).Msg("estado de factura cambiado")
	return nil
}

// RenderInvoice usa el primer renderer (por ID) que soporta el documento.
func (s *ServiceInvoice) RenderInvoice(ctx context.Context, doc *entity.InvoiceDocument, model *invoice.Model) (*invoice.RenderedDocument, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: documento nulo", domain.ErrInvalidInput)
	}
	for _, r := range s.renderers.All() {
		if r.Supports(doc) {
			out, err := r.Render(ctx, doc, model)
			if err != nil {
				return nil, fmt.Errorf("renderer %s: %w", r.ID(), err)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNoRenderer, doc.Filename)
}

// ResolveDocument documento pedido o, si name está vacío, el de la plantilla.
func (s *ServiceInvoice) ResolveDocument(name string, template *entity.InvoiceTemplate) (*entity.InvoiceDocument, error) {
	if name == "" && template != nil {
		name = template.Renderer
	}
	name = nonEmpty(name, entity.DefaultDocument)
	doc, ok := s.GetDocumentByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: documento %q", domain.ErrNotFound, name)
	}
	return doc, nil
}

// CreateInvoices renderiza y guarda una factura por modelo, las persiste con
// estado "new" y, si la consulta lo pide, marca los ítems como exportados.
func (s *ServiceInvoice) CreateInvoices(ctx context.Context, query invoice.Query, doc *entity.InvoiceDocument) ([]*entity.Invoice, error) {
	if s.files == nil || s.invoices == nil {
		return nil, errors.New("facturación sin almacenamiento configurado")
	}
	models, _, err := s.CreateModels(ctx, query)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		if doc, err = s.ResolveDocument("", query.Template); err != nil {
			return nil, err
		}
	}

	created := make([]*entity.Invoice, 0, len(models))
	for _, m := range models {
		rendered, err := s.RenderInvoice(ctx, doc, m)
		if err != nil {
			return created, err
		}
		filename, err := s.files.SaveInvoice(rendered.Filename, rendered.Content)
		if err != nil {
			return created, err
		}
		inv := newInvoiceFromModel(m, filename)
		if err := s.invoices.Create(ctx, inv); err != nil {
			_ = s.files.DeleteInvoice(filename)
			return created, fmt.Errorf("guardar factura %s: %w", inv.InvoiceNumber, err)
		}
		if query.MarkAsExported {
			if err := s.markAsExported(ctx, m.Items); err != nil {
				return created, err
			}
		}
		s.log.Info().Str("invoice", inv.ID).Str("number", inv.InvoiceNumber).Str("file", filename).Msg("factura creada")
		created = append(created, inv)
	}
	return created, nil
}

func (s *ServiceInvoice) markAsExported(ctx context.Context, items []*entity.InvoiceItem) error {
	for _, repo := range s.itemRepositories {
		if err := repo.MarkAsExported(ctx, items); err != nil {
			return fmt.Errorf("marcar exportados en %s: %w", repo.ID(), err)
		}
	}
	return nil
}

// DeleteInvoice borra primero el archivo y después el registro.
func (s *ServiceInvoice) DeleteInvoice(ctx context.Context, inv *entity.Invoice) error {
	if s.files == nil || s.invoices == nil {
		return errors.New("facturación sin almacenamiento configurado")
	}
	if inv.InvoiceFilename != "" {
		if err := s.files.DeleteInvoice(inv.InvoiceFilename); err != nil {
			return err
		}
	}
	if err := s.invoices.Delete(ctx, inv.ID); err != nil {
		return fmt.Errorf("borrar factura %s: %w", inv.ID, err)
	}
	s.log.Info().Str("invoice", inv.ID).Msg("factura borrada")
	return nil
}

func newInvoiceFromModel(m *invoice.Model, filename string) *entity.Invoice {
	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		InvoiceNumber:   m.InvoiceNumber,
		Customer:        m.Customer,
		CustomerID:      customerID(m.Customer),
		UserID:          m.UserID,
		CreatedAt:       m.InvoiceDate,
		Timezone:        m.InvoiceDate.Location().String(),
		Subtotal:        m.Totals.Subtotal,
		Tax:             m.Totals.Tax,
		Total:           m.Totals.Total,
		Currency:        m.Currency(),
		Vat:             m.Totals.Vat,
		DueDays:         m.Template.DueDays,
		Status:          entity.InvoiceStatusNew,
		InvoiceFilename: filename,
	}
	return inv
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
