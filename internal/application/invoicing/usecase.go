package invoicing

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/jhoicas/Timesheet-api/internal/application/dto"
	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
	"github.com/jhoicas/Timesheet-api/internal/domain/repository"
	"github.com/jhoicas/Timesheet-api/pkg/logger"
)

const dateLayout = "2006-01-02"

// InvoiceUseCase casos de uso HTTP de facturación: traduce DTOs a consultas
// del ServiceInvoice y facturas emitidas a respuestas.
type InvoiceUseCase struct {
	service   *ServiceInvoice
	customers repository.CustomerRepository
	templates repository.InvoiceTemplateRepository
	invoices  repository.InvoiceRepository
	files     FileStore
	tx        TxRunner
	log       *logger.Logger
}

// NewInvoiceUseCase tx puede ser nil: la emisión persiste sin transacción.
func NewInvoiceUseCase(
	service *ServiceInvoice,
	customers repository.CustomerRepository,
	templates repository.InvoiceTemplateRepository,
	invoices repository.InvoiceRepository,
	files FileStore,
	tx TxRunner,
	log *logger.Logger,
) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{
		service:   service,
		customers: customers,
		templates: templates,
		invoices:  invoices,
		files:     files,
		tx:        tx,
		log:       log.Component("invoice-usecase"),
	}
}

// Summary calcula los modelos sin renderizar ni persistir.
func (uc *InvoiceUseCase) Summary(ctx context.Context, userID string, in dto.InvoiceRequest) (*dto.InvoicePreviewResponse, error) {
	query, err := uc.buildQuery(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	models, resolved, err := uc.service.CreateModels(ctx, query)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoicePreviewResponse{Begin: resolved.Begin, End: resolved.End, Models: make([]dto.InvoiceModelPreview, 0, len(models))}
	for _, m := range models {
		out.Models = append(out.Models, toModelPreview(m))
	}
	return out, nil
}

// Preview renderiza la factura del primer cliente con ítems, sin guardarla.
func (uc *InvoiceUseCase) Preview(ctx context.Context, userID string, in dto.InvoiceRequest) (*dto.FileResponse, error) {
	query, err := uc.buildQuery(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	doc, err := uc.service.ResolveDocument(in.Document, query.Template)
	if err != nil {
		return nil, err
	}
	models, _, err := uc.service.CreateModels(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: no hay registros facturables para la consulta", domain.ErrNotFound)
	}
	rendered, err := uc.service.RenderInvoice(ctx, doc, models[0])
	if err != nil {
		return nil, err
	}
	return &dto.FileResponse{Filename: rendered.Filename, ContentType: rendered.ContentType, Content: rendered.Content}, nil
}

// Render renderiza una factura por cliente con ítems, sin guardar archivos ni
// facturas ni marcar registros como exportados.
func (uc *InvoiceUseCase) Render(ctx context.Context, userID string, in dto.InvoiceRequest) ([]*dto.FileResponse, error) {
	query, err := uc.buildQuery(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	doc, err := uc.service.ResolveDocument(in.Document, query.Template)
	if err != nil {
		return nil, err
	}
	models, _, err := uc.service.CreateModels(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.FileResponse, 0, len(models))
	for _, m := range models {
		rendered, err := uc.service.RenderInvoice(ctx, doc, m)
		if err != nil {
			return nil, err
		}
		out = append(out, &dto.FileResponse{Filename: rendered.Filename, ContentType: rendered.ContentType, Content: rendered.Content})
	}
	return out, nil
}

// Create emite una factura por cliente con ítems. Con TxRunner, las facturas y
// la marca de exportado se confirman juntas; si la transacción falla se borran
// los archivos ya generados.
func (uc *InvoiceUseCase) Create(ctx context.Context, userID string, in dto.InvoiceRequest) ([]*dto.InvoiceResponse, error) {
	query, err := uc.buildQuery(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	doc, err := uc.service.ResolveDocument(in.Document, query.Template)
	if err != nil {
		return nil, err
	}

	var created []*entity.Invoice
	if uc.tx == nil {
		created, err = uc.service.CreateInvoices(ctx, query, doc)
	} else {
		err = uc.tx.RunInvoicing(ctx, func(invoices InvoiceStore, items invoice.ItemRepository) error {
			var runErr error
			created, runErr = uc.service.WithStores(invoices, items).CreateInvoices(ctx, query, doc)
			return runErr
		})
		if err != nil {
			uc.discardFiles(created)
		}
	}
	if err != nil {
		return nil, err
	}

	out := make([]*dto.InvoiceResponse, 0, len(created))
	for _, inv := range created {
		out = append(out, toInvoiceResponse(inv, time.Now()))
	}
	return out, nil
}

func (uc *InvoiceUseCase) discardFiles(created []*entity.Invoice) {
	if uc.files == nil {
		return
	}
	for _, inv := range created {
		if err := uc.files.DeleteInvoice(inv.InvoiceFilename); err != nil {
			uc.log.Warn().Err(err).Str("file", inv.InvoiceFilename).Msg("no se pudo borrar el archivo huérfano")
		}
	}
}

// Get factura por ID; ErrNotFound si no existe.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, time.Now()), nil
}

// ChangeStatus aplica un estado a la factura id.
func (uc *InvoiceUseCase) ChangeStatus(ctx context.Context, id string, in dto.ChangeStatusRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.service.ChangeInvoiceStatus(ctx, inv, strings.TrimSpace(in.Status)); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, time.Now()), nil
}

// Delete borra archivo y registro.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	return uc.service.DeleteInvoice(ctx, inv)
}

// Download contenido del archivo generado de la factura.
func (uc *InvoiceUseCase) Download(ctx context.Context, id string) (*dto.FileResponse, error) {
	inv, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if uc.files == nil {
		return nil, errors.New("facturación sin almacenamiento configurado")
	}
	content, err := uc.files.ReadInvoice(inv.InvoiceFilename)
	if err != nil {
		return nil, err
	}
	ct := mime.TypeByExtension(filepath.Ext(inv.InvoiceFilename))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &dto.FileResponse{Filename: inv.InvoiceFilename, ContentType: ct, Content: content}, nil
}

// List facturas emitidas, más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, in dto.InvoiceListRequest) ([]*dto.InvoiceResponse, error) {
	in.DefaultPage()
	filter := repository.InvoiceFilter{Limit: in.Limit, Offset: in.Offset}
	if in.CustomerID != "" {
		filter.CustomerIDs = []string{in.CustomerID}
	}
	for _, s := range strings.Split(in.Status, ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		st, err := entity.ParseInvoiceStatus(s)
		if err != nil {
			return nil, err
		}
		filter.Status = append(filter.Status, st)
	}
	list, err := uc.invoices.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv, now))
	}
	return out, nil
}

// ListTemplates plantillas de factura por nombre.
func (uc *InvoiceUseCase) ListTemplates(ctx context.Context) ([]*dto.InvoiceTemplateResponse, error) {
	list, err := uc.templates.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceTemplateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, TemplateResponse(t))
	}
	return out, nil
}

// TemplateResponse plantilla a DTO.
func TemplateResponse(t *entity.InvoiceTemplate) *dto.InvoiceTemplateResponse {
	return &dto.InvoiceTemplateResponse{
		ID:              t.ID,
		Name:            t.Name,
		Title:           t.Title,
		Company:         t.Company,
		DueDays:         t.DueDays,
		Vat:             t.Vat,
		Calculator:      t.Calculator,
		NumberGenerator: t.NumberGenerator,
		Renderer:        t.Renderer,
		Language:        t.Language,
	}
}

// ListDocuments documentos de salida disponibles.
func (uc *InvoiceUseCase) ListDocuments() []*dto.InvoiceDocumentResponse {
	docs := uc.service.GetDocuments()
	out := make([]*dto.InvoiceDocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, &dto.InvoiceDocumentResponse{Name: d.Name, Filename: d.Filename, Extension: d.Extension})
	}
	return out
}

func (uc *InvoiceUseCase) load(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// buildQuery carga clientes y plantilla y traduce los filtros del request.
// Las fechas se interpretan en la zona horaria del primer cliente.
func (uc *InvoiceUseCase) buildQuery(ctx context.Context, userID string, in dto.InvoiceRequest) (invoice.Query, error) {
	ids := uniqueIDs(in.CustomerIDs)
	if len(ids) == 0 || in.TemplateID == "" {
		return invoice.Query{}, fmt.Errorf("%w: customer_ids y template_id son obligatorios", domain.ErrInvalidInput)
	}
	customers, err := uc.customers.GetByIDs(ctx, ids)
	if err != nil {
		return invoice.Query{}, err
	}
	if len(customers) != len(ids) {
		return invoice.Query{}, fmt.Errorf("%w: cliente", domain.ErrNotFound)
	}
	template, err := uc.templates.GetByID(ctx, in.TemplateID)
	if err != nil {
		return invoice.Query{}, err
	}
	if template == nil {
		return invoice.Query{}, fmt.Errorf("%w: plantilla %s", domain.ErrNotFound, in.TemplateID)
	}

	loc := time.UTC
	if tz := customers[0].Timezone; tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	begin, err := parseDay(in.Begin, loc, invoice.StartOfDay)
	if err != nil {
		return invoice.Query{}, err
	}
	end, err := parseDay(in.End, loc, invoice.EndOfDay)
	if err != nil {
		return invoice.Query{}, err
	}
	exported, err := parseExported(in.Exported)
	if err != nil {
		return invoice.Query{}, err
	}

	return invoice.Query{
		Customers:      customers,
		ProjectIDs:     in.ProjectIDs,
		ActivityIDs:    in.ActivityIDs,
		UserIDs:        in.UserIDs,
		Template:       template,
		Begin:          begin,
		End:            end,
		Exported:       exported,
		Billable:       in.Billable,
		Search:         in.Search,
		MarkAsExported: in.MarkAsExported,
		CurrentUserID:  userID,
	}, nil
}

func parseDay(s string, loc *time.Location, align func(time.Time) time.Time) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q (formato %s)", domain.ErrInvalidInput, s, dateLayout)
	}
	d = align(d)
	return &d, nil
}

func parseExported(s string) (invoice.ExportedState, error) {
	switch strings.ToLower(s) {
	case "", "no":
		return invoice.ExportedNo, nil
	case "yes":
		return invoice.ExportedYes, nil
	case "all":
		return invoice.ExportedAll, nil
	}
	return 0, fmt.Errorf("%w: exported %q", domain.ErrInvalidInput, s)
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice, now time.Time) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		CustomerName:  inv.Customer.DisplayName(),
		Date:          inv.CreatedAt,
		DueDate:       inv.DueDate(),
		Subtotal:      inv.Subtotal,
		Tax:           inv.Tax,
		Total:         inv.Total,
		Vat:           inv.Vat,
		Currency:      inv.Currency,
		Status:        string(inv.Status),
		PaymentDate:   inv.PaymentDate,
		Overdue:       inv.IsOverdue(now),
		Filename:      inv.InvoiceFilename,
	}
}

func toModelPreview(m *invoice.Model) dto.InvoiceModelPreview {
	entries := m.Entries()
	out := dto.InvoiceModelPreview{
		CustomerID:    customerID(m.Customer),
		CustomerName:  m.Customer.DisplayName(),
		InvoiceNumber: m.InvoiceNumber,
		Language:      m.Template.Language,
		Items:         len(m.Items),
		Entries:       make([]dto.EntryResponse, 0, len(entries)),
		Currency:      m.Currency(),
	}
	if m.Totals != nil {
		out.Subtotal, out.Tax, out.Total = m.Totals.Subtotal, m.Totals.Tax, m.Totals.Total
		if m.Formatter != nil {
			out.Duration = m.Formatter.FormatDuration(m.Totals.TimeWorked, m.Template.DecimalDuration)
		}
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, dto.EntryResponse{
			Description: e.Description,
			Begin:       e.Begin,
			Duration:    e.Duration,
			Amount:      e.Amount,
			Rate:        e.Rate,
		})
	}
	return out
}
