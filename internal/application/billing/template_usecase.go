package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/jhoicas/Timesheet-api/internal/application/dto"
	"github.com/jhoicas/Timesheet-api/internal/application/invoicing"
	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
	"github.com/jhoicas/Timesheet-api/internal/domain/repository"
)

// extensionCatalog lo implementa *invoicing.ServiceInvoice.
type extensionCatalog interface {
	GetCalculatorByName(name string) (invoice.Calculator, bool)
	GetNumberGeneratorByName(name string) (invoice.NumberGenerator, bool)
	GetDocumentByName(name string) (*entity.InvoiceDocument, bool)
}

// TemplateUseCase alta de plantillas de factura.
type TemplateUseCase struct {
	repo    repository.InvoiceTemplateRepository
	catalog extensionCatalog
}

// NewTemplateUseCase construye el caso de uso.
func NewTemplateUseCase(repo repository.InvoiceTemplateRepository, catalog extensionCatalog) *TemplateUseCase {
	return &TemplateUseCase{repo: repo, catalog: catalog}
}

// Create rechaza calculadoras, generadores o documentos que no estén
// registrados: la plantilla fallaría recién al facturar.
func (uc *TemplateUseCase) Create(ctx context.Context, in dto.CreateInvoiceTemplateRequest) (*dto.InvoiceTemplateResponse, error) {
	t := entity.NewInvoiceTemplate()
	t.Name = strings.TrimSpace(in.Name)
	t.Title = strings.TrimSpace(in.Title)
	t.Company = strings.TrimSpace(in.Company)
	if t.Name == "" || t.Title == "" || t.Company == "" {
		return nil, fmt.Errorf("%w: name, title y company son requeridos", domain.ErrInvalidInput)
	}
	t.VatID = in.VatID
	t.Address = in.Address
	t.Contact = in.Contact
	t.PaymentTerms = in.PaymentTerms
	t.PaymentDetails = in.PaymentDetails
	t.DecimalDuration = in.DecimalDuration

	if in.DueDays != nil {
		if *in.DueDays < 0 {
			return nil, fmt.Errorf("%w: due_days negativo", domain.ErrInvalidInput)
		}
		t.DueDays = *in.DueDays
	}
	if in.Vat.IsNegative() {
		return nil, fmt.Errorf("%w: vat negativo", domain.ErrInvalidInput)
	}
	t.Vat = in.Vat

	if in.Calculator != "" {
		t.Calculator = in.Calculator
	}
	if in.NumberGenerator != "" {
		t.NumberGenerator = in.NumberGenerator
	}
	if in.Renderer != "" {
		t.Renderer = in.Renderer
	}
	if _, ok := uc.catalog.GetCalculatorByName(t.Calculator); !ok {
		return nil, fmt.Errorf("%w: calculadora %q", domain.ErrInvalidInput, t.Calculator)
	}
	if _, ok := uc.catalog.GetNumberGeneratorByName(t.NumberGenerator); !ok {
		return nil, fmt.Errorf("%w: generador de número %q", domain.ErrInvalidInput, t.NumberGenerator)
	}
	if _, ok := uc.catalog.GetDocumentByName(t.Renderer); !ok {
		return nil, fmt.Errorf("%w: documento %q", domain.ErrInvalidInput, t.Renderer)
	}

	if in.Language != "" {
		tag, err := language.Parse(in.Language)
		if err != nil {
			return nil, fmt.Errorf("%w: idioma %q", domain.ErrInvalidInput, in.Language)
		}
		t.Language = tag.String()
	}

	now := time.Now()
	t.ID = uuid.New().String()
	t.CreatedAt, t.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return invoicing.TemplateResponse(t), nil
}
