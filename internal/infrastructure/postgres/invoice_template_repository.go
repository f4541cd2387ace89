package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/repository"
)

var _ repository.InvoiceTemplateRepository = (*InvoiceTemplateRepo)(nil)

// InvoiceTemplateRepo plantillas de factura sobre PostgreSQL.
type InvoiceTemplateRepo struct {
	q Querier
}

// NewInvoiceTemplateRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceTemplateRepository(q Querier) *InvoiceTemplateRepo {
	return &InvoiceTemplateRepo{q: q}
}

const invoiceTemplateColumns = `
	id, name, title, company, vat_id, address, contact, payment_terms, payment_details,
	due_days, vat, calculator, number_generator, renderer, language, decimal_duration,
	created_at, updated_at`

// Create persiste la plantilla; el nombre es único.
func (r *InvoiceTemplateRepo) Create(ctx context.Context, t *entity.InvoiceTemplate) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	query := `
		INSERT INTO invoice_templates (` + invoiceTemplateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Name, t.Title, t.Company, t.VatID, t.Address, t.Contact, t.PaymentTerms, t.PaymentDetails,
		t.DueDays, t.Vat, t.Calculator, t.NumberGenerator, t.Renderer, t.Language, t.DecimalDuration,
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: plantilla %q", domain.ErrDuplicate, t.Name)
		}
		return fmt.Errorf("insert invoice template: %w", err)
	}
	return nil
}

// GetByID obtiene una plantilla; (nil, nil) si no existe.
func (r *InvoiceTemplateRepo) GetByID(ctx context.Context, id string) (*entity.InvoiceTemplate, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceTemplateColumns+` FROM invoice_templates WHERE id = $1`, id)
	t, err := scanInvoiceTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice template: %w", err)
	}
	return t, nil
}

// List todas las plantillas por nombre.
func (r *InvoiceTemplateRepo) List(ctx context.Context) ([]*entity.InvoiceTemplate, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceTemplateColumns+` FROM invoice_templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list invoice templates: %w", err)
	}
	defer rows.Close()
	list := []*entity.InvoiceTemplate{}
	for rows.Next() {
		t, err := scanInvoiceTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice template: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func scanInvoiceTemplate(row pgx.Row) (*entity.InvoiceTemplate, error) {
	var t entity.InvoiceTemplate
	err := row.Scan(
		&t.ID, &t.Name, &t.Title, &t.Company, &t.VatID, &t.Address, &t.Contact, &t.PaymentTerms, &t.PaymentDetails,
		&t.DueDays, &t.Vat, &t.Calculator, &t.NumberGenerator, &t.Renderer, &t.Language, &t.DecimalDuration,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
