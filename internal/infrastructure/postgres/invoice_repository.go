package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
	"github.com/jhoicas/Timesheet-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ invoice.InvoiceCounter       = (*InvoiceRepo)(nil)
)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, invoice_number, customer_id, COALESCE(user_id::text, ''), created_at, timezone,
	subtotal, tax, total, currency, vat, due_days, status, payment_date,
	invoice_filename, COALESCE(comment, ''), updated_at`

// Create persiste la factura. Un número repetido devuelve ErrDuplicate.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.UpdatedAt.IsZero() {
		inv.UpdatedAt = time.Now()
	}
	query := `
		INSERT INTO invoices (id, invoice_number, customer_id, user_id, created_at, timezone,
		                      subtotal, tax, total, currency, vat, due_days, status, payment_date,
		                      invoice_filename, comment, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.CustomerID, nullIfEmpty(inv.UserID), inv.CreatedAt, inv.Timezone,
		inv.Subtotal, inv.Tax, inv.Total, inv.Currency, inv.Vat, inv.DueDays, string(inv.Status), inv.PaymentDate,
		inv.InvoiceFilename, nullIfEmpty(inv.Comment), inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de factura %s", domain.ErrDuplicate, inv.InvoiceNumber)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, inv.CustomerID)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// UpdateStatus persiste estado y fecha de pago.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, inv *entity.Invoice) error {
	inv.UpdatedAt = time.Now()
	tag, err := r.q.Exec(ctx,
		`UPDATE invoices SET status = $2, payment_date = $3, updated_at = $4 WHERE id = $1`,
		inv.ID, string(inv.Status), inv.PaymentDate, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene una factura por ID; (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List facturas más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	where, args := invoiceFilter(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, max(filter.Offset, 0))
	query := fmt.Sprintf(`SELECT %s FROM invoices WHERE %s ORDER BY created_at DESC, invoice_number DESC LIMIT $%d OFFSET $%d`,
		invoiceColumns, where, len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := []*entity.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Delete elimina una factura por ID.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// HasInvoice indica si ya existe una factura con ese número.
func (r *InvoiceRepo) HasInvoice(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE invoice_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check invoice number: %w", err)
	}
	return exists, nil
}

// CountInvoices cuenta facturas con fecha en [from, to]; customerID vacío = todos.
func (r *InvoiceRepo) CountInvoices(ctx context.Context, from, to *time.Time, customerID string) (int, error) {
	var conds []string
	var args []any
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if customerID != "" {
		args = append(args, customerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	query := `SELECT COUNT(*) FROM invoices`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return n, nil
}

func invoiceFilter(f repository.InvoiceFilter) (string, []any) {
	b := &filterBuilder{}
	b.raw("TRUE")
	if len(f.CustomerIDs) > 0 {
		b.add("customer_id = ANY(%s)", f.CustomerIDs)
	}
	if len(f.Status) > 0 {
		st := make([]string, len(f.Status))
		for i, s := range f.Status {
			st[i] = string(s)
		}
		b.add("status = ANY(%s)", st)
	}
	if f.Begin != nil {
		b.add("created_at >= %s", *f.Begin)
	}
	if f.End != nil {
		b.add("created_at <= %s", *f.End)
	}
	return strings.Join(b.conds, " AND "), b.args
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	if err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CustomerID, &inv.UserID, &inv.CreatedAt, &inv.Timezone,
		&inv.Subtotal, &inv.Tax, &inv.Total, &inv.Currency, &inv.Vat, &inv.DueDays, &status, &inv.PaymentDate,
		&inv.InvoiceFilename, &inv.Comment, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.Status = entity.InvoiceStatus(status)
	if loc, err := time.LoadLocation(inv.Timezone); err == nil {
		inv.CreatedAt = inv.CreatedAt.In(loc)
	}
	return &inv, nil
}
