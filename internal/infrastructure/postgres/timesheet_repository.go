package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

var _ invoice.ItemRepository = (*TimesheetRepo)(nil)

// TimesheetRepo fuente de ítems facturables a partir de registros de tiempo.
type TimesheetRepo struct {
	q Querier
}

// NewTimesheetRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTimesheetRepository(q Querier) *TimesheetRepo {
	return &TimesheetRepo{q: q}
}

// ID clave de registro de la fuente.
func (r *TimesheetRepo) ID() string { return entity.ItemTypeTimesheet }

const timesheetItemColumns = `
	t.id, t.user_id, t.project_id, t.activity_id, t.description, t.begin_at, t.end_at,
	t.duration, t.rate, t.hourly_rate, t.fixed_rate, t.billable, t.exported, t.category, t.tags,
	u.email, u.name, u.alias, u.role,
	p.name, p.order_number,
	a.name, a.project_id,
	c.id, c.name, c.company, c.number, c.vat_id, c.address, c.country, c.currency, c.timezone, c.email, c.phone`

const timesheetItemJoins = `
	FROM timesheets t
	JOIN users u      ON u.id = t.user_id
	JOIN projects p   ON p.id = t.project_id
	JOIN customers c  ON c.id = p.customer_id
	JOIN activities a ON a.id = t.activity_id`

// GetInvoiceItemsForQuery registros terminados que cumplen la consulta, ordenados por inicio.
// Los clientes de los ítems son los mismos punteros de la consulta.
func (r *TimesheetRepo) GetInvoiceItemsForQuery(ctx context.Context, query invoice.Query) ([]*entity.InvoiceItem, error) {
	where, args := TimesheetFilter(query)
	sql := "SELECT " + timesheetItemColumns + timesheetItemJoins + " WHERE " + where + " ORDER BY t.begin_at, t.id"

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}
	defer rows.Close()

	customers := make(map[string]*entity.Customer, len(query.Customers))
	for _, c := range query.Customers {
		if c != nil && c.ID != "" {
			customers[c.ID] = c
		}
	}
	projects := make(map[string]*entity.Project)
	users := make(map[string]*entity.User)
	zones := make(map[string]*time.Location)

	items := []*entity.InvoiceItem{}
	for rows.Next() {
		var (
			t               entity.Timesheet
			u               entity.User
			p               entity.Project
			a               entity.Activity
			c               entity.Customer
			activityProject *string
			fixedRate       *decimal.Decimal
			endAt           *time.Time
		)
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.ProjectID, &t.ActivityID, &t.Description, &t.Begin, &endAt,
			&t.Duration, &t.Rate, &t.HourlyRate, &fixedRate, &t.Billable, &t.Exported, &t.Category, &t.Tags,
			&u.Email, &u.Name, &u.Alias, &u.Role,
			&p.Name, &p.OrderNumber,
			&a.Name, &activityProject,
			&c.ID, &c.Name, &c.Company, &c.Number, &c.VatID, &c.Address, &c.Country, &c.Currency, &c.Timezone, &c.Email, &c.Phone,
		); err != nil {
			return nil, fmt.Errorf("scan timesheet: %w", err)
		}
		t.End = endAt
		t.FixedRate = fixedRate

		customer, ok := customers[c.ID]
		if !ok {
			customer = &c
			customers[c.ID] = customer
		}
		tz := customer.Timezone
		if tz == "" {
			tz = c.Timezone
		}
		loc, ok := zones[tz]
		if !ok {
			if tz != "" {
				loc, _ = time.LoadLocation(tz)
			}
			zones[tz] = loc
		}
		LocalizeTimesheet(&t, loc)
		project, ok := projects[t.ProjectID]
		if !ok {
			p.ID, p.CustomerID, p.Customer = t.ProjectID, customer.ID, customer
			project = &p
			projects[p.ID] = project
		}
		user, ok := users[t.UserID]
		if !ok {
			u.ID = t.UserID
			user = &u
			users[u.ID] = user
		}
		a.ID, a.ProjectID = t.ActivityID, derefStr(activityProject)

		items = append(items, entity.NewInvoiceItemFromTimesheet(&t, user, project, &a))
	}
	return items, rows.Err()
}

// LocalizeTimesheet pasa inicio y fin a la zona del cliente: los redondeos por
// día del rango y las calculadoras por fecha trabajan sobre esa hora local.
// loc nil deja los valores como los devolvió el driver.
func LocalizeTimesheet(t *entity.Timesheet, loc *time.Location) {
	if loc == nil {
		return
	}
	t.Begin = t.Begin.In(loc)
	if t.End != nil {
		end := t.End.In(loc)
		t.End = &end
	}
}

// MarkAsExported marca los registros de tiempo del lote; ignora ítems de otras fuentes.
func (r *TimesheetRepo) MarkAsExported(ctx context.Context, items []*entity.InvoiceItem) error {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if it != nil && it.Type == entity.ItemTypeTimesheet {
			ids = append(ids, it.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx,
		`UPDATE timesheets SET exported = TRUE, updated_at = now() WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark timesheets exported: %w", err)
	}
	return nil
}

// TimesheetFilter arma la cláusula WHERE y sus argumentos para una consulta de
// facturación. Solo entran registros terminados; el rango se aplica sobre el inicio.
func TimesheetFilter(query invoice.Query) (string, []any) {
	b := &filterBuilder{}
	b.raw("t.end_at IS NOT NULL")

	if ids := query.CustomerIDs(); len(ids) > 0 {
		b.add("p.customer_id = ANY(%s)", ids)
	}
	if len(query.ProjectIDs) > 0 {
		b.add("t.project_id = ANY(%s)", query.ProjectIDs)
	}
	if len(query.ActivityIDs) > 0 {
		b.add("t.activity_id = ANY(%s)", query.ActivityIDs)
	}
	if len(query.UserIDs) > 0 {
		b.add("t.user_id = ANY(%s)", query.UserIDs)
	}
	if query.Begin != nil {
		b.add("t.begin_at >= %s", *query.Begin)
	}
	if query.End != nil {
		b.add("t.begin_at <= %s", *query.End)
	}
	switch query.Exported {
	case invoice.ExportedNo:
		b.raw("t.exported = FALSE")
	case invoice.ExportedYes:
		b.raw("t.exported = TRUE")
	}
	if query.Billable != nil {
		b.add("t.billable = %s", *query.Billable)
	}
	if s := strings.TrimSpace(query.Search); s != "" {
		b.add(`t.description ILIKE %s ESCAPE '\'`, "%"+likeEscaper.Replace(s)+"%")
	}
	return strings.Join(b.conds, " AND "), b.args
}

// likeEscaper escapa los comodines de LIKE; el texto buscado es literal.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type filterBuilder struct {
	conds []string
	args  []any
}

func (b *filterBuilder) raw(cond string) { b.conds = append(b.conds, cond) }

func (b *filterBuilder) add(format string, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, fmt.Sprintf(format, "$"+strconv.Itoa(len(b.args))))
}
