package postgres_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/postgres"
)

// ──────────────────────────────────────────────────────────────────────────────
// TimesheetFilter
// ──────────────────────────────────────────────────────────────────────────────

func TestTimesheetFilter_ConsultaVacia(t *testing.T) {
	where, args := postgres.TimesheetFilter(invoice.Query{})

	assert.Equal(t, "t.end_at IS NOT NULL", where)
	assert.Empty(t, args)
}

func TestTimesheetFilter_TodosLosFiltros(t *testing.T) {
	begin := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)
	billable := true

	where, args := postgres.TimesheetFilter(invoice.Query{
		Customers:   []*entity.Customer{{ID: "c1"}, nil, {ID: "c2"}},
		ProjectIDs:  []string{"p1"},
		ActivityIDs: []string{"a1", "a2"},
		UserIDs:     []string{"u1"},
		Begin:       &begin,
		End:         &end,
		Exported:    invoice.ExportedNo,
		Billable:    &billable,
		Search:      "  soporte ",
	})

	assert.Equal(t,
		"t.end_at IS NOT NULL AND p.customer_id = ANY($1) AND t.project_id = ANY($2) AND "+
			"t.activity_id = ANY($3) AND t.user_id = ANY($4) AND t.begin_at >= $5 AND "+
			"t.begin_at <= $6 AND t.exported = FALSE AND t.billable = $7 AND t.description ILIKE $8 ESCAPE '\\'",
		where)
	require.Len(t, args, 8)
	assert.Equal(t, []string{"c1", "c2"}, args[0])
	assert.Equal(t, begin, args[4])
	assert.Equal(t, end, args[5])
	assert.Equal(t, true, args[6])
	assert.Equal(t, "%soporte%", args[7])
}

func TestTimesheetFilter_BusquedaLiteral(t *testing.T) {
	_, args := postgres.TimesheetFilter(invoice.Query{Search: `50%_off\x`})

	require.Len(t, args, 1)
	assert.Equal(t, `%50\%\_off\\x%`, args[0])
}

func TestTimesheetFilter_Exportados(t *testing.T) {
	where, args := postgres.TimesheetFilter(invoice.Query{Exported: invoice.ExportedYes})

	assert.Contains(t, where, "t.exported = TRUE")
	assert.Empty(t, args)

	where, _ = postgres.TimesheetFilter(invoice.Query{Exported: invoice.ExportedAll})
	assert.NotContains(t, where, "exported")
}

func TestTimesheetFilter_SoloFin(t *testing.T) {
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	where, args := postgres.TimesheetFilter(invoice.Query{End: &end})

	assert.Equal(t, "t.end_at IS NOT NULL AND t.begin_at <= $1", where)
	assert.Equal(t, []any{end}, args)
}

// ──────────────────────────────────────────────────────────────────────────────
// Migraciones
// ──────────────────────────────────────────────────────────────────────────────

// ──────────────────────────────────────────────────────────────────────────────
// Zona horaria del cliente
// ──────────────────────────────────────────────────────────────────────────────

func TestLocalizeTimesheet_DiaDelCliente(t *testing.T) {
	vienna, err := time.LoadLocation("Europe/Vienna")
	require.NoError(t, err)
	begin := time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC)
	end := begin.Add(time.Hour)
	ts := &entity.Timesheet{Begin: begin, End: &end}

	postgres.LocalizeTimesheet(ts, vienna)

	assert.Same(t, vienna, ts.Begin.Location())
	assert.True(t, ts.Begin.Equal(begin), "mismo instante")
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, vienna), invoice.StartOfDay(ts.Begin))
	require.NotNil(t, ts.End)
	assert.Same(t, vienna, ts.End.Location())
	assert.True(t, ts.End.Equal(end))
}

func TestLocalizeTimesheet_SinZona(t *testing.T) {
	begin := time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC)
	ts := &entity.Timesheet{Begin: begin}

	postgres.LocalizeTimesheet(ts, nil)

	assert.Equal(t, begin, ts.Begin)
	assert.Nil(t, ts.End)
}

func TestMigrationFiles(t *testing.T) {
	files, err := postgres.MigrationFiles()

	require.NoError(t, err)
	require.NotEmpty(t, files)
	assert.Equal(t, "0001_init.up.sql", files[0])
	assert.IsIncreasing(t, files)
}
