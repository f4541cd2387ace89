package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Timesheet-api/internal/application/invoicing"
	"github.com/jhoicas/Timesheet-api/internal/bootstrap"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Timesheet-api/pkg/config"
	"github.com/jhoicas/Timesheet-api/pkg/logger"
)

var version = "dev"

// app estado compartido por los subcomandos; se llena en PersistentPreRunE.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "invoice",
		Short:         "Facturación de registros de tiempo",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			a.cfg = cfg
			a.log = logger.New(logger.Config{
				Env:    "development",
				Level:  cfg.Log.Level,
				Output: cmd.ErrOrStderr(),
			})
			return nil
		},
	}
	root.AddCommand(
		newMigrateCmd(a),
		newCreateUserCmd(a),
		newDocumentsCmd(a),
		newCreateCmd(a),
	)
	return root
}

// session conexión y casos de uso de una ejecución.
type session struct {
	pool *pgxpool.Pool
	uc   *invoicing.InvoiceUseCase
}

func (s *session) Close() { s.pool.Close() }

func (a *app) connect(ctx context.Context) (*session, error) {
	pool, err := postgres.NewPool(ctx, a.cfg.DB)
	if err != nil {
		return nil, err
	}
	if a.cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, a.log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	inv, err := bootstrap.NewInvoicing(a.cfg.Invoice, bootstrap.InvoiceDeps{
		Invoices: invoiceRepo,
		Items:    []invoice.ItemRepository{postgres.NewTimesheetRepository(pool)},
		Log:      a.log,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	uc := invoicing.NewInvoiceUseCase(
		inv.Service,
		postgres.NewCustomerRepository(pool),
		postgres.NewInvoiceTemplateRepository(pool),
		invoiceRepo,
		inv.Files,
		postgres.NewTxRunner(pool),
		a.log,
	)
	return &session{pool: pool, uc: uc}, nil
}
