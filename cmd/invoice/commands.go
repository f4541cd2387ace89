package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jhoicas/Timesheet-api/internal/application/auth"
	"github.com/jhoicas/Timesheet-api/internal/application/dto"
	"github.com/jhoicas/Timesheet-api/internal/bootstrap"
	"github.com/jhoicas/Timesheet-api/internal/infrastructure/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, a.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()
			return postgres.Migrate(ctx, pool, a.log)
		},
	}
}

// newCreateUserCmd alta de usuarios con rol; la API solo deja hacerlo a un
// admin, así que el primero se crea desde acá.
func newCreateUserCmd(a *app) *cobra.Command {
	var in dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Crea un usuario con el rol indicado",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, a.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{})
			user, err := uc.CreateUser(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", user.ID, user.Email, user.Role)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Email, "email", "", "email del usuario")
	f.StringVar(&in.Password, "password", "", "password (mínimo 8 caracteres)")
	f.StringVar(&in.Name, "name", "", "nombre visible")
	f.StringVar(&in.Role, "role", "user", "admin, teamlead o user")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newDocumentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "Lista los documentos de factura disponibles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := bootstrap.NewInvoicing(a.cfg.Invoice, bootstrap.InvoiceDeps{Log: a.log})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NOMBRE\tARCHIVO\tRUTA")
			for _, d := range inv.Service.GetDocuments() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, d.Filename, d.Path)
			}
			return w.Flush()
		},
	}
}

// invoiceFlags filtros de la consulta de facturación.
type invoiceFlags struct {
	customers      []string
	template       string
	document       string
	begin          string
	end            string
	projects       []string
	activities     []string
	users          []string
	exported       string
	search         string
	markAsExported bool
	user           string
}

func (f *invoiceFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringSliceVarP(&f.customers, "customer", "c", nil, "ID de cliente (repetible)")
	fl.StringVarP(&f.template, "template", "t", "", "ID de la plantilla de factura")
	fl.StringVarP(&f.document, "document", "d", "", "documento de salida; vacío = el de la plantilla")
	fl.StringVar(&f.begin, "begin", "", "inicio del periodo (YYYY-MM-DD)")
	fl.StringVar(&f.end, "end", "", "fin del periodo (YYYY-MM-DD)")
	fl.StringSliceVar(&f.projects, "project", nil, "ID de proyecto (repetible)")
	fl.StringSliceVar(&f.activities, "activity", nil, "ID de actividad (repetible)")
	fl.StringSliceVar(&f.users, "for-user", nil, "ID de usuario cuyos registros se facturan (repetible)")
	fl.StringVar(&f.exported, "exported", "no", "registros exportados: no | yes | all")
	fl.StringVar(&f.search, "search", "", "texto a buscar en la descripción")
	fl.StringVar(&f.user, "user", "", "usuario que emite la factura")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("template")
}

func (f *invoiceFlags) request() dto.InvoiceRequest {
	return dto.InvoiceRequest{
		CustomerIDs:    f.customers,
		TemplateID:     f.template,
		Document:       f.document,
		Begin:          f.begin,
		End:            f.end,
		ProjectIDs:     f.projects,
		ActivityIDs:    f.activities,
		UserIDs:        f.users,
		Exported:       strings.ToLower(strings.TrimSpace(f.exported)),
		Search:         f.search,
		MarkAsExported: f.markAsExported,
	}
}

func newCreateCmd(a *app) *cobra.Command {
	var (
		f          invoiceFlags
		previewDir string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Emite una factura por cliente con registros facturables",
		Long: `Emite una factura por cliente con registros facturables en el periodo.

Con --preview-dir solo se renderizan los documentos y se escriben en ese
directorio: no se guardan facturas ni se marcan registros como exportados.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			rt, err := a.connect(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if previewDir != "" {
				files, err := rt.uc.Render(ctx, f.user, f.request())
				if err != nil {
					return err
				}
				return writePreviews(cmd, afero.NewOsFs(), previewDir, files)
			}

			created, err := rt.uc.Create(ctx, f.user, f.request())
			if err != nil {
				return err
			}
			return printInvoices(cmd, created)
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&f.markAsExported, "mark-exported", false, "marca los registros facturados como exportados")
	cmd.Flags().StringVar(&previewDir, "preview-dir", "", "solo renderiza y escribe los archivos en este directorio")
	cmd.MarkFlagsMutuallyExclusive("mark-exported", "preview-dir")
	return cmd
}

func printInvoices(cmd *cobra.Command, invoices []*dto.InvoiceResponse) error {
	out := cmd.OutOrStdout()
	if len(invoices) == 0 {
		fmt.Fprintln(out, "sin registros facturables para la consulta")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NÚMERO\tCLIENTE\tTOTAL\tARCHIVO")
	for _, inv := range invoices {
		fmt.Fprintf(w, "%s\t%s\t%s %s\t%s\n",
			inv.InvoiceNumber, inv.CustomerName, inv.Total.StringFixed(2), inv.Currency, inv.Filename)
	}
	return w.Flush()
}

func writePreviews(cmd *cobra.Command, fs afero.Fs, dir string, files []*dto.FileResponse) error {
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintln(out, "sin registros facturables para la consulta")
		return nil
	}
	for _, file := range files {
		path, err := writePreview(fs, dir, file)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
	}
	return nil
}

// writePreview escribe file en dir (creándolo si falta) y devuelve la ruta.
func writePreview(fs afero.Fs, dir string, file *dto.FileResponse) (string, error) {
	name := filepath.Base(file.Filename)
	if name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("nombre de archivo inválido %q", file.Filename)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("crear %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := afero.WriteFile(fs, path, file.Content, 0o644); err != nil {
		return "", fmt.Errorf("escribir %s: %w", path, err)
	}
	return path, nil
}
