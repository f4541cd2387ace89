package invoicing

import (
	"context"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

// DocumentRepository índice de documentos de factura descubiertos en disco.
type DocumentRepository interface {
	GetDocuments() []*entity.InvoiceDocument
	GetDocumentByName(name string) (*entity.InvoiceDocument, bool)
}

// FileStore guarda los archivos generados. Lo implementa storage.FileHelper.
type FileStore interface {
	SaveInvoice(filename string, content []byte) (string, error)
	ReadInvoice(filename string) ([]byte, error)
	DeleteInvoice(filename string) error
}

// InvoiceStore subconjunto de repository.InvoiceRepository que usa el servicio.
type InvoiceStore interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	UpdateStatus(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
}

// TxRunner ejecuta la persistencia de una emisión (facturas y marca de
// exportado) en una sola transacción.
type TxRunner interface {
	RunInvoicing(ctx context.Context, fn func(invoices InvoiceStore, items invoice.ItemRepository) error) error
}
