// Package documents descubre los documentos de factura (plantillas de salida)
// en una lista ordenada de directorios.
package documents

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	"github.com/jhoicas/Timesheet-api/pkg/logger"
)

// Repository índice inmutable de documentos por nombre.
// Con nombres repetidos gana el del primer directorio de la lista,
// así var/invoices sobrescribe los documentos incluidos.
type Repository struct {
	docs   map[string]*entity.InvoiceDocument
	sorted []*entity.InvoiceDocument
}

// NewRepository escanea paths en orden. Los directorios inexistentes se
// registran como warning y se omiten; no se recorre en subdirectorios.
func NewRepository(fs afero.Fs, paths []string, log *logger.Logger) *Repository {
	r := &Repository{docs: make(map[string]*entity.InvoiceDocument)}
	for _, dir := range paths {
		entries, err := afero.ReadDir(fs, dir)
		if err != nil {
			if os.IsNotExist(err) {
				log.Warn().Str("dir", dir).Msg("directorio de documentos no existe, se omite")
			} else {
				log.Warn().Err(err).Str("dir", dir).Msg("no se pudo leer el directorio de documentos")
			}
			continue
		}
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			doc := entity.NewInvoiceDocument(filepath.Join(dir, e.Name()))
			if doc.Extension == "" {
				continue
			}
			if _, exists := r.docs[doc.Name]; exists {
				log.Debug().Str("document", doc.Name).Str("path", doc.Path).Msg("documento ya registrado, se ignora")
				continue
			}
			r.docs[doc.Name] = doc
		}
	}

	r.sorted = make([]*entity.InvoiceDocument, 0, len(r.docs))
	for _, d := range r.docs {
		r.sorted = append(r.sorted, d)
	}
	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i].Name < r.sorted[j].Name })
	log.Info().Int("documents", len(r.sorted)).Msg("documentos de factura cargados")
	return r
}

// GetDocuments todos los documentos ordenados por nombre; nunca nil.
func (r *Repository) GetDocuments() []*entity.InvoiceDocument {
	out := make([]*entity.InvoiceDocument, len(r.sorted))
	copy(out, r.sorted)
	return out
}

// GetDocumentByName busca por nombre exacto.
func (r *Repository) GetDocumentByName(name string) (*entity.InvoiceDocument, bool) {
	d, ok := r.docs[name]
	return d, ok
}
