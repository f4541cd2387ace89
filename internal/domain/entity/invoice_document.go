package entity

import (
	"path/filepath"
	"strings"
)

// InvoiceDocument es un archivo de plantilla de salida descubierto en disco.
// Name es el nombre de archivo hasta el primer punto; Extension el resto.
type InvoiceDocument struct {
	Name      string
	Filename  string
	Path      string
	Extension string
}

// NewInvoiceDocument construye el documento a partir de su ruta.
func NewInvoiceDocument(path string) *InvoiceDocument {
	base := filepath.Base(path)
	name, ext := base, ""
	if i := strings.Index(base, "."); i > 0 {
		name, ext = base[:i], base[i+1:]
	}
	return &InvoiceDocument{
		Name:      name,
		Filename:  base,
		Path:      path,
		Extension: ext,
	}
}

// HasExtension compara la extensión completa sin distinguir mayúsculas.
func (d *InvoiceDocument) HasExtension(ext string) bool {
	return strings.EqualFold(d.Extension, strings.TrimPrefix(ext, "."))
}
