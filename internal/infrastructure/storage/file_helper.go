// Package storage guarda los archivos de factura generados bajo el directorio de datos.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/jhoicas/Timesheet-api/internal/domain"
)

// InvoicesDir subdirectorio de las facturas generadas.
const InvoicesDir = "invoices"

// FileHelper organiza el directorio de datos:
//
//	<dataDir>/invoices/<archivo>
type FileHelper struct {
	fs      afero.Fs
	dataDir string
}

// NewFileHelper dataDir se crea bajo demanda.
func NewFileHelper(fs afero.Fs, dataDir string) *FileHelper {
	return &FileHelper{fs: fs, dataDir: filepath.Clean(dataDir)}
}

// DataDirectory ruta de un subdirectorio de datos; lo crea si no existe.
func (h *FileHelper) DataDirectory(kind string) (string, error) {
	dir := h.dataDir
	if kind != "" {
		dir = filepath.Join(dir, filepath.Base(kind))
	}
	if err := h.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	return dir, nil
}

// SaveInvoice guarda el contenido y devuelve el nombre final. Si el nombre
// existe se agrega -1, -2... antes de la extensión.
func (h *FileHelper) SaveInvoice(filename string, content []byte) (string, error) {
	name, err := cleanName(filename)
	if err != nil {
		return "", err
	}
	dir, err := h.DataDirectory(InvoicesDir)
	if err != nil {
		return "", err
	}
	stem, ext := splitName(name)
	candidate := name
	for i := 1; ; i++ {
		exists, err := afero.Exists(h.fs, filepath.Join(dir, candidate))
		if err != nil {
			return "", fmt.Errorf("comprobar %s: %w", candidate, err)
		}
		if !exists {
			break
		}
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	if err := afero.WriteFile(h.fs, filepath.Join(dir, candidate), content, 0o644); err != nil {
		return "", fmt.Errorf("guardar factura %s: %w", candidate, err)
	}
	return candidate, nil
}

// ReadInvoice lee un archivo guardado; ErrNotFound si no existe.
func (h *FileHelper) ReadInvoice(filename string) ([]byte, error) {
	name, err := cleanName(filename)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(h.fs, filepath.Join(h.dataDir, InvoicesDir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: archivo %s", domain.ErrNotFound, name)
	}
	return data, err
}

// DeleteInvoice borra el archivo; que no exista no es error.
func (h *FileHelper) DeleteInvoice(filename string) error {
	name, err := cleanName(filename)
	if err != nil {
		return err
	}
	err = h.fs.Remove(filepath.Join(h.dataDir, InvoicesDir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("borrar factura %s: %w", name, err)
	}
	return nil
}

// cleanName rechaza nombres vacíos o con rutas.
func cleanName(filename string) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == ".." || name == string(filepath.Separator) || name != strings.TrimSpace(filename) {
		return "", fmt.Errorf("%w: nombre de archivo %q", domain.ErrInvalidInput, filename)
	}
	return name, nil
}

// splitName separa en el primer punto: "a.pdf.yaml" -> "a", ".pdf.yaml".
func splitName(name string) (string, string) {
	if i := strings.Index(name, "."); i > 0 {
		return name[:i], name[i:]
	}
	return name, ""
}
