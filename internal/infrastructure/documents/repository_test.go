package documents_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Timesheet-api/internal/infrastructure/documents"
	"github.com/jhoicas/Timesheet-api/pkg/logger"
)

func memFS(t *testing.T, files ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, f := range files {
		require.NoError(t, afero.WriteFile(fs, f, []byte("x"), 0o644))
	}
	return fs
}

func TestRepository_PrimerDirectorioGana(t *testing.T) {
	fs := memFS(t,
		"custom/default.html.tmpl",
		"shipped/default.pdf.yaml",
		"shipped/timesheet.html.tmpl",
		"shipped/ubl.xml",
	)

	repo := documents.NewRepository(fs, []string{"custom", "shipped"}, logger.Nop())

	docs := repo.GetDocuments()
	require.Len(t, docs, 3)
	assert.Equal(t, "default", docs[0].Name)
	assert.Equal(t, "timesheet", docs[1].Name)
	assert.Equal(t, "ubl", docs[2].Name)

	d, ok := repo.GetDocumentByName("default")
	require.True(t, ok)
	assert.Equal(t, "html.tmpl", d.Extension)
	assert.Equal(t, "custom/default.html.tmpl", d.Path)
}

func TestRepository_DirectorioInexistenteSeOmite(t *testing.T) {
	fs := memFS(t, "shipped/ubl.xml")

	repo := documents.NewRepository(fs, []string{"no-existe", "shipped"}, logger.Nop())

	assert.Len(t, repo.GetDocuments(), 1)
	_, ok := repo.GetDocumentByName("ubl")
	assert.True(t, ok)
}

func TestRepository_Vacio(t *testing.T) {
	repo := documents.NewRepository(afero.NewMemMapFs(), nil, logger.Nop())

	docs := repo.GetDocuments()
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
	_, ok := repo.GetDocumentByName("default")
	assert.False(t, ok)
}

func TestRepository_IgnoraOcultosYSinExtension(t *testing.T) {
	fs := memFS(t, "docs/.gitkeep", "docs/README", "docs/sub/inner.xml", "docs/invoice.xml")

	repo := documents.NewRepository(fs, []string{"docs"}, logger.Nop())

	docs := repo.GetDocuments()
	require.Len(t, docs, 1)
	assert.Equal(t, "invoice", docs[0].Name)
}

func TestRepository_ListadoNoCompartido(t *testing.T) {
	repo := documents.NewRepository(memFS(t, "d/a.xml", "d/b.xml"), []string{"d"}, logger.Nop())

	first := repo.GetDocuments()
	first[0] = nil
	assert.NotNil(t, repo.GetDocuments()[0])
}
