package invoice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Timesheet-api/internal/domain/invoice"
)

type namedStub struct {
	id      string
	version int
}

func (n namedStub) ID() string { return n.id }

func TestRegistry_VacioNuncaNil(t *testing.T) {
	r := invoice.NewRegistry[namedStub]()
	all := r.All()
	assert.NotNil(t, all)
	assert.Empty(t, all)
	_, ok := r.Get("default")
	assert.False(t, ok)
}

func TestRegistry_UltimaEscrituraGana(t *testing.T) {
	r := invoice.NewRegistry[namedStub]()
	r.Add(namedStub{id: "default", version: 1})
	r.Add(namedStub{id: "default", version: 2})

	assert.Equal(t, 1, r.Len())
	got, ok := r.Get("default")
	assert.True(t, ok)
	assert.Equal(t, 2, got.version)
}

func TestRegistry_AllOrdenadoEIdempotente(t *testing.T) {
	r := invoice.NewRegistry[namedStub]()
	r.Add(namedStub{id: "short"})
	r.Add(namedStub{id: "default"})
	r.Add(namedStub{id: "project"})

	first := r.All()
	second := r.All()
	assert.Equal(t, first, second)
	assert.Equal(t, "default", first[0].ID())
	assert.Equal(t, "project", first[1].ID())
	assert.Equal(t, "short", first[2].ID())
}
