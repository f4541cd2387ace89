package invoice

import "sort"

// Registry mapea nombre -> estrategia. Se llena una vez al arrancar y luego
// solo se lee, por eso no usa locks.
type Registry[T Named] struct {
	items map[string]T
}

// NewRegistry crea un registro vacío.
func NewRegistry[T Named]() *Registry[T] {
	return &Registry[T]{items: make(map[string]T)}
}

// Add registra la estrategia; el mismo ID sobrescribe la anterior.
func (r *Registry[T]) Add(item T) {
	r.items[item.ID()] = item
}

// Get devuelve la estrategia registrada con ese nombre.
func (r *Registry[T]) Get(name string) (T, bool) {
	item, ok := r.items[name]
	return item, ok
}

// All devuelve todas las estrategias ordenadas por ID. Nunca nil.
func (r *Registry[T]) All() []T {
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.items[id])
	}
	return out
}

// Len cantidad de estrategias registradas.
func (r *Registry[T]) Len() int { return len(r.items) }
