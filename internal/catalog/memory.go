package catalog

import (
	"context"
	"sync"
)

// MemoryCatalog is an in-process catalog for tests and local runs without
// a database.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]*Product
}

func NewMemoryCatalog(products ...*Product) *MemoryCatalog {
	m := &MemoryCatalog{products: make(map[string]*Product)}
	for _, p := range products {
		m.products[p.Handle] = p
	}
	return m
}

func (m *MemoryCatalog) GetProduct(_ context.Context, handle string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[handle]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryCatalog) Put(p *Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.Handle] = p
}
