// Package inmem keeps contact rows in process memory. Rows are lost when the
// store exits.
package inmem

import (
	"context"
	"slices"
	"sync"

	"phonebook/contact"
)

// ContactRepository implements [contact.Repository]. Rows keep insertion
// order and duplicate names are allowed.
type ContactRepository struct {
	mu   sync.Mutex
	rows []contact.Contact
}

var _ contact.Repository = (*ContactRepository)(nil)

func NewContactRepository(cs ...contact.Contact) *ContactRepository {
	return &ContactRepository{rows: slices.Clone(cs)}
}

func (r *ContactRepository) CreateContact(_ context.Context, c contact.Contact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, c)
	return nil
}

func (r *ContactRepository) UpdateNumber(_ context.Context, name, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		if r.rows[i].Name == name {
			r.rows[i].Number = number
		}
	}
	return nil
}

func (r *ContactRepository) DeleteContact(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = slices.DeleteFunc(r.rows, func(c contact.Contact) bool {
		return c.Name == name
	})
	return nil
}

func (r *ContactRepository) AllContacts(_ context.Context) ([]contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.rows), nil
}
