package ledger

import (
	"context"
	"strings"
)

// =============================================================================
// CUSTOMER REGISTRY
// =============================================================================
// Lookup and registration are exposed as separate steps so the credit engine
// can compose them deterministically instead of hiding a write inside a read.

// FindCustomerByName looks up a customer by case-insensitive name.
// Returns (nil, nil) when no customer matches.
func (e *Engine) FindCustomerByName(ctx context.Context, name string) (*Customer, error) {
	return e.store.FindCustomerByName(ctx, strings.TrimSpace(name))
}

// RegisterCustomer adds a new customer. Fails with DuplicateNameError if the
// name is already taken (case-insensitive).
func (e *Engine) RegisterCustomer(ctx context.Context, name string) (*Customer, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, &ValidationError{Field: "name", Reason: "required"}
	}

	existing, err := e.store.FindCustomerByName(ctx, trimmed)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateNameError{Kind: "customer", Name: trimmed}
	}

	c := Customer{
		ID:        e.newID(),
		Name:      trimmed,
		CreatedAt: e.now(),
	}
	if err := e.store.AppendCustomer(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}
