// Package supplier provides the supplier catalog.
package supplier

import (
	"context"
	"strings"
	"time"

	"almox/internal/core/apperror"
	"almox/internal/core/id"
)

// Supplier is a catalog record for a goods provider.
type Supplier struct {
	ID id.ID `db:"id" json:"id"`

	Name string `db:"name" json:"name"`

	// TaxID is the supplier's fiscal registration number
	TaxID string `db:"tax_id" json:"taxId,omitempty"`

	Email string `db:"email" json:"email,omitempty"`
	Phone string `db:"phone" json:"phone,omitempty"`

	Active bool `db:"active" json:"active"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// New creates a supplier with defaults.
func New(name string) *Supplier {
	now := time.Now().UTC()
	return &Supplier{
		ID:        id.New(),
		Name:      name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks supplier invariants.
func (s *Supplier) Validate(ctx context.Context) error {
	if strings.TrimSpace(s.Name) == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	if s.Email != "" && !strings.Contains(s.Email, "@") {
		return apperror.NewValidation("invalid email address").
			WithDetail("field", "email")
	}
	return nil
}

// Touch refreshes the update timestamp.
func (s *Supplier) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
