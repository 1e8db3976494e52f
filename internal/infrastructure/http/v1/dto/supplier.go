package dto

import (
	"almox/internal/domain/supplier"
)

// CreateSupplierRequest creates a new supplier.
type CreateSupplierRequest struct {
	Name  string `json:"name" binding:"required"`
	TaxID string `json:"taxId,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ToEntity converts the request to a supplier.
func (r CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.New(r.Name)
	s.TaxID = r.TaxID
	s.Email = r.Email
	s.Phone = r.Phone
	return s
}

// UpdateSupplierRequest updates supplier fields.
type UpdateSupplierRequest struct {
	Name   *string `json:"name,omitempty"`
	TaxID  *string `json:"taxId,omitempty"`
	Email  *string `json:"email,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// ApplyTo merges the patch into an existing supplier.
func (r UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.TaxID != nil {
		s.TaxID = *r.TaxID
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.Phone != nil {
		s.Phone = *r.Phone
	}
	if r.Active != nil {
		s.Active = *r.Active
	}
}
