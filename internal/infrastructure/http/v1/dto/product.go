package dto

import (
	"github.com/shopspring/decimal"

	"almox/internal/core/apperror"
	"almox/internal/core/id"
	"almox/internal/domain/product"
)

// CreateProductRequest creates a new catalog product.
type CreateProductRequest struct {
	Code        string           `json:"code" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Description *string          `json:"description,omitempty"`
	Unit        string           `json:"unit"`
	MinStock    int64            `json:"minStock"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	SupplierID  *string          `json:"supplierId,omitempty"`
}

// ToEntity converts the request to a product.
func (r CreateProductRequest) ToEntity() (*product.Product, error) {
	unit := r.Unit
	if unit == "" {
		unit = "un"
	}

	p := product.New(r.Code, r.Name, unit)
	p.Description = r.Description
	p.MinStock = r.MinStock
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Cost != nil {
		p.Cost = *r.Cost
	}
	if r.SupplierID != nil {
		supplierID, err := id.Parse(*r.SupplierID)
		if err != nil {
			return nil, apperror.NewValidation("invalid supplier id").
				WithDetail("field", "supplierId")
		}
		p.SupplierID = &supplierID
	}
	return p, nil
}

// UpdateProductRequest updates catalog fields. Stock is absent on purpose;
// it only changes through movements.
type UpdateProductRequest struct {
	Code        *string          `json:"code,omitempty"`
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	MinStock    *int64           `json:"minStock,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	SupplierID  *string          `json:"supplierId,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

// ApplyTo merges the patch into an existing product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) error {
	if r.Code != nil {
		p.Code = *r.Code
	}
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = r.Description
	}
	if r.Unit != nil {
		p.Unit = *r.Unit
	}
	if r.MinStock != nil {
		p.MinStock = *r.MinStock
	}
	if r.Price != nil {
		p.Price = *r.Price
	}
	if r.Cost != nil {
		p.Cost = *r.Cost
	}
	if r.SupplierID != nil {
		if *r.SupplierID == "" {
			p.SupplierID = nil
		} else {
			supplierID, err := id.Parse(*r.SupplierID)
			if err != nil {
				return apperror.NewValidation("invalid supplier id").
					WithDetail("field", "supplierId")
			}
			p.SupplierID = &supplierID
		}
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
	return nil
}
