package suppliers

import (
	suppliersvc "github.com/angelmondragon/wholesale-backend/internal/suppliers"
	"github.com/angelmondragon/wholesale-backend/pkg/types"
)

type createSupplierRequest struct {
	Name              string         `json:"name" validate:"required"`
	ContactPerson     *string        `json:"contactPerson,omitempty"`
	Email             *string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone             *string        `json:"phone,omitempty"`
	Address           *types.Address `json:"address,omitempty"`
	ReliabilityRating *float64       `json:"reliabilityRating,omitempty" validate:"omitempty,gte=0,lte=5"`
	PaymentTerms      *string        `json:"paymentTerms,omitempty"`
	Notes             *string        `json:"notes,omitempty"`
}

type updateSupplierRequest struct {
	Name              *string        `json:"name,omitempty" validate:"omitempty,min=1"`
	ContactPerson     *string        `json:"contactPerson,omitempty"`
	Email             *string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone             *string        `json:"phone,omitempty"`
	Address           *types.Address `json:"address,omitempty"`
	ReliabilityRating *float64       `json:"reliabilityRating,omitempty" validate:"omitempty,gte=0,lte=5"`
	PaymentTerms      *string        `json:"paymentTerms,omitempty"`
	Notes             *string        `json:"notes,omitempty"`
}

type reliabilityRequest struct {
	ReliabilityRating *float64 `json:"reliabilityRating" validate:"required,gte=0,lte=5"`
}

func (r createSupplierRequest) toInput() suppliersvc.CreateInput {
	return suppliersvc.CreateInput{
		Name:              r.Name,
		ContactPerson:     r.ContactPerson,
		Email:             r.Email,
		Phone:             r.Phone,
		Address:           r.Address,
		ReliabilityRating: r.ReliabilityRating,
		PaymentTerms:      r.PaymentTerms,
		Notes:             r.Notes,
	}
}

func (r updateSupplierRequest) toInput() suppliersvc.UpdateInput {
	return suppliersvc.UpdateInput{
		Name:              r.Name,
		ContactPerson:     r.ContactPerson,
		Email:             r.Email,
		Phone:             r.Phone,
		Address:           r.Address,
		ReliabilityRating: r.ReliabilityRating,
		PaymentTerms:      r.PaymentTerms,
		Notes:             r.Notes,
	}
}
