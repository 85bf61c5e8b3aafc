package customers

import (
	"github.com/shopspring/decimal"

	customersvc "github.com/angelmondragon/wholesale-backend/internal/customers"
	"github.com/angelmondragon/wholesale-backend/pkg/types"
)

type createCustomerRequest struct {
	Name          string           `json:"name" validate:"required"`
	StoreID       *string          `json:"storeId,omitempty"`
	ContactPerson *string          `json:"contactPerson,omitempty"`
	Email         *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string          `json:"phone,omitempty"`
	Address       *types.Address   `json:"address,omitempty"`
	PaymentTerms  *string          `json:"paymentTerms,omitempty"`
	CreditLimit   *decimal.Decimal `json:"creditLimit,omitempty" validate:"omitempty,gte=0"`
	Notes         *string          `json:"notes,omitempty"`
}

// updateCustomerRequest has no outstandingBalance; unknown fields are rejected
// by the decoder, so a balance override fails validation.
type updateCustomerRequest struct {
	Name          *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	StoreID       *string          `json:"storeId,omitempty"`
	ContactPerson *string          `json:"contactPerson,omitempty"`
	Email         *string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string          `json:"phone,omitempty"`
	Address       *types.Address   `json:"address,omitempty"`
	PaymentTerms  *string          `json:"paymentTerms,omitempty"`
	CreditLimit   *decimal.Decimal `json:"creditLimit,omitempty" validate:"omitempty,gte=0"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r createCustomerRequest) toInput() customersvc.CreateInput {
	return customersvc.CreateInput{
		Name:          r.Name,
		StoreID:       r.StoreID,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		PaymentTerms:  r.PaymentTerms,
		CreditLimit:   r.CreditLimit,
		Notes:         r.Notes,
	}
}

func (r updateCustomerRequest) toInput() customersvc.UpdateInput {
	return customersvc.UpdateInput{
		Name:          r.Name,
		StoreID:       r.StoreID,
		ContactPerson: r.ContactPerson,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		PaymentTerms:  r.PaymentTerms,
		CreditLimit:   r.CreditLimit,
		Notes:         r.Notes,
	}
}
