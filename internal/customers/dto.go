package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/types"
)

type CustomerDTO struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	StoreID            *string         `json:"storeId,omitempty"`
	ContactPerson      *string         `json:"contactPerson,omitempty"`
	Email              *string         `json:"email,omitempty"`
	Phone              *string         `json:"phone,omitempty"`
	Address            *types.Address  `json:"address,omitempty"`
	PaymentTerms       *string         `json:"paymentTerms,omitempty"`
	CreditLimit        decimal.Decimal `json:"creditLimit"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	Notes              *string         `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// CreateInput holds a new customer. The balance always starts at zero.
type CreateInput struct {
	Name          string
	StoreID       *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *types.Address
	PaymentTerms  *string
	CreditLimit   *decimal.Decimal
	Notes         *string
}

// UpdateInput has no balance field; the balance only moves with orders and payments.
type UpdateInput struct {
	Name          *string
	StoreID       *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *types.Address
	PaymentTerms  *string
	CreditLimit   *decimal.Decimal
	Notes         *string
}

func FromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	dto := &CustomerDTO{
		ID:                 c.ID,
		Name:               c.Name,
		StoreID:            c.StoreID,
		ContactPerson:      c.ContactPerson,
		Email:              c.Email,
		Phone:              c.Phone,
		PaymentTerms:       c.PaymentTerms,
		CreditLimit:        c.CreditLimit,
		OutstandingBalance: c.OutstandingBalance,
		Notes:              c.Notes,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	if !c.Address.IsZero() {
		addr := c.Address
		dto.Address = &addr
	}
	return dto
}
