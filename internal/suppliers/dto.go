package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/types"
)

type SupplierDTO struct {
	ID                uuid.UUID      `json:"id"`
	Name              string         `json:"name"`
	ContactPerson     *string        `json:"contactPerson,omitempty"`
	Email             *string        `json:"email,omitempty"`
	Phone             *string        `json:"phone,omitempty"`
	Address           *types.Address `json:"address,omitempty"`
	ReliabilityRating float64        `json:"reliabilityRating"`
	PaymentTerms      *string        `json:"paymentTerms,omitempty"`
	Notes             *string        `json:"notes,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// CreateInput holds a new supplier. A nil rating defaults to DefaultReliability.
type CreateInput struct {
	Name              string
	ContactPerson     *string
	Email             *string
	Phone             *string
	Address           *types.Address
	ReliabilityRating *float64
	PaymentTerms      *string
	Notes             *string
}

type UpdateInput struct {
	Name              *string
	ContactPerson     *string
	Email             *string
	Phone             *string
	Address           *types.Address
	ReliabilityRating *float64
	PaymentTerms      *string
	Notes             *string
}

func FromModel(s *models.Supplier) *SupplierDTO {
	if s == nil {
		return nil
	}
	dto := &SupplierDTO{
		ID:                s.ID,
		Name:              s.Name,
		ContactPerson:     s.ContactPerson,
		Email:             s.Email,
		Phone:             s.Phone,
		ReliabilityRating: s.ReliabilityRating,
		PaymentTerms:      s.PaymentTerms,
		Notes:             s.Notes,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if !s.Address.IsZero() {
		addr := s.Address
		dto.Address = &addr
	}
	return dto
}
