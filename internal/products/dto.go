package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
)

// ProductDTO is the API shape of a product with its price lists.
type ProductDTO struct {
	ID             uuid.UUID          `json:"id"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	SKU            *string            `json:"sku,omitempty"`
	Category       *string            `json:"category,omitempty"`
	Tags           []string           `json:"tags"`
	CompanyName    *string            `json:"companyName,omitempty"`
	RetailPrice    decimal.Decimal    `json:"retailPrice"`
	PurchasePrice  decimal.Decimal    `json:"purchasePrice"`
	SellPrice      decimal.Decimal    `json:"sellPrice"`
	QuantityOnHand int                `json:"quantityOnHand"`
	Suppliers      []SupplierPriceDTO `json:"suppliers"`
	CustomerPrices []CustomerPriceDTO `json:"customerPrices"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

type SupplierPriceDTO struct {
	Supplier         uuid.UUID       `json:"supplier"`
	PurchasePrice    decimal.Decimal `json:"purchasePrice"`
	IsPreferred      bool            `json:"isPreferred"`
	LastPurchaseDate *time.Time      `json:"lastPurchaseDate,omitempty"`
}

type CustomerPriceDTO struct {
	Customer        uuid.UUID       `json:"customer"`
	CustomSellPrice decimal.Decimal `json:"customSellPrice"`
}

// SupplierPriceInput links a supplier and its purchase price to a product.
type SupplierPriceInput struct {
	SupplierID    uuid.UUID
	PurchasePrice decimal.Decimal
	IsPreferred   bool
}

// CustomerPriceInput overrides the sell price for one customer.
type CustomerPriceInput struct {
	CustomerID      uuid.UUID
	CustomSellPrice decimal.Decimal
}

type CreateInput struct {
	Name           string
	Description    *string
	SKU            *string
	Category       *string
	Tags           []string
	CompanyName    *string
	RetailPrice    decimal.Decimal
	PurchasePrice  decimal.Decimal
	SellPrice      decimal.Decimal
	QuantityOnHand int
	Suppliers      []SupplierPriceInput
	CustomerPrices []CustomerPriceInput
}

// UpdateInput carries optional changes; nil leaves a field untouched and a
// non-nil price list replaces the stored one.
type UpdateInput struct {
	Name           *string
	Description    *string
	SKU            *string
	Category       *string
	Tags           *[]string
	CompanyName    *string
	RetailPrice    *decimal.Decimal
	PurchasePrice  *decimal.Decimal
	SellPrice      *decimal.Decimal
	QuantityOnHand *int
	Suppliers      *[]SupplierPriceInput
	CustomerPrices *[]CustomerPriceInput
}

// FromModel maps a product row, including preloaded price lists.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		SKU:            p.SKU,
		Category:       p.Category,
		Tags:           append([]string{}, p.Tags...),
		CompanyName:    p.CompanyName,
		RetailPrice:    p.RetailPrice,
		PurchasePrice:  p.PurchasePrice,
		SellPrice:      p.SellPrice,
		QuantityOnHand: p.QuantityOnHand,
		Suppliers:      make([]SupplierPriceDTO, 0, len(p.Suppliers)),
		CustomerPrices: make([]CustomerPriceDTO, 0, len(p.CustomerPrices)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	for _, s := range p.Suppliers {
		dto.Suppliers = append(dto.Suppliers, SupplierPriceDTO{
			Supplier:         s.SupplierID,
			PurchasePrice:    s.PurchasePrice,
			IsPreferred:      s.IsPreferred,
			LastPurchaseDate: s.LastPurchaseDate,
		})
	}
	for _, c := range p.CustomerPrices {
		dto.CustomerPrices = append(dto.CustomerPrices, CustomerPriceDTO{
			Customer:        c.CustomerID,
			CustomSellPrice: c.CustomSellPrice,
		})
	}
	return dto
}

func fromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
