package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	productsvc "github.com/angelmondragon/wholesale-backend/internal/products"
)

type supplierPriceRequest struct {
	Supplier      uuid.UUID       `json:"supplier" validate:"required"`
	PurchasePrice decimal.Decimal `json:"purchasePrice" validate:"gte=0"`
	IsPreferred   bool            `json:"isPreferred"`
}

type customerPriceRequest struct {
	Customer        uuid.UUID       `json:"customer" validate:"required"`
	CustomSellPrice decimal.Decimal `json:"customSellPrice" validate:"gte=0"`
}

type createProductRequest struct {
	Name           string                 `json:"name" validate:"required"`
	Description    *string                `json:"description,omitempty"`
	SKU            *string                `json:"sku,omitempty"`
	Category       *string                `json:"category,omitempty"`
	Tags           []string               `json:"tags,omitempty"`
	CompanyName    *string                `json:"companyName,omitempty"`
	RetailPrice    *decimal.Decimal       `json:"retailPrice" validate:"required,gte=0"`
	PurchasePrice  *decimal.Decimal       `json:"purchasePrice" validate:"required,gte=0"`
	SellPrice      *decimal.Decimal       `json:"sellPrice" validate:"required,gte=0"`
	QuantityOnHand int                    `json:"quantityOnHand" validate:"gte=0"`
	Suppliers      []supplierPriceRequest `json:"suppliers,omitempty" validate:"omitempty,dive"`
	CustomerPrices []customerPriceRequest `json:"customerPrices,omitempty" validate:"omitempty,dive"`
}

type updateProductRequest struct {
	Name           *string                 `json:"name,omitempty" validate:"omitempty,min=1"`
	Description    *string                 `json:"description,omitempty"`
	SKU            *string                 `json:"sku,omitempty"`
	Category       *string                 `json:"category,omitempty"`
	Tags           *[]string               `json:"tags,omitempty"`
	CompanyName    *string                 `json:"companyName,omitempty"`
	RetailPrice    *decimal.Decimal        `json:"retailPrice,omitempty" validate:"omitempty,gte=0"`
	PurchasePrice  *decimal.Decimal        `json:"purchasePrice,omitempty" validate:"omitempty,gte=0"`
	SellPrice      *decimal.Decimal        `json:"sellPrice,omitempty" validate:"omitempty,gte=0"`
	QuantityOnHand *int                    `json:"quantityOnHand,omitempty" validate:"omitempty,gte=0"`
	Suppliers      *[]supplierPriceRequest `json:"suppliers,omitempty" validate:"omitempty,dive"`
	CustomerPrices *[]customerPriceRequest `json:"customerPrices,omitempty" validate:"omitempty,dive"`
}

type inventoryRequest struct {
	QuantityOnHand *int `json:"quantityOnHand" validate:"required,gte=0"`
}

func (r createProductRequest) toInput() productsvc.CreateInput {
	return productsvc.CreateInput{
		Name:           r.Name,
		Description:    r.Description,
		SKU:            r.SKU,
		Category:       r.Category,
		Tags:           r.Tags,
		CompanyName:    r.CompanyName,
		RetailPrice:    *r.RetailPrice,
		PurchasePrice:  *r.PurchasePrice,
		SellPrice:      *r.SellPrice,
		QuantityOnHand: r.QuantityOnHand,
		Suppliers:      supplierInputs(r.Suppliers),
		CustomerPrices: customerPriceInputs(r.CustomerPrices),
	}
}

func (r updateProductRequest) toInput() productsvc.UpdateInput {
	input := productsvc.UpdateInput{
		Name:           r.Name,
		Description:    r.Description,
		SKU:            r.SKU,
		Category:       r.Category,
		Tags:           r.Tags,
		CompanyName:    r.CompanyName,
		RetailPrice:    r.RetailPrice,
		PurchasePrice:  r.PurchasePrice,
		SellPrice:      r.SellPrice,
		QuantityOnHand: r.QuantityOnHand,
	}
	if r.Suppliers != nil {
		suppliers := supplierInputs(*r.Suppliers)
		input.Suppliers = &suppliers
	}
	if r.CustomerPrices != nil {
		prices := customerPriceInputs(*r.CustomerPrices)
		input.CustomerPrices = &prices
	}
	return input
}

func supplierInputs(rows []supplierPriceRequest) []productsvc.SupplierPriceInput {
	out := make([]productsvc.SupplierPriceInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, productsvc.SupplierPriceInput{
			SupplierID:    row.Supplier,
			PurchasePrice: row.PurchasePrice,
			IsPreferred:   row.IsPreferred,
		})
	}
	return out
}

func customerPriceInputs(rows []customerPriceRequest) []productsvc.CustomerPriceInput {
	out := make([]productsvc.CustomerPriceInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, productsvc.CustomerPriceInput{
			CustomerID:      row.Customer,
			CustomSellPrice: row.CustomSellPrice,
		})
	}
	return out
}
