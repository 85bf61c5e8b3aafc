package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

// Service exposes catalog management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, input ListInput) (pagination.Page[ProductDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateInventory(ctx context.Context, id uuid.UUID, quantityOnHand int) (*ProductDTO, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]ProductDTO, error)
	ListByCategory(ctx context.Context, category string) ([]ProductDTO, error)
	ListLowStock(ctx context.Context) ([]ProductDTO, error)
}

// ListInput holds the listing filters accepted by the API.
type ListInput struct {
	Pagination pagination.Params
	Search     string
	Category   string
}

type service struct {
	repo *Repository
	tx   db.TxRunner
	logg *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo *Repository, tx db.TxRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fieldError("name", "name is required")
	}
	if err := validatePrices(map[string]decimal.Decimal{
		"retailPrice":   input.RetailPrice,
		"purchasePrice": input.PurchasePrice,
		"sellPrice":     input.SellPrice,
	}); err != nil {
		return nil, err
	}
	if input.QuantityOnHand < 0 {
		return nil, fieldError("quantityOnHand", "quantityOnHand must be non-negative")
	}

	product := &models.Product{
		Name:           name,
		Description:    input.Description,
		SKU:            normalizeSKU(input.SKU),
		Category:       trimmed(input.Category),
		Tags:           cleanTags(input.Tags),
		CompanyName:    input.CompanyName,
		RetailPrice:    input.RetailPrice,
		PurchasePrice:  input.PurchasePrice,
		SellPrice:      input.SellPrice,
		QuantityOnHand: input.QuantityOnHand,
	}

	var err error
	if product.Suppliers, err = s.supplierRows(ctx, input.Suppliers); err != nil {
		return nil, err
	}
	if product.CustomerPrices, err = s.customerPriceRows(ctx, input.CustomerPrices); err != nil {
		return nil, err
	}
	if err := s.ensureSKUFree(ctx, product.SKU, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, product)
	}); err != nil {
		return nil, mapWriteError(err, "create product")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID.String()), "product.created")
	}
	return s.Get(ctx, product.ID)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

func (s *service) List(ctx context.Context, input ListInput) (pagination.Page[ProductDTO], error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, ListQuery{
		Pagination: input.Pagination,
		Cursor:     cursor,
		Search:     input.Search,
		Category:   input.Category,
	})
	if err != nil {
		return pagination.Page[ProductDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	page := pagination.Trim(rows, input.Pagination.Limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return pagination.Map(page, func(p models.Product) ProductDTO { return *FromModel(&p) }), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(product, input); err != nil {
		return nil, err
	}

	var suppliers []models.ProductSupplier
	if input.Suppliers != nil {
		if suppliers, err = s.supplierRows(ctx, *input.Suppliers); err != nil {
			return nil, err
		}
	}
	var prices []models.ProductCustomerPrice
	if input.CustomerPrices != nil {
		if prices, err = s.customerPriceRows(ctx, *input.CustomerPrices); err != nil {
			return nil, err
		}
	}
	if input.SKU != nil {
		if err := s.ensureSKUFree(ctx, product.SKU, product.ID); err != nil {
			return nil, err
		}
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.Update(ctx, product); err != nil {
			return err
		}
		if input.Suppliers != nil {
			if err := txRepo.ReplaceSuppliers(ctx, product.ID, suppliers); err != nil {
				return err
			}
		}
		if input.CustomerPrices != nil {
			if err := txRepo.ReplaceCustomerPrices(ctx, product.ID, prices); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, mapWriteError(err, "update product")
	}
	return s.Get(ctx, product.ID)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return mapWriteError(s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		referenced, err := txRepo.IsReferenced(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by orders or demand lists")
		}
		return txRepo.Delete(ctx, id)
	}), "delete product")
}

func (s *service) UpdateInventory(ctx context.Context, id uuid.UUID, quantityOnHand int) (*ProductDTO, error) {
	if quantityOnHand < 0 {
		return nil, fieldError("quantityOnHand", "quantityOnHand must be non-negative")
	}
	if err := s.repo.SetQuantity(ctx, id, quantityOnHand); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory")
	}
	return s.Get(ctx, id)
}

func (s *service) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]ProductDTO, error) {
	ok, err := s.repo.SupplierExists(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	rows, err := s.repo.ListBySupplier(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products by supplier")
	}
	return fromModels(rows), nil
}

func (s *service) ListByCategory(ctx context.Context, category string) ([]ProductDTO, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, fieldError("category", "category is required")
	}
	rows, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products by category")
	}
	return fromModels(rows), nil
}

func (s *service) ListLowStock(ctx context.Context) ([]ProductDTO, error) {
	rows, err := s.repo.ListBelowStock(ctx, LowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock products")
	}
	return fromModels(rows), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) ensureSKUFree(ctx context.Context, sku *string, exclude uuid.UUID) error {
	if sku == nil {
		return nil
	}
	taken, err := s.repo.SKUTaken(ctx, *sku, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "product with this SKU already exists")
	}
	return nil
}

func (s *service) supplierRows(ctx context.Context, inputs []SupplierPriceInput) ([]models.ProductSupplier, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(inputs))
	rows := make([]models.ProductSupplier, 0, len(inputs))
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.SupplierID]; dup {
			return nil, fieldError("suppliers", "duplicate supplier in price list")
		}
		seen[in.SupplierID] = struct{}{}
		if in.PurchasePrice.IsNegative() {
			return nil, fieldError("suppliers.purchasePrice", "purchasePrice must be non-negative")
		}
		ids = append(ids, in.SupplierID)
		rows = append(rows, models.ProductSupplier{
			SupplierID:    in.SupplierID,
			PurchasePrice: in.PurchasePrice,
			IsPreferred:   in.IsPreferred,
		})
	}
	missing, err := s.repo.MissingSuppliers(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load suppliers")
	}
	if len(missing) > 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "supplier %s not found", missing[0])
	}
	return rows, nil
}

func (s *service) customerPriceRows(ctx context.Context, inputs []CustomerPriceInput) ([]models.ProductCustomerPrice, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(inputs))
	rows := make([]models.ProductCustomerPrice, 0, len(inputs))
	seen := make(map[uuid.UUID]struct{}, len(inputs))
	for _, in := range inputs {
		if _, dup := seen[in.CustomerID]; dup {
			return nil, fieldError("customerPrices", "duplicate customer in price list")
		}
		seen[in.CustomerID] = struct{}{}
		if in.CustomSellPrice.IsNegative() {
			return nil, fieldError("customerPrices.customSellPrice", "customSellPrice must be non-negative")
		}
		ids = append(ids, in.CustomerID)
		rows = append(rows, models.ProductCustomerPrice{
			CustomerID:      in.CustomerID,
			CustomSellPrice: in.CustomSellPrice,
		})
	}
	missing, err := s.repo.MissingCustomers(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customers")
	}
	if len(missing) > 0 {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "customer %s not found", missing[0])
	}
	return rows, nil
}

func applyUpdate(product *models.Product, input UpdateInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return fieldError("name", "name is required")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.SKU != nil {
		product.SKU = normalizeSKU(input.SKU)
	}
	if input.Category != nil {
		product.Category = trimmed(input.Category)
	}
	if input.Tags != nil {
		product.Tags = cleanTags(*input.Tags)
	}
	if input.CompanyName != nil {
		product.CompanyName = input.CompanyName
	}
	prices := map[string]decimal.Decimal{}
	if input.RetailPrice != nil {
		product.RetailPrice = *input.RetailPrice
		prices["retailPrice"] = *input.RetailPrice
	}
	if input.PurchasePrice != nil {
		product.PurchasePrice = *input.PurchasePrice
		prices["purchasePrice"] = *input.PurchasePrice
	}
	if input.SellPrice != nil {
		product.SellPrice = *input.SellPrice
		prices["sellPrice"] = *input.SellPrice
	}
	if err := validatePrices(prices); err != nil {
		return err
	}
	if input.QuantityOnHand != nil {
		if *input.QuantityOnHand < 0 {
			return fieldError("quantityOnHand", "quantityOnHand must be non-negative")
		}
		product.QuantityOnHand = *input.QuantityOnHand
	}
	return nil
}

func validatePrices(prices map[string]decimal.Decimal) error {
	for _, field := range []string{"retailPrice", "purchasePrice", "sellPrice"} {
		if v, ok := prices[field]; ok && v.IsNegative() {
			return fieldError(field, field+" must be non-negative")
		}
	}
	return nil
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	v := strings.TrimSpace(*sku)
	if v == "" {
		return nil
	}
	return &v
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

func cleanTags(tags []string) pq.StringArray {
	out := pq.StringArray{}
	seen := map[string]struct{}{}
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}

func mapWriteError(err error, step string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, ErrSKUTaken) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product with this SKU already exists")
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}
