package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/wholesale-backend/internal/repo"
	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

// ErrSKUTaken is returned when an insert or update collides on sku.
var ErrSKUTaken = errors.New("sku already exists")

// LowStockThreshold is the quantity below which a product counts as low stock.
const LowStockThreshold = 10

// ListQuery filters the paginated product listing.
type ListQuery struct {
	Pagination pagination.Params
	Cursor     *pagination.Cursor
	Search     string
	Category   string
}

// Repository wires together all product-related persistence helpers.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func withPriceLists(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Suppliers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("CustomerPrices", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

// FindByID loads the product with its supplier and customer price lists.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := withPriceLists(r.DB(ctx)).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// List returns one buffered page of products, newest first.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Product, error) {
	query := withPriceLists(r.DB(ctx)).Model(&models.Product{})
	if search := strings.TrimSpace(q.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(products.name) LIKE ? OR LOWER(COALESCE(products.sku, '')) LIKE ?", like, like)
	}
	if category := strings.TrimSpace(q.Category); category != "" {
		query = query.Where("products.category = ?", category)
	}
	var rows []models.Product
	if err := pagination.Apply(query, "products", q.Pagination, q.Cursor).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListBySupplier returns every product the supplier has a price for.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	err := withPriceLists(r.DB(ctx)).
		Where("products.id IN (?)", r.DB(ctx).Model(&models.ProductSupplier{}).Select("product_id").Where("supplier_id = ?", supplierID)).
		Order("products.name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var rows []models.Product
	err := withPriceLists(r.DB(ctx)).
		Where("category = ?", category).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// ListBelowStock returns products with quantity on hand under threshold, emptiest first.
func (r *Repository) ListBelowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	var rows []models.Product
	err := withPriceLists(r.DB(ctx)).
		Where("quantity_on_hand < ?", threshold).
		Order("quantity_on_hand ASC").
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// Create inserts the product and its price lists.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	suppliers, prices := product.Suppliers, product.CustomerPrices
	if err := r.DB(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		if db.IsUniqueViolation(err, "products_sku_key") || db.IsUniqueViolation(err, "products.sku") {
			return ErrSKUTaken
		}
		return err
	}
	if err := r.ReplaceSuppliers(ctx, product.ID, suppliers); err != nil {
		return err
	}
	return r.ReplaceCustomerPrices(ctx, product.ID, prices)
}

// Update writes the scalar columns of product.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	err := r.DB(ctx).Model(product).Omit(clause.Associations).Select(
		"name", "description", "sku", "category", "tags", "company_name",
		"retail_price", "purchase_price", "sell_price", "quantity_on_hand", "updated_at",
	).Updates(product).Error
	if db.IsUniqueViolation(err, "products_sku_key") || db.IsUniqueViolation(err, "products.sku") {
		return ErrSKUTaken
	}
	return err
}

// ReplaceSuppliers swaps the product's supplier price list for rows.
func (r *Repository) ReplaceSuppliers(ctx context.Context, productID uuid.UUID, rows []models.ProductSupplier) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSupplier{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ProductID = productID
	}
	return tx.Create(&rows).Error
}

// ReplaceCustomerPrices swaps the product's customer price list for rows.
func (r *Repository) ReplaceCustomerPrices(ctx context.Context, productID uuid.UUID, rows []models.ProductCustomerPrice) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductCustomerPrice{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].ProductID = productID
	}
	return tx.Create(&rows).Error
}

// SetQuantity overwrites quantity on hand.
func (r *Repository) SetQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.DB(ctx).Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]any{"quantity_on_hand": qty, "updated_at": db.NowUTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SKUTaken reports whether another product already uses sku.
func (r *Repository) SKUTaken(ctx context.Context, sku string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.DB(ctx).Model(&models.Product{}).Where("sku = ?", sku)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsReferenced reports whether any order or demand list line uses the product.
func (r *Repository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var orderLines, demandLines int64
	if err := r.DB(ctx).Model(&models.OrderItem{}).Where("product_id = ?", id).Count(&orderLines).Error; err != nil {
		return false, err
	}
	if err := r.DB(ctx).Model(&models.DemandListItem{}).Where("product_id = ?", id).Count(&demandLines).Error; err != nil {
		return false, err
	}
	return orderLines+demandLines > 0, nil
}

// Delete removes the product and its price lists.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.DB(ctx)
	if err := tx.Where("product_id = ?", id).Delete(&models.ProductSupplier{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", id).Delete(&models.ProductCustomerPrice{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MissingSuppliers returns the ids with no supplier row.
func (r *Repository) MissingSuppliers(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return missingIDs(r.DB(ctx).Model(&models.Supplier{}), ids)
}

// MissingCustomers returns the ids with no customer row.
func (r *Repository) MissingCustomers(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return missingIDs(r.DB(ctx).Model(&models.Customer{}), ids)
}

// SupplierExists reports whether the supplier row is present.
func (r *Repository) SupplierExists(ctx context.Context, id uuid.UUID) (bool, error) {
	missing, err := r.MissingSuppliers(ctx, []uuid.UUID{id})
	return len(missing) == 0, err
}

func missingIDs(query *gorm.DB, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	if err := query.Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
