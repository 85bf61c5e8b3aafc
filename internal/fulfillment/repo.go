package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/internal/repo"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
)

// stockRepository holds the product-side writes of a fulfillment run.
type stockRepository struct {
	repo.Base
}

func newStockRepository(tx *gorm.DB) *stockRepository {
	return &stockRepository{Base: repo.NewBase(tx)}
}

func (r *stockRepository) Receive(ctx context.Context, productID uuid.UUID, qty int, at time.Time) error {
	return repo.AdjustStock(ctx, r.Conn(), productID, qty, at)
}

// RecordPurchase stamps the supplier's purchase date on the product, adding
// the supplier with price when the product did not list it yet.
func (r *stockRepository) RecordPurchase(ctx context.Context, productID, supplierID uuid.UUID, price decimal.Decimal, at time.Time) error {
	res := r.DB(ctx).Model(&models.ProductSupplier{}).
		Where("product_id = ? AND supplier_id = ?", productID, supplierID).
		UpdateColumns(map[string]any{"last_purchase_date": at, "updated_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	return r.DB(ctx).Create(&models.ProductSupplier{
		ProductID:        productID,
		SupplierID:       supplierID,
		PurchasePrice:    price,
		LastPurchaseDate: &at,
	}).Error
}
