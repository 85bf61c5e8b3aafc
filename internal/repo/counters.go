package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
)

// AdjustStock adds delta to a product's quantity on hand in a single
// statement. Decrements past zero leave the product at zero.
func AdjustStock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int, now time.Time) error {
	if delta == 0 {
		return nil
	}
	res := tx.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumns(map[string]any{
			"quantity_on_hand": gorm.Expr("CASE WHEN quantity_on_hand + ? < 0 THEN 0 ELSE quantity_on_hand + ? END", delta, delta),
			"updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AdjustBalance adds delta to a customer's outstanding balance. The balance
// has no floor; overpayment leaves it negative.
func AdjustBalance(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, delta decimal.Decimal, now time.Time) error {
	if delta.IsZero() {
		return nil
	}
	res := tx.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", customerID).
		UpdateColumns(map[string]any{
			"outstanding_balance": gorm.Expr("outstanding_balance + ?", delta),
			"updated_at":          now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
