package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

// Repository defines persistence operations for orders, their items and payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, cursor *pagination.Cursor, filter ListFilter) ([]models.Order, error)
	LatestOrderNumber(ctx context.Context, prefix string) (string, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, fulfilledAt *time.Time) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error
	SetItemFulfilled(ctx context.Context, itemID uuid.UUID, fulfilled int) error
	AddPayment(ctx context.Context, payment *models.OrderPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	ProductsForCustomer(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]models.Product, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error
	AdjustBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) error
}
