package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/wholesale-backend/internal/repo"
	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

// ErrOrderNumberTaken reports that a concurrent create claimed the same number.
var ErrOrderNumberTaken = errors.New("order number already exists")

type repository struct {
	repo.Base
}

// NewRepository builds the gorm-backed order repository.
func NewRepository(conn *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(conn)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(tx)}
}

func withChildren(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("paid_at ASC, created_at ASC") })
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := withChildren(r.DB(ctx)).First(&order, "orders.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// LockByID takes the row lock on the order before reading it with its children.
func (r *repository) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var locked models.Order
	if err := repo.ForUpdate(r.DB(ctx)).Select("id").First(&locked, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *repository) List(ctx context.Context, params pagination.Params, cursor *pagination.Cursor, filter ListFilter) ([]models.Order, error) {
	query := withChildren(r.DB(ctx).Model(&models.Order{}))
	if filter.Status != nil {
		query = query.Where("orders.status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("orders.customer_id = ?", *filter.CustomerID)
	}
	var rows []models.Order
	if err := pagination.Apply(query, "orders", params, cursor).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestOrderNumber returns the highest number starting with prefix, or "".
func (r *repository) LatestOrderNumber(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	err := r.DB(ctx).Model(&models.Order{}).
		Where("order_number LIKE ?", prefix+"%").
		Order("length(order_number) DESC").
		Order("order_number DESC").
		Limit(1).
		Pluck("order_number", &numbers).Error
	if err != nil || len(numbers) == 0 {
		return "", err
	}
	return numbers[0], nil
}

func (r *repository) Create(ctx context.Context, order *models.Order) error {
	tx := r.DB(ctx)
	items := order.Items
	if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
		if db.IsUniqueViolation(err, "orders_order_number_key") || db.IsUniqueViolation(err, "orders.order_number") {
			return ErrOrderNumberTaken
		}
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func (r *repository) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error {
	return r.updateColumns(ctx, id, map[string]any{"notes": notes})
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus, fulfilledAt *time.Time) error {
	cols := map[string]any{"status": status}
	if fulfilledAt != nil {
		cols["fulfillment_date"] = *fulfilledAt
	}
	return r.updateColumns(ctx, id, cols)
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) error {
	return r.updateColumns(ctx, id, map[string]any{"payment_status": status})
}

func (r *repository) updateColumns(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	cols["updated_at"] = db.NowUTC()
	res := r.DB(ctx).Model(&models.Order{}).Where("id = ?", id).UpdateColumns(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetItemFulfilled(ctx context.Context, itemID uuid.UUID, fulfilled int) error {
	return r.DB(ctx).Model(&models.OrderItem{}).Where("id = ?", itemID).UpdateColumns(map[string]any{
		"fulfilled_quantity": fulfilled,
		"updated_at":         db.NowUTC(),
	}).Error
}

func (r *repository) AddPayment(ctx context.Context, payment *models.OrderPayment) error {
	return r.DB(ctx).Create(payment).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.DB(ctx)
	if err := tx.Where("order_id = ?", id).Delete(&models.OrderPayment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Customer{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ProductsForCustomer loads products keyed by id with only this customer's price override.
func (r *repository) ProductsForCustomer(ctx context.Context, customerID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []models.Product
	err := r.DB(ctx).
		Preload("CustomerPrices", "customer_id = ?", customerID).
		Where("id IN ?", productIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

func (r *repository) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error {
	return repo.AdjustStock(ctx, r.Conn(), productID, delta, db.NowUTC())
}

func (r *repository) AdjustBalance(ctx context.Context, customerID uuid.UUID, delta decimal.Decimal) error {
	return repo.AdjustBalance(ctx, r.Conn(), customerID, delta, db.NowUTC())
}
