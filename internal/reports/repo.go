package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/internal/repo"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

var (
	soldStatuses      = []enums.OrderStatus{enums.OrderStatusFulfilled, enums.OrderStatusPartial}
	deliveredStatuses = []enums.DemandListStatus{enums.DemandListStatusFulfilled, enums.DemandListStatusPartial}
)

// Repository loads the read models the report builders work on.
type Repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

func (r *Repository) ordersBetween(ctx context.Context, start, end time.Time) *gorm.DB {
	return r.DB(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("order_date >= ? AND order_date <= ?", start, end).
		Order("order_date ASC")
}

// SoldOrders returns Fulfilled and Partial orders dated inside w.
func (r *Repository) SoldOrders(ctx context.Context, w Window) ([]models.Order, error) {
	var orders []models.Order
	err := r.ordersBetween(ctx, w.Start, w.End).Where("status IN ?", soldStatuses).Find(&orders).Error
	return orders, err
}

// Orders returns every order dated inside w.
func (r *Repository) Orders(ctx context.Context, w Window) ([]models.Order, error) {
	var orders []models.Order
	err := r.ordersBetween(ctx, w.Start, w.End).Find(&orders).Error
	return orders, err
}

func (r *Repository) Products(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.DB(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *Repository) Customers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.DB(ctx).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *Repository) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := r.DB(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}

// DeliveredDemandLists returns Fulfilled and Partial lists whose
// fulfillment date falls inside w.
func (r *Repository) DeliveredDemandLists(ctx context.Context, w Window) ([]models.DemandList, error) {
	var lists []models.DemandList
	err := r.DB(ctx).
		Preload("Items").
		Where("fulfillment_date >= ? AND fulfillment_date <= ?", w.Start, w.End).
		Where("status IN ?", deliveredStatuses).
		Find(&lists).Error
	return lists, err
}

func productIndex(products []models.Product) map[uuid.UUID]models.Product {
	out := make(map[uuid.UUID]models.Product, len(products))
	for _, p := range products {
		out[p.ID] = p
	}
	return out
}
