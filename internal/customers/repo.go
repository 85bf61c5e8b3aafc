package customers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/internal/repo"
	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

// ErrStoreIDTaken reports a store id collision on insert or update.
var ErrStoreIDTaken = errors.New("store id already exists")

type Repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) List(ctx context.Context, params pagination.Params, cursor *pagination.Cursor, search string) ([]models.Customer, error) {
	query := r.DB(ctx).Model(&models.Customer{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(customers.name) LIKE ? OR LOWER(COALESCE(customers.store_id, '')) LIKE ?", like, like)
	}
	var rows []models.Customer
	if err := pagination.Apply(query, "customers", params, cursor).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) StoreIDTaken(ctx context.Context, storeID string, exclude uuid.UUID) (bool, error) {
	var count int64
	query := r.DB(ctx).Model(&models.Customer{}).Where("store_id = ?", storeID)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, customer *models.Customer) error {
	return storeIDConflict(r.DB(ctx).Create(customer).Error)
}

// Update writes everything except outstanding_balance.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) error {
	return storeIDConflict(r.DB(ctx).Model(customer).Select(
		"name", "store_id", "contact_person", "email", "phone", "address",
		"payment_terms", "credit_limit", "notes", "updated_at",
	).Updates(customer).Error)
}

func (r *Repository) CountOrders(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Order{}).Where("customer_id = ?", id).Count(&count).Error
	return count, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.DB(ctx)
	if err := tx.Where("customer_id = ?", id).Delete(&models.ProductCustomerPrice{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&models.Customer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func storeIDConflict(err error) error {
	if db.IsUniqueViolation(err, "customers_store_id_key") || db.IsUniqueViolation(err, "customers.store_id") {
		return ErrStoreIDTaken
	}
	return err
}
