package suppliers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/internal/repo"
	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

// Repository persists suppliers.
type Repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.DB(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// List returns one buffered page of suppliers, optionally filtered by name.
func (r *Repository) List(ctx context.Context, params pagination.Params, cursor *pagination.Cursor, search string) ([]models.Supplier, error) {
	query := r.DB(ctx).Model(&models.Supplier{})
	if search = strings.TrimSpace(search); search != "" {
		query = query.Where("LOWER(suppliers.name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var rows []models.Supplier
	if err := pagination.Apply(query, "suppliers", params, cursor).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.DB(ctx).Create(supplier).Error
}

func (r *Repository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.DB(ctx).Model(supplier).Select(
		"name", "contact_person", "email", "phone", "address",
		"reliability_rating", "payment_terms", "notes", "updated_at",
	).Updates(supplier).Error
}

// UpdateRating sets the reliability rating only.
func (r *Repository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	res := r.DB(ctx).Model(&models.Supplier{}).Where("id = ?", id).
		Updates(map[string]any{"reliability_rating": rating, "updated_at": db.NowUTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Dependents counts the product price rows and demand lists naming the supplier.
func (r *Repository) Dependents(ctx context.Context, id uuid.UUID) (products int64, demandLists int64, err error) {
	if err = r.DB(ctx).Model(&models.ProductSupplier{}).Where("supplier_id = ?", id).Count(&products).Error; err != nil {
		return 0, 0, err
	}
	if err = r.DB(ctx).Model(&models.DemandList{}).Where("supplier_id = ?", id).Count(&demandLists).Error; err != nil {
		return 0, 0, err
	}
	return products, demandLists, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Supplier{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
