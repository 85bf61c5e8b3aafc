package demandlists

import (
	"context"
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

type Repository struct {
	repo.Base
}

func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(conn)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

func withChildren(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Supplier").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DemandList, error) {
	var list models.DemandList
	if err := withChildren(r.DB(ctx)).First(&list, "demand_lists.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// LockByID row-locks the list, then reads it with its items.
func (r *Repository) LockByID(ctx context.Context, id uuid.UUID) (*models.DemandList, error) {
	var locked models.DemandList
	if err := repo.ForUpdate(r.DB(ctx)).Select("id").First(&locked, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *Repository) List(ctx context.Context, params pagination.Params, cursor *pagination.Cursor, filter ListFilter) ([]models.DemandList, error) {
	query := withChildren(r.DB(ctx).Model(&models.DemandList{}))
	if filter.Status != nil {
		query = query.Where("demand_lists.status = ?", *filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("demand_lists.supplier_id = ?", *filter.SupplierID)
	}
	var rows []models.DemandList
	if err := pagination.Apply(query, "demand_lists", params, cursor).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListOverdue returns submitted or confirmed lists dated before cutoff, oldest first.
func (r *Repository) ListOverdue(ctx context.Context, cutoff time.Time) ([]models.DemandList, error) {
	var rows []models.DemandList
	err := r.DB(ctx).
		Preload("Supplier").
		Where("status IN ?", []enums.DemandListStatus{enums.DemandListStatusSubmitted, enums.DemandListStatusConfirmed}).
		Where("demand_date < ?", cutoff).
		Order("demand_date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, list *models.DemandList) error {
	tx := r.DB(ctx)
	items := list.Items
	if err := tx.Omit(clause.Associations).Create(list).Error; err != nil {
		return err
	}
	if err := r.insertItems(ctx, list.ID, items); err != nil {
		return err
	}
	list.Items = items
	return nil
}

// ReplaceItems swaps the item set and the estimated total in one go.
func (r *Repository) ReplaceItems(ctx context.Context, listID uuid.UUID, items []models.DemandListItem, total decimal.Decimal) error {
	if err := r.DB(ctx).Where("demand_list_id = ?", listID).Delete(&models.DemandListItem{}).Error; err != nil {
		return err
	}
	if err := r.insertItems(ctx, listID, items); err != nil {
		return err
	}
	return r.updateColumns(ctx, listID, map[string]any{"estimated_total": total})
}

func (r *Repository) insertItems(ctx context.Context, listID uuid.UUID, items []models.DemandListItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].DemandListID = listID
	}
	return r.DB(ctx).Create(&items).Error
}

// SaveItemAvailability records what the supplier delivered for one item.
func (r *Repository) SaveItemAvailability(ctx context.Context, item *models.DemandListItem) error {
	return r.DB(ctx).Model(&models.DemandListItem{}).Where("id = ?", item.ID).UpdateColumns(map[string]any{
		"available_quantity": item.AvailableQuantity,
		"status":             item.Status,
		"updated_at":         db.NowUTC(),
	}).Error
}

func (r *Repository) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) error {
	return r.updateColumns(ctx, id, map[string]any{"notes": notes})
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.DemandListStatus, fulfilledAt *time.Time) error {
	cols := map[string]any{"status": status}
	if fulfilledAt != nil {
		cols["fulfillment_date"] = *fulfilledAt
	}
	return r.updateColumns(ctx, id, cols)
}

func (r *Repository) updateColumns(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	cols["updated_at"] = db.NowUTC()
	res := r.DB(ctx).Model(&models.DemandList{}).Where("id = ?", id).UpdateColumns(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx := r.DB(ctx)
	if err := tx.Where("demand_list_id = ?", id).Delete(&models.DemandListItem{}).Error; err != nil {
		return err
	}
	res := tx.Delete(&models.DemandList{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) SupplierExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Supplier{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// ProductsForSupplier loads products keyed by id with only this supplier's price record.
func (r *Repository) ProductsForSupplier(ctx context.Context, supplierID uuid.UUID, productIDs []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var rows []models.Product
	err := r.DB(ctx).
		Preload("Suppliers", "supplier_id = ?", supplierID).
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

// MissingOrders returns the ids in ids that have no order row.
func (r *Repository) MissingOrders(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uuid.UUID
	if err := r.DB(ctx).Model(&models.Order{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
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
