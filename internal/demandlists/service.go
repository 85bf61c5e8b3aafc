package demandlists

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/wholesale-backend/pkg/db/types"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

type Service interface {
	Create(ctx context.Context, input CreateInput) (*DemandListDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*DemandListDTO, error)
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[DemandListDTO], error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (pagination.Page[DemandListDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*DemandListDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*DemandListDTO, error)
}

type service struct {
	repo *Repository
	tx   db.TxRunner
	logg *logger.Logger
	now  func() time.Time
}

func NewService(repo *Repository, tx db.TxRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("demand list repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg, now: db.NowUTC}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*DemandListDTO, error) {
	if input.SupplierID == uuid.Nil {
		return nil, fieldError("supplier", "supplier is required")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	list := &models.DemandList{
		SupplierID: input.SupplierID,
		DemandDate: s.now(),
		Status:     enums.DemandListStatusDraft,
		Notes:      input.Notes,
	}
	if input.DemandDate != nil {
		list.DemandDate = input.DemandDate.UTC()
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		exists, err := repo.SupplierExists(ctx, input.SupplierID)
		if err != nil {
			return err
		}
		if !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		items, total, err := s.buildItems(ctx, repo, input.SupplierID, input.Items)
		if err != nil {
			return err
		}
		list.Items = items
		list.EstimatedTotal = total
		return repo.Create(ctx, list)
	})
	if err != nil {
		return nil, mapError(err, "create demand list")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"demand_list_id": list.ID.String(),
			"supplier_id":    list.SupplierID.String(),
		}), "demand_list.created")
	}
	return s.Get(ctx, list.ID)
}

// buildItems snapshots purchase prices, preferring the supplier's own price for a product.
func (s *service) buildItems(ctx context.Context, repo *Repository, supplierID uuid.UUID, input []ItemInput) ([]models.DemandListItem, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(input))
	var related []uuid.UUID
	for _, item := range input {
		ids = append(ids, item.ProductID)
		related = append(related, item.RelatedOrders...)
	}
	products, err := repo.ProductsForSupplier(ctx, supplierID, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	missing, err := repo.MissingOrders(ctx, dbtypes.UUIDArray(related).Dedupe())
	if err != nil {
		return nil, decimal.Zero, err
	}
	if len(missing) > 0 {
		return nil, decimal.Zero, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", missing[0])
	}

	total := decimal.Zero
	items := make([]models.DemandListItem, 0, len(input))
	for i, line := range input {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, decimal.Zero, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", line.ProductID)
		}
		price := product.PurchasePrice
		if own, ok := product.SupplierPrice(supplierID); ok {
			price = own
		}
		item := models.DemandListItem{
			Position:      i,
			ProductID:     product.ID,
			Quantity:      line.Quantity,
			PurchasePrice: price,
			Status:        enums.DemandItemStatusPending,
			RelatedOrders: dbtypes.UUIDArray(line.RelatedOrders).Dedupe(),
		}
		total = total.Add(item.LineTotal())
		items = append(items, item)
	}
	return items, total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DemandListDTO, error) {
	list, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "load demand list")
	}
	return FromModel(list), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[DemandListDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[DemandListDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, params, cursor, filter)
	if err != nil {
		return pagination.Page[DemandListDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list demand lists")
	}
	page := pagination.Trim(rows, params.Limit, func(d models.DemandList) pagination.Cursor {
		return pagination.Cursor{CreatedAt: d.CreatedAt, ID: d.ID}
	})
	return pagination.Map(page, func(d models.DemandList) DemandListDTO { return *FromModel(&d) }), nil
}

func (s *service) ListBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (pagination.Page[DemandListDTO], error) {
	exists, err := s.repo.SupplierExists(ctx, supplierID)
	if err != nil {
		return pagination.Page[DemandListDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if !exists {
		return pagination.Page[DemandListDTO]{}, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return s.List(ctx, params, ListFilter{SupplierID: &supplierID})
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*DemandListDTO, error) {
	if input.Items != nil {
		if err := validateItems(*input.Items); err != nil {
			return nil, err
		}
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		list, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if list.Status.IsTerminal() {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot update a %s demand list", strings.ToLower(string(list.Status)))
		}
		if input.Items != nil {
			if list.Status != enums.DemandListStatusDraft {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "items can only be changed while the demand list is a draft")
			}
			items, total, err := s.buildItems(ctx, repo, list.SupplierID, *input.Items)
			if err != nil {
				return err
			}
			if err := repo.ReplaceItems(ctx, id, items, total); err != nil {
				return err
			}
		}
		if input.Notes != nil {
			return repo.UpdateNotes(ctx, id, input.Notes)
		}
		return nil
	})
	if err != nil {
		return nil, mapError(err, "update demand list")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		list, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if list.Status != enums.DemandListStatusDraft {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only draft demand lists can be deleted")
		}
		return repo.Delete(ctx, id)
	})
	return mapError(err, "delete demand list")
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*DemandListDTO, error) {
	target, parseErr := enums.ParseDemandListStatus(status)
	if parseErr != nil {
		return nil, fieldError("status", parseErr.Error())
	}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		list, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if decision := enums.DemandListMachine.Check(list.Status, target); !decision.Allowed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, decision.Reason)
		}
		var fulfilledAt *time.Time
		if target == enums.DemandListStatusFulfilled {
			now := s.now()
			fulfilledAt = &now
		}
		return repo.UpdateStatus(ctx, id, target, fulfilledAt)
	})
	if err != nil {
		return nil, mapError(err, "update demand list status")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"demand_list_id": id.String(),
			"status":         string(target),
		}), "demand_list.status_changed")
	}
	return s.Get(ctx, id)
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return fieldError("items", "demand list must contain at least one item")
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return fieldError("items.product", "product is required")
		}
		if item.Quantity < 1 {
			return fieldError("items.quantity", "quantity must be at least 1")
		}
		if _, dup := seen[item.ProductID]; dup {
			return fieldError("items.product", fmt.Sprintf("product %s appears more than once", item.ProductID))
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}

func mapError(err error, step string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "demand list not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
