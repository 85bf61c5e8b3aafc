package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

type Service interface {
	Create(ctx context.Context, input CreateInput) (*CustomerDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	List(ctx context.Context, params pagination.Params, search string) (pagination.Page[CustomerDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CustomerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   db.TxRunner
	logg *logger.Logger
}

func NewService(repo *Repository, tx db.TxRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*CustomerDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fieldError("name", "please provide customer name")
	}
	creditLimit := decimal.Zero
	if input.CreditLimit != nil {
		creditLimit = *input.CreditLimit
	}
	if creditLimit.IsNegative() {
		return nil, fieldError("creditLimit", "creditLimit must be non-negative")
	}

	customer := &models.Customer{
		Name:               name,
		StoreID:            trimmed(input.StoreID),
		ContactPerson:      input.ContactPerson,
		Email:              normalizeEmail(input.Email),
		Phone:              input.Phone,
		PaymentTerms:       input.PaymentTerms,
		CreditLimit:        creditLimit,
		OutstandingBalance: decimal.Zero,
		Notes:              input.Notes,
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if err := s.ensureStoreIDFree(ctx, customer.StoreID, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, mapWriteError(err, "create customer")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "customer_id", customer.ID.String()), "customer.created")
	}
	return FromModel(customer), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(customer), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, search string) (pagination.Page[CustomerDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, params, cursor, search)
	if err != nil {
		return pagination.Page[CustomerDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	page := pagination.Trim(rows, params.Limit, func(m models.Customer) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})
	return pagination.Map(page, func(m models.Customer) CustomerDTO { return *FromModel(&m) }), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*CustomerDTO, error) {
	customer, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fieldError("name", "please provide customer name")
		}
		customer.Name = name
	}
	if input.StoreID != nil {
		customer.StoreID = trimmed(input.StoreID)
		if err := s.ensureStoreIDFree(ctx, customer.StoreID, customer.ID); err != nil {
			return nil, err
		}
	}
	if input.CreditLimit != nil {
		if input.CreditLimit.IsNegative() {
			return nil, fieldError("creditLimit", "creditLimit must be non-negative")
		}
		customer.CreditLimit = *input.CreditLimit
	}
	if input.ContactPerson != nil {
		customer.ContactPerson = input.ContactPerson
	}
	if input.Email != nil {
		customer.Email = normalizeEmail(input.Email)
	}
	if input.Phone != nil {
		customer.Phone = input.Phone
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.PaymentTerms != nil {
		customer.PaymentTerms = input.PaymentTerms
	}
	if input.Notes != nil {
		customer.Notes = input.Notes
	}
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, mapWriteError(err, "update customer")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return mapWriteError(s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		orders, err := txRepo.CountOrders(ctx, id)
		if err != nil {
			return err
		}
		if orders > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete customer with existing orders")
		}
		return txRepo.Delete(ctx, id)
	}), "delete customer")
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) ensureStoreIDFree(ctx context.Context, storeID *string, exclude uuid.UUID) error {
	if storeID == nil {
		return nil
	}
	taken, err := s.repo.StoreIDTaken(ctx, *storeID, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check store id")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer with this Store ID already exists")
	}
	return nil
}

func mapWriteError(err error, step string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, ErrStoreIDTaken) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "customer with this Store ID already exists")
	}
	if db.IsNotFound(err) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeEmail(email *string) *string {
	v := trimmed(email)
	if v == nil {
		return nil
	}
	lower := strings.ToLower(*v)
	return &lower
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
