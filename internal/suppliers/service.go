package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
	"github.com/angelmondragon/wholesale-backend/pkg/types"
)

const (
	DefaultReliability = 3.0
	MaxReliability     = 5.0
)

type Service interface {
	Create(ctx context.Context, input CreateInput) (*SupplierDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error)
	List(ctx context.Context, params pagination.Params, search string) (pagination.Page[SupplierDTO], error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*SupplierDTO, error)
	UpdateReliability(ctx context.Context, id uuid.UUID, rating float64) (*SupplierDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*SupplierDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fieldError("name", "please provide supplier name")
	}
	rating := DefaultReliability
	if input.ReliabilityRating != nil {
		rating = *input.ReliabilityRating
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	supplier := &models.Supplier{
		Name:              name,
		ContactPerson:     input.ContactPerson,
		Email:             normalizeEmail(input.Email),
		Phone:             input.Phone,
		Address:           addressOrZero(input.Address),
		ReliabilityRating: rating,
		PaymentTerms:      input.PaymentTerms,
		Notes:             input.Notes,
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "supplier_id", supplier.ID.String()), "supplier.created")
	}
	return FromModel(supplier), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(supplier), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, search string) (pagination.Page[SupplierDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[SupplierDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, params, cursor, search)
	if err != nil {
		return pagination.Page[SupplierDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list suppliers")
	}
	page := pagination.Trim(rows, params.Limit, func(m models.Supplier) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})
	return pagination.Map(page, func(m models.Supplier) SupplierDTO { return *FromModel(&m) }), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*SupplierDTO, error) {
	supplier, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fieldError("name", "please provide supplier name")
		}
		supplier.Name = name
	}
	if input.ReliabilityRating != nil {
		if err := validateRating(*input.ReliabilityRating); err != nil {
			return nil, err
		}
		supplier.ReliabilityRating = *input.ReliabilityRating
	}
	if input.ContactPerson != nil {
		supplier.ContactPerson = input.ContactPerson
	}
	if input.Email != nil {
		supplier.Email = normalizeEmail(input.Email)
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Address != nil {
		supplier.Address = *input.Address
	}
	if input.PaymentTerms != nil {
		supplier.PaymentTerms = input.PaymentTerms
	}
	if input.Notes != nil {
		supplier.Notes = input.Notes
	}
	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier")
	}
	return s.Get(ctx, id)
}

func (s *service) UpdateReliability(ctx context.Context, id uuid.UUID, rating float64) (*SupplierDTO, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRating(ctx, id, rating); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update reliability")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	products, demandLists, err := s.repo.Dependents(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count supplier dependents")
	}
	if products > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete supplier with linked products")
	}
	if demandLists > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete supplier with demand lists")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete supplier")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	return supplier, nil
}

func validateRating(rating float64) error {
	if rating < 0 || rating > MaxReliability {
		return fieldError("reliabilityRating", "please provide a valid reliability rating (0-5)")
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*email))
	if v == "" {
		return nil
	}
	return &v
}

func addressOrZero(addr *types.Address) types.Address {
	if addr == nil {
		return types.Address{}
	}
	return *addr
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
