package orders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
	"github.com/angelmondragon/wholesale-backend/pkg/metrics"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
)

const (
	DefaultPaymentMethod = "Cash"
	orderNumberAttempts  = 3
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the order lifecycle: creation, notes, status changes, payments and deletion.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[OrderDTO], error)
	ListByStatus(ctx context.Context, status string, params pagination.Params) (pagination.Page[OrderDTO], error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (pagination.Page[OrderDTO], error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*OrderDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDTO, error)
	RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (*OrderDTO, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	metrics *metrics.OperationMetrics
	now     func() time.Time
}

func NewService(repo Repository, tx txRunner, logg *logger.Logger, ops *metrics.OperationMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, logg: logg, metrics: ops, now: db.NowUTC}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (_ *OrderDTO, err error) {
	done := s.metrics.Track("order.create")
	defer func() { done(err) }()

	if input.CustomerID == uuid.Nil {
		return nil, fieldError("customer", "customer is required")
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	var created *models.Order
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			order, err := s.createInTx(ctx, s.repo.WithTx(tx), input)
			created = order
			return err
		})
		if !errors.Is(err, ErrOrderNumberTaken) {
			break
		}
	}
	if err != nil {
		return nil, mapError(err, "create order")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id":     created.ID.String(),
			"order_number": created.OrderNumber,
			"total":        created.TotalAmount.String(),
		}), "order.created")
	}
	return s.Get(ctx, created.ID)
}

func (s *service) createInTx(ctx context.Context, repo Repository, input CreateInput) (*models.Order, error) {
	exists, err := repo.CustomerExists(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	ids := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := repo.ProductsForCustomer(ctx, input.CustomerID, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		CustomerID:    input.CustomerID,
		OrderDate:     now,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		TotalAmount:   decimal.Zero,
		Notes:         input.Notes,
	}
	if input.OrderDate != nil {
		order.OrderDate = input.OrderDate.UTC()
	}
	for i, line := range input.Items {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", line.ProductID)
		}
		price := product.SellPrice
		if custom, ok := product.CustomerPrice(input.CustomerID); ok {
			price = custom
		}
		item := models.OrderItem{
			Position:  i,
			ProductID: product.ID,
			Quantity:  line.Quantity,
			SellPrice: price,
		}
		order.TotalAmount = order.TotalAmount.Add(item.LineTotal())
		order.Items = append(order.Items, item)
	}

	number, err := s.nextOrderNumber(ctx, repo, order.OrderDate)
	if err != nil {
		return nil, err
	}
	order.OrderNumber = number

	if err := repo.Create(ctx, order); err != nil {
		return nil, err
	}
	if err := repo.AdjustBalance(ctx, order.CustomerID, order.TotalAmount); err != nil {
		return nil, err
	}
	return order, nil
}

// nextOrderNumber yields ORD-<year><sequence>, the sequence restarting every year.
func (s *service) nextOrderNumber(ctx context.Context, repo Repository, at time.Time) (string, error) {
	prefix := fmt.Sprintf("ORD-%d", at.Year())
	latest, err := repo.LatestOrderNumber(ctx, prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if latest != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(latest, prefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "load order")
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filter ListFilter) (pagination.Page[OrderDTO], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return pagination.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, params, cursor, filter)
	if err != nil {
		return pagination.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	page := pagination.Trim(rows, params.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	return pagination.Map(page, func(o models.Order) OrderDTO { return *FromModel(&o) }), nil
}

func (s *service) ListByStatus(ctx context.Context, status string, params pagination.Params) (pagination.Page[OrderDTO], error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return pagination.Page[OrderDTO]{}, fieldError("status", err.Error())
	}
	return s.List(ctx, params, ListFilter{Status: &parsed})
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (pagination.Page[OrderDTO], error) {
	exists, err := s.repo.CustomerExists(ctx, customerID)
	if err != nil {
		return pagination.Page[OrderDTO]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	if !exists {
		return pagination.Page[OrderDTO]{}, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return s.List(ctx, params, ListFilter{CustomerID: &customerID})
}

// UpdateNotes is the only edit allowed after creation; items and totals are fixed.
func (s *service) UpdateNotes(ctx context.Context, id uuid.UUID, notes *string) (*OrderDTO, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if order.Status.IsTerminal() {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot update a %s order", strings.ToLower(string(order.Status)))
		}
		return repo.UpdateNotes(ctx, id, notes)
	})
	if err != nil {
		return nil, mapError(err, "update order")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (err error) {
	done := s.metrics.Track("order.delete")
	defer func() { done(err) }()

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot delete a %s order; only pending orders can be deleted", strings.ToLower(string(order.Status)))
		}
		if err := repo.AdjustBalance(ctx, order.CustomerID, order.TotalAmount.Neg()); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return mapError(err, "delete order")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "order_id", id.String()), "order.deleted")
	}
	return nil
}

// UpdateStatus moves an order through the order machine. Fulfilling marks
// every line complete without moving stock; cancelling returns fulfilled stock
// and reverses the full order total from the customer's balance.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (_ *OrderDTO, err error) {
	done := s.metrics.Track("order.status")
	defer func() { done(err) }()

	target, parseErr := enums.ParseOrderStatus(status)
	if parseErr != nil {
		return nil, fieldError("status", parseErr.Error())
	}

	var from enums.OrderStatus
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		from = order.Status
		if decision := enums.OrderMachine.Check(order.Status, target); !decision.Allowed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, decision.Reason)
		}

		var fulfilledAt *time.Time
		switch target {
		case enums.OrderStatusFulfilled:
			now := s.now()
			fulfilledAt = &now
			for _, item := range order.Items {
				if item.Outstanding() == 0 {
					continue
				}
				if err := repo.SetItemFulfilled(ctx, item.ID, item.Quantity); err != nil {
					return err
				}
			}
		case enums.OrderStatusCancelled:
			for _, item := range order.Items {
				if item.FulfilledQuantity <= 0 {
					continue
				}
				if err := repo.AdjustStock(ctx, item.ProductID, item.FulfilledQuantity); err != nil {
					return err
				}
			}
			if err := repo.AdjustBalance(ctx, order.CustomerID, order.TotalAmount.Neg()); err != nil {
				return err
			}
		}
		return repo.UpdateStatus(ctx, id, target, fulfilledAt)
	})
	if err != nil {
		return nil, mapError(err, "update order status")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": id.String(),
			"from":     string(from),
			"to":       string(target),
		}), "order.status_changed")
	}
	return s.Get(ctx, id)
}

func (s *service) RecordPayment(ctx context.Context, id uuid.UUID, input PaymentInput) (_ *OrderDTO, err error) {
	done := s.metrics.Track("order.payment")
	defer func() { done(err) }()

	if !input.Amount.IsPositive() {
		return nil, fieldError("amount", "payment amount must be greater than zero")
	}
	method := DefaultPaymentMethod
	if input.Method != nil && strings.TrimSpace(*input.Method) != "" {
		method = strings.TrimSpace(*input.Method)
	}
	paidAt := s.now()
	if input.PaidAt != nil {
		paidAt = input.PaidAt.UTC()
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if order.Status == enums.OrderStatusCancelled {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot record payment on a cancelled order")
		}

		payment := &models.OrderPayment{
			OrderID:   order.ID,
			Amount:    input.Amount,
			PaidAt:    paidAt,
			Method:    method,
			Reference: input.Reference,
		}
		if err := repo.AddPayment(ctx, payment); err != nil {
			return err
		}
		order.Payments = append(order.Payments, *payment)

		if err := repo.UpdatePaymentStatus(ctx, order.ID, PaymentStatusFor(order.PaidAmount(), order.TotalAmount)); err != nil {
			return err
		}
		return repo.AdjustBalance(ctx, order.CustomerID, input.Amount.Neg())
	})
	if err != nil {
		return nil, mapError(err, "record payment")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_id": id.String(),
			"amount":   input.Amount.String(),
		}), "order.payment_recorded")
	}
	return s.Get(ctx, id)
}

// PaymentStatusFor is Paid once payments cover the total and Partial before that.
func PaymentStatusFor(paid, total decimal.Decimal) enums.PaymentStatus {
	if paid.GreaterThanOrEqual(total) {
		return enums.PaymentStatusPaid
	}
	if paid.IsPositive() {
		return enums.PaymentStatusPartial
	}
	return enums.PaymentStatusPending
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return fieldError("items", "order must contain at least one item")
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
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, step)
}

func fieldError(field, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{"field": field})
}
